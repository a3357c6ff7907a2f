// Package lifecycle manages job staleness: postings that stop appearing in
// scrapes are deactivated after a grace window, and postings seen again are
// flipped back on.
package lifecycle

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"genzjobs-scraper/internal/domain"
	"genzjobs-scraper/internal/store"
)

// DefaultStaleAfter is the grace window before an unseen posting is
// deactivated.
const DefaultStaleAfter = 7 * 24 * time.Hour

// DefaultReactivateWindow bounds how far back a "recently seen" posting may
// have been observed and still be flipped back to active.
const DefaultReactivateWindow = 24 * time.Hour

type Service struct {
	db  *sql.DB
	log *zap.Logger

	StaleAfter       time.Duration
	ReactivateWindow time.Duration

	now func() time.Time
}

func New(db *sql.DB, log *zap.Logger) *Service {
	return &Service{
		db:               db,
		log:              log.Named("lifecycle"),
		StaleAfter:       DefaultStaleAfter,
		ReactivateWindow: DefaultReactivateWindow,
		now:              time.Now,
	}
}

// CleanupResult reports one cleanup sweep.
type CleanupResult struct {
	Deactivated int64 `json:"deactivated"`
	Reactivated int64 `json:"reactivated"`
	DryRun      bool  `json:"dry_run"`
}

// Cleanup reactivates anything seen inside the reactivation window, then
// deactivates everything unseen past the staleness cutoff. Source narrows
// the sweep to one platform; empty means all.
func (s *Service) Cleanup(ctx context.Context, source domain.Platform, dryRun bool) (CleanupResult, error) {
	now := s.now()
	res := CleanupResult{DryRun: dryRun}

	if !dryRun {
		n, err := store.ReactivateRecent(ctx, s.db, now.Add(-s.ReactivateWindow), source)
		if err != nil {
			return res, err
		}
		res.Reactivated = n
	}

	n, err := store.MarkStale(ctx, s.db, now.Add(-s.StaleAfter), source, dryRun)
	if err != nil {
		return res, err
	}
	res.Deactivated = n

	s.log.Info("cleanup sweep",
		zap.Int64("deactivated", res.Deactivated),
		zap.Int64("reactivated", res.Reactivated),
		zap.Bool("dry_run", dryRun))
	return res, nil
}

// Stats returns the per-source active/inactive/stale breakdown, using the
// service's staleness cutoff.
func (s *Service) Stats(ctx context.Context) ([]store.SourceStat, error) {
	return store.SourceStats(ctx, s.db, s.now().Add(-s.StaleAfter))
}
