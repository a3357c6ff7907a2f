package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"genzjobs-scraper/internal/domain"
)

// MarkStale deactivates active listings not re-observed since cutoff.
// With dryRun set it only counts the candidates. Source may be empty to
// sweep every platform.
func MarkStale(ctx context.Context, db *sql.DB, cutoff time.Time, source domain.Platform, dryRun bool) (int64, error) {
	stamp := cutoff.UTC().Format(time.RFC3339)

	where := `is_active = 1 AND last_seen_at < ?`
	args := []any{stamp}
	if source != "" {
		where += ` AND source = ?`
		args = append(args, source)
	}

	if dryRun {
		var n int64
		err := db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM job_listings WHERE `+where+`;`, args...).Scan(&n)
		return n, err
	}

	res, err := db.ExecContext(ctx, `
UPDATE job_listings
SET is_active = 0, updated_at = ?
WHERE `+where+`;`,
		append([]any{time.Now().UTC().Format(time.RFC3339)}, args...)...,
	)
	if err != nil {
		return 0, fmt.Errorf("mark stale: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// ReactivateRecent flips inactive listings back on when their last_seen_at
// falls after since. Covers the race where a posting was swept stale just
// before being re-observed.
func ReactivateRecent(ctx context.Context, db *sql.DB, since time.Time, source domain.Platform) (int64, error) {
	query := `
UPDATE job_listings
SET is_active = 1, updated_at = ?
WHERE is_active = 0 AND last_seen_at >= ?`
	args := []any{time.Now().UTC().Format(time.RFC3339), since.UTC().Format(time.RFC3339)}
	if source != "" {
		query += ` AND source = ?`
		args = append(args, source)
	}

	res, err := db.ExecContext(ctx, query+`;`, args...)
	if err != nil {
		return 0, fmt.Errorf("reactivate: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

type SourceStat struct {
	Source   string `json:"source"`
	Active   int    `json:"active"`
	Inactive int    `json:"inactive"`
	Stale    int    `json:"stale"` // active but past the staleness cutoff
}

// SourceStats is a read-only monitoring query; it never mutates.
func SourceStats(ctx context.Context, db *sql.DB, cutoff time.Time) ([]SourceStat, error) {
	rows, err := db.QueryContext(ctx, `
SELECT source,
       SUM(is_active),
       SUM(1 - is_active),
       SUM(CASE WHEN is_active = 1 AND last_seen_at < ? THEN 1 ELSE 0 END)
FROM job_listings
GROUP BY source
ORDER BY source;`,
		cutoff.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SourceStat
	for rows.Next() {
		var s SourceStat
		if err := rows.Scan(&s.Source, &s.Active, &s.Inactive, &s.Stale); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
