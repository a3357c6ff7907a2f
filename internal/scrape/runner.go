package scrape

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"genzjobs-scraper/internal/classify"
	"genzjobs-scraper/internal/domain"
	"genzjobs-scraper/internal/scrape/types"
	"genzjobs-scraper/internal/store"
)

// DefaultFailureThreshold is how many consecutive scrape failures a company
// survives before it is auto-disabled.
const DefaultFailureThreshold = 5

// RunOptions narrows one orchestrator run. Zero values mean "everything".
type RunOptions struct {
	Platform   domain.Platform
	Board      string
	DryRun     bool
	TimeBudget time.Duration
}

// Runner walks the due companies strictly sequentially: one company at a
// time, one adapter call at a time, with the adapter's own delay between
// companies. A company failure never aborts the run.
type Runner struct {
	db       *sql.DB
	adapters map[domain.Platform]types.Adapter
	engine   *classify.Engine
	log      *zap.Logger

	FailureThreshold int

	// test seams
	sleep func(context.Context, time.Duration) error
	now   func() time.Time
}

func NewRunner(db *sql.DB, adapters map[domain.Platform]types.Adapter, engine *classify.Engine, log *zap.Logger) *Runner {
	return &Runner{
		db:               db,
		adapters:         adapters,
		engine:           engine,
		log:              log.Named("runner"),
		FailureThreshold: DefaultFailureThreshold,
		sleep:            ctxSleep,
		now:              time.Now,
	}
}

func (r *Runner) Run(ctx context.Context, opts RunOptions) (stats types.RunStats, err error) {
	start := r.now()
	defer func() { stats.Duration = r.now().Sub(start) }()

	companies, err := store.DueCompanies(ctx, r.db, opts.Platform, opts.Board)
	if err != nil {
		return stats, err
	}
	r.log.Info("run starting",
		zap.Int("companies", len(companies)),
		zap.Bool("dry_run", opts.DryRun))

	for i, co := range companies {
		if ctx.Err() != nil {
			stats.CompaniesSkipped += len(companies) - i
			return stats, ctx.Err()
		}
		if opts.TimeBudget > 0 && r.now().Sub(start) >= opts.TimeBudget {
			stats.CompaniesSkipped += len(companies) - i
			r.log.Warn("time budget exhausted",
				zap.Int("skipped", len(companies)-i))
			break
		}

		adapter, ok := r.adapters[co.Platform]
		if !ok {
			stats.CompaniesSkipped++
			r.log.Warn("no adapter for platform",
				zap.String("platform", string(co.Platform)),
				zap.String("company", co.Name))
			continue
		}

		if i > 0 {
			if err := r.sleep(ctx, adapter.RateLimitDelay()); err != nil {
				stats.CompaniesSkipped += len(companies) - i
				return stats, err
			}
		}

		r.scrapeCompany(ctx, adapter, co, opts, &stats)
	}
	return stats, nil
}

func (r *Runner) scrapeCompany(ctx context.Context, adapter types.Adapter, co domain.Company, opts RunOptions, stats *types.RunStats) {
	log := r.log.With(
		zap.String("platform", string(co.Platform)),
		zap.String("company", co.Name),
		zap.String("board", co.BoardSlug))

	jobs, err := adapter.FetchJobs(ctx, co.BoardSlug, co.Name)
	if err != nil {
		stats.CompaniesFailed++
		stats.Errors = append(stats.Errors, types.CompanyError{
			Company: co.Name,
			Error:   err.Error(),
		})
		log.Error("scrape failed", zap.Error(err))
		if !opts.DryRun {
			disabled, ferr := store.RecordScrapeFailure(ctx, r.db, co.ID, r.FailureThreshold, r.now())
			if ferr != nil {
				log.Error("recording failure", zap.Error(ferr))
			} else if disabled {
				log.Warn("company auto-disabled after repeated failures",
					zap.Int("threshold", r.FailureThreshold))
			}
		}
		return
	}

	stats.JobsFound += len(jobs)
	for _, job := range jobs {
		var salaryMin, salaryMax int
		if job.Salary != nil {
			salaryMin, salaryMax = job.Salary.Min, job.Salary.Max
		}
		res := r.engine.ClassifyWithCompany(classify.Input{
			Title:       job.Title,
			Description: job.Description,
			SalaryMin:   salaryMin,
			SalaryMax:   salaryMax,
			Company:     job.Company,
		})
		if opts.DryRun {
			continue
		}
		created, uerr := store.UpsertJob(ctx, r.db, store.Listing{
			Job:        job,
			Level:      res.Level,
			Tags:       res.Tags,
			Confidence: res.Confidence,
			SeenAt:     r.now(),
		})
		if uerr != nil {
			log.Error("upsert failed", zap.String("source_id", job.SourceID), zap.Error(uerr))
			continue
		}
		if created {
			stats.JobsCreated++
		} else {
			stats.JobsUpdated++
		}
	}

	if !opts.DryRun {
		if err := store.RecordScrapeSuccess(ctx, r.db, co.ID, len(jobs), r.now()); err != nil {
			log.Error("recording success", zap.Error(err))
		}
	}
	stats.CompaniesProcessed++
	log.Info("company scraped", zap.Int("jobs", len(jobs)))
}

func ctxSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
