// Command scraperd runs the job scraping pipeline: a company registry in
// SQLite, one adapter per ATS, classification, and a staleness sweep. By
// default it runs as a daemon on the configured intervals; the one-shot
// flags run a single action and exit.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"genzjobs-scraper/internal/classify"
	"genzjobs-scraper/internal/config"
	"genzjobs-scraper/internal/domain"
	"genzjobs-scraper/internal/lifecycle"
	"genzjobs-scraper/internal/scheduler"
	"genzjobs-scraper/internal/scrape"
	"genzjobs-scraper/internal/scrape/types"
	"genzjobs-scraper/internal/scrape/util"
	"genzjobs-scraper/internal/store"
)

func main() {
	var (
		cfgPath  = flag.String("config", filepath.Join("config", "config.yml"), "path to the default config file")
		once     = flag.Bool("once", false, "run a single scrape pass and exit")
		platform = flag.String("platform", "", "restrict to one platform")
		board    = flag.String("board", "", "restrict to one board slug")
		dryRun   = flag.Bool("dry-run", false, "scrape and classify without writing")
		cleanup  = flag.Bool("cleanup", false, "run a staleness sweep and exit")
		stats    = flag.Bool("stats", false, "print per-source listing stats and exit")
		validate = flag.Bool("validate", false, "probe every registered board and exit")
		seed     = flag.Bool("seed", false, "seed the registry from config and exit")
	)
	flag.Parse()

	if err := run(*cfgPath, options{
		once:     *once,
		platform: *platform,
		board:    *board,
		dryRun:   *dryRun,
		cleanup:  *cleanup,
		stats:    *stats,
		validate: *validate,
		seed:     *seed,
	}); err != nil {
		log.Fatal(err)
	}
}

type options struct {
	once     bool
	platform string
	board    string
	dryRun   bool
	cleanup  bool
	stats    bool
	validate bool
	seed     bool
}

func run(cfgPath string, opts options) error {
	dataDir := os.Getenv("GENZJOBS_DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	userCfgPath, err := config.EnsureUserConfig(dataDir, cfgPath)
	if err != nil {
		return fmt.Errorf("config bootstrap: %w", err)
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		return fmt.Errorf("config load (%s): %w", userCfgPath, err)
	}
	if err := config.OverlayCompanies(&cfg, filepath.Join(filepath.Dir(cfgPath), "companies.yml")); err != nil {
		return fmt.Errorf("companies overlay: %w", err)
	}
	config.OverlayEnv(&cfg)

	cfg, validation := config.NormalizeAndValidate(cfg)
	if !validation.OK() {
		for _, e := range validation.Errors {
			fmt.Fprintln(os.Stderr, "config error:", e)
		}
		return fmt.Errorf("invalid config (%s)", userCfgPath)
	}

	logger, err := buildLogger(cfg.App.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()
	for _, w := range validation.Warnings {
		logger.Warn("config warning", zap.String("detail", w))
	}

	var pf domain.Platform
	if opts.platform != "" {
		p, ok := domain.ParsePlatform(opts.platform)
		if !ok {
			return fmt.Errorf("unknown platform %q", opts.platform)
		}
		pf = p
	}

	// One writer per database. The lock keeps a cron-launched second daemon
	// from fighting over SQLite.
	lock := flock.New(cfg.App.DBPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", lock.Path(), err)
	}
	if !locked {
		return fmt.Errorf("another instance holds %s", lock.Path())
	}
	defer lock.Unlock()

	db, err := store.Open(cfg.App.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	if err := store.Migrate(db.Pool); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := seedRegistry(ctx, db, cfg, logger); err != nil {
		return err
	}
	if opts.seed {
		return nil
	}

	vocab := classify.DefaultVocabulary()
	if cfg.Classification.VocabularyPath != "" {
		vocab, err = classify.LoadVocabulary(cfg.Classification.VocabularyPath)
		if err != nil {
			return fmt.Errorf("vocabulary load: %w", err)
		}
	}
	engine := classify.NewEngine(vocab)

	limiter := util.NewHostLimiter(cfg.Scrape.RequestsPerSecond, cfg.Scrape.Burst)
	adapters := scrape.Adapters(limiter, logger)

	runner := scrape.NewRunner(db.Pool, adapters, engine, logger)
	runner.FailureThreshold = cfg.Scrape.FailureThreshold

	svc := lifecycle.New(db.Pool, logger)
	svc.StaleAfter = time.Duration(cfg.Cleanup.StaleAfterDays) * 24 * time.Hour
	svc.ReactivateWindow = time.Duration(cfg.Cleanup.ReactivateWindowHours) * time.Hour

	runOpts := scrape.RunOptions{
		Platform:   pf,
		Board:      opts.board,
		DryRun:     opts.dryRun,
		TimeBudget: time.Duration(cfg.Scrape.TimeBudgetMinutes) * time.Minute,
	}

	switch {
	case opts.stats:
		return printStats(ctx, svc)
	case opts.validate:
		return validateBoards(ctx, db, adapters, pf, opts.board, logger)
	case opts.cleanup:
		res, err := svc.Cleanup(ctx, pf, opts.dryRun)
		if err != nil {
			return err
		}
		return printJSON(res)
	case opts.once:
		st, err := runner.Run(ctx, runOpts)
		if err != nil {
			return err
		}
		return printJSON(st)
	}

	logger.Info("daemon starting",
		zap.Int("scrape_interval_minutes", cfg.Scrape.IntervalMinutes),
		zap.Int("cleanup_interval_hours", cfg.Cleanup.IntervalHours))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scheduler.Every(gctx, time.Duration(cfg.Scrape.IntervalMinutes)*time.Minute, "scrape", logger, func(ctx context.Context) error {
			runID := uuid.NewString()
			st, err := runner.Run(ctx, runOpts)
			if err != nil {
				return err
			}
			logger.Info("scrape pass complete",
				zap.String("run_id", runID),
				zap.Int("processed", st.CompaniesProcessed),
				zap.Int("failed", st.CompaniesFailed),
				zap.Int("found", st.JobsFound),
				zap.Int("created", st.JobsCreated),
				zap.Int("updated", st.JobsUpdated),
				zap.Duration("took", st.Duration))
			return nil
		})
		return nil
	})
	g.Go(func() error {
		scheduler.Every(gctx, time.Duration(cfg.Cleanup.IntervalHours)*time.Hour, "cleanup", logger, func(ctx context.Context) error {
			_, err := svc.Cleanup(ctx, "", false)
			return err
		})
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("shutdown complete")
	return nil
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

func seedRegistry(ctx context.Context, db *store.DB, cfg config.Config, logger *zap.Logger) error {
	added := 0
	for _, c := range cfg.Companies {
		p, _ := domain.ParsePlatform(c.Platform)
		created, err := store.SeedCompany(ctx, db.Pool, p, c.Slug, c.Name)
		if err != nil {
			return fmt.Errorf("seed %s/%s: %w", c.Platform, c.Slug, err)
		}
		if created {
			added++
		}
	}
	if len(cfg.Companies) > 0 {
		logger.Info("registry seeded",
			zap.Int("configured", len(cfg.Companies)),
			zap.Int("added", added))
	}
	return nil
}

func printStats(ctx context.Context, svc *lifecycle.Service) error {
	stats, err := svc.Stats(ctx)
	if err != nil {
		return err
	}
	return printJSON(stats)
}

func validateBoards(ctx context.Context, db *store.DB, adapters map[domain.Platform]types.Adapter, pf domain.Platform, board string, logger *zap.Logger) error {
	companies, err := store.DueCompanies(ctx, db.Pool, pf, board)
	if err != nil {
		return err
	}
	bad := 0
	for _, co := range companies {
		adapter, ok := adapters[co.Platform]
		if !ok {
			continue
		}
		exists, err := adapter.ValidateBoard(ctx, co.BoardSlug)
		switch {
		case err != nil:
			logger.Warn("probe failed",
				zap.String("platform", string(co.Platform)),
				zap.String("board", co.BoardSlug),
				zap.Error(err))
		case !exists:
			bad++
			logger.Warn("board not found",
				zap.String("platform", string(co.Platform)),
				zap.String("board", co.BoardSlug),
				zap.String("company", co.Name))
		default:
			logger.Info("board ok",
				zap.String("platform", string(co.Platform)),
				zap.String("board", co.BoardSlug))
		}
	}
	if bad > 0 {
		return fmt.Errorf("%d board(s) not found", bad)
	}
	return nil
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
