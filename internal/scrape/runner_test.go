package scrape

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"genzjobs-scraper/internal/classify"
	"genzjobs-scraper/internal/domain"
	"genzjobs-scraper/internal/scrape/types"
	"genzjobs-scraper/internal/store"
)

type fakeAdapter struct {
	platform domain.Platform
	jobs     []domain.NormalizedJob
	err      error
	calls    int
	onFetch  func()
}

func (f *fakeAdapter) Platform() domain.Platform { return f.platform }

func (f *fakeAdapter) FetchJobs(ctx context.Context, boardSlug, companyName string) ([]domain.NormalizedJob, error) {
	f.calls++
	if f.onFetch != nil {
		f.onFetch()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.jobs, nil
}

func (f *fakeAdapter) ValidateBoard(ctx context.Context, boardSlug string) (bool, error) {
	return true, nil
}

func (f *fakeAdapter) RateLimitDelay() time.Duration { return 42 * time.Millisecond }

func testDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := store.Migrate(db.Pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedCompany(t *testing.T, db *store.DB, platform domain.Platform, slug string) {
	t.Helper()
	if _, err := store.SeedCompany(context.Background(), db.Pool, platform, slug, slug); err != nil {
		t.Fatal(err)
	}
}

func sampleJob(platform domain.Platform, slug, id string) domain.NormalizedJob {
	return domain.NormalizedJob{
		Source:      platform,
		SourceID:    string(platform) + ":" + slug + ":" + id,
		Title:       "Junior Developer",
		Company:     slug,
		Description: "Write code, review pull requests, and learn from senior engineers daily.",
		ApplyURL:    "https://example.com/" + id,
	}
}

func newTestRunner(db *store.DB, adapters map[domain.Platform]types.Adapter) *Runner {
	r := NewRunner(db.Pool, adapters, classify.NewEngine(classify.DefaultVocabulary()), zap.NewNop())
	r.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return r
}

func TestRunPersistsAndIsolatesFailures(t *testing.T) {
	db := testDB(t)
	seedCompany(t, db, domain.PlatformGreenhouse, "good")
	seedCompany(t, db, domain.PlatformLever, "bad")

	good := &fakeAdapter{
		platform: domain.PlatformGreenhouse,
		jobs: []domain.NormalizedJob{
			sampleJob(domain.PlatformGreenhouse, "good", "1"),
			sampleJob(domain.PlatformGreenhouse, "good", "2"),
		},
	}
	bad := &fakeAdapter{platform: domain.PlatformLever, err: errors.New("boom")}

	r := newTestRunner(db, map[domain.Platform]types.Adapter{
		domain.PlatformGreenhouse: good,
		domain.PlatformLever:      bad,
	})

	stats, err := r.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.CompaniesProcessed != 1 || stats.CompaniesFailed != 1 {
		t.Errorf("processed=%d failed=%d; expected 1/1", stats.CompaniesProcessed, stats.CompaniesFailed)
	}
	if stats.JobsFound != 2 || stats.JobsCreated != 2 || stats.JobsUpdated != 0 {
		t.Errorf("found=%d created=%d updated=%d; expected 2/2/0", stats.JobsFound, stats.JobsCreated, stats.JobsUpdated)
	}
	if len(stats.Errors) != 1 || stats.Errors[0].Company != "bad" {
		t.Errorf("Errors = %+v", stats.Errors)
	}
	if good.calls != 1 || bad.calls != 1 {
		t.Errorf("adapter calls good=%d bad=%d; expected 1/1", good.calls, bad.calls)
	}

	// The failed company keeps its counter; classification landed in the rows.
	var failures int
	if err := db.Pool.QueryRow(
		`SELECT scrape_failures FROM companies WHERE board_slug = 'bad';`).Scan(&failures); err != nil {
		t.Fatal(err)
	}
	if failures != 1 {
		t.Errorf("scrape_failures = %d; expected 1", failures)
	}
	var level string
	if err := db.Pool.QueryRow(
		`SELECT experience_level FROM job_listings LIMIT 1;`).Scan(&level); err != nil {
		t.Fatal(err)
	}
	if level != "ENTRY" {
		t.Errorf("experience_level = %q; expected ENTRY", level)
	}
}

func TestRunSecondPassUpdates(t *testing.T) {
	db := testDB(t)
	seedCompany(t, db, domain.PlatformGreenhouse, "good")

	adapter := &fakeAdapter{
		platform: domain.PlatformGreenhouse,
		jobs:     []domain.NormalizedJob{sampleJob(domain.PlatformGreenhouse, "good", "1")},
	}
	r := newTestRunner(db, map[domain.Platform]types.Adapter{domain.PlatformGreenhouse: adapter})

	if _, err := r.Run(context.Background(), RunOptions{}); err != nil {
		t.Fatal(err)
	}
	stats, err := r.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if stats.JobsCreated != 0 || stats.JobsUpdated != 1 {
		t.Errorf("created=%d updated=%d; expected 0/1", stats.JobsCreated, stats.JobsUpdated)
	}
}

func TestRunFailureThresholdDisables(t *testing.T) {
	db := testDB(t)
	seedCompany(t, db, domain.PlatformWorkday, "dead.wd1.board")

	adapter := &fakeAdapter{platform: domain.PlatformWorkday, err: errors.New("always down")}
	r := newTestRunner(db, map[domain.Platform]types.Adapter{domain.PlatformWorkday: adapter})
	r.FailureThreshold = 3

	for i := 0; i < 3; i++ {
		if _, err := r.Run(context.Background(), RunOptions{}); err != nil {
			t.Fatal(err)
		}
	}

	companies, err := store.DueCompanies(context.Background(), db.Pool, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if len(companies) != 0 {
		t.Errorf("company still due after hitting the threshold: %+v", companies)
	}
	if adapter.calls != 3 {
		t.Errorf("adapter calls = %d; expected 3", adapter.calls)
	}
}

func TestRunDryRunWritesNothing(t *testing.T) {
	db := testDB(t)
	seedCompany(t, db, domain.PlatformGreenhouse, "good")
	seedCompany(t, db, domain.PlatformLever, "bad")

	adapters := map[domain.Platform]types.Adapter{
		domain.PlatformGreenhouse: &fakeAdapter{
			platform: domain.PlatformGreenhouse,
			jobs:     []domain.NormalizedJob{sampleJob(domain.PlatformGreenhouse, "good", "1")},
		},
		domain.PlatformLever: &fakeAdapter{platform: domain.PlatformLever, err: errors.New("boom")},
	}
	r := newTestRunner(db, adapters)

	stats, err := r.Run(context.Background(), RunOptions{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if stats.JobsFound != 1 || stats.JobsCreated != 0 {
		t.Errorf("found=%d created=%d; expected 1/0", stats.JobsFound, stats.JobsCreated)
	}

	var rows int
	if err := db.Pool.QueryRow(`SELECT COUNT(*) FROM job_listings;`).Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != 0 {
		t.Errorf("job rows = %d; dry run must not persist", rows)
	}
	var failures int
	if err := db.Pool.QueryRow(
		`SELECT scrape_failures FROM companies WHERE board_slug = 'bad';`).Scan(&failures); err != nil {
		t.Fatal(err)
	}
	if failures != 0 {
		t.Errorf("scrape_failures = %d; dry run must not count failures", failures)
	}
}

func TestRunPlatformFilter(t *testing.T) {
	db := testDB(t)
	seedCompany(t, db, domain.PlatformGreenhouse, "gh")
	seedCompany(t, db, domain.PlatformLever, "lv")

	gh := &fakeAdapter{platform: domain.PlatformGreenhouse}
	lv := &fakeAdapter{platform: domain.PlatformLever}
	r := newTestRunner(db, map[domain.Platform]types.Adapter{
		domain.PlatformGreenhouse: gh,
		domain.PlatformLever:      lv,
	})

	if _, err := r.Run(context.Background(), RunOptions{Platform: domain.PlatformLever}); err != nil {
		t.Fatal(err)
	}
	if gh.calls != 0 || lv.calls != 1 {
		t.Errorf("calls gh=%d lv=%d; expected 0/1", gh.calls, lv.calls)
	}
}

func TestRunTimeBudgetSkipsRemainder(t *testing.T) {
	db := testDB(t)
	seedCompany(t, db, domain.PlatformGreenhouse, "a")
	seedCompany(t, db, domain.PlatformGreenhouse, "b")
	seedCompany(t, db, domain.PlatformGreenhouse, "c")

	clock := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	adapter := &fakeAdapter{platform: domain.PlatformGreenhouse}
	adapter.onFetch = func() { clock = clock.Add(20 * time.Second) }

	r := newTestRunner(db, map[domain.Platform]types.Adapter{domain.PlatformGreenhouse: adapter})
	r.now = func() time.Time { return clock }

	stats, err := r.Run(context.Background(), RunOptions{TimeBudget: 15 * time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if stats.CompaniesProcessed != 1 {
		t.Errorf("processed = %d; expected 1", stats.CompaniesProcessed)
	}
	if stats.CompaniesSkipped != 2 {
		t.Errorf("skipped = %d; expected 2", stats.CompaniesSkipped)
	}
	if adapter.calls != 1 {
		t.Errorf("adapter calls = %d; expected 1", adapter.calls)
	}
}

func TestRunReportsDuration(t *testing.T) {
	db := testDB(t)
	seedCompany(t, db, domain.PlatformGreenhouse, "a")

	clock := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	adapter := &fakeAdapter{platform: domain.PlatformGreenhouse}
	adapter.onFetch = func() { clock = clock.Add(20 * time.Second) }

	r := newTestRunner(db, map[domain.Platform]types.Adapter{domain.PlatformGreenhouse: adapter})
	r.now = func() time.Time { return clock }

	stats, err := r.Run(context.Background(), RunOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if stats.Duration != 20*time.Second {
		t.Errorf("Duration = %v; expected 20s", stats.Duration)
	}
}

func TestRunSleepsBetweenCompaniesOnly(t *testing.T) {
	db := testDB(t)
	seedCompany(t, db, domain.PlatformGreenhouse, "a")
	seedCompany(t, db, domain.PlatformGreenhouse, "b")
	seedCompany(t, db, domain.PlatformGreenhouse, "c")

	adapter := &fakeAdapter{platform: domain.PlatformGreenhouse}
	r := newTestRunner(db, map[domain.Platform]types.Adapter{domain.PlatformGreenhouse: adapter})

	var sleeps []time.Duration
	r.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}

	if _, err := r.Run(context.Background(), RunOptions{}); err != nil {
		t.Fatal(err)
	}
	if len(sleeps) != 2 {
		t.Fatalf("sleeps = %d; expected 2 (never before the first company)", len(sleeps))
	}
	for _, d := range sleeps {
		if d != adapter.RateLimitDelay() {
			t.Errorf("sleep = %v; expected %v", d, adapter.RateLimitDelay())
		}
	}
}
