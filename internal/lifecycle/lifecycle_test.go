package lifecycle

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"genzjobs-scraper/internal/classify"
	"genzjobs-scraper/internal/domain"
	"genzjobs-scraper/internal/store"
)

func testService(t *testing.T) (*Service, *store.DB) {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := store.Migrate(db.Pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db.Pool, zap.NewNop()), db
}

func seedListing(t *testing.T, db *store.DB, sourceID string, seen time.Time) {
	t.Helper()
	_, err := store.UpsertJob(context.Background(), db.Pool, store.Listing{
		Job: domain.NormalizedJob{
			Source:      domain.PlatformGreenhouse,
			SourceID:    sourceID,
			Title:       "Engineer",
			Company:     "Acme",
			Description: "A description long enough to have survived adapter validation.",
			ApplyURL:    "https://example.com",
		},
		Level:  classify.LevelMid,
		Tags:   []string{classify.TagMidCareer},
		SeenAt: seen,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestCleanupSweep(t *testing.T) {
	svc, db := testService(t)
	now := time.Now().UTC()

	// One fresh, one past the 7 day window, one stale-marked but recently
	// re-observed.
	seedListing(t, db, "greenhouse:a:fresh", now.Add(-time.Hour))
	seedListing(t, db, "greenhouse:a:old", now.Add(-8*24*time.Hour))
	seedListing(t, db, "greenhouse:a:back", now.Add(-2*time.Hour))
	if _, err := db.Pool.Exec(
		`UPDATE job_listings SET is_active = 0 WHERE source_id = 'greenhouse:a:back';`); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Cleanup(context.Background(), "", false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Deactivated != 1 {
		t.Errorf("Deactivated = %d; expected 1", res.Deactivated)
	}
	if res.Reactivated != 1 {
		t.Errorf("Reactivated = %d; expected 1", res.Reactivated)
	}

	check := func(sourceID string, want int) {
		t.Helper()
		var active int
		if err := db.Pool.QueryRow(
			`SELECT is_active FROM job_listings WHERE source_id = ?;`, sourceID).Scan(&active); err != nil {
			t.Fatal(err)
		}
		if active != want {
			t.Errorf("%s is_active = %d; expected %d", sourceID, active, want)
		}
	}
	check("greenhouse:a:fresh", 1)
	check("greenhouse:a:old", 0)
	check("greenhouse:a:back", 1)
}

func TestCleanupDryRun(t *testing.T) {
	svc, db := testService(t)
	now := time.Now().UTC()

	seedListing(t, db, "greenhouse:a:old", now.Add(-8*24*time.Hour))

	res, err := svc.Cleanup(context.Background(), "", true)
	if err != nil {
		t.Fatal(err)
	}
	if res.Deactivated != 1 || !res.DryRun {
		t.Errorf("result = %+v; expected a counted dry run", res)
	}

	var active int
	if err := db.Pool.QueryRow(`SELECT is_active FROM job_listings;`).Scan(&active); err != nil {
		t.Fatal(err)
	}
	if active != 1 {
		t.Error("dry run must not deactivate")
	}
}

func TestStats(t *testing.T) {
	svc, db := testService(t)
	now := time.Now().UTC()

	seedListing(t, db, "greenhouse:a:fresh", now)
	seedListing(t, db, "greenhouse:a:old", now.Add(-8*24*time.Hour))

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 1 {
		t.Fatalf("got %d sources; expected 1", len(stats))
	}
	s := stats[0]
	if s.Active != 2 || s.Stale != 1 {
		t.Errorf("stats = %+v; expected 2 active with 1 stale", s)
	}
}
