package store

import (
	"context"
	"testing"
	"time"

	"genzjobs-scraper/internal/domain"
)

func seedListing(t *testing.T, db *DB, sourceID string, source domain.Platform, seen time.Time) {
	t.Helper()
	l := sampleListing(seen)
	l.Job.Source = source
	l.Job.SourceID = sourceID
	if _, err := UpsertJob(context.Background(), db.Pool, l); err != nil {
		t.Fatal(err)
	}
}

func TestMarkStale(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	cutoff := time.Now().UTC().Add(-7 * 24 * time.Hour)

	seedListing(t, db, "greenhouse:a:1", domain.PlatformGreenhouse, cutoff.Add(-time.Second))
	seedListing(t, db, "greenhouse:a:2", domain.PlatformGreenhouse, cutoff.Add(time.Second))

	n, err := MarkStale(ctx, db.Pool, cutoff, "", false)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("deactivated %d; expected 1", n)
	}

	var active int
	if err := db.Pool.QueryRow(
		`SELECT is_active FROM job_listings WHERE source_id = 'greenhouse:a:1';`).Scan(&active); err != nil {
		t.Fatal(err)
	}
	if active != 0 {
		t.Error("listing past the cutoff must be inactive")
	}
	if err := db.Pool.QueryRow(
		`SELECT is_active FROM job_listings WHERE source_id = 'greenhouse:a:2';`).Scan(&active); err != nil {
		t.Fatal(err)
	}
	if active != 1 {
		t.Error("listing inside the window must stay active")
	}
}

func TestMarkStaleDryRun(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	cutoff := time.Now().UTC().Add(-7 * 24 * time.Hour)

	seedListing(t, db, "lever:b:1", domain.PlatformLever, cutoff.Add(-time.Hour))

	n, err := MarkStale(ctx, db.Pool, cutoff, "", true)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("counted %d; expected 1", n)
	}

	var active int
	if err := db.Pool.QueryRow(`SELECT is_active FROM job_listings;`).Scan(&active); err != nil {
		t.Fatal(err)
	}
	if active != 1 {
		t.Error("dry run must not write")
	}
}

func TestMarkStaleSourceFilter(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	cutoff := time.Now().UTC().Add(-7 * 24 * time.Hour)

	seedListing(t, db, "greenhouse:a:1", domain.PlatformGreenhouse, cutoff.Add(-time.Hour))
	seedListing(t, db, "lever:b:1", domain.PlatformLever, cutoff.Add(-time.Hour))

	n, err := MarkStale(ctx, db.Pool, cutoff, domain.PlatformLever, false)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("deactivated %d; expected 1 (lever only)", n)
	}

	var active int
	if err := db.Pool.QueryRow(
		`SELECT is_active FROM job_listings WHERE source = 'greenhouse';`).Scan(&active); err != nil {
		t.Fatal(err)
	}
	if active != 1 {
		t.Error("other sources must be untouched")
	}
}

func TestReactivateRecent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	seedListing(t, db, "ashby:c:1", domain.PlatformAshby, now.Add(-time.Hour))
	seedListing(t, db, "ashby:c:2", domain.PlatformAshby, now.Add(-48*time.Hour))
	if _, err := db.Pool.Exec(`UPDATE job_listings SET is_active = 0;`); err != nil {
		t.Fatal(err)
	}

	n, err := ReactivateRecent(ctx, db.Pool, now.Add(-24*time.Hour), "")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("reactivated %d; expected 1", n)
	}

	var active int
	if err := db.Pool.QueryRow(
		`SELECT is_active FROM job_listings WHERE source_id = 'ashby:c:1';`).Scan(&active); err != nil {
		t.Fatal(err)
	}
	if active != 1 {
		t.Error("recently seen listing must be reactivated")
	}
}

func TestSourceStats(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	now := time.Now().UTC()
	cutoff := now.Add(-7 * 24 * time.Hour)

	seedListing(t, db, "greenhouse:a:1", domain.PlatformGreenhouse, now)
	seedListing(t, db, "greenhouse:a:2", domain.PlatformGreenhouse, cutoff.Add(-time.Hour))
	seedListing(t, db, "lever:b:1", domain.PlatformLever, now)
	if _, err := db.Pool.Exec(
		`UPDATE job_listings SET is_active = 0 WHERE source_id = 'lever:b:1';`); err != nil {
		t.Fatal(err)
	}

	stats, err := SourceStats(ctx, db.Pool, cutoff)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d sources; expected 2", len(stats))
	}

	gh := stats[0]
	if gh.Source != "greenhouse" || gh.Active != 2 || gh.Inactive != 0 || gh.Stale != 1 {
		t.Errorf("greenhouse stats = %+v", gh)
	}
	lv := stats[1]
	if lv.Source != "lever" || lv.Active != 0 || lv.Inactive != 1 {
		t.Errorf("lever stats = %+v", lv)
	}
}
