package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"genzjobs-scraper/internal/classify"
	"genzjobs-scraper/internal/domain"
)

// Listing is the upsert row: one normalized job plus its classification.
type Listing struct {
	Job        domain.NormalizedJob
	Level      classify.Level
	Tags       []string
	Confidence float64
	SeenAt     time.Time
}

// UpsertJob writes one listing keyed by (source, source_id) and reports
// whether the row was created. Every re-observation refreshes all mutable
// fields, bumps last_seen_at, and forces is_active back on. Each call
// commits independently; no transaction spans more than one job.
func UpsertJob(ctx context.Context, db *sql.DB, l Listing) (created bool, err error) {
	if l.Job.SourceID == "" {
		return false, errors.New("missing source id")
	}
	if l.SeenAt.IsZero() {
		l.SeenAt = time.Now().UTC()
	}
	stamp := l.SeenAt.UTC().Format(time.RFC3339)

	skillsJSON, _ := json.Marshal(l.Job.Skills)
	tagsJSON, _ := json.Marshal(l.Tags)

	var salaryMin, salaryMax any
	var salaryCurrency, salaryPeriod any
	if s := l.Job.Salary; s != nil {
		salaryMin, salaryMax = s.Min, s.Max
		salaryCurrency, salaryPeriod = s.Currency, s.Period
	}
	var postedAt any
	if l.Job.PostedAt != nil {
		postedAt = l.Job.PostedAt.UTC().Format(time.RFC3339)
	}

	var id string
	err = db.QueryRowContext(ctx,
		`SELECT id FROM job_listings WHERE source = ? AND source_id = ?;`,
		l.Job.Source, l.Job.SourceID).Scan(&id)

	switch {
	case err == sql.ErrNoRows:
		_, err = db.ExecContext(ctx, `
INSERT INTO job_listings(
  id, source, source_id, title, company, location, remote, description, apply_url,
  salary_min, salary_max, salary_currency, salary_period,
  job_type, department, skills, experience_level, audience_tags, classification_confidence,
  posted_at, is_active, last_seen_at, created_at, updated_at
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,1,?,?,?);`,
			uuid.NewString(), l.Job.Source, l.Job.SourceID,
			l.Job.Title, l.Job.Company, l.Job.Location, boolInt(l.Job.Remote),
			l.Job.Description, l.Job.ApplyURL,
			salaryMin, salaryMax, salaryCurrency, salaryPeriod,
			l.Job.JobType, l.Job.Department, string(skillsJSON),
			string(l.Level), string(tagsJSON), l.Confidence,
			postedAt, stamp, stamp, stamp,
		)
		if err != nil {
			return false, fmt.Errorf("insert listing: %w", err)
		}
		return true, nil

	case err != nil:
		return false, fmt.Errorf("lookup listing: %w", err)

	default:
		_, err = db.ExecContext(ctx, `
UPDATE job_listings SET
  title = ?, company = ?, location = ?, remote = ?, description = ?, apply_url = ?,
  salary_min = ?, salary_max = ?, salary_currency = ?, salary_period = ?,
  job_type = ?, department = ?, skills = ?,
  experience_level = ?, audience_tags = ?, classification_confidence = ?,
  posted_at = COALESCE(?, posted_at),
  is_active = 1, last_seen_at = ?, updated_at = ?
WHERE id = ?;`,
			l.Job.Title, l.Job.Company, l.Job.Location, boolInt(l.Job.Remote),
			l.Job.Description, l.Job.ApplyURL,
			salaryMin, salaryMax, salaryCurrency, salaryPeriod,
			l.Job.JobType, l.Job.Department, string(skillsJSON),
			string(l.Level), string(tagsJSON), l.Confidence,
			postedAt, stamp, stamp, id,
		)
		if err != nil {
			return false, fmt.Errorf("update listing: %w", err)
		}
		return false, nil
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
