package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"genzjobs-scraper/internal/domain"
)

// SeedCompany inserts a registry row if the (platform, board_slug) pair is
// new. Existing rows keep their bookkeeping; only the display name follows
// the seed file.
func SeedCompany(ctx context.Context, db *sql.DB, platform domain.Platform, boardSlug, name string) (created bool, err error) {
	now := time.Now().UTC().Format(time.RFC3339)

	var id string
	err = db.QueryRowContext(ctx,
		`SELECT id FROM companies WHERE platform = ? AND board_slug = ?;`,
		platform, boardSlug).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		_, err = db.ExecContext(ctx, `
INSERT INTO companies(id, platform, board_slug, name, is_active, created_at, updated_at)
VALUES(?,?,?,?,1,?,?);`,
			uuid.NewString(), platform, boardSlug, name, now, now,
		)
		if err != nil {
			return false, fmt.Errorf("seed company: %w", err)
		}
		return true, nil
	case err != nil:
		return false, fmt.Errorf("seed company: %w", err)
	default:
		_, err = db.ExecContext(ctx,
			`UPDATE companies SET name = ?, updated_at = ? WHERE id = ?;`,
			name, now, id,
		)
		if err != nil {
			return false, fmt.Errorf("seed company: %w", err)
		}
		return false, nil
	}
}

// DueCompanies returns active registry rows in fairness order: never-scraped
// companies first, then oldest-scraped first. Optional platform/board
// filters narrow the run.
func DueCompanies(ctx context.Context, db *sql.DB, platform domain.Platform, boardSlug string) ([]domain.Company, error) {
	query := `
SELECT id, platform, board_slug, name, is_active, last_scraped_at, last_job_count, scrape_failures, created_at, updated_at
FROM companies
WHERE is_active = 1`
	var args []any
	if platform != "" {
		query += ` AND platform = ?`
		args = append(args, platform)
	}
	if boardSlug != "" {
		query += ` AND board_slug = ?`
		args = append(args, boardSlug)
	}
	query += `
ORDER BY last_scraped_at IS NULL DESC, last_scraped_at ASC;`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanCompany(rows *sql.Rows) (domain.Company, error) {
	var c domain.Company
	var platform string
	var active int
	var lastScraped sql.NullString
	var createdAt, updatedAt string
	if err := rows.Scan(&c.ID, &platform, &c.BoardSlug, &c.Name, &active,
		&lastScraped, &c.LastJobCount, &c.ScrapeFailures, &createdAt, &updatedAt); err != nil {
		return domain.Company{}, err
	}
	c.Platform = domain.Platform(platform)
	c.IsActive = active != 0
	if lastScraped.Valid {
		if t, err := time.Parse(time.RFC3339, lastScraped.String); err == nil {
			c.LastScrapedAt = &t
		}
	}
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return c, nil
}

// RecordScrapeSuccess resets the failure counter and stamps the run.
func RecordScrapeSuccess(ctx context.Context, db *sql.DB, companyID string, jobCount int, at time.Time) error {
	_, err := db.ExecContext(ctx, `
UPDATE companies
SET last_scraped_at = ?, last_job_count = ?, scrape_failures = 0, updated_at = ?
WHERE id = ?;`,
		at.UTC().Format(time.RFC3339), jobCount, at.UTC().Format(time.RFC3339), companyID,
	)
	if err != nil {
		return fmt.Errorf("record success: %w", err)
	}
	return nil
}

// RecordScrapeFailure bumps the consecutive-failure counter and deactivates
// the company once it reaches threshold, so future runs skip it without
// operator action.
func RecordScrapeFailure(ctx context.Context, db *sql.DB, companyID string, threshold int, at time.Time) (disabled bool, err error) {
	stamp := at.UTC().Format(time.RFC3339)
	_, err = db.ExecContext(ctx, `
UPDATE companies
SET scrape_failures = scrape_failures + 1,
    last_scraped_at = ?,
    is_active = CASE WHEN scrape_failures + 1 >= ? THEN 0 ELSE is_active END,
    updated_at = ?
WHERE id = ?;`,
		stamp, threshold, stamp, companyID,
	)
	if err != nil {
		return false, fmt.Errorf("record failure: %w", err)
	}

	var active int
	if err := db.QueryRowContext(ctx,
		`SELECT is_active FROM companies WHERE id = ?;`, companyID).Scan(&active); err != nil {
		return false, err
	}
	return active == 0, nil
}
