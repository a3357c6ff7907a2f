package domain

import "time"

// Company is one registry row: an (ATS platform, board slug) pair an operator
// has configured for scraping. Rows are never deleted, only deactivated.
type Company struct {
	ID             string
	Platform       Platform
	BoardSlug      string
	Name           string
	IsActive       bool
	LastScrapedAt  *time.Time
	LastJobCount   int
	ScrapeFailures int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
