package types

import (
	"context"
	"time"

	"genzjobs-scraper/internal/domain"
)

// MinDescriptionLen is the shortest description an adapter will accept.
// Anything below it is treated as a broken parse and the posting is dropped.
const MinDescriptionLen = 50

// Adapter is the common contract every ATS client implements. FetchJobs
// retries transient failures internally; when it returns an error, retries
// are already exhausted and the caller should count a company-level failure.
type Adapter interface {
	Platform() domain.Platform
	FetchJobs(ctx context.Context, boardSlug, companyName string) ([]domain.NormalizedJob, error)
	ValidateBoard(ctx context.Context, boardSlug string) (bool, error)
	RateLimitDelay() time.Duration
}

type CompanyError struct {
	Company string `json:"company"`
	Error   string `json:"error"`
}

// RunStats is the operator-visible outcome of one orchestrator run. There is
// no per-job error surface; per-job parse failures are dropped silently.
type RunStats struct {
	CompaniesProcessed int            `json:"companies_processed"`
	CompaniesSkipped   int            `json:"companies_skipped"`
	CompaniesFailed    int            `json:"companies_failed"`
	JobsFound          int            `json:"jobs_found"`
	JobsCreated        int            `json:"jobs_created"`
	JobsUpdated        int            `json:"jobs_updated"`
	Errors             []CompanyError `json:"errors,omitempty"`
	Duration           time.Duration  `json:"duration"`
}
