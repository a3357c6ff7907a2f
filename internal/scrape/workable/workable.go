// Package workable scrapes Workable accounts through the public widget API.
package workable

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"genzjobs-scraper/internal/domain"
	"genzjobs-scraper/internal/scrape/types"
	"genzjobs-scraper/internal/scrape/util"
)

const defaultBaseURL = "https://www.workable.com"

type Scraper struct {
	BaseURL string

	hc      *http.Client
	limiter *util.HostLimiter
	log     *zap.Logger
	pol     util.RetryPolicy
}

func New(limiter *util.HostLimiter, log *zap.Logger) *Scraper {
	return &Scraper{
		BaseURL: defaultBaseURL,
		hc:      &http.Client{Timeout: 30 * time.Second},
		limiter: limiter,
		log:     log.Named("workable"),
		pol:     util.DefaultRetryPolicy(),
	}
}

func (s *Scraper) Platform() domain.Platform { return domain.PlatformWorkable }

func (s *Scraper) RateLimitDelay() time.Duration { return 2 * time.Second }

type accountResponse struct {
	Name string `json:"name"`
	Jobs []job  `json:"jobs"`
}

type job struct {
	Title          string `json:"title"`
	Shortcode      string `json:"shortcode"`
	Code           string `json:"code"`
	Country        string `json:"country"`
	State          string `json:"state"`
	City           string `json:"city"`
	Department     string `json:"department"`
	URL            string `json:"url"`
	ApplicationURL string `json:"application_url"`
	Description    string `json:"description"`
	Requirements   string `json:"requirements"`
	Benefits       string `json:"benefits"`
	EmploymentType string `json:"employment_type"`
	Telecommuting  bool   `json:"telecommuting"`
	CreatedAt      string `json:"created_at"`
}

func (s *Scraper) accountURL(slug string) string {
	return fmt.Sprintf("%s/api/accounts/%s?details=true", s.BaseURL, slug)
}

func (s *Scraper) FetchJobs(ctx context.Context, boardSlug, companyName string) ([]domain.NormalizedJob, error) {
	var resp accountResponse
	err := util.DoJSON(ctx, s.hc, s.limiter, s.pol, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, s.accountURL(boardSlug), nil)
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("workable %s: %w", boardSlug, err)
	}

	company := companyName
	if company == "" {
		company = resp.Name
	}
	jobs := make([]domain.NormalizedJob, 0, len(resp.Jobs))
	for _, j := range resp.Jobs {
		desc := util.StripHTML(strings.Join([]string{j.Description, j.Requirements, j.Benefits}, " "))
		if len(desc) < types.MinDescriptionLen {
			s.log.Debug("dropping posting with broken description",
				zap.String("board", boardSlug), zap.String("shortcode", j.Shortcode))
			continue
		}

		id := j.Shortcode
		if id == "" {
			id = j.Code
		}
		if id == "" {
			id = util.HashString(j.URL)
		}
		applyURL := j.ApplicationURL
		if applyURL == "" {
			applyURL = j.URL
		}
		location := joinLocation(j.City, j.State, j.Country)
		hint := ""
		if j.Telecommuting {
			hint = "remote"
		}
		jobType := util.NormalizeJobType(j.EmploymentType)
		if jobType == "" {
			jobType = util.DetectJobType(j.Title + " " + desc)
		}
		jobs = append(jobs, domain.NormalizedJob{
			Source:      domain.PlatformWorkable,
			SourceID:    util.SourceID(domain.PlatformWorkable, boardSlug, id),
			Title:       util.CleanText(j.Title),
			Company:     company,
			Location:    location,
			Remote:      util.DetectRemote(location, hint),
			Description: desc,
			ApplyURL:    applyURL,
			Salary:      util.ExtractSalary(desc),
			JobType:     jobType,
			Department:  j.Department,
			Skills:      util.ExtractSkills(desc),
			PostedAt:    parseTime(j.CreatedAt),
		})
	}
	return jobs, nil
}

func (s *Scraper) ValidateBoard(ctx context.Context, boardSlug string) (bool, error) {
	err := util.DoJSON(ctx, s.hc, s.limiter, s.pol, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodHead, s.accountURL(boardSlug), nil)
	}, nil)
	return util.ProbeResult(err)
}

func joinLocation(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

func parseTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
