// Package ashby scrapes Ashby job boards through the posting-api, with
// compensation summaries requested up front.
package ashby

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

const defaultBaseURL = "https://api.ashbyhq.com"

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
		log:     log.Named("ashby"),
		pol:     util.DefaultRetryPolicy(),
	}
}

func (s *Scraper) Platform() domain.Platform { return domain.PlatformAshby }

func (s *Scraper) RateLimitDelay() time.Duration { return 1 * time.Second }

type boardResponse struct {
	Jobs []posting `json:"jobs"`
}

type posting struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Department      string        `json:"department"`
	Team            string        `json:"team"`
	Location        string        `json:"location"`
	IsRemote        bool          `json:"isRemote"`
	DescriptionHTML string        `json:"descriptionHtml"`
	PublishedAt     string        `json:"publishedAt"`
	EmploymentType  string        `json:"employmentType"`
	JobURL          string        `json:"jobUrl"`
	ApplyURL        string        `json:"applyUrl"`
	Compensation    *compensation `json:"compensation"`
}

type compensation struct {
	SummaryComponents []compComponent `json:"summaryComponents"`
}

type compComponent struct {
	CompensationType string  `json:"compensationType"`
	MinValue         float64 `json:"minValue"`
	MaxValue         float64 `json:"maxValue"`
	CurrencyCode     string  `json:"currencyCode"`
	Interval         string  `json:"interval"`
}

func (s *Scraper) boardURL(slug string) string {
	return fmt.Sprintf("%s/posting-api/job-board/%s?includeCompensation=true", s.BaseURL, slug)
}

func (s *Scraper) FetchJobs(ctx context.Context, boardSlug, companyName string) ([]domain.NormalizedJob, error) {
	var resp boardResponse
	err := util.DoJSON(ctx, s.hc, s.limiter, s.pol, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, s.boardURL(boardSlug), nil)
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("ashby %s: %w", boardSlug, err)
	}

	jobs := make([]domain.NormalizedJob, 0, len(resp.Jobs))
	for _, p := range resp.Jobs {
		desc := util.StripHTML(p.DescriptionHTML)
		if len(desc) < types.MinDescriptionLen {
			s.log.Debug("dropping posting with broken description",
				zap.String("board", boardSlug), zap.String("id", p.ID))
			continue
		}

		applyURL := p.ApplyURL
		if applyURL == "" {
			applyURL = p.JobURL
		}
		jobType := util.NormalizeJobType(p.EmploymentType)
		if jobType == "" {
			jobType = util.DetectJobType(p.Title + " " + desc)
		}
		dept := p.Department
		if dept == "" {
			dept = p.Team
		}
		jobs = append(jobs, domain.NormalizedJob{
			Source:      domain.PlatformAshby,
			SourceID:    util.SourceID(domain.PlatformAshby, boardSlug, p.ID),
			Title:       util.CleanText(p.Title),
			Company:     companyName,
			Location:    util.CleanText(p.Location),
			Remote:      p.IsRemote || util.DetectRemote(p.Location, ""),
			Description: desc,
			ApplyURL:    applyURL,
			Salary:      p.salary(desc),
			JobType:     jobType,
			Department:  dept,
			Skills:      util.ExtractSkills(desc),
			PostedAt:    parseTime(p.PublishedAt),
		})
	}
	return jobs, nil
}

// salary picks the base salary component out of the compensation summary,
// falling back to text extraction when no usable component exists.
func (p posting) salary(desc string) *domain.SalaryRange {
	if p.Compensation != nil {
		for _, c := range p.Compensation.SummaryComponents {
			if !strings.EqualFold(c.CompensationType, "Salary") {
				continue
			}
			if c.MinValue == 0 && c.MaxValue == 0 {
				continue
			}
			currency := c.CurrencyCode
			if currency == "" {
				currency = "USD"
			}
			period := "yearly"
			if strings.Contains(strings.ToLower(c.Interval), "hour") {
				period = "hourly"
			}
			return &domain.SalaryRange{
				Min:      int(c.MinValue),
				Max:      int(c.MaxValue),
				Currency: currency,
				Period:   period,
			}
		}
	}
	return util.ExtractSalary(desc)
}

func (s *Scraper) ValidateBoard(ctx context.Context, boardSlug string) (bool, error) {
	err := util.DoJSON(ctx, s.hc, s.limiter, s.pol, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, s.boardURL(boardSlug), nil)
	}, nil)
	return util.ProbeResult(err)
}

func parseTime(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	return nil
}
