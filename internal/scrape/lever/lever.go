// Package lever scrapes public Lever postings through the v0 postings API.
package lever

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

const defaultBaseURL = "https://api.lever.co"

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
		log:     log.Named("lever"),
		pol:     util.DefaultRetryPolicy(),
	}
}

func (s *Scraper) Platform() domain.Platform { return domain.PlatformLever }

func (s *Scraper) RateLimitDelay() time.Duration { return 1 * time.Second }

type posting struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	HostedURL  string `json:"hostedUrl"`
	ApplyURL   string `json:"applyUrl"`
	CreatedAt  int64  `json:"createdAt"`
	Categories struct {
		Location   string `json:"location"`
		Team       string `json:"team"`
		Department string `json:"department"`
		Commitment string `json:"commitment"`
	} `json:"categories"`
	Description      string       `json:"description"`
	DescriptionPlain string       `json:"descriptionPlain"`
	SalaryRange      *salaryRange `json:"salaryRange"`
	WorkplaceType    string       `json:"workplaceType"`
}

type salaryRange struct {
	Min      int    `json:"min"`
	Max      int    `json:"max"`
	Currency string `json:"currency"`
	Interval string `json:"interval"`
}

func (s *Scraper) postingsURL(slug string) string {
	return fmt.Sprintf("%s/v0/postings/%s?mode=json", s.BaseURL, slug)
}

func (s *Scraper) FetchJobs(ctx context.Context, boardSlug, companyName string) ([]domain.NormalizedJob, error) {
	var postings []posting
	err := util.DoJSON(ctx, s.hc, s.limiter, s.pol, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, s.postingsURL(boardSlug), nil)
	}, &postings)
	if err != nil {
		return nil, fmt.Errorf("lever %s: %w", boardSlug, err)
	}

	jobs := make([]domain.NormalizedJob, 0, len(postings))
	for _, p := range postings {
		desc := p.DescriptionPlain
		if desc == "" {
			desc = util.StripHTML(p.Description)
		}
		desc = util.CleanText(desc)
		if len(desc) < types.MinDescriptionLen {
			s.log.Debug("dropping posting with broken description",
				zap.String("board", boardSlug), zap.String("id", p.ID))
			continue
		}

		applyURL := p.ApplyURL
		if applyURL == "" {
			applyURL = p.HostedURL
		}
		jobType := util.NormalizeJobType(p.Categories.Commitment)
		if jobType == "" {
			jobType = util.DetectJobType(p.Text + " " + desc)
		}
		dept := p.Categories.Team
		if dept == "" {
			dept = p.Categories.Department
		}
		jobs = append(jobs, domain.NormalizedJob{
			Source:      domain.PlatformLever,
			SourceID:    util.SourceID(domain.PlatformLever, boardSlug, p.ID),
			Title:       util.CleanText(p.Text),
			Company:     companyName,
			Location:    util.CleanText(p.Categories.Location),
			Remote:      util.DetectRemote(p.Categories.Location, p.WorkplaceType),
			Description: desc,
			ApplyURL:    applyURL,
			Salary:      p.salary(desc),
			JobType:     jobType,
			Department:  dept,
			Skills:      util.ExtractSkills(desc),
			PostedAt:    millisTime(p.CreatedAt),
		})
	}
	return jobs, nil
}

// salary prefers the structured range; only when the posting carries none
// does the text extractor get a shot.
func (p posting) salary(desc string) *domain.SalaryRange {
	sr := p.SalaryRange
	if sr == nil || (sr.Min == 0 && sr.Max == 0) {
		return util.ExtractSalary(desc)
	}
	currency := sr.Currency
	if currency == "" {
		currency = "USD"
	}
	period := "yearly"
	if strings.Contains(strings.ToLower(sr.Interval), "hour") {
		period = "hourly"
	}
	return &domain.SalaryRange{Min: sr.Min, Max: sr.Max, Currency: currency, Period: period}
}

func (s *Scraper) ValidateBoard(ctx context.Context, boardSlug string) (bool, error) {
	err := util.DoJSON(ctx, s.hc, s.limiter, s.pol, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodHead, s.postingsURL(boardSlug), nil)
	}, nil)
	return util.ProbeResult(err)
}

func millisTime(ms int64) *time.Time {
	if ms <= 0 {
		return nil
	}
	t := time.UnixMilli(ms).UTC()
	return &t
}
