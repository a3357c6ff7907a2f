// Package recruitee scrapes Recruitee career sites through the per-tenant
// offers API (https://{slug}.recruitee.com/api/offers/).
package recruitee

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"genzjobs-scraper/internal/domain"
	"genzjobs-scraper/internal/scrape/types"
	"genzjobs-scraper/internal/scrape/util"
)

type Scraper struct {
	// BaseURL, when set, replaces the per-tenant https://{slug}.recruitee.com
	// host. Tests point it at a local server.
	BaseURL string

	hc      *http.Client
	limiter *util.HostLimiter
	log     *zap.Logger
	pol     util.RetryPolicy
}

func New(limiter *util.HostLimiter, log *zap.Logger) *Scraper {
	return &Scraper{
		hc:      &http.Client{Timeout: 30 * time.Second},
		limiter: limiter,
		log:     log.Named("recruitee"),
		pol:     util.DefaultRetryPolicy(),
	}
}

func (s *Scraper) Platform() domain.Platform { return domain.PlatformRecruitee }

func (s *Scraper) RateLimitDelay() time.Duration { return 1 * time.Second }

type offersResponse struct {
	Offers []offer `json:"offers"`
}

type offer struct {
	ID                 int64  `json:"id"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	Requirements       string `json:"requirements"`
	Location           string `json:"location"`
	City               string `json:"city"`
	Country            string `json:"country"`
	Remote             bool   `json:"remote"`
	CareersURL         string `json:"careers_url"`
	Department         string `json:"department"`
	EmploymentTypeCode string `json:"employment_type_code"`
	CreatedAt          string `json:"created_at"`
	MinSalary          string `json:"min_salary"`
	MaxSalary          string `json:"max_salary"`
	SalaryPeriod       string `json:"salary_period"`
	SalaryCurrency     string `json:"salary_currency"`
}

func (s *Scraper) offersURL(slug string) string {
	if s.BaseURL != "" {
		return s.BaseURL + "/api/offers/"
	}
	return fmt.Sprintf("https://%s.recruitee.com/api/offers/", slug)
}

func (s *Scraper) FetchJobs(ctx context.Context, boardSlug, companyName string) ([]domain.NormalizedJob, error) {
	var resp offersResponse
	err := util.DoJSON(ctx, s.hc, s.limiter, s.pol, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, s.offersURL(boardSlug), nil)
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("recruitee %s: %w", boardSlug, err)
	}

	jobs := make([]domain.NormalizedJob, 0, len(resp.Offers))
	for _, o := range resp.Offers {
		desc := util.StripHTML(o.Description + " " + o.Requirements)
		if len(desc) < types.MinDescriptionLen {
			s.log.Debug("dropping posting with broken description",
				zap.String("board", boardSlug), zap.Int64("id", o.ID))
			continue
		}

		location := o.Location
		if location == "" {
			location = joinLocation(o.City, o.Country)
		}
		hint := ""
		if o.Remote {
			hint = "remote"
		}
		jobType := util.NormalizeJobType(o.EmploymentTypeCode)
		if jobType == "" {
			jobType = util.DetectJobType(o.Title + " " + desc)
		}
		jobs = append(jobs, domain.NormalizedJob{
			Source:      domain.PlatformRecruitee,
			SourceID:    util.SourceID(domain.PlatformRecruitee, boardSlug, strconv.FormatInt(o.ID, 10)),
			Title:       util.CleanText(o.Title),
			Company:     companyName,
			Location:    util.CleanText(location),
			Remote:      util.DetectRemote(location, hint),
			Description: desc,
			ApplyURL:    o.CareersURL,
			Salary:      o.salary(desc),
			JobType:     jobType,
			Department:  o.Department,
			Skills:      util.ExtractSkills(desc),
			PostedAt:    parseTime(o.CreatedAt),
		})
	}
	return jobs, nil
}

// salary reads the structured offer fields, which arrive as decimal strings,
// and falls back to text extraction when both are empty.
func (o offer) salary(desc string) *domain.SalaryRange {
	min := atoiLoose(o.MinSalary)
	max := atoiLoose(o.MaxSalary)
	if min == 0 && max == 0 {
		return util.ExtractSalary(desc)
	}
	currency := o.SalaryCurrency
	if currency == "" {
		currency = "USD"
	}
	period := "yearly"
	if strings.Contains(strings.ToLower(o.SalaryPeriod), "hour") {
		period = "hourly"
	}
	return &domain.SalaryRange{Min: min, Max: max, Currency: currency, Period: period}
}

func (s *Scraper) ValidateBoard(ctx context.Context, boardSlug string) (bool, error) {
	err := util.DoJSON(ctx, s.hc, s.limiter, s.pol, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodHead, s.offersURL(boardSlug), nil)
	}, nil)
	return util.ProbeResult(err)
}

func atoiLoose(s string) int {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
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
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05 MST"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
