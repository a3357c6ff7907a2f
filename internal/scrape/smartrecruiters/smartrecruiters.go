// Package smartrecruiters scrapes SmartRecruiters companies through the
// public postings API, paging until totalFound is exhausted. The list
// endpoint carries no description body, so one is synthesized from the
// metadata fields.
package smartrecruiters

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"genzjobs-scraper/internal/domain"
	"genzjobs-scraper/internal/scrape/types"
	"genzjobs-scraper/internal/scrape/util"
)

const (
	defaultBaseURL = "https://api.smartrecruiters.com"
	pageLimit      = 100
	// maxOffset bounds runaway pagination on boards that misreport totals.
	maxOffset = 5000
)

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
		log:     log.Named("smartrecruiters"),
		pol: util.RetryPolicy{
			MaxRetries:   3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     15 * time.Second,
			Multiplier:   2,
		},
	}
}

func (s *Scraper) Platform() domain.Platform { return domain.PlatformSmartRecruiters }

func (s *Scraper) RateLimitDelay() time.Duration { return 2 * time.Second }

type postingsResponse struct {
	Content    []posting `json:"content"`
	TotalFound int       `json:"totalFound"`
	Offset     int       `json:"offset"`
	Limit      int       `json:"limit"`
}

type posting struct {
	ID           string `json:"id"`
	UUID         string `json:"uuid"`
	Name         string `json:"name"`
	Ref          string `json:"ref"`
	ReleasedDate string `json:"releasedDate"`
	Company      struct {
		Name string `json:"name"`
	} `json:"company"`
	Location struct {
		City    string `json:"city"`
		Region  string `json:"region"`
		Country string `json:"country"`
		Remote  bool   `json:"remote"`
	} `json:"location"`
	Department struct {
		Label string `json:"label"`
	} `json:"department"`
	Function struct {
		Label string `json:"label"`
	} `json:"function"`
	TypeOfEmployment struct {
		Label string `json:"label"`
	} `json:"typeOfEmployment"`
	ExperienceLevel struct {
		Label string `json:"label"`
	} `json:"experienceLevel"`
}

func (s *Scraper) pageURL(slug string, offset int) string {
	return fmt.Sprintf("%s/v1/companies/%s/postings?limit=%d&offset=%d",
		s.BaseURL, url.PathEscape(slug), pageLimit, offset)
}

func (s *Scraper) FetchJobs(ctx context.Context, boardSlug, companyName string) ([]domain.NormalizedJob, error) {
	var jobs []domain.NormalizedJob

	offset := 0
	for {
		var page postingsResponse
		err := util.DoJSON(ctx, s.hc, s.limiter, s.pol, func(ctx context.Context) (*http.Request, error) {
			return http.NewRequestWithContext(ctx, http.MethodGet, s.pageURL(boardSlug, offset), nil)
		}, &page)
		if err != nil {
			return nil, fmt.Errorf("smartrecruiters %s offset=%d: %w", boardSlug, offset, err)
		}
		if len(page.Content) == 0 {
			break
		}

		for _, p := range page.Content {
			if j, ok := s.normalize(p, boardSlug, companyName); ok {
				jobs = append(jobs, j)
			}
		}

		offset += pageLimit
		if page.TotalFound > 0 && offset >= page.TotalFound {
			break
		}
		if offset > maxOffset {
			s.log.Warn("pagination cap hit", zap.String("board", boardSlug))
			break
		}
	}
	return jobs, nil
}

func (s *Scraper) normalize(p posting, boardSlug, companyName string) (domain.NormalizedJob, bool) {
	id := firstNonEmpty(p.ID, p.UUID, p.Ref)
	title := util.CleanText(p.Name)
	if id == "" || title == "" {
		return domain.NormalizedJob{}, false
	}

	company := companyName
	if company == "" {
		company = p.Company.Name
	}
	location := strings.Join(nonEmpty(p.Location.City, p.Location.Region, p.Location.Country), ", ")
	desc := synthesizeDescription(title, company, location, p)
	if len(desc) < types.MinDescriptionLen {
		return domain.NormalizedJob{}, false
	}

	hint := ""
	if p.Location.Remote {
		hint = "remote"
	}
	jobType := util.NormalizeJobType(p.TypeOfEmployment.Label)
	if jobType == "" {
		jobType = util.DetectJobType(title)
	}
	dept := p.Department.Label
	if dept == "" {
		dept = p.Function.Label
	}
	return domain.NormalizedJob{
		Source:      domain.PlatformSmartRecruiters,
		SourceID:    util.SourceID(domain.PlatformSmartRecruiters, boardSlug, id),
		Title:       title,
		Company:     company,
		Location:    location,
		Remote:      util.DetectRemote(location, hint),
		Description: desc,
		ApplyURL:    fmt.Sprintf("https://jobs.smartrecruiters.com/%s/%s", boardSlug, id),
		Salary:      nil,
		JobType:     jobType,
		Department:  dept,
		Skills:      util.ExtractSkills(title + " " + desc),
		PostedAt:    parseTime(p.ReleasedDate),
	}, true
}

// synthesizeDescription builds prose from the list metadata so downstream
// classification has something to chew on.
func synthesizeDescription(title, company, location string, p posting) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %s.", title, company)
	if location != "" {
		fmt.Fprintf(&b, " Location: %s.", location)
	}
	if p.Department.Label != "" {
		fmt.Fprintf(&b, " Department: %s.", p.Department.Label)
	}
	if p.Function.Label != "" {
		fmt.Fprintf(&b, " Function: %s.", p.Function.Label)
	}
	if p.TypeOfEmployment.Label != "" {
		fmt.Fprintf(&b, " Employment type: %s.", p.TypeOfEmployment.Label)
	}
	if p.ExperienceLevel.Label != "" {
		fmt.Fprintf(&b, " Experience level: %s.", p.ExperienceLevel.Label)
	}
	return util.CleanText(b.String())
}

func (s *Scraper) ValidateBoard(ctx context.Context, boardSlug string) (bool, error) {
	probe := fmt.Sprintf("%s/v1/companies/%s/postings?limit=1&offset=0",
		s.BaseURL, url.PathEscape(boardSlug))
	err := util.DoJSON(ctx, s.hc, s.limiter, s.pol, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, probe, nil)
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

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func nonEmpty(vals ...string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
