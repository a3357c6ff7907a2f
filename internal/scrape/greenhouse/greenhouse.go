// Package greenhouse scrapes public Greenhouse job boards through the
// boards-api JSON endpoint.
package greenhouse

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"genzjobs-scraper/internal/domain"
	"genzjobs-scraper/internal/scrape/types"
	"genzjobs-scraper/internal/scrape/util"
)

const defaultBaseURL = "https://boards-api.greenhouse.io"

type Scraper struct {
	// BaseURL is overridable for tests.
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
		log:     log.Named("greenhouse"),
		pol:     util.DefaultRetryPolicy(),
	}
}

func (s *Scraper) Platform() domain.Platform { return domain.PlatformGreenhouse }

func (s *Scraper) RateLimitDelay() time.Duration { return 1 * time.Second }

type boardResponse struct {
	Jobs []posting `json:"jobs"`
}

type posting struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	AbsoluteURL    string `json:"absolute_url"`
	Content        string `json:"content"`
	UpdatedAt      string `json:"updated_at"`
	FirstPublished string `json:"first_published"`
	Location       struct {
		Name string `json:"name"`
	} `json:"location"`
	Departments []struct {
		Name string `json:"name"`
	} `json:"departments"`
}

func (s *Scraper) boardURL(slug string) string {
	return fmt.Sprintf("%s/v1/boards/%s/jobs?content=true", s.BaseURL, slug)
}

func (s *Scraper) FetchJobs(ctx context.Context, boardSlug, companyName string) ([]domain.NormalizedJob, error) {
	var resp boardResponse
	err := util.DoJSON(ctx, s.hc, s.limiter, s.pol, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, s.boardURL(boardSlug), nil)
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("greenhouse %s: %w", boardSlug, err)
	}

	jobs := make([]domain.NormalizedJob, 0, len(resp.Jobs))
	for _, p := range resp.Jobs {
		// content arrives HTML entity-escaped ("&lt;p&gt;...").
		desc := util.StripHTML(html.UnescapeString(p.Content))
		if len(desc) < types.MinDescriptionLen {
			s.log.Debug("dropping posting with broken description",
				zap.String("board", boardSlug), zap.Int64("id", p.ID))
			continue
		}

		dept := ""
		if len(p.Departments) > 0 {
			dept = p.Departments[0].Name
		}
		jobs = append(jobs, domain.NormalizedJob{
			Source:      domain.PlatformGreenhouse,
			SourceID:    util.SourceID(domain.PlatformGreenhouse, boardSlug, strconv.FormatInt(p.ID, 10)),
			Title:       util.CleanText(p.Title),
			Company:     companyName,
			Location:    util.CleanText(p.Location.Name),
			Remote:      util.DetectRemote(p.Location.Name, ""),
			Description: desc,
			ApplyURL:    p.AbsoluteURL,
			Salary:      util.ExtractSalary(desc),
			JobType:     util.DetectJobType(p.Title + " " + desc),
			Department:  dept,
			Skills:      util.ExtractSkills(desc),
			PostedAt:    parseTime(p.FirstPublished, p.UpdatedAt),
		})
	}
	return jobs, nil
}

func (s *Scraper) ValidateBoard(ctx context.Context, boardSlug string) (bool, error) {
	err := util.DoJSON(ctx, s.hc, s.limiter, s.pol, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodHead, s.boardURL(boardSlug), nil)
	}, nil)
	return util.ProbeResult(err)
}

func parseTime(candidates ...string) *time.Time {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, c); err == nil {
			return &t
		}
	}
	return nil
}
