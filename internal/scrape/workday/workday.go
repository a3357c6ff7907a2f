// Package workday scrapes Workday career sites through the cxs JSON API.
// It is the only two-phase adapter: a paginated POST lists postings, then a
// per-job GET fills in the description.
package workday

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"genzjobs-scraper/internal/domain"
	"genzjobs-scraper/internal/scrape/types"
	"genzjobs-scraper/internal/scrape/util"
)

const pageLimit = 50

type Scraper struct {
	// BaseURL, when set, replaces the https://{tenant}.{server}.myworkdayjobs.com
	// host derived from the board id. Tests point it at a local server.
	BaseURL string

	hc      *http.Client
	limiter *util.HostLimiter
	log     *zap.Logger
	pol     util.RetryPolicy

	// detailDelay spaces out the per-job detail calls.
	detailDelay time.Duration
	now         func() time.Time
}

func New(limiter *util.HostLimiter, log *zap.Logger) *Scraper {
	return &Scraper{
		hc:      &http.Client{Timeout: 30 * time.Second},
		limiter: limiter,
		log:     log.Named("workday"),
		pol: util.RetryPolicy{
			MaxRetries:   2,
			InitialDelay: 2 * time.Second,
			MaxDelay:     20 * time.Second,
			Multiplier:   2,
		},
		detailDelay: 200 * time.Millisecond,
		now:         time.Now,
	}
}

func (s *Scraper) Platform() domain.Platform { return domain.PlatformWorkday }

func (s *Scraper) RateLimitDelay() time.Duration { return 3 * time.Second }

// board is the decoded "tenant.server.site" identifier.
type board struct {
	Tenant string
	Server string
	Site   string
}

// parseBoardID validates the dotted board identifier before any network
// call. Anything other than exactly three non-empty parts is malformed and
// never retried.
func parseBoardID(raw string) (board, error) {
	parts := strings.Split(strings.TrimSpace(raw), ".")
	if len(parts) != 3 {
		return board{}, &types.MalformedBoardIDError{
			Platform: string(domain.PlatformWorkday),
			BoardID:  raw,
			Reason:   "want tenant.server.site",
		}
	}
	for _, p := range parts {
		if p == "" {
			return board{}, &types.MalformedBoardIDError{
				Platform: string(domain.PlatformWorkday),
				BoardID:  raw,
				Reason:   "empty segment",
			}
		}
	}
	return board{Tenant: parts[0], Server: parts[1], Site: parts[2]}, nil
}

func (s *Scraper) baseURL(b board) string {
	if s.BaseURL != "" {
		return s.BaseURL
	}
	return fmt.Sprintf("https://%s.%s.myworkdayjobs.com", b.Tenant, b.Server)
}

type listRequest struct {
	AppliedFacets map[string]any `json:"appliedFacets"`
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
	SearchText    string         `json:"searchText"`
}

type listResponse struct {
	Total       int       `json:"total"`
	JobPostings []posting `json:"jobPostings"`
}

type posting struct {
	Title         string   `json:"title"`
	ExternalPath  string   `json:"externalPath"`
	LocationsText string   `json:"locationsText"`
	PostedOn      string   `json:"postedOn"`
	BulletFields  []string `json:"bulletFields"`
}

type detailResponse struct {
	JobPostingInfo struct {
		ID             string `json:"id"`
		Title          string `json:"title"`
		JobDescription string `json:"jobDescription"`
		Location       string `json:"location"`
		PostedOn       string `json:"postedOn"`
		StartDate      string `json:"startDate"`
		TimeType       string `json:"timeType"`
		ExternalURL    string `json:"externalUrl"`
		JobReqID       string `json:"jobReqId"`
	} `json:"jobPostingInfo"`
}

func (s *Scraper) FetchJobs(ctx context.Context, boardSlug, companyName string) ([]domain.NormalizedJob, error) {
	b, err := parseBoardID(boardSlug)
	if err != nil {
		return nil, err
	}
	base := s.baseURL(b)
	listURL := fmt.Sprintf("%s/wday/cxs/%s/%s/jobs", base, b.Tenant, b.Site)

	var found []posting
	offset := 0
	for {
		body, err := json.Marshal(listRequest{
			AppliedFacets: map[string]any{},
			Limit:         pageLimit,
			Offset:        offset,
		})
		if err != nil {
			return nil, err
		}
		var page listResponse
		err = util.DoJSON(ctx, s.hc, s.limiter, s.pol, func(ctx context.Context) (*http.Request, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, listURL, bytes.NewReader(body))
			if err != nil {
				return nil, err
			}
			req.Header.Set("Content-Type", "application/json")
			return req, nil
		}, &page)
		if err != nil {
			return nil, fmt.Errorf("workday %s offset=%d: %w", boardSlug, offset, err)
		}
		found = append(found, page.JobPostings...)

		offset += pageLimit
		if len(page.JobPostings) == 0 || offset >= page.Total {
			break
		}
	}

	jobs := make([]domain.NormalizedJob, 0, len(found))
	for i, p := range found {
		if i > 0 {
			select {
			case <-ctx.Done():
				return jobs, ctx.Err()
			case <-time.After(s.detailDelay):
			}
		}
		j, err := s.fetchDetail(ctx, b, base, boardSlug, companyName, p)
		if err != nil {
			// One broken posting must not sink the rest of the board.
			s.log.Warn("skipping posting",
				zap.String("board", boardSlug),
				zap.String("path", p.ExternalPath),
				zap.Error(err))
			continue
		}
		if j != nil {
			jobs = append(jobs, *j)
		}
	}
	return jobs, nil
}

func (s *Scraper) fetchDetail(ctx context.Context, b board, base, boardSlug, companyName string, p posting) (*domain.NormalizedJob, error) {
	detailURL := fmt.Sprintf("%s/wday/cxs/%s/%s%s", base, b.Tenant, b.Site, p.ExternalPath)

	var detail detailResponse
	err := util.DoJSON(ctx, s.hc, s.limiter, s.pol, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, detailURL, nil)
	}, &detail)
	if err != nil {
		return nil, err
	}
	info := detail.JobPostingInfo

	desc := util.StripHTML(info.JobDescription)
	if len(desc) < types.MinDescriptionLen {
		return nil, nil
	}

	id := info.ID
	if id == "" {
		id = info.JobReqID
	}
	if id == "" {
		id = util.HashString(p.ExternalPath)
	}
	title := util.CleanText(info.Title)
	if title == "" {
		title = util.CleanText(p.Title)
	}
	location := util.CleanText(info.Location)
	if location == "" {
		location = util.CleanText(p.LocationsText)
	}
	applyURL := info.ExternalURL
	if applyURL == "" {
		applyURL = fmt.Sprintf("%s/%s%s", base, b.Site, p.ExternalPath)
	}
	postedOn := info.PostedOn
	if postedOn == "" {
		postedOn = p.PostedOn
	}
	jobType := util.NormalizeJobType(info.TimeType)
	if jobType == "" {
		jobType = util.DetectJobType(title + " " + desc)
	}
	return &domain.NormalizedJob{
		Source:      domain.PlatformWorkday,
		SourceID:    util.SourceID(domain.PlatformWorkday, boardSlug, id),
		Title:       title,
		Company:     companyName,
		Location:    location,
		Remote:      util.DetectRemote(location, ""),
		Description: desc,
		ApplyURL:    applyURL,
		Salary:      util.ExtractSalary(desc),
		JobType:     jobType,
		Skills:      util.ExtractSkills(desc),
		PostedAt:    parsePostedOn(postedOn, s.now()),
	}, nil
}

var daysAgoRe = regexp.MustCompile(`(\d+)\+?\s*days?\s+ago`)

// parsePostedOn decodes the relative dates the listing endpoint serves
// ("Posted Today", "Posted Yesterday", "Posted 7 Days Ago", "Posted 30+
// Days Ago"). The result is a floor, not an exact timestamp.
func parsePostedOn(raw string, now time.Time) *time.Time {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.TrimPrefix(t, "posted ")
	switch {
	case t == "":
		return nil
	case strings.Contains(t, "today"):
		return &now
	case strings.Contains(t, "yesterday"):
		d := now.AddDate(0, 0, -1)
		return &d
	}
	if m := daysAgoRe.FindStringSubmatch(t); m != nil {
		n := 0
		fmt.Sscanf(m[1], "%d", &n)
		d := now.AddDate(0, 0, -n)
		return &d
	}
	return nil
}

func (s *Scraper) ValidateBoard(ctx context.Context, boardSlug string) (bool, error) {
	b, err := parseBoardID(boardSlug)
	if err != nil {
		return false, nil
	}
	base := s.baseURL(b)
	listURL := fmt.Sprintf("%s/wday/cxs/%s/%s/jobs", base, b.Tenant, b.Site)

	body, err := json.Marshal(listRequest{AppliedFacets: map[string]any{}, Limit: 1})
	if err != nil {
		return false, err
	}
	err = util.DoJSON(ctx, s.hc, s.limiter, s.pol, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, listURL, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	}, nil)
	return util.ProbeResult(err)
}
