package greenhouse

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"genzjobs-scraper/internal/scrape/types"
	"genzjobs-scraper/internal/scrape/util"
)

func testScraper(baseURL string) *Scraper {
	s := New(nil, zap.NewNop())
	s.BaseURL = baseURL
	s.pol = util.RetryPolicy{MaxRetries: 0, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}
	return s
}

const boardJSON = `{
  "jobs": [
    {
      "id": 4001,
      "title": "Software Engineer, Payments",
      "absolute_url": "https://boards.greenhouse.io/acme/jobs/4001",
      "first_published": "2026-08-01T12:00:00-04:00",
      "location": {"name": "Remote - US"},
      "departments": [{"name": "Engineering"}],
      "content": "&lt;p&gt;Build payment infrastructure with Go and PostgreSQL. We offer $130,000 - $160,000 per year. Entry-level candidates welcome, no experience required.&lt;/p&gt;"
    },
    {
      "id": 4002,
      "title": "Broken Posting",
      "absolute_url": "https://boards.greenhouse.io/acme/jobs/4002",
      "location": {"name": "New York, NY"},
      "departments": [],
      "content": "&lt;p&gt;Short.&lt;/p&gt;"
    }
  ]
}`

func TestFetchJobs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/boards/acme/jobs" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("content") != "true" {
			t.Error("expected content=true")
		}
		w.Write([]byte(boardJSON))
	}))
	defer srv.Close()

	jobs, err := testScraper(srv.URL).FetchJobs(context.Background(), "acme", "Acme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs; expected 1 (short description dropped)", len(jobs))
	}

	j := jobs[0]
	if j.SourceID != "greenhouse:acme:4001" {
		t.Errorf("SourceID = %q", j.SourceID)
	}
	if j.Title != "Software Engineer, Payments" {
		t.Errorf("Title = %q", j.Title)
	}
	if j.Company != "Acme" {
		t.Errorf("Company = %q", j.Company)
	}
	if !j.Remote {
		t.Error("expected remote")
	}
	if j.Department != "Engineering" {
		t.Errorf("Department = %q", j.Department)
	}
	// Entity-escaped markup must come out as plain text.
	if j.Description == "" || j.Description[0] == '<' || j.Description[0] == '&' {
		t.Errorf("Description not stripped: %q", j.Description)
	}
	if j.Salary == nil || j.Salary.Min != 130000 || j.Salary.Max != 160000 {
		t.Errorf("Salary = %+v; expected 130000-160000", j.Salary)
	}
	if j.PostedAt == nil {
		t.Error("expected PostedAt")
	}
}

func TestFetchJobsBoardNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testScraper(srv.URL).FetchJobs(context.Background(), "gone", "Gone Inc")
	if !errors.Is(err, types.ErrBoardNotFound) {
		t.Errorf("error = %v; expected ErrBoardNotFound", err)
	}
}

func TestFetchJobsRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testScraper(srv.URL).FetchJobs(context.Background(), "busy", "Busy Inc")
	if !errors.Is(err, types.ErrRateLimited) {
		t.Errorf("error = %v; expected ErrRateLimited", err)
	}
}

func TestValidateBoard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/boards/acme/jobs" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := testScraper(srv.URL)
	ok, err := s.ValidateBoard(context.Background(), "acme")
	if err != nil || !ok {
		t.Errorf("ValidateBoard(acme) = %v, %v; expected true, nil", ok, err)
	}
	ok, err = s.ValidateBoard(context.Background(), "nope")
	if err != nil || ok {
		t.Errorf("ValidateBoard(nope) = %v, %v; expected false, nil", ok, err)
	}
}
