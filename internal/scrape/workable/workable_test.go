package workable

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"genzjobs-scraper/internal/scrape/util"
)

const accountJSON = `{
  "name": "Acme Security",
  "jobs": [
    {
      "title": "Security Analyst",
      "shortcode": "SEC01",
      "country": "United States",
      "state": "Maryland",
      "city": "Columbia",
      "department": "SOC",
      "url": "https://apply.workable.com/acme/j/SEC01",
      "application_url": "https://apply.workable.com/acme/j/SEC01/apply",
      "description": "<p>Monitor alerts and investigate incidents.</p>",
      "requirements": "<p>Familiarity with SIEM tooling and Python scripting.</p>",
      "benefits": "<p>Healthcare and 401k.</p>",
      "employment_type": "Full-time",
      "telecommuting": true,
      "created_at": "2026-07-30"
    }
  ]
}`

func TestFetchJobs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/accounts/acme" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("details") != "true" {
			t.Error("expected details=true")
		}
		w.Write([]byte(accountJSON))
	}))
	defer srv.Close()

	s := New(nil, zap.NewNop())
	s.BaseURL = srv.URL
	s.pol = util.RetryPolicy{MaxRetries: 0, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}

	// Empty company name falls back to the account name.
	jobs, err := s.FetchJobs(context.Background(), "acme", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("got %d jobs; expected 1", len(jobs))
	}

	j := jobs[0]
	if j.SourceID != "workable:acme:SEC01" {
		t.Errorf("SourceID = %q", j.SourceID)
	}
	if j.Company != "Acme Security" {
		t.Errorf("Company = %q; expected account name fallback", j.Company)
	}
	if j.Location != "Columbia, Maryland, United States" {
		t.Errorf("Location = %q", j.Location)
	}
	if !j.Remote {
		t.Error("telecommuting flag must read as remote")
	}
	// Description folds in requirements and benefits.
	if len(j.Description) < 50 {
		t.Errorf("Description too short: %q", j.Description)
	}
	if j.ApplyURL != "https://apply.workable.com/acme/j/SEC01/apply" {
		t.Errorf("ApplyURL = %q", j.ApplyURL)
	}
	if j.PostedAt == nil {
		t.Error("expected PostedAt from created_at date")
	}
}
