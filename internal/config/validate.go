package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"genzjobs-scraper/internal/domain"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate fills defaults, trims the seed list, and reports
// anything an operator got wrong.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	if out.App.DataDir == "" {
		out.App.DataDir = "./data"
	}
	if out.App.DBPath == "" {
		out.App.DBPath = filepath.Join(out.App.DataDir, "jobs.db")
	}
	if out.App.LogLevel == "" {
		out.App.LogLevel = "info"
	}
	switch out.App.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		res.addErr("app.log_level must be one of debug|info|warn|error, got %q", out.App.LogLevel)
	}

	if out.Scrape.IntervalMinutes <= 0 {
		out.Scrape.IntervalMinutes = 360
	} else if out.Scrape.IntervalMinutes < 30 {
		res.addWarn("scrape.interval_minutes is very low (%d) and may trip provider rate limits.", out.Scrape.IntervalMinutes)
	}
	if out.Scrape.TimeBudgetMinutes < 0 {
		res.addErr("scrape.time_budget_minutes must be >= 0")
	}
	if out.Scrape.RequestsPerSecond <= 0 {
		out.Scrape.RequestsPerSecond = 2
	}
	if out.Scrape.Burst <= 0 {
		out.Scrape.Burst = 1
	}
	if out.Scrape.FailureThreshold <= 0 {
		out.Scrape.FailureThreshold = 5
	}

	if out.Cleanup.IntervalHours <= 0 {
		out.Cleanup.IntervalHours = 24
	}
	if out.Cleanup.StaleAfterDays <= 0 {
		out.Cleanup.StaleAfterDays = 7
	}
	if out.Cleanup.ReactivateWindowHours <= 0 {
		out.Cleanup.ReactivateWindowHours = 24
	}

	// Seed list sanity: bad entries are errors, duplicates warnings.
	seen := map[string]bool{}
	var companies []CompanyEntry
	for i, c := range out.Companies {
		c.Platform = strings.ToLower(strings.TrimSpace(c.Platform))
		c.Slug = strings.TrimSpace(c.Slug)
		c.Name = strings.TrimSpace(c.Name)

		if _, ok := domain.ParsePlatform(c.Platform); !ok {
			res.addErr("companies[%d]: unknown platform %q", i, c.Platform)
			continue
		}
		if c.Slug == "" {
			res.addErr("companies[%d]: slug is required", i)
			continue
		}
		if c.Name == "" {
			res.addWarn("companies[%d]: name is empty; the slug will stand in for it", i)
			c.Name = c.Slug
		}
		key := c.Platform + ":" + strings.ToLower(c.Slug)
		if seen[key] {
			res.addWarn("companies[%d]: duplicate entry %s", i, key)
			continue
		}
		seen[key] = true
		companies = append(companies, c)
	}
	out.Companies = companies

	return out, res
}
