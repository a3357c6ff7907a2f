package util

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"genzjobs-scraper/internal/domain"
)

var (
	salaryKRange    = regexp.MustCompile(`\$(\d{1,3})\s*[kK]\s*(?:-|–|—|to)\s*\$?\s*(\d{1,3})\s*[kK]`)
	salaryFullRange = regexp.MustCompile(`\$(\d{1,3}(?:,\d{3})*(?:\.\d+)?)\s*(?:-|–|—|to)\s*\$?\s*(\d{1,3}(?:,\d{3})*(?:\.\d+)?)`)
	salaryKSingle   = regexp.MustCompile(`\$(\d{1,3})\s*[kK]\b`)
	salaryFullAnnum = regexp.MustCompile(`\$(\d{1,3}(?:,\d{3})+|\d{4,7})\s*(?:per year|/\s*year|/\s*yr|annually|a year)`)

	hourlyCue = regexp.MustCompile(`(?i)/\s*(?:hr|hour)\b|\bper hour\b|\bhourly\b`)
)

// ExtractSalary pulls a salary range out of free text. Patterns are tried in
// order of precision: "$Xk-$Yk", "$X,XXX-$Y,YYY", a lone "$Xk", and a lone
// full value tagged per-year; lone values become a ±10% band. Returns nil
// when nothing matches, so callers must not assume salary data exists.
func ExtractSalary(text string) *domain.SalaryRange {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	if m := salaryKRange.FindStringSubmatch(text); m != nil {
		return rangeFrom(text, atoiLoose(m[1])*1000, atoiLoose(m[2])*1000)
	}
	if m := salaryFullRange.FindStringSubmatch(text); m != nil {
		return rangeFrom(text, atoiLoose(m[1]), atoiLoose(m[2]))
	}
	if m := salaryKSingle.FindStringSubmatch(text); m != nil {
		lo, hi := band(atoiLoose(m[1]) * 1000)
		return rangeFrom(text, lo, hi)
	}
	if m := salaryFullAnnum.FindStringSubmatch(text); m != nil {
		lo, hi := band(atoiLoose(m[1]))
		return rangeFrom(text, lo, hi)
	}
	return nil
}

// band turns a single quoted figure into an estimated ±10% range.
func band(v int) (int, int) {
	lo := int(math.Round(float64(v) * 0.9))
	hi := int(math.Round(float64(v) * 1.1))
	return lo, hi
}

func rangeFrom(text string, min, max int) *domain.SalaryRange {
	if min > max {
		min, max = max, min
	}
	if max <= 0 {
		return nil
	}
	period := "yearly"
	// An explicit hourly cue wins; otherwise small magnitudes read as hourly.
	if hourlyCue.MatchString(text) || max < 200 {
		period = "hourly"
	}
	return &domain.SalaryRange{Min: min, Max: max, Currency: "USD", Period: period}
}

func atoiLoose(s string) int {
	s = strings.ReplaceAll(s, ",", "")
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	n, _ := strconv.Atoi(s)
	return n
}
