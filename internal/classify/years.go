package classify

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	noExperienceRe = regexp.MustCompile(`no experience (?:required|necessary|needed)`)
	entryLevelRe   = regexp.MustCompile(`entry.?level`)
	yearsRangeRe   = regexp.MustCompile(`(\d{1,2})\s*(?:to|-)\s*(\d{1,2})\s*\+?\s*years?\s*(?:of\s+)?(?:experience|exp)?`)
	yearsPlusRe    = regexp.MustCompile(`(\d{1,2})\+\s*years?\s*(?:of\s+)?(?:experience|exp)?`)
	yearsMinRe     = regexp.MustCompile(`(?:minimum|at least|min\.?)\s*(\d{1,2})\s*years?\s*(?:of\s+)?(?:experience|exp)?`)
	yearsSimpleRe  = regexp.MustCompile(`(\d{1,2})\s*years?\s*(?:of\s+)?experience`)
)

// reasonableYears rejects implausible figures so "56 years of experience"
// contributes no signal.
func reasonableYears(y int) bool {
	return y >= 0 && y <= 25
}

// ParseYearsRequired extracts a years-of-experience range from free text
// using a regex cascade: explicit no-experience/entry-level wording, "X-Y
// years", "X+ years" (max estimated at X+5), "minimum/at least X years"
// (max estimated at X+3), then a bare "X years experience". Returns nil when
// nothing plausible matches.
func ParseYearsRequired(text string) *YearsRange {
	lower := strings.ToLower(text)

	if noExperienceRe.MatchString(lower) || entryLevelRe.MatchString(lower) {
		return &YearsRange{Min: 0, Max: 0}
	}

	if m := yearsRangeRe.FindStringSubmatch(lower); m != nil {
		min, _ := strconv.Atoi(m[1])
		max, _ := strconv.Atoi(m[2])
		if reasonableYears(min) && reasonableYears(max) {
			return &YearsRange{Min: min, Max: max}
		}
	}

	if m := yearsPlusRe.FindStringSubmatch(lower); m != nil {
		y, _ := strconv.Atoi(m[1])
		if reasonableYears(y) {
			return &YearsRange{Min: y, Max: capYears(y + 5)}
		}
	}

	if m := yearsMinRe.FindStringSubmatch(lower); m != nil {
		y, _ := strconv.Atoi(m[1])
		if reasonableYears(y) {
			return &YearsRange{Min: y, Max: capYears(y + 3)}
		}
	}

	if m := yearsSimpleRe.FindStringSubmatch(lower); m != nil {
		y, _ := strconv.Atoi(m[1])
		if reasonableYears(y) {
			return &YearsRange{Min: y, Max: y}
		}
	}

	return nil
}

func capYears(y int) int {
	if y > 25 {
		return 25
	}
	return y
}
