package util

import (
	"strings"

	"genzjobs-scraper/internal/domain"
)

// NormalizeJobType maps a source-specific employment-type label ("FullTime",
// "full_time", "Permanent", "PART_TIME", ...) onto the canonical set.
// Unknown labels map to empty: the tag is optional.
func NormalizeJobType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.NewReplacer("_", " ", "-", " ").Replace(t)
	switch {
	case t == "":
		return ""
	case strings.Contains(t, "intern"):
		return domain.JobTypeInternship
	case strings.Contains(t, "part"):
		return domain.JobTypePartTime
	case strings.Contains(t, "contract"),
		strings.Contains(t, "freelance"),
		strings.Contains(t, "temp"):
		return domain.JobTypeContract
	case strings.Contains(t, "full"),
		strings.Contains(t, "permanent"),
		strings.Contains(t, "regular"):
		return domain.JobTypeFullTime
	default:
		return ""
	}
}

// DetectJobType infers the employment type from free text when the source
// exposes no structured field. Full-time is the default: boards rarely say
// it out loud.
func DetectJobType(text string) string {
	t := strings.ToLower(text)
	switch {
	case strings.Contains(t, "intern"):
		return domain.JobTypeInternship
	case strings.Contains(t, "part-time"), strings.Contains(t, "part time"):
		return domain.JobTypePartTime
	case strings.Contains(t, "contract"),
		strings.Contains(t, "freelance"),
		strings.Contains(t, "temporary"):
		return domain.JobTypeContract
	default:
		return domain.JobTypeFullTime
	}
}
