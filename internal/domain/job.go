package domain

import "time"

// Platform identifies the ATS a job was scraped from.
type Platform string

const (
	PlatformGreenhouse      Platform = "greenhouse"
	PlatformLever           Platform = "lever"
	PlatformAshby           Platform = "ashby"
	PlatformSmartRecruiters Platform = "smartrecruiters"
	PlatformWorkday         Platform = "workday"
	PlatformWorkable        Platform = "workable"
	PlatformRecruitee       Platform = "recruitee"
)

// AllPlatforms lists every supported ATS.
var AllPlatforms = []Platform{
	PlatformGreenhouse,
	PlatformLever,
	PlatformAshby,
	PlatformSmartRecruiters,
	PlatformWorkday,
	PlatformWorkable,
	PlatformRecruitee,
}

func ParsePlatform(s string) (Platform, bool) {
	for _, p := range AllPlatforms {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Canonical employment-type tags. Source vocabularies ("FullTime",
// "full_time", "Permanent", ...) are normalized into this set.
const (
	JobTypeFullTime   = "full-time"
	JobTypePartTime   = "part-time"
	JobTypeContract   = "contract"
	JobTypeInternship = "internship"
)

type SalaryRange struct {
	Min      int
	Max      int
	Currency string
	Period   string // yearly | hourly
}

// NormalizedJob is the canonical shape every adapter converges to before
// classification and persistence.
type NormalizedJob struct {
	Source      Platform
	SourceID    string
	Title       string
	Company     string
	Location    string
	Remote      bool
	Description string
	ApplyURL    string
	Salary      *SalaryRange
	JobType     string
	Department  string
	Skills      []string
	PostedAt    *time.Time
}
