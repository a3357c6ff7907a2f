package util

import "strings"

// remoteKeywords matches location strings that imply fully remote work.
var remoteKeywords = []string{
	"remote",
	"anywhere",
	"work from home",
	"wfh",
	"distributed",
	"telecommute",
	"virtual",
}

// DetectRemote decides whether a posting is remote. An explicit
// workplace-type hint from the source ("remote"/"hybrid"/"onsite") takes
// precedence over keyword matching; hybrid anywhere forces false.
func DetectRemote(location, workplaceHint string) bool {
	hint := strings.ToLower(strings.TrimSpace(workplaceHint))
	loc := strings.ToLower(strings.TrimSpace(location))

	switch {
	case strings.Contains(hint, "hybrid"):
		return false
	case strings.Contains(hint, "remote"):
		return true
	case strings.Contains(hint, "onsite"), strings.Contains(hint, "on-site"), strings.Contains(hint, "on_site"):
		return false
	}

	if strings.Contains(loc, "hybrid") {
		return false
	}
	for _, kw := range remoteKeywords {
		if strings.Contains(loc, kw) {
			return true
		}
	}
	return false
}
