package util

import "testing"

func TestDetectRemote(t *testing.T) {
	testCases := []struct {
		name     string
		location string
		hint     string
		expected bool
	}{
		{"plain remote location", "Remote", "", true},
		{"remote with region", "Remote - US", "", true},
		{"anywhere", "Anywhere", "", true},
		{"wfh", "WFH optional", "", true},
		{"office location", "New York, NY", "", false},
		{"hybrid location", "Hybrid - San Francisco", "", false},
		{"hint remote beats office location", "New York, NY", "remote", true},
		{"hint hybrid beats remote location", "Remote", "hybrid", false},
		{"hint onsite beats remote location", "Remote friendly", "onsite", false},
		{"empty everything", "", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectRemote(tc.location, tc.hint)
			if got != tc.expected {
				t.Errorf("DetectRemote(%q, %q) = %v; expected %v", tc.location, tc.hint, got, tc.expected)
			}
		})
	}
}
