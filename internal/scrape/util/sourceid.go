package util

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"genzjobs-scraper/internal/domain"
)

// SourceID builds the composite key a job dedupes on. It must be stable
// across re-scrapes so repeated observations land on the same row.
func SourceID(platform domain.Platform, boardSlug, externalID string) string {
	return fmt.Sprintf("%s:%s:%s",
		platform,
		strings.ToLower(strings.TrimSpace(boardSlug)),
		strings.TrimSpace(externalID),
	)
}

// HashString gives a short stable token for sources that expose no usable
// external id (hashed from the apply URL).
func HashString(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}
