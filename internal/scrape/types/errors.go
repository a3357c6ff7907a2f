package types

import (
	"errors"
	"fmt"
)

// Sentinel error kinds shared by all adapters. The orchestrator treats every
// one of them as a company-level failure once adapter retries exhaust.
var (
	// ErrBoardNotFound maps HTTP 404: the board/company is misconfigured.
	ErrBoardNotFound = errors.New("board not found")
	// ErrRateLimited maps HTTP 429.
	ErrRateLimited = errors.New("rate limited")
)

// APIError covers any other non-2xx response.
type APIError struct {
	URL        string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s status=%d", e.URL, e.StatusCode)
}

// MalformedBoardIDError reports a board identifier that fails format
// validation. It is raised before any network call and never retried.
type MalformedBoardIDError struct {
	Platform string
	BoardID  string
	Reason   string
}

func (e *MalformedBoardIDError) Error() string {
	return fmt.Sprintf("%s: malformed board id %q: %s", e.Platform, e.BoardID, e.Reason)
}

// StatusError maps an HTTP status to the domain error kinds. 2xx maps to nil.
func StatusError(statusCode int, url string) error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == 404:
		return fmt.Errorf("%s: %w", url, ErrBoardNotFound)
	case statusCode == 429:
		return fmt.Errorf("%s: %w", url, ErrRateLimited)
	default:
		return &APIError{URL: url, StatusCode: statusCode}
	}
}
