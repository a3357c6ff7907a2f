package util

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"genzjobs-scraper/internal/scrape/types"
)

const userAgent = "genzjobs-scraper/1.0 (+jobs)"

// DoJSON performs one logical JSON request under the retry policy: waits on
// the per-host limiter, sends, maps non-2xx statuses to the domain error
// kinds, and unmarshals into out (may be nil). 404/429/5xx are all retried
// equally; decode failures are permanent.
func DoJSON(
	ctx context.Context,
	hc *http.Client,
	lim *HostLimiter,
	pol RetryPolicy,
	build func(context.Context) (*http.Request, error),
	out any,
) error {
	op := func() error {
		req, err := build(ctx)
		if err != nil {
			return backoff.Permanent(err)
		}
		if req.Header.Get("User-Agent") == "" {
			req.Header.Set("User-Agent", userAgent)
		}
		req.Header.Set("Accept", "application/json")

		if lim != nil {
			if err := lim.WaitURL(ctx, req.URL.String()); err != nil {
				return backoff.Permanent(err)
			}
		}

		res, err := hc.Do(req)
		if err != nil {
			return err
		}
		body, readErr := io.ReadAll(res.Body)
		res.Body.Close()

		if err := types.StatusError(res.StatusCode, req.URL.String()); err != nil {
			return err
		}
		if readErr != nil {
			return readErr
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode %s: %w body=%s", req.URL, err, snippet(body, 240)))
		}
		return nil
	}
	return Retry(ctx, pol, op)
}

// ProbeResult folds a validation-probe error into the existence answer. A
// definitive 404 means "board does not exist"; any other failure is a
// transport error the caller should surface.
func ProbeResult(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, types.ErrBoardNotFound) {
		return false, nil
	}
	return false, err
}

func snippet(b []byte, max int) string {
	s := strings.Join(strings.Fields(string(b)), " ")
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
