package util

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy controls the exponential backoff wrapped around every
// adapter network call. MaxRetries counts retries, not attempts: the
// operation runs at most MaxRetries+1 times.
type RetryPolicy struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryPolicy suits the fast JSON board APIs. Slower or paginated
// sources override with longer ceilings.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:   3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     10 * time.Second,
		Multiplier:   2,
	}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialDelay
	b.MaxInterval = p.MaxDelay
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.MaxRetries)), ctx)
}

// Retry runs op under the policy, sleeping between attempts, and returns the
// last error once retries exhaust. Wrap an error with backoff.Permanent to
// fail immediately.
func Retry(ctx context.Context, p RetryPolicy, op backoff.Operation) error {
	if p.MaxRetries < 0 {
		p = DefaultRetryPolicy()
	}
	return backoff.Retry(op, p.backOff(ctx))
}
