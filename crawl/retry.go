package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/sitekb"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Retry calls fn until it succeeds, making one attempt plus one retry per
// entry in delays, sleeping delays[i] before retry i. EINVALID errors are
// permanent and returned immediately. The logger, if provided, is called
// for each retry attempt.
func Retry[T any](ctx context.Context, name string, delays []time.Duration, logger LogFunc, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err

		if sitekb.ErrorCode(err) == sitekb.EINVALID || attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger("retry %s (attempt %d): %v", name, attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return zero, lastErr
}
