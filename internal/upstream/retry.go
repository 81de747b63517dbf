package upstream

import (
	"context"
	"time"
)

const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 200 * time.Millisecond
)

// Retry runs fn up to maxRetries times, sleeping delay*2^attempt between
// attempts. Only retryable failures (network, 5xx, 429) are reissued; the
// last error is returned verbatim once attempts are exhausted.
func Retry(ctx context.Context, maxRetries int, delay time.Duration, fn func(context.Context) error) error {
	if maxRetries < 1 {
		maxRetries = DefaultMaxRetries
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !Retryable(lastErr) || attempt == maxRetries-1 {
			return lastErr
		}

		backoff := delay * (1 << attempt)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
