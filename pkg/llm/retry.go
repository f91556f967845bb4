package llm

import (
	"context"
	"time"
)

const (
	// DefaultRetries is the retry ceiling for generic model calls.
	DefaultRetries = 5

	baseBackoff = 800 * time.Millisecond
	// hintBuffer is added on top of a server-suggested retry delay.
	hintBuffer = 500 * time.Millisecond
)

// WithRetry runs fn up to retries+1 times, backing off exponentially between
// attempts. Only errors in the recognized-transient set are retried. If the
// upstream error carries a suggested retry delay, that delay (plus a small
// buffer) replaces the computed backoff.
func WithRetry(ctx context.Context, retries int, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= retries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !IsRetryable(lastErr) || attempt == retries {
			break
		}

		delay := baseBackoff * (1 << attempt)
		if hint, ok := RetryAfterHint(lastErr); ok {
			delay = hint + hintBuffer
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return lastErr
}
