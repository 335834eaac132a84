// internal/common/retry/retry.go
package retry

import (
	"context"
	"time"
)

// Do runs fn up to attempts times, sleeping with exponential backoff between
// tries. The first attempt runs immediately; attempt n waits baseDelay*2^(n-1).
// A context cancellation during a backoff wait or surfaced by fn stops the
// loop and returns ctx.Err().
func Do(ctx context.Context, attempts int, baseDelay time.Duration, fn func(ctx context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := baseDelay * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return lastErr
}
