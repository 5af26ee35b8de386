// Package retry re-runs operations that fail transiently, with exponential backoff.
package retry

import (
	"context"
	"fmt"
	"time"
)

const (
	defaultMaxAttempts  = 3
	defaultInitialDelay = 1 * time.Second
	defaultMaxDelay     = 10 * time.Second
)

// Config represents retry configuration.
type Config struct {
	MaxAttempts    int           // Maximum number of attempts (default: 3)
	InitialBackoff time.Duration // Initial backoff duration (default: 1s)
	MaxBackoff     time.Duration // Maximum backoff duration (default: 10s)
}

// Classifier decides whether err is worth another attempt. A positive
// after overrides the computed backoff, e.g. a server supplied retry_after.
type Classifier func(err error) (retryable bool, after time.Duration)

// Do runs fn until it succeeds, classify rejects the error, attempts run
// out or ctx is done. The last error is returned.
func Do(ctx context.Context, cfg Config, classify Classifier, fn func(ctx context.Context) error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = defaultInitialDelay
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = defaultMaxDelay
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		retryable, after := classify(err)
		if !retryable {
			return err
		}

		if attempt == cfg.MaxAttempts-1 {
			break
		}

		backoff := calculateBackoff(attempt, cfg.InitialBackoff, cfg.MaxBackoff)
		if after > 0 {
			backoff = min(after, cfg.MaxBackoff)
		}

		timer := time.NewTimer(backoff)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	return fmt.Errorf("all %d attempts failed: %w", cfg.MaxAttempts, lastErr)
}

func calculateBackoff(attempt int, initial, max time.Duration) time.Duration {
	// Calculate exponential backoff: 2^attempt * initial
	backoff := time.Duration(1<<uint(attempt)) * initial

	// Cap at maxBackoff
	if backoff > max {
		return max
	}

	return backoff
}
