package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/orglens/internal/metrics"
)

// ErrRetryExhausted is returned after an operation failed on every attempt.
var ErrRetryExhausted = errors.New("retry exhausted")

// PermanentError wraps an error that must not be retried, such as malformed
// item data. The retry loop stops on it immediately and the failure is
// isolated to the current item.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent: %v", e.Err)
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent marks err as non-retryable.
func Permanent(err error) error {
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err is classified as non-retryable.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}

// RetryConfig defines retry behavior.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Wait        WaitFunc
	Log         *slog.Logger
}

// DefaultRetryConfig provides sensible defaults.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts: 3,
	BaseDelay:   1 * time.Second,
}

// ExecuteWithRetry runs op up to cfg.MaxAttempts times. Attempt k (0-indexed)
// is followed by a 2^k * BaseDelay backoff before the next try. Permanent
// errors and context cancellation stop the loop immediately. Rate-limit
// waits happen inside op and are not counted against the attempt budget.
func ExecuteWithRetry[T any](ctx context.Context, cfg RetryConfig, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if cfg.MaxAttempts < 1 {
		return zero, fmt.Errorf("max attempts must be >= 1, got %d", cfg.MaxAttempts)
	}
	wait := cfg.Wait
	if wait == nil {
		wait = Wait
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	base := cfg.BaseDelay
	if base == 0 {
		base = DefaultRetryConfig.BaseDelay
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}

		if IsPermanent(err) {
			return zero, err
		}
		// Cancellation is not an operation failure; stop without counting
		// it against the budget or wrapping it in exhaustion.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}
		lastErr = err

		if attempt == cfg.MaxAttempts-1 {
			break
		}

		delay := base << uint(attempt)
		log.Warn("Operation failed, retrying",
			"attempt", attempt+1,
			"max_attempts", cfg.MaxAttempts,
			"backoff", delay,
			"error", err,
		)
		metrics.RetryAttempts.Inc()

		if err := wait(ctx, delay); err != nil {
			return zero, err
		}
	}

	return zero, fmt.Errorf("%w: failed after %d attempts: %w", ErrRetryExhausted, cfg.MaxAttempts, lastErr)
}
