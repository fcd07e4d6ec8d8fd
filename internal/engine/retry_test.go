package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestExecuteWithRetry_ExhaustsAttempts(t *testing.T) {
	var delays []time.Duration
	recordWait := func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	calls := 0
	_, err := ExecuteWithRetry(context.Background(), RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   10 * time.Millisecond,
		Wait:        recordWait,
	}, func(ctx context.Context) (string, error) {
		calls++
		return "", errors.New("transient")
	})

	if calls != 3 {
		t.Errorf("op called %d times, want 3", calls)
	}
	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("error = %v, want ErrRetryExhausted", err)
	}
	// Backoff doubles per attempt; no wait after the last one.
	want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}
	if len(delays) != len(want) {
		t.Fatalf("delays = %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestExecuteWithRetry_PermanentFailsFast(t *testing.T) {
	calls := 0
	_, err := ExecuteWithRetry(context.Background(), RetryConfig{
		MaxAttempts: 3,
		Wait:        noWait,
	}, func(ctx context.Context) (string, error) {
		calls++
		return "", Permanent(errors.New("malformed item"))
	})

	if calls != 1 {
		t.Errorf("op called %d times, want 1", calls)
	}
	if !IsPermanent(err) {
		t.Errorf("error = %v, want permanent", err)
	}
	if errors.Is(err, ErrRetryExhausted) {
		t.Error("permanent error must not report exhaustion")
	}
}

func TestExecuteWithRetry_EventualSuccess(t *testing.T) {
	calls := 0
	got, err := ExecuteWithRetry(context.Background(), RetryConfig{
		MaxAttempts: 3,
		Wait:        noWait,
	}, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" || calls != 3 {
		t.Errorf("got %q after %d calls, want ok after 3", got, calls)
	}
}

func TestExecuteWithRetry_ContextErrorStopsImmediately(t *testing.T) {
	calls := 0
	_, err := ExecuteWithRetry(context.Background(), RetryConfig{
		MaxAttempts: 3,
		Wait:        noWait,
	}, func(ctx context.Context) (string, error) {
		calls++
		return "", fmt.Errorf("fetch aborted: %w", context.Canceled)
	})

	if calls != 1 {
		t.Errorf("op called %d times, want 1", calls)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if errors.Is(err, ErrRetryExhausted) {
		t.Error("cancellation must not report exhaustion")
	}
}

func TestExecuteWithRetry_StopsWhenWaitFails(t *testing.T) {
	_, err := ExecuteWithRetry(context.Background(), RetryConfig{
		MaxAttempts: 3,
		Wait: func(ctx context.Context, d time.Duration) error {
			return context.Canceled
		},
	}, func(ctx context.Context) (string, error) {
		return "", errors.New("transient")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
