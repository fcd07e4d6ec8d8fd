package engine

import (
	"context"
	"time"
)

// WaitFunc suspends the caller for d, honoring context cancellation. It is
// the only suspension primitive the engine uses, so tests substitute a
// virtual-time implementation instead of sleeping.
type WaitFunc func(ctx context.Context, d time.Duration) error

// Wait is the wall-clock WaitFunc.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
