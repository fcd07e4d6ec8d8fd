package engine

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"testing"
	"time"
)

func TestParseRateLimit(t *testing.T) {
	reset := strconv.FormatInt(time.Now().Add(30*time.Second).Unix(), 10)

	tests := []struct {
		name      string
		status    int
		remaining string
		reset     string
		limited   bool
	}{
		{"forbidden with zero remaining", http.StatusForbidden, "0", reset, true},
		{"too many requests with zero remaining", http.StatusTooManyRequests, "0", reset, true},
		{"ok status never limits", http.StatusOK, "0", reset, false},
		{"forbidden without header", http.StatusForbidden, "", reset, false},
		{"forbidden with quota left", http.StatusForbidden, "42", reset, false},
		{"unparsable remaining", http.StatusForbidden, "abc", reset, false},
		{"unparsable reset", http.StatusForbidden, "0", "not-a-timestamp", false},
		{"missing reset", http.StatusForbidden, "0", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := ParseRateLimit(tt.status, tt.remaining, tt.reset)
			if rl.Limited != tt.limited {
				t.Errorf("Limited = %v, want %v", rl.Limited, tt.limited)
			}
		})
	}
}

func TestLimiter_WaitDuration(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)
	l := &Limiter{
		margin: time.Minute,
		now:    func() time.Time { return fixed },
	}

	if got := l.WaitDuration(RateLimit{}); got != 0 {
		t.Errorf("unlimited wait = %v, want 0", got)
	}

	rl := RateLimit{Limited: true, Reset: fixed.Add(30 * time.Second)}
	if got := l.WaitDuration(rl); got != 90*time.Second {
		t.Errorf("wait = %v, want 90s", got)
	}

	// A reset already in the past still waits the margin.
	rl = RateLimit{Limited: true, Reset: fixed.Add(-10 * time.Second)}
	if got := l.WaitDuration(rl); got != time.Minute {
		t.Errorf("past-reset wait = %v, want 1m", got)
	}
}

func TestLimiter_Pause(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 0, 0, 0, time.UTC)
	var waited time.Duration
	l := &Limiter{
		margin: time.Minute,
		now:    func() time.Time { return fixed },
		wait: func(ctx context.Context, d time.Duration) error {
			waited = d
			return nil
		},
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	rl := RateLimit{Limited: true, Reset: fixed.Add(30 * time.Second)}
	if err := l.Pause(context.Background(), rl); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if waited != 90*time.Second {
		t.Errorf("waited %v, want 90s", waited)
	}

	waited = 0
	if err := l.Pause(context.Background(), RateLimit{}); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if waited != 0 {
		t.Errorf("unlimited pause waited %v, want none", waited)
	}
}
