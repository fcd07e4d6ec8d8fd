package engine

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/vietddude/orglens/internal/metrics"
)

// DefaultResetMargin is added on top of the advertised reset time. The
// remote clock and ours disagree slightly, and resets are not instant.
const DefaultResetMargin = 60 * time.Second

// RateLimit is the quota state derived from a single response. It is never
// persisted; every response recomputes it.
type RateLimit struct {
	Limited   bool
	Remaining int
	Reset     time.Time
}

// ParseRateLimit inspects a response's status and rate-limit headers. A
// response signals exhaustion only when the status denies quota AND the
// remaining-calls header is present, parsable and zero. Anything else is
// left to the generic retry policy.
func ParseRateLimit(status int, remaining, reset string) RateLimit {
	if status != http.StatusForbidden && status != http.StatusTooManyRequests {
		return RateLimit{}
	}
	if remaining == "" {
		return RateLimit{}
	}

	rem, err := strconv.Atoi(remaining)
	if err != nil || rem != 0 {
		return RateLimit{Remaining: rem}
	}

	resetEpoch, err := strconv.ParseInt(reset, 10, 64)
	if err != nil {
		return RateLimit{}
	}

	return RateLimit{
		Limited: true,
		Reset:   time.Unix(resetEpoch, 0),
	}
}

// Limiter computes and applies the wait required after quota exhaustion.
// Waits are unbounded in count but bounded in duration per occurrence, and
// they are invisible to the retry policy's attempt counter.
type Limiter struct {
	margin time.Duration
	now    func() time.Time
	wait   WaitFunc
	log    *slog.Logger
}

// NewLimiter builds a limiter with the default safety margin.
func NewLimiter(log *slog.Logger) *Limiter {
	if log == nil {
		log = slog.Default()
	}
	return &Limiter{
		margin: DefaultResetMargin,
		now:    time.Now,
		wait:   Wait,
		log:    log,
	}
}

// WaitDuration returns how long the caller must suspend before re-issuing
// the call. Zero when rl does not signal exhaustion. The result is never
// negative: a reset time already in the past still yields the margin.
func (l *Limiter) WaitDuration(rl RateLimit) time.Duration {
	if !rl.Limited {
		return 0
	}
	until := rl.Reset.Sub(l.now())
	if until < 0 {
		until = 0
	}
	return until + l.margin
}

// Pause suspends until the quota window resets. The in-flight call is then
// re-issued by the caller.
func (l *Limiter) Pause(ctx context.Context, rl RateLimit) error {
	d := l.WaitDuration(rl)
	if d == 0 {
		return nil
	}

	l.log.Warn("Rate limit exhausted, waiting for reset",
		"reset_at", rl.Reset,
		"wait", d,
	)
	metrics.RateLimitWaits.Inc()
	metrics.RateLimitWaitSeconds.Add(d.Seconds())

	return l.wait(ctx, d)
}
