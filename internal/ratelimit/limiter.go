// Package ratelimit paces outbound calls to the geocoding provider.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter gates outbound provider calls. Implementations must be safe for
// concurrent use; one instance is shared by every caller in the process so
// the provider's rate contract holds regardless of who is calling.
type Limiter interface {
	// Throttle blocks until the next provider call is permitted. It only
	// fails when the context is cancelled first.
	Throttle(ctx context.Context) error
}

// IntervalLimiter enforces a minimum spacing between successive calls: a
// token bucket with burst 1 refilling once per interval means no two calls
// can ever be less than the interval apart. Utilization is deliberately
// coarse; the provider contract needs spacing, not throughput.
type IntervalLimiter struct {
	limiter *rate.Limiter
}

// NewIntervalLimiter creates a limiter spacing calls by at least minInterval.
func NewIntervalLimiter(minInterval time.Duration) *IntervalLimiter {
	return &IntervalLimiter{
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

func (l *IntervalLimiter) Throttle(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// NopLimiter never waits. Used by tests and available for deployments that
// run their own proxy with server-side rate limiting.
type NopLimiter struct{}

func (NopLimiter) Throttle(_ context.Context) error { return nil }
