// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ratelimit spaces outbound calls to one upstream so the process
// stays inside the upstream's published quota.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

const defaultRequestsPerMinute = 10

// Limiter enforces a minimum delay between consecutive calls on one
// adapter instance. Concurrent callers serialize through Wait; that is
// the intended throttle. Waiting is never an error condition.
type Limiter struct {
	rl *rate.Limiter
}

// PerMinute returns a Limiter spacing calls at time.Minute / n. Values
// of n below 1 fall back to the default quota.
func PerMinute(n int) *Limiter {
	if n < 1 {
		n = defaultRequestsPerMinute
	}
	return &Limiter{rl: rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)}
}

// Every returns a Limiter with an explicit inter-call delay.
func Every(delay time.Duration) *Limiter {
	if delay <= 0 {
		return &Limiter{rl: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{rl: rate.NewLimiter(rate.Every(delay), 1)}
}

// Wait blocks until the minimum delay since the previous call has
// elapsed, or until ctx is cancelled. Every invocation advances the
// limiter's clock, including ones that had to wait.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.rl.Wait(ctx)
}

// Delay returns the configured minimum spacing between calls.
func (l *Limiter) Delay() time.Duration {
	if l.rl.Limit() == rate.Inf {
		return 0
	}
	return time.Duration(float64(time.Second) / float64(l.rl.Limit()))
}
