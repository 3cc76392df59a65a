package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// AnonymousAllowance is the per-minute request budget for unkeyed callers
	AnonymousAllowance = 10

	// DefaultAllowance is the per-minute budget for authenticated identities
	DefaultAllowance = 60
)

// WindowCounter increments a fixed-window counter and returns the
// post-increment count. Backed by the rate_windows table in production.
type WindowCounter interface {
	Increment(ctx context.Context, identity, endpoint string, windowStart time.Time) (int, error)
}

// Limiter enforces fixed one-minute windows per identity+endpoint.
// Authenticated identities count against the persistent counter store;
// anonymous identities get a small in-memory allowance with no persistent
// state.
type Limiter struct {
	counter   WindowCounter
	allowance int

	mu        sync.Mutex
	anon      map[string]*anonWindow
	lastSweep time.Time

	now func() time.Time
}

type anonWindow struct {
	start time.Time
	count int
}

// NewLimiter creates a limiter (DefaultAllowance when allowance <= 0)
func NewLimiter(counter WindowCounter, allowance int) *Limiter {
	if allowance <= 0 {
		allowance = DefaultAllowance
	}
	return &Limiter{
		counter:   counter,
		allowance: allowance,
		anon:      make(map[string]*anonWindow),
		now:       time.Now,
	}
}

// Allow reports whether this request fits the identity's current window and,
// when rejected, how long until the window rolls over.
func (l *Limiter) Allow(ctx context.Context, identity, endpoint string, authenticated bool) (bool, time.Duration) {
	now := l.now().UTC()
	windowStart := now.Truncate(time.Minute)
	retryAfter := windowStart.Add(time.Minute).Sub(now)

	if !authenticated || l.counter == nil {
		return l.allowAnonymous(identity, endpoint, windowStart), retryAfter
	}

	count, err := l.counter.Increment(ctx, identity, endpoint, windowStart)
	if err != nil {
		// Counter store trouble should not take the API down
		fmt.Printf("rate window increment failed for %s: %v\n", identity, err)
		return true, 0
	}

	if count > l.allowance {
		return false, retryAfter
	}
	return true, 0
}

// allowAnonymous tracks small fixed windows in memory. On each minute
// rollover every expired window is dropped, including those of identities
// that never return, so the map stays bounded by the current window's
// caller set.
func (l *Limiter) allowAnonymous(identity, endpoint string, windowStart time.Time) bool {
	key := identity + "|" + endpoint

	l.mu.Lock()
	defer l.mu.Unlock()

	if windowStart.After(l.lastSweep) {
		for k, w := range l.anon {
			if w.start.Before(windowStart) {
				delete(l.anon, k)
			}
		}
		l.lastSweep = windowStart
	}

	w, ok := l.anon[key]
	if !ok || !w.start.Equal(windowStart) {
		w = &anonWindow{start: windowStart}
		l.anon[key] = w
	}

	w.count++
	return w.count <= AnonymousAllowance
}
