package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// fakeCounter is an in-memory WindowCounter
type fakeCounter struct {
	counts map[string]int
	fail   bool
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: make(map[string]int)}
}

func (f *fakeCounter) Increment(_ context.Context, identity, endpoint string, windowStart time.Time) (int, error) {
	if f.fail {
		return 0, fmt.Errorf("counter store down")
	}
	key := identity + "|" + endpoint + "|" + windowStart.Format(time.RFC3339)
	f.counts[key]++
	return f.counts[key], nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAllowAuthenticatedWithinAllowance(t *testing.T) {
	l := NewLimiter(newFakeCounter(), 3)
	l.now = fixedClock(time.Date(2026, 9, 1, 12, 0, 30, 0, time.UTC))

	for i := 0; i < 3; i++ {
		ok, _ := l.Allow(context.Background(), "key-1", "/api/NFL/player-props", true)
		if !ok {
			t.Fatalf("request %d rejected inside allowance", i+1)
		}
	}

	ok, retryAfter := l.Allow(context.Background(), "key-1", "/api/NFL/player-props", true)
	if ok {
		t.Fatal("request over allowance was allowed")
	}
	if retryAfter != 30*time.Second {
		t.Errorf("retryAfter = %v, want 30s until the window rolls over", retryAfter)
	}
}

func TestAllowWindowRollover(t *testing.T) {
	counter := newFakeCounter()
	l := NewLimiter(counter, 2)
	l.now = fixedClock(time.Date(2026, 9, 1, 12, 0, 59, 0, time.UTC))

	l.Allow(context.Background(), "key-1", "/e", true)
	l.Allow(context.Background(), "key-1", "/e", true)
	if ok, _ := l.Allow(context.Background(), "key-1", "/e", true); ok {
		t.Fatal("window should be exhausted")
	}

	// Next minute starts a fresh window
	l.now = fixedClock(time.Date(2026, 9, 1, 12, 1, 0, 0, time.UTC))
	if ok, _ := l.Allow(context.Background(), "key-1", "/e", true); !ok {
		t.Error("fresh window should allow again")
	}
}

func TestAllowIdentitiesAndEndpointsIsolated(t *testing.T) {
	l := NewLimiter(newFakeCounter(), 1)
	l.now = fixedClock(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	l.Allow(context.Background(), "key-1", "/a", true)

	if ok, _ := l.Allow(context.Background(), "key-2", "/a", true); !ok {
		t.Error("second identity must have its own window")
	}
	if ok, _ := l.Allow(context.Background(), "key-1", "/b", true); !ok {
		t.Error("second endpoint must have its own window")
	}
}

func TestAllowFailsOpenOnCounterError(t *testing.T) {
	l := NewLimiter(&fakeCounter{fail: true}, 1)
	l.now = fixedClock(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	for i := 0; i < 5; i++ {
		ok, _ := l.Allow(context.Background(), "key-1", "/e", true)
		if !ok {
			t.Fatal("limiter must fail open when the counter store errors")
		}
	}
}

func TestAllowAnonymousAllowance(t *testing.T) {
	l := NewLimiter(newFakeCounter(), 100)
	l.now = fixedClock(time.Date(2026, 9, 1, 12, 0, 15, 0, time.UTC))

	for i := 0; i < AnonymousAllowance; i++ {
		ok, _ := l.Allow(context.Background(), "10.0.0.1", "/e", false)
		if !ok {
			t.Fatalf("anonymous request %d rejected inside the small allowance", i+1)
		}
	}

	ok, retryAfter := l.Allow(context.Background(), "10.0.0.1", "/e", false)
	if ok {
		t.Fatal("anonymous caller allowed past the small allowance")
	}
	if retryAfter != 45*time.Second {
		t.Errorf("retryAfter = %v, want 45s", retryAfter)
	}

	// Rollover clears the in-memory window
	l.now = fixedClock(time.Date(2026, 9, 1, 12, 1, 0, 0, time.UTC))
	if ok, _ := l.Allow(context.Background(), "10.0.0.1", "/e", false); !ok {
		t.Error("anonymous window should reset on the minute boundary")
	}
}

func TestAnonymousWindowsSweptOnRollover(t *testing.T) {
	// Windows left behind by one-off callers are dropped at the next minute
	// boundary, not retained forever
	l := NewLimiter(newFakeCounter(), 100)
	l.now = fixedClock(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	l.Allow(context.Background(), "10.0.0.1", "/e", false)
	l.Allow(context.Background(), "10.0.0.2", "/e", false)
	l.Allow(context.Background(), "10.0.0.3", "/e", false)

	l.mu.Lock()
	before := len(l.anon)
	l.mu.Unlock()
	if before != 3 {
		t.Fatalf("tracked windows = %d, want 3", before)
	}

	l.now = fixedClock(time.Date(2026, 9, 1, 12, 1, 0, 0, time.UTC))
	l.Allow(context.Background(), "10.0.0.9", "/e", false)

	l.mu.Lock()
	after := len(l.anon)
	l.mu.Unlock()
	if after != 1 {
		t.Errorf("tracked windows after rollover = %d, want only the current caller", after)
	}
}

func TestAllowNilCounterTreatsAllAsAnonymous(t *testing.T) {
	l := NewLimiter(nil, 100)
	l.now = fixedClock(time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC))

	for i := 0; i < AnonymousAllowance; i++ {
		if ok, _ := l.Allow(context.Background(), "key-1", "/e", true); !ok {
			t.Fatalf("request %d rejected", i+1)
		}
	}
	if ok, _ := l.Allow(context.Background(), "key-1", "/e", true); ok {
		t.Error("nil counter store must fall back to the anonymous allowance")
	}
}
