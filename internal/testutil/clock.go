// Package testutil provides deterministic collaborators for tests:
// a frozen wall clock and a fixed-verdict reachability probe.
package testutil

import (
	"sync"
	"time"
)

// Clock provides a thread-safe frozen wall clock for tests.
//
// Lifecycle code takes an injectable `func() time.Time`; pass
// Clock.Now. The clock only moves when a test advances it, so
// staleness decisions and recorded_at stamps are reproducible across
// runs.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClockAt creates a Clock frozen at start.
func NewClockAt(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the frozen time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d. Negative d moves it backward.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
