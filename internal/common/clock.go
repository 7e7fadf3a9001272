package common

import (
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Clock provides an abstraction over time operations to enable deterministic testing
type Clock interface {
	// Now returns the current time
	Now() time.Time
	// After returns a channel that delivers the current time after the specified duration
	After(duration time.Duration) <-chan time.Time
}

// RealClock implements Clock using the standard time package
type RealClock struct{}

// NewRealClock creates a new RealClock instance
func NewRealClock() *RealClock {
	return &RealClock{}
}

func (c *RealClock) Now() time.Time {
	return time.Now()
}

func (c *RealClock) After(duration time.Duration) <-chan time.Time {
	return time.After(duration)
}

// MockClock implements Clock for testing. Every wait completes immediately
// and moves the clock forward by the requested duration.
type MockClock struct {
	mu          sync.Mutex
	currentTime time.Time
	waits       []time.Duration
}

// NewMockClock creates a new MockClock with the specified initial time
func NewMockClock(initialTime time.Time) *MockClock {
	return &MockClock{currentTime: initialTime}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentTime
}

func (c *MockClock) After(duration time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.currentTime = c.currentTime.Add(duration)
	c.waits = append(c.waits, duration)

	ch := make(chan time.Time, 1)
	ch <- c.currentTime
	return ch
}

// Waits returns every duration passed to After, in call order
func (c *MockClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]time.Duration, len(c.waits))
	copy(out, c.waits)
	return out
}

// clockTimer adapts a Clock to backoff.Timer so retry delays follow the injected clock.
type clockTimer struct {
	clock Clock
	c     <-chan time.Time
}

// NewBackoffTimer returns a backoff.Timer driven by clock
func NewBackoffTimer(clock Clock) backoff.Timer {
	return &clockTimer{clock: clock}
}

func (t *clockTimer) Start(duration time.Duration) {
	t.c = t.clock.After(duration)
}

func (t *clockTimer) Stop() {}

func (t *clockTimer) C() <-chan time.Time {
	return t.c
}
