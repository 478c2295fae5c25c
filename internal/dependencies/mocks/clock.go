package mocks

import (
	"sort"
	"sync"
	"time"

	"github.com/mcoot/triviaduel/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing.
// Timers only fire when the clock is moved with Advance or Set, and they fire
// synchronously on the calling goroutine.
type MockClock struct {
	mu          sync.Mutex
	currentTime time.Time
	timers      []*MockTimer
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{currentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentTime
}

// AfterFunc registers f to run once the clock has been advanced by d
func (c *MockClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &MockTimer{
		clock:    c,
		deadline: c.currentTime.Add(d),
		fn:       f,
	}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by the given duration, firing due timers
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.currentTime = c.currentTime.Add(d)
	c.mu.Unlock()
	c.fireDue()
}

// Set sets the clock to the given time, firing due timers
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	c.currentTime = t
	c.mu.Unlock()
	c.fireDue()
}

// PendingTimers returns the number of timers that are neither fired nor stopped
func (c *MockClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *MockClock) fireDue() {
	c.mu.Lock()
	var due []*MockTimer
	remaining := c.timers[:0]
	for _, t := range c.timers {
		if !t.deadline.After(c.currentTime) {
			t.fired = true
			due = append(due, t)
		} else {
			remaining = append(remaining, t)
		}
	}
	c.timers = remaining
	c.mu.Unlock()

	// Callbacks may schedule new timers, so run them without the lock
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].deadline.Before(due[j].deadline)
	})
	for _, t := range due {
		t.fn()
	}
}

// MockTimer is a timer registered on a MockClock
type MockTimer struct {
	clock    *MockClock
	deadline time.Time
	fn       func()
	fired    bool
	stopped  bool
}

// Stop cancels the timer if it has not fired yet
func (t *MockTimer) Stop() bool {
	c := t.clock
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	for i, other := range c.timers {
		if other == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			break
		}
	}
	return true
}
