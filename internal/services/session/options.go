package session

import (
	"time"

	"github.com/mcoot/triviaduel/internal/model"
)

const (
	// DefaultRevealDelay is how long an answer stays revealed before auto-advance
	DefaultRevealDelay = 2500 * time.Millisecond

	// DefaultFetchTimeout bounds a single question fetch
	DefaultFetchTimeout = 60 * time.Second
)

// Notifier receives every event emitted by the controller.
// Notify is called with the controller lock held: it must not block and must
// not call back into the controller.
type Notifier interface {
	Notify(event model.Event)
}

// NotifierFunc adapts a function to a Notifier
type NotifierFunc func(event model.Event)

// Notify calls f
func (f NotifierFunc) Notify(event model.Event) {
	f(event)
}

// Option configures a Controller
type Option func(*Controller)

// WithRevealDelay sets the auto-advance delay
func WithRevealDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.revealDelay = d
		}
	}
}

// WithFetchTimeout sets the question fetch timeout
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.fetchTimeout = d
		}
	}
}

// WithNotifier adds a notifier; may be given more than once
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifiers = append(c.notifiers, n)
		}
	}
}
