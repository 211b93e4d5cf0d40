package conversation

import (
	"log/slog"
	"time"

	"github.com/aretw0/festbot/pkg/domain"
)

// DefaultConfirmDelay is the pause between a multi-result summary and the yes/no prompt.
const DefaultConfirmDelay = time.Second

// Option defines a functional option for configuring the Controller.
type Option func(*Controller)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithClock sets the source of message creation times.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithConfirmDelay sets the pause before the yes/no prompt that follows a multi-result summary.
func WithConfirmDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.confirmDelay = d
		}
	}
}

// WithSleeper replaces time.Sleep for the confirmation pause.
func WithSleeper(sleep func(time.Duration)) Option {
	return func(c *Controller) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}
