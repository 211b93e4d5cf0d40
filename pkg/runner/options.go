package runner

import (
	"log/slog"
	"maps"
	"strings"

	"github.com/aretw0/lifecycle"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.Logger = logger
		}
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithInputMappings adds or replaces global commands.
func WithInputMappings(mappings map[string]lifecycle.Event) Option {
	return func(r *Runner) {
		if r.Commands == nil {
			r.Commands = make(map[string]lifecycle.Event, len(mappings))
		} else {
			r.Commands = maps.Clone(r.Commands)
		}
		for k, v := range mappings {
			r.Commands[strings.ToLower(strings.TrimSpace(k))] = v
		}
	}
}
