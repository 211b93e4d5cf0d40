package festbot

import (
	"io"
	"log/slog"
	"time"

	httpAdapter "github.com/aretw0/festbot/pkg/adapters/http"
	"github.com/aretw0/festbot/pkg/conversation"
	"github.com/aretw0/festbot/pkg/domain"
	"github.com/aretw0/festbot/pkg/ports"
)

type settings struct {
	gateway      ports.QueryGateway
	logger       *slog.Logger
	hooks        domain.LifecycleHooks
	timeout      time.Duration
	confirmDelay time.Duration
}

// Option defines a functional option for configuring the chat.
type Option func(*settings)

// WithGateway bypasses the HTTP client, e.g. to query a catalog in-process.
func WithGateway(g ports.QueryGateway) Option {
	return func(s *settings) {
		s.gateway = g
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *settings) {
		s.hooks = hooks
	}
}

// WithTimeout bounds each query round trip of the HTTP gateway.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithConfirmDelay sets the pause before the "deep dive" question.
func WithConfirmDelay(d time.Duration) Option {
	return func(s *settings) {
		s.confirmDelay = d
	}
}

// New creates a conversation in the home state that queries the service at
// endpoint (the local default when empty).
func New(endpoint string, opts ...Option) *conversation.Controller {
	s := &settings{
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		timeout:      httpAdapter.DefaultTimeout,
		confirmDelay: conversation.DefaultConfirmDelay,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.gateway == nil {
		s.gateway = httpAdapter.NewClient(endpoint,
			httpAdapter.WithTimeout(s.timeout),
			httpAdapter.WithClientLogger(s.logger),
		)
	}

	return conversation.New(s.gateway,
		conversation.WithLogger(s.logger),
		conversation.WithLifecycleHooks(s.hooks),
		conversation.WithConfirmDelay(s.confirmDelay),
	)
}
