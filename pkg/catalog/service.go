package catalog

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/aretw0/festbot/pkg/domain"
	"github.com/aretw0/festbot/pkg/ports"
)

// Result is the payload returned for a query.
type Result struct {
	Data []domain.Event `json:"data"`
	Type Kind           `json:"type"`
}

// Service answers flow queries from an event store.
type Service struct {
	store  ports.EventStore
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	now    func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the reference time used to resolve relative dates.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLifecycleHooks reports every served query through hooks.OnQuery.
func WithLifecycleHooks(hooks domain.LifecycleHooks) ServiceOption {
	return func(s *Service) {
		s.hooks = hooks
	}
}

// NewService creates a catalog service on top of store.
func NewService(store ports.EventStore, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ready reports whether the backing store can serve queries.
func (s *Service) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Query plans the lookup and runs it against the store.
// Returned errors: domain.ErrEmptyInput, ErrUnknownFlow, or a store failure.
func (s *Service) Query(ctx context.Context, flow, text string) (res Result, err error) {
	start := time.Now()
	defer func() {
		if s.hooks.OnQuery != nil {
			s.hooks.OnQuery(ctx, &domain.QueryEvent{
				Timestamp: s.now(),
				Flow:      flow,
				Results:   len(res.Data),
				Duration:  time.Since(start),
				Err:       err,
			})
		}
	}()

	q, err := Plan(flow, text, s.now())
	if err != nil {
		return Result{}, err
	}

	all, err := s.store.List(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list events: %w", err)
	}

	matches := make([]domain.Event, 0)
	for _, e := range all {
		if q.Match(e) {
			matches = append(matches, e)
		}
	}
	SortEvents(matches)
	if q.Limit > 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}

	s.logger.Debug("catalog query",
		"flow", flow,
		"keywords", strings.Join(q.Keywords, ","),
		"phrase", q.Phrase,
		"date", q.Date.Format(time.DateOnly),
		"matches", len(matches),
	)
	return Result{Data: matches, Type: q.Kind}, nil
}

// Gateway exposes the service as an in-process query gateway.
func (s *Service) Gateway() ports.QueryGateway {
	return ports.QueryFunc(func(ctx context.Context, flow, text string) ([]domain.Event, error) {
		res, err := s.Query(ctx, flow, text)
		if err != nil {
			return nil, &domain.TransportError{Err: err}
		}
		return res.Data, nil
	})
}

// SortEvents orders events by start time ascending. Undated events go last;
// ties are broken by name.
func SortEvents(events []domain.Event) {
	slices.SortStableFunc(events, func(a, b domain.Event) int {
		at, aok := a.Start()
		bt, bok := b.Start()
		switch {
		case aok && !bok:
			return -1
		case !aok && bok:
			return 1
		case aok && bok:
			if c := at.Compare(bt); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.Name, b.Name)
	})
}
