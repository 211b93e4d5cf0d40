package ports

import (
	"context"

	"github.com/aretw0/festbot/pkg/domain"
)

// QueryGateway submits a lookup to the query service.
type QueryGateway interface {
	// Query sends the flow identifier and free text and returns the matching events in
	// the order the service produced them. An empty slice is a successful "no match".
	// Transport problems are reported as *domain.TransportError.
	Query(ctx context.Context, flow, text string) ([]domain.Event, error)
}

// QueryFunc adapts a plain function to QueryGateway.
type QueryFunc func(ctx context.Context, flow, text string) ([]domain.Event, error)

func (f QueryFunc) Query(ctx context.Context, flow, text string) ([]domain.Event, error) {
	return f(ctx, flow, text)
}
