package ports

import (
	"context"

	"github.com/aretw0/festbot/pkg/domain"
)

// EventStore defines the interface for persisting the event catalog.
type EventStore interface {
	// Upsert inserts or replaces events, keyed by ID.
	Upsert(ctx context.Context, events ...domain.Event) error

	// Get retrieves one event.
	// Returns domain.ErrEventNotFound if the event does not exist.
	Get(ctx context.Context, id string) (domain.Event, error)

	// List returns every stored event.
	List(ctx context.Context) ([]domain.Event, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// RecordSource produces the upstream catalog to be synchronized into an EventStore.
type RecordSource interface {
	FetchAll(ctx context.Context) ([]domain.Event, error)
}
