package memory

import (
	"context"
	"sync"

	"github.com/aretw0/festbot/pkg/domain"
	"github.com/aretw0/festbot/pkg/ports"
)

// Store implements ports.EventStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Event
	mu   sync.RWMutex
}

var _ ports.EventStore = (*Store)(nil)

// NewStore creates a new in-memory store, optionally seeded with events.
func NewStore(events ...domain.Event) *Store {
	s := &Store{
		data: make(map[string]domain.Event, len(events)),
	}
	for _, e := range events {
		s.data[e.ID] = e
	}
	return s
}

// Upsert inserts or replaces events by ID.
func (s *Store) Upsert(ctx context.Context, events ...domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range events {
		s.data[e.ID] = e
	}
	return nil
}

// Get retrieves a single event.
// Event holds only value fields, so the returned copy cannot alias the store.
func (s *Store) Get(ctx context.Context, id string) (domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[id]
	if !ok {
		return domain.Event{}, domain.ErrEventNotFound
	}
	return e, nil
}

// List returns every stored event in no particular order.
func (s *Store) List(ctx context.Context) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]domain.Event, 0, len(s.data))
	for _, e := range s.data {
		events = append(events, e)
	}
	return events, nil
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Len returns the number of stored events.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
