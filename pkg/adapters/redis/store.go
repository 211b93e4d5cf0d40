package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/festbot/pkg/domain"
	"github.com/aretw0/festbot/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "festbot:"

// undatedScore sorts events without a start time after every dated one.
const undatedScore = 4102444800 // 2100-01-01

// Store implements ports.EventStore using Redis.
// Each event is a JSON string under <prefix>event:<id>; the ZSET <prefix>index
// holds every ID scored by start time.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ ports.EventStore = (*Store)(nil)

type Option func(*Store)

// WithTTL sets the expiration for event keys.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying connection, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(id string) string {
	return s.prefix + "event:" + id
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

func score(e domain.Event) float64 {
	if t, ok := e.Start(); ok {
		return float64(t.Unix())
	}
	return undatedScore
}

// Upsert writes the events and indexes them in one pipeline.
func (s *Store) Upsert(ctx context.Context, events ...domain.Event) error {
	if len(events) == 0 {
		return nil
	}

	pipe := s.client.Pipeline()
	for _, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("failed to marshal event %q: %w", e.ID, err)
		}
		pipe.Set(ctx, s.key(e.ID), data, s.ttl)
		pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score(e), Member: e.ID})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Get retrieves one event.
func (s *Store) Get(ctx context.Context, id string) (domain.Event, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("failed to get from redis: %w", err)
	}

	var e domain.Event
	if err := json.Unmarshal([]byte(val), &e); err != nil {
		return domain.Event{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return e, nil
}

// List returns the events in index order (start time, undated last).
// Index members whose key has expired are pruned on the way.
func (s *Store) List(ctx context.Context) ([]domain.Event, error) {
	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Event{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	events := make([]domain.Event, 0, len(vals))
	var expired []any
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var e domain.Event
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event %q: %w", ids[i], err)
		}
		events = append(events, e)
	}

	if len(expired) > 0 {
		if err := s.client.ZRem(ctx, s.indexKey(), expired...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune expired events: %w", err)
		}
	}
	return events, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
