package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/festbot/pkg/domain"
	"github.com/aretw0/festbot/pkg/ports"
)

// ErrSyncInProgress is returned when another sync holds the lock.
var ErrSyncInProgress = errors.New("sync already in progress")

const (
	// DefaultLockTTL bounds how long a crashed sync can block the next one.
	DefaultLockTTL = 5 * time.Minute
	// DefaultLockWait is how long Sync waits for a busy lock before giving up.
	DefaultLockWait = 2 * time.Second

	syncLockKey = "sync"
)

// Syncer copies the upstream catalog into the event store.
type Syncer struct {
	source   ports.RecordSource
	store    ports.EventStore
	locker   ports.DistributedLocker
	lockTTL  time.Duration
	lockWait time.Duration
	logger   *slog.Logger
	onSynced func(n int)
}

// SyncOption configures a Syncer.
type SyncOption func(*Syncer)

// WithLocker serializes syncs across processes.
func WithLocker(locker ports.DistributedLocker) SyncOption {
	return func(s *Syncer) {
		s.locker = locker
	}
}

// WithLockTiming overrides the lock lease and the wait for a busy lock.
func WithLockTiming(ttl, wait time.Duration) SyncOption {
	return func(s *Syncer) {
		if ttl > 0 {
			s.lockTTL = ttl
		}
		if wait > 0 {
			s.lockWait = wait
		}
	}
}

// WithSyncLogger sets the structured logger.
func WithSyncLogger(logger *slog.Logger) SyncOption {
	return func(s *Syncer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSyncHook registers a callback invoked with the record count of every successful sync.
func WithSyncHook(fn func(n int)) SyncOption {
	return func(s *Syncer) {
		s.onSynced = fn
	}
}

// NewSyncer creates a Syncer.
func NewSyncer(source ports.RecordSource, store ports.EventStore, opts ...SyncOption) *Syncer {
	s := &Syncer{
		source:   source,
		store:    store,
		lockTTL:  DefaultLockTTL,
		lockWait: DefaultLockWait,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sync fetches every upstream record, drops the ones without ID or name, and
// upserts the rest. It returns the number of events written.
func (s *Syncer) Sync(ctx context.Context) (int, error) {
	if s.locker != nil {
		lockCtx, cancel := context.WithTimeout(ctx, s.lockWait)
		unlock, err := s.locker.Lock(lockCtx, syncLockKey, s.lockTTL)
		cancel()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return 0, ErrSyncInProgress
			}
			return 0, fmt.Errorf("failed to acquire sync lock: %w", err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("failed to release sync lock", "err", err)
			}
		}()
	}

	start := time.Now()
	records, err := s.source.FetchAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch records: %w", err)
	}

	events := make([]domain.Event, 0, len(records))
	for _, e := range records {
		e.ID = strings.TrimSpace(e.ID)
		e.Name = strings.TrimSpace(e.Name)
		if e.ID == "" || e.Name == "" {
			s.logger.Debug("skipping record", "id", e.ID)
			continue
		}
		events = append(events, e)
	}

	if err := s.store.Upsert(ctx, events...); err != nil {
		return 0, fmt.Errorf("failed to store events: %w", err)
	}

	s.logger.Info("catalog synced", "records", len(records), "stored", len(events), "duration", time.Since(start))
	if s.onSynced != nil {
		s.onSynced(len(events))
	}
	return len(events), nil
}
