package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/festbot/internal/config"
	"github.com/aretw0/festbot/pkg/adapters/airtable"
	"github.com/aretw0/festbot/pkg/adapters/loam"
	"github.com/aretw0/festbot/pkg/adapters/memory"
	"github.com/aretw0/festbot/pkg/adapters/redis"
	"github.com/aretw0/festbot/pkg/catalog"
	"github.com/aretw0/festbot/pkg/ports"
)

// backend bundles the event store with the lock guarding syncs into it.
type backend struct {
	Store  ports.EventStore
	Locker ports.DistributedLocker
	close  func() error
}

func (b backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

func newBackend(c config.Config) (backend, error) {
	switch c.Store {
	case config.StoreMemory:
		return backend{Store: memory.NewStore(), Locker: memory.NewLocker()}, nil
	case config.StoreRedis:
		store := redis.New(c.Redis.Addr, c.Redis.Password, c.Redis.DB,
			redis.WithPrefix(c.Redis.Prefix),
			redis.WithTTL(c.Redis.TTL),
		)
		return backend{
			Store:  store,
			Locker: redis.NewLocker(store.Client(), c.Redis.Prefix),
			close:  store.Close,
		}, nil
	default:
		return backend{}, fmt.Errorf("unknown store %q", c.Store)
	}
}

// newSource picks the upstream catalog: Airtable when credentials are set,
// otherwise the catalog directory. It returns nil when neither is configured.
func newSource(c config.Config, logger *slog.Logger) (ports.RecordSource, string, error) {
	if c.Airtable.Enabled() {
		client, err := airtable.New(c.Airtable.Token, c.Airtable.BaseID, c.Airtable.Table,
			airtable.WithLogger(logger),
		)
		if err != nil {
			return nil, "", err
		}
		return client, "airtable", nil
	}
	if c.CatalogDir != "" {
		files, err := loam.Open(c.CatalogDir)
		if err != nil {
			return nil, "", err
		}
		return files, "catalog-dir", nil
	}
	return nil, "", nil
}

func newSyncer(source ports.RecordSource, b backend, logger *slog.Logger, hook func(int)) *catalog.Syncer {
	return catalog.NewSyncer(source, b.Store,
		catalog.WithLocker(b.Locker),
		catalog.WithSyncLogger(logger),
		catalog.WithSyncHook(hook),
	)
}

// loadDir reads a catalog directory into a fresh in-memory store.
func loadDir(ctx context.Context, dir string) (*memory.Store, error) {
	files, err := loam.Open(dir)
	if err != nil {
		return nil, err
	}
	events, err := files.Events(ctx)
	if err != nil {
		return nil, err
	}
	return memory.NewStore(events...), nil
}
