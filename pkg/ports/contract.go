package ports

import (
	"context"
	"testing"

	"github.com/aretw0/festbot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunEventStoreContract runs a suite of tests to verify that an EventStore implementation
// adheres to the defined interface contract. The store is expected to start empty.
func RunEventStoreContract(t *testing.T, store EventStore) {
	ctx := context.Background()

	t.Run("Ping", func(t *testing.T) {
		require.NoError(t, store.Ping(ctx))
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrEventNotFound)
	})

	t.Run("Upsert and Get", func(t *testing.T) {
		event := domain.Event{
			ID:          "contract-1",
			Name:        "Opening Ceremony",
			LinkedSpace: "Main Stage",
			StartTime:   "2025-06-01T18:00:00Z",
			EndTime:     "2025-06-01T20:00:00Z",
			Notes:       "Bring a jacket",
		}
		require.NoError(t, store.Upsert(ctx, event))

		loaded, err := store.Get(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, event, loaded)
	})

	t.Run("Upsert Replaces", func(t *testing.T) {
		require.NoError(t, store.Upsert(ctx, domain.Event{ID: "contract-2", Name: "Draft"}))
		require.NoError(t, store.Upsert(ctx, domain.Event{ID: "contract-2", Name: "Final", Owner: "Ops"}))

		loaded, err := store.Get(ctx, "contract-2")
		require.NoError(t, err)
		assert.Equal(t, "Final", loaded.Name)
		assert.Equal(t, "Ops", loaded.Owner)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, store.Upsert(ctx,
			domain.Event{ID: "contract-3", Name: "Late", StartTime: "2025-06-03T10:00:00Z"},
			domain.Event{ID: "contract-4", Name: "Undated"},
		))

		events, err := store.List(ctx)
		require.NoError(t, err)

		ids := make([]string, 0, len(events))
		for _, e := range events {
			ids = append(ids, e.ID)
		}
		assert.ElementsMatch(t, []string{"contract-1", "contract-2", "contract-3", "contract-4"}, ids)
	})

	t.Run("Isolation", func(t *testing.T) {
		loaded, err := store.Get(ctx, "contract-1")
		require.NoError(t, err)
		loaded.Name = "mutated"

		again, err := store.Get(ctx, "contract-1")
		require.NoError(t, err)
		assert.Equal(t, "Opening Ceremony", again.Name)
	})
}
