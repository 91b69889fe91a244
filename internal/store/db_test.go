package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "store.db")

	backend, err := OpenBackend(DriverSQLite, "", dbPath)
	require.NoError(t, err)
	sqlite := backend.(*SQLiteBackend)
	t.Cleanup(func() { sqlite.Close() })

	t.Run("migrations are idempotent", func(t *testing.T) {
		require.NoError(t, sqlite.Migrate())

		var applied int
		require.NoError(t, sqlite.DB.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
		assert.Equal(t, 1, applied)
	})

	t.Run("missing document loads as nil", func(t *testing.T) {
		data, err := sqlite.Load(ctx, "messages")
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("upsert replaces body", func(t *testing.T) {
		require.NoError(t, sqlite.Save(ctx, "messages", []byte(`[1]`)))
		require.NoError(t, sqlite.Save(ctx, "messages", []byte(`[1, 2]`)))
		data, err := sqlite.Load(ctx, "messages")
		require.NoError(t, err)
		assert.Equal(t, `[1, 2]`, string(data))
	})

	t.Run("ledger on sqlite", func(t *testing.T) {
		s := NewStore(sqlite)
		first, err := s.CreateOrder(ctx, "alice", map[string]int{"2": 2}, testCatalog())
		require.NoError(t, err)
		second, err := s.CreateOrder(ctx, "alice", map[string]int{"1": 1}, testCatalog())
		require.NoError(t, err)
		assert.Equal(t, first.ID+1, second.ID)

		orders, err := s.OrdersForUser(ctx, "alice")
		require.NoError(t, err)
		assert.Len(t, orders, 2)
	})
}
