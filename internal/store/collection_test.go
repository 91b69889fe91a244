package store

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alextreichler/storefront/internal/models"
)

type countingBackend struct {
	Backend
	mu    sync.Mutex
	saves int
}

func (b *countingBackend) Save(ctx context.Context, name string, data []byte) error {
	b.mu.Lock()
	b.saves++
	b.mu.Unlock()
	return b.Backend.Save(ctx, name, data)
}

func TestCollection_MissingDocumentIsEmpty(t *testing.T) {
	c := NewCollection[models.Order](NewMemoryBackend(), "orders", "")
	orders, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.NotNil(t, orders)
}

func TestCollection_Envelope(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Save(ctx, "users", []byte(`{"users": [{"id": 1, "username": "juliette", "password": "x", "role": "admin"}]}`)))

	c := NewCollection[models.User](backend, "users", "users")
	users, err := c.Load(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "juliette", users[0].Username)

	err = c.Update(ctx, func(users []models.User) ([]models.User, bool, error) {
		return append(users, models.User{ID: 2, Username: "bob", Role: "customer"}), true, nil
	})
	require.NoError(t, err)

	raw, err := backend.Load(ctx, "users")
	require.NoError(t, err)
	assert.JSONEq(t, `{"users": [
		{"id": 1, "username": "juliette", "password": "x", "role": "admin"},
		{"id": 2, "username": "bob", "password": "", "role": "customer"}
	]}`, string(raw))
}

func TestCollection_UnchangedUpdateDoesNotWrite(t *testing.T) {
	ctx := context.Background()
	backend := &countingBackend{Backend: NewMemoryBackend()}
	c := NewCollection[models.Order](backend, "orders", "")

	err := c.Update(ctx, func(orders []models.Order) ([]models.Order, bool, error) {
		return orders, false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, backend.saves)

	err = c.Update(ctx, func(orders []models.Order) ([]models.Order, bool, error) {
		return append(orders, models.Order{ID: 1}), true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, backend.saves)
}

func TestCollection_EmptyCollectionEncodesAsArray(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	c := NewCollection[models.Order](backend, "orders", "")
	require.NoError(t, c.Update(ctx, func([]models.Order) ([]models.Order, bool, error) {
		return nil, true, nil
	}))
	raw, err := backend.Load(ctx, "orders")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

// Concurrent read-modify-write cycles must not lose updates.
func TestCollection_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	c := NewCollection[models.Order](NewMemoryBackend(), "orders", "")

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := c.Update(ctx, func(orders []models.Order) ([]models.Order, bool, error) {
				return append(orders, models.Order{ID: i + 1}), true, nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	orders, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, writers)
}

func TestFileBackend(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	b, err := NewFileBackend(dir)
	require.NoError(t, err)

	t.Run("missing file loads as nil", func(t *testing.T) {
		data, err := b.Load(ctx, "orders")
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("save rewrites whole file", func(t *testing.T) {
		require.NoError(t, b.Save(ctx, "orders", []byte(`[{"id": 1}]`)))
		require.NoError(t, b.Save(ctx, "orders", []byte(`[]`)))

		raw, err := os.ReadFile(filepath.Join(dir, "orders.json"))
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(raw))

		leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
		require.NoError(t, err)
		assert.Empty(t, leftovers)
	})

	t.Run("store on top of files", func(t *testing.T) {
		s := NewStore(b)
		o, err := s.CreateOrder(ctx, "alice", map[string]int{"1": 1}, testCatalog())
		require.NoError(t, err)

		reopened := NewStore(b)
		got, err := reopened.GetOrder(ctx, o.ID)
		require.NoError(t, err)
		assert.True(t, got.Found)
		assert.Equal(t, "alice", got.Value.User)
	})
}

func TestOpenBackend_UnknownDriver(t *testing.T) {
	_, err := OpenBackend("postgres", t.TempDir(), "")
	assert.Error(t, err)
}

func TestLookup_Require(t *testing.T) {
	_, err := Lookup[models.Order]{}.Require()
	assert.ErrorIs(t, err, ErrNotFound)

	v, err := found(models.Order{ID: 4}).Require()
	require.NoError(t, err)
	assert.Equal(t, 4, v.ID)
}
