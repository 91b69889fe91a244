package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alextreichler/storefront/internal/models"
)

var fixedNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(NewMemoryBackend())
	s.Now = func() time.Time { return fixedNow }
	return s
}

func testCatalog() *models.Catalog {
	return &models.Catalog{
		Products: []models.Product{
			{ID: 1, CategoryID: 1, Name: "Amigurumi Bear", Price: 100},
			{ID: 2, CategoryID: 1, Name: "Granny Square Blanket", Price: 50},
			{ID: 3, CategoryID: 2, Name: "Beanie", Price: 12.5},
		},
	}
}

func mustCreateOrder(t *testing.T, s *Store, user string, snapshot map[string]int) models.Order {
	t.Helper()
	o, err := s.CreateOrder(context.Background(), user, snapshot, testCatalog())
	require.NoError(t, err)
	return o
}
