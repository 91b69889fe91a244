package store

import (
	"context"

	"github.com/alextreichler/storefront/internal/models"
)

// Counters are the admin badge numbers plus a status breakdown for the dashboard.
type Counters struct {
	UnreadDialogs  int
	PendingOrders  int
	OpenDialogs    int
	TotalOrders    int
	OrdersByStatus map[string]int
}

// ComputeCounters derives the counters from full collections.
// A dialog is unread while it is open and the last word is not from staff.
func ComputeCounters(orders []models.Order, dialogs []models.Dialog) Counters {
	c := Counters{
		TotalOrders:    len(orders),
		OrdersByStatus: make(map[string]int),
	}
	for _, o := range orders {
		c.OrdersByStatus[o.Status]++
		if o.Status == models.OrderPlaced {
			c.PendingOrders++
		}
	}
	for _, d := range dialogs {
		if !d.IsOpen() {
			continue
		}
		c.OpenDialogs++
		if d.LastAuthor() != models.AuthorAdmin {
			c.UnreadDialogs++
		}
	}
	return c
}

// Counters recomputes the admin counters from storage. Nothing is cached.
func (s *Store) Counters(ctx context.Context) (Counters, error) {
	orders, err := s.orders.Load(ctx)
	if err != nil {
		return Counters{}, err
	}
	dialogs, err := s.dialogs.Load(ctx)
	if err != nil {
		return Counters{}, err
	}
	return ComputeCounters(orders, dialogs), nil
}
