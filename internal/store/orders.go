package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/alextreichler/storefront/internal/cart"
	"github.com/alextreichler/storefront/internal/models"
)

// ErrEmptyCart is returned when none of the cart entries resolve to a catalog product.
var ErrEmptyCart = errors.New("cart has no orderable items")

// PriceCart resolves cart entries against the catalog. Entries whose product
// no longer exists are dropped; total is the sum over the resolved items only.
func PriceCart(snapshot map[string]int, catalog *models.Catalog) ([]models.OrderItem, float64) {
	var items []models.OrderItem
	var total float64
	for _, e := range cart.Entries(snapshot) {
		p, ok := catalog.ProductByID(e.ProductID)
		if !ok {
			continue
		}
		sum := p.Price * float64(e.Qty)
		items = append(items, models.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Qty:       e.Qty,
			Sum:       sum,
		})
		total += sum
	}
	return items, total
}

// CreateOrder appends a placed order built from the cart snapshot, with prices
// taken from the catalog at this moment.
func (s *Store) CreateOrder(ctx context.Context, username string, snapshot map[string]int, catalog *models.Catalog) (models.Order, error) {
	items, total := PriceCart(snapshot, catalog)
	if len(items) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	order := models.Order{
		User:   username,
		Date:   s.timestamp(),
		Status: models.OrderPlaced,
		Total:  total,
		Items:  items,
	}

	err := s.orders.Update(ctx, func(orders []models.Order) ([]models.Order, bool, error) {
		id, err := s.seq.Next(ctx, OrdersDoc, maxOrderID(orders))
		if err != nil {
			return nil, false, err
		}
		order.ID = id
		return append(orders, order), true, nil
	})
	if err != nil {
		return models.Order{}, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

func maxOrderID(orders []models.Order) int {
	highest := 0
	for _, o := range orders {
		highest = max(highest, o.ID)
	}
	return highest
}

// SetOrderStatus stores any status string. An unknown id is not an error: the
// returned Lookup simply has Found == false and nothing is written.
func (s *Store) SetOrderStatus(ctx context.Context, id int, status string) (Lookup[models.Order], error) {
	var result Lookup[models.Order]
	err := s.orders.Update(ctx, func(orders []models.Order) ([]models.Order, bool, error) {
		for i := range orders {
			if orders[i].ID == id {
				orders[i].Status = status
				result = found(orders[i])
				return orders, true, nil
			}
		}
		return orders, false, nil
	})
	return result, err
}

// DeleteOrder removes the order with the given id, if any.
func (s *Store) DeleteOrder(ctx context.Context, id int) (Lookup[models.Order], error) {
	var result Lookup[models.Order]
	err := s.orders.Update(ctx, func(orders []models.Order) ([]models.Order, bool, error) {
		kept := orders[:0]
		for _, o := range orders {
			if o.ID == id && !result.Found {
				result = found(o)
				continue
			}
			kept = append(kept, o)
		}
		return kept, result.Found, nil
	})
	return result, err
}

// ListOrders returns the whole ledger in stored order.
func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.orders.Load(ctx)
}

// OrdersForUser returns the user's orders in ledger order.
func (s *Store) OrdersForUser(ctx context.Context, username string) ([]models.Order, error) {
	orders, err := s.orders.Load(ctx)
	if err != nil {
		return nil, err
	}
	var mine []models.Order
	for _, o := range orders {
		if o.User == username {
			mine = append(mine, o)
		}
	}
	return mine, nil
}

func (s *Store) GetOrder(ctx context.Context, id int) (Lookup[models.Order], error) {
	orders, err := s.orders.Load(ctx)
	if err != nil {
		return Lookup[models.Order]{}, err
	}
	for _, o := range orders {
		if o.ID == id {
			return found(o), nil
		}
	}
	return Lookup[models.Order]{}, nil
}
