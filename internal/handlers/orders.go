package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alextreichler/storefront/internal/access"
	"github.com/alextreichler/storefront/internal/events"
	"github.com/alextreichler/storefront/internal/store"
)

type OrderHandler struct {
	*Base
}

// Create turns the session cart into an order priced from the current catalog.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	id := access.FromContext(r.Context())

	catalog, err := h.Catalog.Load()
	if err != nil {
		h.serverError(w, "Error loading catalog", err)
		return
	}

	c := h.cart(r)
	order, err := h.Store.CreateOrder(r.Context(), id.Username, c.Snapshot(), catalog)
	recordOrderOperation("create", err, false)
	if errors.Is(err, store.ErrEmptyCart) {
		h.redirect(w, r, "/cart", "error", "Your cart has no products that can be ordered.")
		return
	}
	if err != nil {
		h.serverError(w, "Failed to place order", err)
		return
	}

	c.Clear()
	if err := h.saveCart(w, r, c); err != nil {
		slog.Error("Failed to clear cart after order", "order_id", order.ID, "error", err)
	}

	slog.Info("Order placed", "order_id", order.ID, "user", order.User, "total", order.Total, "items", len(order.Items))
	ev := events.New(events.OrderCreated)
	ev.OrderID = order.ID
	ev.Username = order.User
	ev.Status = order.Status
	ev.Total = order.Total
	h.publish(r, ev)

	h.redirect(w, r, "/orders", "success", "Order #"+strconv.Itoa(order.ID)+" placed. Thank you!")
}

// MyOrders lists the caller's own orders in ledger order.
func (h *OrderHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	id := access.FromContext(r.Context())
	orders, err := h.Store.OrdersForUser(r.Context(), id.Username)
	if err != nil {
		h.serverError(w, "Error fetching orders", err)
		return
	}
	h.render(w, r, "orders.html", map[string]any{"Orders": orders})
}

// View shows one of the caller's orders. Someone else's order is a 404, same as a missing one.
func (h *OrderHandler) View(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := h.Store.GetOrder(r.Context(), orderID)
	if err != nil {
		h.serverError(w, "Error fetching order", err)
		return
	}
	order, err := res.Require()
	if err != nil || order.User != access.FromContext(r.Context()).Username {
		h.NotFound(w, r)
		return
	}
	h.render(w, r, "order.html", map[string]any{"Order": order})
}

