package handlers

import (
	"log/slog"
	"net/http"

	"github.com/alextreichler/storefront/internal/cart"
)

type CartHandler struct {
	*Base
}

// CartLine is a cart entry priced against the current catalog.
type CartLine struct {
	ProductID int
	Name      string
	Price     float64
	Qty       int
	Sum       float64
	Available bool
}

func (b *Base) cart(r *http.Request) *cart.Cart {
	return cart.Load(b.session(r).Values[sessionCart])
}

func (b *Base) saveCart(w http.ResponseWriter, r *http.Request, c *cart.Cart) error {
	session := b.session(r)
	session.Values[sessionCart] = c.Snapshot()
	return session.Save(r, w)
}

// View shows the cart with today's prices. Products that left the catalog are
// listed as unavailable and do not count towards the total.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	catalog, err := h.Catalog.Load()
	if err != nil {
		h.serverError(w, "Error loading catalog", err)
		return
	}

	var lines []CartLine
	var total float64
	for _, e := range cart.Entries(h.cart(r).Snapshot()) {
		line := CartLine{ProductID: e.ProductID, Qty: e.Qty}
		if p, ok := catalog.ProductByID(e.ProductID); ok {
			line.Name = p.Name
			line.Price = p.Price
			line.Sum = p.Price * float64(e.Qty)
			line.Available = true
			total += line.Sum
		}
		lines = append(lines, line)
	}

	h.render(w, r, "cart.html", map[string]any{
		"Lines": lines,
		"Total": total,
	})
}

func (h *CartHandler) mutate(op func(c *cart.Cart, productID int), message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		c := h.cart(r)
		op(c, id)
		if err := h.saveCart(w, r, c); err != nil {
			slog.Error("Failed to save cart", "error", err)
			h.redirect(w, r, "/cart", "error", "Could not update your cart.")
			return
		}
		h.redirect(w, r, "/cart", "success", message)
	}
}

func (h *CartHandler) Add() http.HandlerFunc {
	return h.mutate((*cart.Cart).Add, "Added to cart.")
}

func (h *CartHandler) Increment() http.HandlerFunc {
	return h.mutate((*cart.Cart).Increment, "")
}

func (h *CartHandler) Decrement() http.HandlerFunc {
	return h.mutate((*cart.Cart).Decrement, "")
}

func (h *CartHandler) Remove() http.HandlerFunc {
	return h.mutate((*cart.Cart).Remove, "Removed from cart.")
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	c := h.cart(r)
	c.Clear()
	if err := h.saveCart(w, r, c); err != nil {
		slog.Error("Failed to save cart", "error", err)
	}
	h.redirect(w, r, "/cart", "success", "Cart cleared.")
}
