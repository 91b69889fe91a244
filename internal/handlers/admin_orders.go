package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/alextreichler/storefront/internal/events"
	"github.com/alextreichler/storefront/internal/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// paging reads page and limit from the query string. limit is capped at maxPageSize.
func paging(r *http.Request) (page, limit int) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err = strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// newestPage returns one page of items in reverse stored order and the page
// count. Pages past the end are empty.
func newestPage[T any](items []T, page, limit int) ([]T, int) {
	totalPages := len(items) / limit
	if len(items)%limit != 0 {
		totalPages++
	}
	if totalPages == 0 {
		totalPages = 1
	}
	if page-1 >= totalPages {
		return nil, totalPages
	}
	end := len(items) - (page-1)*limit
	start := max(end-limit, 0)
	out := make([]T, 0, end-start)
	for i := end - 1; i >= start; i-- {
		out = append(out, items[i])
	}
	return out, totalPages
}

// ListOrders shows every order, newest first.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, limit := paging(r)

	orders, err := h.Store.ListOrders(r.Context())
	if err != nil {
		h.serverError(w, "Error fetching orders", err)
		return
	}

	newest, totalPages := newestPage(orders, page, limit)

	h.render(w, r, "admin_orders.html", map[string]any{
		"Orders":      newest,
		"Statuses":    models.OrderStatuses,
		"CurrentPage": page,
		"TotalPages":  totalPages,
		"Limit":       limit,
	})
}

func (h *AdminHandler) ViewOrder(w http.ResponseWriter, r *http.Request) {
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
	if err != nil {
		h.NotFound(w, r)
		return
	}
	h.render(w, r, "admin_order.html", map[string]any{
		"Order":    order,
		"Statuses": models.OrderStatuses,
	})
}

// UpdateOrderStatus sets a free-form status. Unknown ids are ignored.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r)
	if !ok {
		return
	}
	status := strings.TrimSpace(r.FormValue("status"))
	if status == "" {
		h.redirect(w, r, "/admin/orders", "error", "Status cannot be empty.")
		return
	}

	res, err := h.Store.SetOrderStatus(r.Context(), orderID, status)
	recordOrderOperation("set_status", err, !res.Found)
	if err != nil {
		h.serverError(w, "Error updating status", err)
		return
	}
	if !res.Found {
		slog.Info("Status change for unknown order ignored", "order_id", orderID)
		h.redirect(w, r, "/admin/orders", "", "")
		return
	}

	ev := events.New(events.OrderStatusChanged)
	ev.OrderID = res.Value.ID
	ev.Username = res.Value.User
	ev.Status = res.Value.Status
	ev.Total = res.Value.Total
	h.publish(r, ev)

	h.redirect(w, r, "/admin/orders", "success", "Order #"+strconv.Itoa(orderID)+" updated!")
}

func (h *AdminHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := h.Store.DeleteOrder(r.Context(), orderID)
	recordOrderOperation("delete", err, !res.Found)
	if err != nil {
		h.serverError(w, "Error deleting order", err)
		return
	}
	if !res.Found {
		h.redirect(w, r, "/admin/orders", "", "")
		return
	}

	ev := events.New(events.OrderDeleted)
	ev.OrderID = res.Value.ID
	ev.Username = res.Value.User
	ev.Status = res.Value.Status
	h.publish(r, ev)

	h.redirect(w, r, "/admin/orders", "success", "Order #"+strconv.Itoa(orderID)+" deleted.")
}
