package handlers

import (
	"net/http"

	"github.com/alextreichler/storefront/internal/access"
)

// NewRouter registers every route behind its access requirement. The returned
// mux is also needed by LoggingMiddleware to label metrics by route pattern;
// the handler wraps it with the session identity.
func NewRouter(b *Base, limiter *RateLimiter) (*http.ServeMux, http.Handler) {
	home := &HomeHandler{Base: b}
	auth := &AuthHandler{Base: b}
	carts := &CartHandler{Base: b}
	orders := &OrderHandler{Base: b}
	dialogs := &DialogHandler{Base: b}
	admin := &AdminHandler{Base: b}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", home.Index)
	mux.HandleFunc("/", b.NotFound)
	mux.Handle("GET /metrics", MetricsHandler())

	mux.HandleFunc("GET /login", auth.LoginGet)
	mux.HandleFunc("POST /login", limiter.Middleware(auth.LoginPost))
	mux.HandleFunc("GET /logout", auth.Logout)
	mux.HandleFunc("GET /register", auth.RegisterGet)
	mux.HandleFunc("POST /register", limiter.Middleware(auth.RegisterPost))

	mux.HandleFunc("GET /cart", b.Require(access.ManageCart, carts.View))
	mux.HandleFunc("POST /cart/add/{id}", b.Require(access.ManageCart, carts.Add()))
	mux.HandleFunc("POST /cart/inc/{id}", b.Require(access.ManageCart, carts.Increment()))
	mux.HandleFunc("POST /cart/dec/{id}", b.Require(access.ManageCart, carts.Decrement()))
	mux.HandleFunc("POST /cart/remove/{id}", b.Require(access.ManageCart, carts.Remove()))
	mux.HandleFunc("POST /cart/clear", b.Require(access.ManageCart, carts.Clear))

	mux.HandleFunc("POST /orders", b.Require(access.PlaceOrder, orders.Create))
	mux.HandleFunc("GET /orders", b.Require(access.ViewOwnOrders, orders.MyOrders))
	mux.HandleFunc("GET /orders/{id}", b.Require(access.ViewOwnOrders, orders.View))

	mux.HandleFunc("GET /contacts", b.Require(access.SubmitContact, dialogs.Contacts))
	mux.HandleFunc("POST /contact/send", b.Require(access.SubmitContact, limiter.Middleware(dialogs.ContactSend)))

	mux.HandleFunc("GET /dialogs", b.Require(access.ManageOwnDialogs, dialogs.List))
	mux.HandleFunc("POST /dialogs", b.Require(access.ManageOwnDialogs, dialogs.Create))
	mux.HandleFunc("GET /dialogs/{id}", b.Require(access.ManageOwnDialogs, dialogs.View))
	mux.HandleFunc("POST /dialogs/{id}/messages", b.Require(access.ManageOwnDialogs, dialogs.Append))

	mux.HandleFunc("GET /admin", b.Require(access.ViewCounters, admin.Dashboard))
	mux.HandleFunc("GET /admin/orders", b.Require(access.ManageAllOrders, admin.ListOrders))
	mux.HandleFunc("GET /admin/orders/{id}", b.Require(access.ManageAllOrders, admin.ViewOrder))
	mux.HandleFunc("POST /admin/orders/{id}/status", b.Require(access.ManageAllOrders, admin.UpdateOrderStatus))
	mux.HandleFunc("POST /admin/orders/{id}/delete", b.Require(access.ManageAllOrders, admin.DeleteOrder))
	mux.HandleFunc("GET /admin/dialogs", b.Require(access.ManageAllDialogs, admin.ListDialogs))
	mux.HandleFunc("GET /admin/dialogs/{id}", b.Require(access.ManageAllDialogs, admin.ViewDialog))
	mux.HandleFunc("POST /admin/dialogs/{id}/reply", b.Require(access.ManageAllDialogs, admin.Reply))
	mux.HandleFunc("POST /admin/dialogs/{id}/close", b.Require(access.ManageAllDialogs, admin.CloseDialog))

	return mux, b.IdentityMiddleware(mux)
}
