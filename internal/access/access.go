// Package access decides which storefront operations an identity may invoke.
package access

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated means the caller has no session identity and should log in.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrForbidden means the caller is logged in but their role lacks the capability.
	ErrForbidden = errors.New("forbidden")
)

type Role int

const (
	Guest Role = iota
	Customer
	Admin
)

func (r Role) String() string {
	switch r {
	case Customer:
		return "customer"
	case Admin:
		return "admin"
	default:
		return "guest"
	}
}

// ParseRole maps a stored role string onto a Role. Unknown strings are an error
// so a corrupted users document never silently grants anything.
func ParseRole(s string) (Role, error) {
	switch s {
	case "", "guest":
		return Guest, nil
	case "customer":
		return Customer, nil
	case "admin":
		return Admin, nil
	}
	return Guest, fmt.Errorf("unknown role %q", s)
}

type Capability int

const (
	BrowseCatalog Capability = iota
	SubmitContact
	ManageCart
	PlaceOrder
	ViewOwnOrders
	ManageOwnDialogs
	ManageAllOrders
	ManageAllDialogs
	ViewCounters
)

func (c Capability) String() string {
	switch c {
	case BrowseCatalog:
		return "browse_catalog"
	case SubmitContact:
		return "submit_contact"
	case ManageCart:
		return "manage_cart"
	case PlaceOrder:
		return "place_order"
	case ViewOwnOrders:
		return "view_own_orders"
	case ManageOwnDialogs:
		return "manage_own_dialogs"
	case ManageAllOrders:
		return "manage_all_orders"
	case ManageAllDialogs:
		return "manage_all_dialogs"
	case ViewCounters:
		return "view_counters"
	}
	return fmt.Sprintf("capability(%d)", int(c))
}

var grants = map[Role]map[Capability]bool{
	Guest: {
		BrowseCatalog: true,
		SubmitContact: true,
	},
	Customer: {
		BrowseCatalog:    true,
		SubmitContact:    true,
		ManageCart:       true,
		PlaceOrder:       true,
		ViewOwnOrders:    true,
		ManageOwnDialogs: true,
	},
	Admin: {
		BrowseCatalog:    true,
		SubmitContact:    true,
		ManageAllOrders:  true,
		ManageAllDialogs: true,
		ViewCounters:     true,
	},
}

// Identity is who a request acts as.
type Identity struct {
	Username string
	Role     Role
}

// Anonymous is the identity of a request without a login.
var Anonymous = Identity{Role: Guest}

func (id Identity) Authenticated() bool {
	return id.Role != Guest && id.Username != ""
}

func (id Identity) IsAdmin() bool {
	return id.Authenticated() && id.Role == Admin
}

// Can reports whether the identity holds the capability.
func (id Identity) Can(c Capability) bool {
	role := id.Role
	if !id.Authenticated() {
		role = Guest
	}
	return grants[role][c]
}

// Check returns nil when the identity may use the capability, ErrUnauthenticated
// when a login would be needed, and ErrForbidden for a logged-in identity with the wrong role.
func Check(id Identity, c Capability) error {
	if id.Can(c) {
		return nil
	}
	if !id.Authenticated() {
		return fmt.Errorf("%s: %w", c, ErrUnauthenticated)
	}
	return fmt.Errorf("%s as %s: %w", c, id.Role, ErrForbidden)
}

type ctxKey struct{}

// WithIdentity stores the identity in the request context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity placed by WithIdentity, or Anonymous.
func FromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(ctxKey{}).(Identity); ok {
		return id
	}
	return Anonymous
}
