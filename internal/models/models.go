package models

import (
	"time"
)

// TimeLayout is the format used for every persisted timestamp string.
const TimeLayout = "2006-01-02 15:04:05"

// FormatTime renders t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

type Product struct {
	ID         int     `json:"id"`
	CategoryID int     `json:"category_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
}

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Catalog is the read-only document produced by the catalog import tool.
// News and sales entries are passed through untouched.
type Catalog struct {
	Categories []Category       `json:"categories"`
	Products   []Product        `json:"products"`
	News       []map[string]any `json:"news"`
	Sales      []map[string]any `json:"sales"`
}

// ProductByID returns the product with the given id, if the catalog still lists it.
func (c *Catalog) ProductByID(id int) (Product, bool) {
	if c == nil {
		return Product{}, false
	}
	for _, p := range c.Products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

const (
	OrderPlaced     = "placed"
	OrderProcessing = "processing"
	OrderCompleted  = "completed"
	OrderCancelled  = "cancelled"
)

// OrderStatuses lists the statuses offered in the admin UI. Any other string is still accepted.
var OrderStatuses = []string{OrderPlaced, OrderProcessing, OrderCompleted, OrderCancelled}

type Order struct {
	ID     int         `json:"id"`
	User   string      `json:"user"`
	Date   string      `json:"date"`
	Status string      `json:"status"`
	Total  float64     `json:"total"`
	Items  []OrderItem `json:"items"`
}

// OrderItem is a snapshot of the product at the time the order was placed.
type OrderItem struct {
	ProductID int     `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
	Sum       float64 `json:"sum"`
}

const (
	DialogOpen   = "open"
	DialogClosed = "closed"

	// AuthorAdmin marks messages written by staff.
	AuthorAdmin = "admin"
	// AuthorCustomer marks messages from anonymous visitors.
	AuthorCustomer = "customer"
)

type Dialog struct {
	ID         int             `json:"id"`
	Topic      string          `json:"topic"`
	Status     string          `json:"status"`
	CreatedAt  string          `json:"created_at"`
	Originator Originator      `json:"originator"`
	Messages   []DialogMessage `json:"messages"`
}

// IsOpen reports whether the dialog still accepts messages.
func (d Dialog) IsOpen() bool {
	return d.Status == DialogOpen
}

// LastAuthor returns the author of the newest message, or "" for an empty dialog.
func (d Dialog) LastAuthor() string {
	if len(d.Messages) == 0 {
		return ""
	}
	return d.Messages[len(d.Messages)-1].Author
}

type Originator struct {
	Username string `json:"username,omitempty"`
	Role     string `json:"role"` // "guest" or "customer"
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
}

type DialogMessage struct {
	Author string `json:"author"`
	Text   string `json:"text"`
	Date   string `json:"date"`
}

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"` // bcrypt hash
	Role     string `json:"role"`     // "customer" or "admin"
}
