// Package cart holds the per-session shopping cart: product id -> quantity.
package cart

import (
	"sort"
	"strconv"
)

// Cart is owned by a single session. The zero value is an empty cart.
type Cart struct {
	items map[string]int
}

// Load rebuilds a cart from a value previously stored with Snapshot.
// Anything unrecognised yields an empty cart.
func Load(v any) *Cart {
	c := &Cart{items: make(map[string]int)}
	src, ok := v.(map[string]int)
	if !ok {
		return c
	}
	for id, qty := range src {
		if qty > 0 {
			c.items[id] = qty
		}
	}
	return c
}

// Key is the cart key for a product id.
func Key(productID int) string {
	return strconv.Itoa(productID)
}

func (c *Cart) ensure() {
	if c.items == nil {
		c.items = make(map[string]int)
	}
}

// Add puts one more unit of the product into the cart.
func (c *Cart) Add(productID int) {
	c.Increment(productID)
}

func (c *Cart) Increment(productID int) {
	c.ensure()
	c.items[Key(productID)]++
}

// Decrement removes one unit; the entry disappears when it reaches zero.
// Decrementing a product that is not in the cart does nothing.
func (c *Cart) Decrement(productID int) {
	key := Key(productID)
	qty, ok := c.items[key]
	if !ok {
		return
	}
	c.set(key, qty-1)
}

func (c *Cart) Remove(productID int) {
	delete(c.items, Key(productID))
}

func (c *Cart) Clear() {
	c.items = make(map[string]int)
}

func (c *Cart) set(key string, qty int) {
	if qty <= 0 {
		delete(c.items, key)
		return
	}
	c.ensure()
	c.items[key] = qty
}

// Quantity returns the quantity for a product, 0 if absent.
func (c *Cart) Quantity(productID int) int {
	return c.items[Key(productID)]
}

func (c *Cart) Len() int {
	return len(c.items)
}

// Snapshot returns a copy of the cart contents suitable for storing in the session.
func (c *Cart) Snapshot() map[string]int {
	out := make(map[string]int, len(c.items))
	for k, v := range c.items {
		out[k] = v
	}
	return out
}

// Entry is one cart line.
type Entry struct {
	ProductID int
	Qty       int
}

// Entries returns cart lines ordered by product id. Keys that are not integers are skipped.
func Entries(snapshot map[string]int) []Entry {
	entries := make([]Entry, 0, len(snapshot))
	for k, qty := range snapshot {
		id, err := strconv.Atoi(k)
		if err != nil || qty <= 0 {
			continue
		}
		entries = append(entries, Entry{ProductID: id, Qty: qty})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ProductID < entries[j].ProductID })
	return entries
}
