package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned when a record referenced directly by id does not exist.
var ErrNotFound = errors.New("record not found")

// Lookup is the result of locating a record. Direct lookups turn a miss into
// ErrNotFound via Require; bulk mutations simply ignore Found == false.
type Lookup[T any] struct {
	Value T
	Found bool
}

func found[T any](v T) Lookup[T] {
	return Lookup[T]{Value: v, Found: true}
}

// Require returns the value, or ErrNotFound if nothing matched.
func (l Lookup[T]) Require() (T, error) {
	if !l.Found {
		return l.Value, ErrNotFound
	}
	return l.Value, nil
}

// Collection is a typed JSON array stored as one document. When envelope is
// set the array is nested under that key, e.g. {"users": [...]}.
type Collection[T any] struct {
	name     string
	envelope string
	backend  Backend
	mu       sync.Mutex
}

func NewCollection[T any](backend Backend, name, envelope string) *Collection[T] {
	return &Collection[T]{name: name, envelope: envelope, backend: backend}
}

func (c *Collection[T]) Name() string {
	return c.name
}

// Load returns every record. A missing document is an empty collection.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// Update runs a full read-modify-write while holding the collection lock.
// fn returns the new contents and whether anything changed; unchanged
// collections are not written back.
func (c *Collection[T]) Update(ctx context.Context, fn func(items []T) ([]T, bool, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load(ctx)
	if err != nil {
		return err
	}
	items, changed, err := fn(items)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return c.save(ctx, items)
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	data, err := c.backend.Load(ctx, c.name)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", c.name, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	if c.envelope != "" {
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", c.name, err)
		}
		data = doc[c.envelope]
		if len(data) == 0 {
			return []T{}, nil
		}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", c.name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	var doc any = items
	if c.envelope != "" {
		doc = map[string][]T{c.envelope: items}
	}
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.name, err)
	}
	if err := c.backend.Save(ctx, c.name, data); err != nil {
		return fmt.Errorf("failed to save %s: %w", c.name, err)
	}
	return nil
}
