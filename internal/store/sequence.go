package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

const sequencesDoc = "sequences"

// Sequencer hands out ids that never repeat, even after records are deleted.
// The counters live in their own document next to the collections.
type Sequencer struct {
	backend Backend
	mu      sync.Mutex
}

func NewSequencer(backend Backend) *Sequencer {
	return &Sequencer{backend: backend}
}

// Next returns max(last issued, floor) + 1 for the named sequence and persists it.
// floor is the highest id already present in the collection.
func (s *Sequencer) Next(ctx context.Context, name string, floor int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counters := make(map[string]int)
	data, err := s.backend.Load(ctx, sequencesDoc)
	if err != nil {
		return 0, fmt.Errorf("failed to load sequences: %w", err)
	}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &counters); err != nil {
			return 0, fmt.Errorf("failed to decode sequences: %w", err)
		}
	}

	next := max(counters[name], floor) + 1
	counters[name] = next

	data, err = json.MarshalIndent(counters, "", "    ")
	if err != nil {
		return 0, err
	}
	if err := s.backend.Save(ctx, sequencesDoc, data); err != nil {
		return 0, fmt.Errorf("failed to save sequences: %w", err)
	}
	return next, nil
}
