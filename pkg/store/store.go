// Package store provides the generic in-memory collection backing the twin's
// runtime records, such as the probe log. Listing follows insertion order and
// IDs are generated from a per-store counter, so replayed sessions produce
// identical state snapshots.
package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Store is a thread-safe in-memory collection of JSON-serializable values.
type Store[T any] struct {
	mu      sync.RWMutex
	items   map[string]T
	order   []string
	prefix  string
	counter uint64
}

// New creates an empty store whose generated IDs carry the given prefix.
func New[T any](prefix string) *Store[T] {
	return &Store[T]{
		items:  map[string]T{},
		prefix: prefix,
	}
}

// NextID returns the next ID in the "{prefix}_{000001}" sequence.
func (s *Store[T]) NextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counter++
	return fmt.Sprintf("%s_%06d", s.prefix, s.counter)
}

// Set stores item under id. Overwriting an existing id keeps its original
// position in the listing order.
func (s *Store[T]) Set(id string, item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[id]; !exists {
		s.order = append(s.order, id)
	}
	s.items[id] = item
}

// Get returns the item stored under id, if any.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[id]
	return item, ok
}

// List returns every item, oldest first.
func (s *Store[T]) List() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.order))
	for i, id := range s.order {
		out[i] = s.items[id]
	}
	return out
}

// ListIDs returns every ID, oldest first.
func (s *Store[T]) ListIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Count returns the number of stored items.
func (s *Store[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Filter returns the items matching the predicate, oldest first.
func (s *Store[T]) Filter(keep func(id string, item T) bool) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []T
	for _, id := range s.order {
		if keep(id, s.items[id]) {
			out = append(out, s.items[id])
		}
	}
	return out
}

// Reset drops every item and restarts the ID sequence.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = map[string]T{}
	s.order = nil
	s.counter = 0
}

// Snapshot returns a copy of the contents keyed by ID.
func (s *Store[T]) Snapshot() map[string]T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(map[string]T, len(s.items))
	for id, item := range s.items {
		snap[id] = item
	}
	return snap
}

// LoadSnapshot replaces the contents with the given map. JSON objects carry
// no order, so IDs are sorted; generated IDs sort in generation order.
func (s *Store[T]) LoadSnapshot(snap map[string]T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]T, len(snap))
	s.order = make([]string, 0, len(snap))
	for id, item := range snap {
		s.items[id] = item
		s.order = append(s.order, id)
	}
	sort.Strings(s.order)
}

// MarshalJSON encodes the store as its ID-keyed contents.
func (s *Store[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Snapshot())
}

// UnmarshalJSON replaces the store contents from an ID-keyed object.
func (s *Store[T]) UnmarshalJSON(data []byte) error {
	var snap map[string]T
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	s.LoadSnapshot(snap)
	return nil
}
