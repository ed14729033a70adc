// Package store holds the twin's mutable runtime state: the active device
// selection and the log of identity probes. The catalogue itself lives in
// internal/catalog and is never mutated.
package store

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/pixeltwin-dev/pixeltwin/internal/catalog"
	pkgstore "github.com/pixeltwin-dev/pixeltwin/pkg/store"
)

// MemoryStore holds all twin state.
type MemoryStore struct {
	mu        sync.RWMutex
	catalog   *catalog.Catalog
	selection Selection

	Probes *pkgstore.Store[Probe]
}

// New creates a MemoryStore seeded with the catalogue's default selection.
func New(cat *catalog.Catalog) *MemoryStore {
	return &MemoryStore{
		catalog:   cat,
		selection: Selection{Device: cat.DefaultDevice()},
		Probes:    pkgstore.New[Probe]("probe"),
	}
}

// Selection returns a copy of the active selection.
func (s *MemoryStore) Selection() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sel := s.selection
	sel.DisabledFlags = append([]string(nil), s.selection.DisabledFlags...)
	return sel
}

// SetSelection replaces the active selection.
func (s *MemoryStore) SetSelection(sel Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sel.DisabledFlags = append([]string(nil), sel.DisabledFlags...)
	s.selection = sel
}

// RecordProbe logs one identity query and its answer.
func (s *MemoryStore) RecordProbe(kind, key, answer string) {
	id := s.Probes.NextID()
	s.Probes.Set(id, Probe{
		Kind:      kind,
		Key:       key,
		Answer:    answer,
		Timestamp: time.Now(),
	})
}

type stateSnapshot struct {
	Selection Selection        `json:"selection"`
	Probes    map[string]Probe `json:"probes"`
}

// Snapshot returns the full state for GET /admin/state.
func (s *MemoryStore) Snapshot() any {
	return stateSnapshot{
		Selection: s.Selection(),
		Probes:    s.Probes.Snapshot(),
	}
}

// LoadState replaces the full state from a JSON body.
func (s *MemoryStore) LoadState(data []byte) error {
	var snap stateSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	if snap.Selection.Device != "" {
		s.SetSelection(snap.Selection)
	}
	s.Probes.LoadSnapshot(snap.Probes)
	return nil
}

// Reset clears the probe log and restores the catalogue default selection.
func (s *MemoryStore) Reset() {
	s.SetSelection(Selection{Device: s.catalog.DefaultDevice()})
	s.Probes.Reset()
}
