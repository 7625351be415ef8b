package resource

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory resource store for tests and dry runs.
type MemoryStore struct {
	mu           sync.Mutex
	relations    [][]string
	entities     []string
	equivalences [][]string
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Driver returns the backend identifier.
func (s *MemoryStore) Driver() Driver { return DriverMemory }

// SeedRelations installs pre-existing relation rows, as if accepted by an
// earlier run.
func (s *MemoryStore) SeedRelations(rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relations = append(s.relations, rows...)
}

// ReadRelations returns a copy of the stored relation rows.
func (s *MemoryStore) ReadRelations(_ context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.relations))
	copy(out, s.relations)
	return out, nil
}

// AppendRelations implements Store.
func (s *MemoryStore) AppendRelations(_ context.Context, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.relations = append(s.relations, rows...)
	return nil
}

// AppendEntities implements Store.
func (s *MemoryStore) AppendEntities(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entities = append(s.entities, ids...)
	return nil
}

// AppendEquivalences implements Store.
func (s *MemoryStore) AppendEquivalences(_ context.Context, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.equivalences = append(s.equivalences, rows...)
	return nil
}

// Entities returns a copy of the stored entity ids.
func (s *MemoryStore) Entities() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.entities))
	copy(out, s.entities)
	return out
}

// Equivalences returns a copy of the stored equivalence rows.
func (s *MemoryStore) Equivalences() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, len(s.equivalences))
	copy(out, s.equivalences)
	return out
}
