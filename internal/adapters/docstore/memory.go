// Package docstore provides document cache store adapters.
// Clean Architecture: Adapters implementing ports.DocumentStore.
package docstore

import (
	"sort"
	"sync"

	"github.com/rvail/filechat-go/internal/domain/entities"
)

// MemoryStore is a map-only document store with no durable mirror.
// Used by tests and the "memory" cache backend; the file and SQLite stores
// can be swapped in without changing usecases.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[entities.Fingerprint]entities.DocumentRecord
}

// NewMemoryStore creates a new in-memory document store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[entities.Fingerprint]entities.DocumentRecord),
	}
}

// Get looks up a record by fingerprint.
func (s *MemoryStore) Get(fp entities.Fingerprint) (*entities.DocumentRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[fp]
	if !ok {
		return nil, false
	}
	return &rec, true
}

// Put inserts or replaces a record.
func (s *MemoryStore) Put(rec entities.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.Fingerprint] = rec
	return nil
}

// UpdateSummary replaces the summary of an existing record.
func (s *MemoryStore) UpdateSummary(fp entities.Fingerprint, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[fp]
	if !ok {
		return &entities.NotFoundError{Fingerprint: fp}
	}
	rec.Summary = summary
	s.records[fp] = rec
	return nil
}

// Load is a no-op: there is no durable representation.
func (s *MemoryStore) Load() error { return nil }

// Save is a no-op: there is no durable representation.
func (s *MemoryStore) Save() error { return nil }

// Records returns a snapshot of all cached records, newest first.
func (s *MemoryStore) Records() []entities.DocumentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return snapshot(s.records)
}

// Len returns the number of cached documents.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// snapshot copies a record map into a slice sorted newest first.
func snapshot(records map[entities.Fingerprint]entities.DocumentRecord) []entities.DocumentRecord {
	out := make([]entities.DocumentRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CachedAt.Equal(out[j].CachedAt) {
			return out[i].CachedAt.After(out[j].CachedAt)
		}
		return out[i].Fingerprint < out[j].Fingerprint
	})
	return out
}
