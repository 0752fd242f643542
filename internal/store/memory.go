package store

import (
	"context"
	"sync"

	"github.com/jbalsam/patchvault/internal/record"
)

// MemoryStore keeps records in a map, for tests and dry runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[record.VersionID]record.PatchRecord
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[record.VersionID]record.PatchRecord)}
}

// Put applies the same skip-or-overwrite policy as the durable backends.
func (s *MemoryStore) Put(_ context.Context, rec record.PatchRecord, overwrite bool) (PutOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.records[rec.Version]
	if exists && !overwrite {
		return OutcomeSkipped, nil
	}
	s.records[rec.Version] = rec
	if exists {
		return OutcomeReplaced, nil
	}
	return OutcomeStored, nil
}

// List returns the held records in map order.
func (s *MemoryStore) List(_ context.Context) ([]record.PatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]record.PatchRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out, nil
}
