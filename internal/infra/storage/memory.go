package storage

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore implements RegionStore in process memory. Nothing survives a
// restart; it exists for tests and for running without persistence.
type MemoryStore struct {
	mu      sync.RWMutex
	regions map[string]RegionRecord
}

var _ RegionStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{regions: make(map[string]RegionRecord)}
}

// SaveRegion persists a new record
func (s *MemoryStore) SaveRegion(_ context.Context, record RegionRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.regions[record.Name]; ok {
		return ErrRegionExists
	}
	s.regions[record.Name] = record
	return nil
}

// GetRegion loads a record by name
func (s *MemoryStore) GetRegion(_ context.Context, name string) (RegionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.regions[name]
	if !ok {
		return RegionRecord{}, ErrRegionNotFound
	}
	return record, nil
}

// ListRegions returns all records ordered by creation time
func (s *MemoryStore) ListRegions(_ context.Context) ([]RegionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]RegionRecord, 0, len(s.regions))
	for _, r := range s.regions {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

// DeleteRegion removes a record by name
func (s *MemoryStore) DeleteRegion(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.regions[name]; !ok {
		return ErrRegionNotFound
	}
	delete(s.regions, name)
	return nil
}

// Close is a no-op for the in-memory store
func (s *MemoryStore) Close() error { return nil }

// Health always succeeds for the in-memory store
func (s *MemoryStore) Health(_ context.Context) error { return nil }
