package store

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
)

// MemoryStore is a process-local [Store]. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

// Put implements [Store].
func (s *MemoryStore) Put(ctx context.Context, r Record) (Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, false, err
	}
	r, err := prepare(r)
	if err != nil {
		return Record{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, replaced := s.records[r.Name]
	s.records[r.Name] = r
	return r, replaced, nil
}

// Get implements [Store].
func (s *MemoryStore) Get(_ context.Context, name string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[name]
	if !ok {
		return Record{}, ErrNotFound
	}
	return r, nil
}

// Delete implements [Store].
func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[name]; !ok {
		return ErrNotFound
	}
	delete(s.records, name)
	return nil
}

// List implements [Store].
func (s *MemoryStore) List(context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := slices.Collect(maps.Values(s.records))
	slices.SortFunc(out, func(a, b Record) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

// Close implements [Store].
func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
