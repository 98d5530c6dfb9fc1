package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// InMemoryPatternStore implements PatternStore for tests and for
// deployments that do not want the pattern table to outlive the
// process.
type InMemoryPatternStore struct {
	mu       sync.RWMutex
	patterns map[string]Pattern
}

// NewInMemoryPatternStore creates an empty in-memory store.
func NewInMemoryPatternStore() *InMemoryPatternStore {
	return &InMemoryPatternStore{patterns: make(map[string]Pattern)}
}

// Put inserts or replaces the pattern.
func (s *InMemoryPatternStore) Put(ctx context.Context, p Pattern) error {
	if p.ID == "" {
		return fmt.Errorf("pattern ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns[p.ID] = clonePattern(p)
	return nil
}

// Get returns the pattern or nil when absent.
func (s *InMemoryPatternStore) Get(ctx context.Context, id string) (*Pattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.patterns[id]
	if !ok {
		return nil, nil
	}
	out := clonePattern(p)
	return &out, nil
}

// Delete removes the pattern, reporting whether it existed.
func (s *InMemoryPatternStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.patterns[id]
	delete(s.patterns, id)
	return ok, nil
}

// List returns all patterns ordered by ID.
func (s *InMemoryPatternStore) List(ctx context.Context) ([]Pattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Pattern, 0, len(s.patterns))
	for _, p := range s.patterns {
		out = append(out, clonePattern(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Clear removes every pattern.
func (s *InMemoryPatternStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns = make(map[string]Pattern)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryPatternStore) Close() error {
	return nil
}

// clonePattern deep-copies the slices and map so callers cannot mutate
// stored state through shared references.
func clonePattern(p Pattern) Pattern {
	out := p
	if p.Bits != nil {
		out.Bits = make([]byte, len(p.Bits))
		copy(out.Bits, p.Bits)
	}
	if p.Metadata != nil {
		out.Metadata = make(map[string]any, len(p.Metadata))
		for k, v := range p.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}
