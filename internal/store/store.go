// Package store defines the PatternStore interface for persisting
// stored spike patterns, with in-memory and SQLite implementations.
//
// The recognition service keeps its working pattern table in memory; a
// store is the durable copy it loads at startup and writes through to.
package store

import (
	"context"
	"time"
)

// Pattern is a persisted recognition target: a fixed-length bit vector
// plus access bookkeeping.
type Pattern struct {
	ID               string         `json:"id"`
	Label            string         `json:"label"`
	Bits             []byte         `json:"bits"`
	LastAccessed     time.Time      `json:"last_accessed"`
	RecognitionCount int            `json:"recognition_count"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// PatternStore persists patterns. Implementations are safe for
// concurrent use.
type PatternStore interface {
	// Put inserts or replaces the pattern keyed by its ID.
	Put(ctx context.Context, p Pattern) error

	// Get returns the pattern or nil when absent.
	Get(ctx context.Context, id string) (*Pattern, error)

	// Delete removes the pattern, reporting whether it existed.
	Delete(ctx context.Context, id string) (bool, error)

	// List returns all patterns ordered by ID.
	List(ctx context.Context) ([]Pattern, error)

	// Clear removes every pattern.
	Clear(ctx context.Context) error

	Close() error
}
