// Package events provides the synchronous lifecycle event bus for the
// recognition service. Listeners run inline, in registration order; a
// panicking listener is recovered and logged without interrupting its
// siblings or the publisher.
package events

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Type identifies a lifecycle event.
type Type string

const (
	TypePatternStored     Type = "pattern_stored"
	TypePatternRecognized Type = "pattern_recognized"
	TypePatternDeleted    Type = "pattern_deleted"
	TypePatternsCleared   Type = "patterns_cleared"
)

// Event is a single lifecycle notification. Fields beyond ID, Type, and
// Timestamp are populated per type.
type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Timestamp time.Time `json:"timestamp"`

	PatternID  string  `json:"pattern_id,omitempty"`
	Label      string  `json:"label,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`

	// Pattern carries the matched bit vector on recognition events.
	Pattern []byte `json:"pattern,omitempty"`
}

// Listener receives every published event.
type Listener func(Event)

// Bus fans events out to listeners. Not safe for concurrent
// subscription during publish; the service owns and drives it from a
// single goroutine.
type Bus struct {
	listeners []Listener
	log       *slog.Logger
}

// NewBus creates a bus. A nil logger falls back to slog.Default.
func NewBus(log *slog.Logger) *Bus {
	if log == nil {
		log = slog.Default()
	}
	return &Bus{log: log}
}

// Subscribe appends a listener; it will see every subsequent event, in
// registration order relative to other listeners.
func (b *Bus) Subscribe(fn Listener) {
	b.listeners = append(b.listeners, fn)
}

// Publish stamps the event with an ID and timestamp (when unset) and
// delivers it to every listener in order.
func (b *Bus) Publish(ev Event) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	for i, fn := range b.listeners {
		b.deliver(i, fn, ev)
	}
}

// deliver invokes one listener, containing any panic so the remaining
// listeners and the publisher are unaffected.
func (b *Bus) deliver(idx int, fn Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event listener panicked",
				"listener", idx,
				"event_type", string(ev.Type),
				"event_id", ev.ID,
				"panic", r,
			)
		}
	}()
	fn(ev)
}
