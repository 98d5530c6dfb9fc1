// Package recognition orchestrates pattern storage, fast-path
// classification, and evolution. A Service owns a pattern table and a
// quantized interpreter; callers feed numeric payloads in and subscribe
// to lifecycle events on the service's bus.
package recognition

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/spikenet-io/spikenet/internal/events"
	"github.com/spikenet-io/spikenet/internal/evolution"
	"github.com/spikenet-io/spikenet/internal/logging"
	"github.com/spikenet-io/spikenet/internal/pattern"
	"github.com/spikenet-io/spikenet/internal/quantized"
	"github.com/spikenet-io/spikenet/internal/store"
)

const (
	// bitThreshold splits a numeric payload into 0/1 spike bits.
	bitThreshold = 0.5

	// energyPerActiveBit is the linear energy proxy per active input
	// bit. A proxy, not hardware telemetry.
	energyPerActiveBit = 0.15

	// staleAge and staleCountLimit gate the optimization sweep: a
	// pattern is removed only when it is BOTH older than staleAge and
	// matched fewer than staleCountLimit times, so frequently-matched
	// old patterns survive.
	staleAge        = 30 * 24 * time.Hour
	staleCountLimit = 5
)

// Options tune one recognition call.
type Options struct {
	// Threshold is the minimum similarity for a match to be reported.
	// It gates match reporting only; the returned confidence is always
	// the raw best similarity.
	Threshold float64

	// EnableLearning updates access bookkeeping and fitness on a match.
	EnableLearning bool

	// EnableEvolution lets a matched pattern mutate toward the
	// interpreter's output spikes.
	EnableEvolution bool
}

// DefaultOptions returns the standard recognize options.
func DefaultOptions() Options {
	return Options{Threshold: 0.6, EnableLearning: true}
}

// PatternInput is the caller-supplied payload for StorePattern.
type PatternInput struct {
	ID       string
	Label    string
	Data     []float64
	Metadata map[string]any
}

// Comparison scores the input against one stored pattern.
type Comparison struct {
	PatternID  string  `json:"pattern_id"`
	Label      string  `json:"label"`
	Similarity float64 `json:"similarity"`
}

// Result is the outcome of one recognition call.
type Result struct {
	Matched    bool    `json:"matched"`
	PatternID  string  `json:"pattern_id,omitempty"`
	Label      string  `json:"label,omitempty"`
	Confidence float64 `json:"confidence"`

	// Comparisons ranks every stored pattern by similarity, best first.
	Comparisons []Comparison `json:"comparisons,omitempty"`

	// Energy is the linear consumption proxy for this call.
	Energy float64 `json:"energy"`

	// OutputSpikes is the interpreter's per-output spike count.
	OutputSpikes []byte `json:"output_spikes"`

	ProcessingTime time.Duration `json:"processing_time"`
	NetworkState   string        `json:"network_state"`
}

// Config assembles a Service.
type Config struct {
	// Classifier is the owned interpreter. Required.
	Classifier *quantized.Interpreter

	// Store, when set, is the durable copy of the pattern table. The
	// service loads it at construction and writes through to it.
	Store store.PatternStore

	// Bus receives lifecycle events; created when nil.
	Bus *events.Bus

	// Logger defaults to slog.Default.
	Logger *slog.Logger

	// Trace, when non-nil, records per-call recognition traces.
	Trace *logging.TraceLogger

	// RNG seeds evolution; time-seeded when nil.
	RNG *rand.Rand
}

// Service owns the pattern table, interpreter, similarity cache, and
// evolution engine. Methods are driven from a single goroutine.
type Service struct {
	interp *quantized.Interpreter
	table  map[string]*store.Pattern

	cache   *pattern.SimilarityCache
	evo     *evolution.Engine
	bus     *events.Bus
	persist store.PatternStore
	log     *slog.Logger
	trace   *logging.TraceLogger

	// now is the clock; tests substitute a fixed one.
	now func() time.Time
}

// NewService builds a service and, when a store is configured, loads
// the persisted pattern table into memory.
func NewService(cfg Config) (*Service, error) {
	if cfg.Classifier == nil {
		return nil, fmt.Errorf("recognition: classifier is required")
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	bus := cfg.Bus
	if bus == nil {
		bus = events.NewBus(log)
	}

	s := &Service{
		interp:  cfg.Classifier,
		table:   make(map[string]*store.Pattern),
		cache:   pattern.NewSimilarityCache(),
		evo:     evolution.New(cfg.RNG),
		bus:     bus,
		persist: cfg.Store,
		log:     log,
		trace:   cfg.Trace,
		now:     time.Now,
	}

	if s.persist != nil {
		persisted, err := s.persist.List(context.Background())
		if err != nil {
			return nil, fmt.Errorf("recognition: failed to load pattern table: %w", err)
		}
		for i := range persisted {
			p := persisted[i]
			s.table[p.ID] = &p
		}
		if len(persisted) > 0 {
			log.Info("pattern table loaded", "patterns", len(persisted))
		}
	}
	return s, nil
}

// Bus exposes the service's event bus for subscription.
func (s *Service) Bus() *events.Bus {
	return s.bus
}

// StorePattern thresholds the payload at 0.5 into a bit vector sized to
// the interpreter's input length, records it, and emits pattern_stored.
// An empty ID gets a generated one.
func (s *Service) StorePattern(ctx context.Context, in PatternInput) (store.Pattern, error) {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}

	p := store.Pattern{
		ID:           id,
		Label:        in.Label,
		Bits:         s.toBits(in.Data),
		LastAccessed: s.now(),
		Metadata:     in.Metadata,
	}

	if s.persist != nil {
		if err := s.persist.Put(ctx, p); err != nil {
			return store.Pattern{}, fmt.Errorf("failed to persist pattern %s: %w", id, err)
		}
	}
	s.table[id] = &p

	s.log.Debug("pattern stored", "pattern_id", id, "label", in.Label)
	s.bus.Publish(events.Event{
		Type:      events.TypePatternStored,
		PatternID: id,
		Label:     in.Label,
	})
	return p, nil
}

// Recognize classifies the input against the stored patterns. The
// result's confidence is the raw best similarity; opts.Threshold only
// decides whether a match is reported. A nil opts uses DefaultOptions.
func (s *Service) Recognize(ctx context.Context, input []float64, opts *Options) (Result, error) {
	start := time.Now()
	o := DefaultOptions()
	if opts != nil {
		o = *opts
	}

	bits := s.toBits(input)
	outputSpikes := s.interp.Process(bits)

	res := Result{
		Energy:       energyPerActiveBit * float64(countActive(bits)),
		OutputSpikes: outputSpikes,
		NetworkState: networkState(outputSpikes),
	}

	res.Comparisons = make([]Comparison, 0, len(s.table))
	for _, p := range s.table {
		res.Comparisons = append(res.Comparisons, Comparison{
			PatternID:  p.ID,
			Label:      p.Label,
			Similarity: s.cache.Similarity(bits, p.Bits),
		})
	}
	sort.Slice(res.Comparisons, func(i, j int) bool {
		a, b := res.Comparisons[i], res.Comparisons[j]
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		return a.PatternID < b.PatternID
	})

	if len(res.Comparisons) > 0 {
		best := res.Comparisons[0]
		res.Confidence = best.Similarity
		if best.Similarity >= o.Threshold {
			res.Matched = true
			res.PatternID = best.PatternID
			res.Label = best.Label
			s.onMatch(ctx, s.table[best.PatternID], best.Similarity, outputSpikes, o)
		}
	}

	res.ProcessingTime = time.Since(start)

	s.trace.Log(map[string]any{
		"matched":    res.Matched,
		"pattern_id": res.PatternID,
		"confidence": res.Confidence,
		"energy":     res.Energy,
		"candidates": len(res.Comparisons),
	})

	if res.Matched {
		matched := s.table[res.PatternID]
		s.bus.Publish(events.Event{
			Type:       events.TypePatternRecognized,
			PatternID:  res.PatternID,
			Label:      res.Label,
			Confidence: res.Confidence,
			Pattern:    append([]byte(nil), matched.Bits...),
		})
	}
	return res, nil
}

// onMatch applies access bookkeeping, fitness, and optional evolution
// to the matched pattern.
func (s *Service) onMatch(ctx context.Context, p *store.Pattern, similarity float64, outputSpikes []byte, o Options) {
	dirty := false
	if o.EnableLearning {
		p.LastAccessed = s.now()
		p.RecognitionCount++
		s.evo.UpdateFitness(p.Label, similarity)
		dirty = true
	}
	if o.EnableEvolution {
		evolved := s.evo.EvolvePattern(p.Label, p.Bits, outputSpikes, s.cache.Similarity)
		if len(evolved) > 0 && len(p.Bits) > 0 && &evolved[0] != &p.Bits[0] {
			p.Bits = evolved
			dirty = true
		}
	}
	if dirty && s.persist != nil {
		if err := s.persist.Put(ctx, *p); err != nil {
			// Best-effort: the in-memory table is authoritative for
			// this process; persistence failures must not fail the
			// recognition loop.
			s.log.Error("failed to persist pattern update", "pattern_id", p.ID, "error", err)
		}
	}
}

// BatchRecognize applies Recognize to each input independently.
func (s *Service) BatchRecognize(ctx context.Context, inputs [][]float64, opts *Options) ([]Result, error) {
	out := make([]Result, 0, len(inputs))
	for _, input := range inputs {
		res, err := s.Recognize(ctx, input, opts)
		if err != nil {
			return out, err
		}
		out = append(out, res)
	}
	return out, nil
}

// DeletePattern removes the pattern from the table and the store.
// Reports false for an unknown id; never an error for one.
func (s *Service) DeletePattern(ctx context.Context, id string) (bool, error) {
	if _, ok := s.table[id]; !ok {
		return false, nil
	}
	if s.persist != nil {
		if _, err := s.persist.Delete(ctx, id); err != nil {
			return false, fmt.Errorf("failed to delete pattern %s: %w", id, err)
		}
	}
	delete(s.table, id)

	s.log.Debug("pattern deleted", "pattern_id", id)
	s.bus.Publish(events.Event{
		Type:      events.TypePatternDeleted,
		PatternID: id,
	})
	return true, nil
}

// OptimizeStorage removes patterns unused for more than 30 days that
// were matched fewer than 5 times. Returns the removed ids.
func (s *Service) OptimizeStorage(ctx context.Context) ([]string, error) {
	cutoff := s.now().Add(-staleAge)

	var removed []string
	for id, p := range s.table {
		if p.LastAccessed.Before(cutoff) && p.RecognitionCount < staleCountLimit {
			removed = append(removed, id)
		}
	}
	sort.Strings(removed)

	for _, id := range removed {
		if s.persist != nil {
			if _, err := s.persist.Delete(ctx, id); err != nil {
				return nil, fmt.Errorf("failed to delete stale pattern %s: %w", id, err)
			}
		}
		delete(s.table, id)
	}
	if len(removed) > 0 {
		s.log.Info("storage optimized", "removed", len(removed))
	}
	return removed, nil
}

// ClearPatterns drops the whole table and emits patterns_cleared.
func (s *Service) ClearPatterns(ctx context.Context) error {
	if s.persist != nil {
		if err := s.persist.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear patterns: %w", err)
		}
	}
	s.table = make(map[string]*store.Pattern)
	s.bus.Publish(events.Event{Type: events.TypePatternsCleared})
	return nil
}

// ListPatterns returns the current table ordered by id.
func (s *Service) ListPatterns() []store.Pattern {
	out := make([]store.Pattern, 0, len(s.table))
	for _, p := range s.table {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// GetPattern returns the pattern or nil.
func (s *Service) GetPattern(id string) *store.Pattern {
	p, ok := s.table[id]
	if !ok {
		return nil
	}
	out := *p
	return &out
}

// Stats summarizes the service for introspection surfaces.
type Stats struct {
	Patterns   int                         `json:"patterns"`
	InputSize  int                         `json:"input_size"`
	OutputSize int                         `json:"output_size"`
	Cache      pattern.CacheStats          `json:"cache"`
	Evolution  map[string]evolution.Record `json:"evolution,omitempty"`
}

// Stats reports table size, interpreter sizing, cache effectiveness,
// and per-label evolution records.
func (s *Service) Stats() Stats {
	cfg := s.interp.Config()
	return Stats{
		Patterns:   len(s.table),
		InputSize:  cfg.InputSize,
		OutputSize: cfg.OutputSize,
		Cache:      s.cache.Stats(),
		Evolution:  s.evo.Stats(),
	}
}

// toBits thresholds the payload at 0.5 and sizes it to the
// interpreter's input length: oversized input is truncated, undersized
// input zero-padded. Every stored bit vector therefore matches the
// interpreter's configured input length.
func (s *Service) toBits(data []float64) []byte {
	size := s.interp.Config().InputSize
	bits := make([]byte, size)
	for i := 0; i < size && i < len(data); i++ {
		if data[i] > bitThreshold {
			bits[i] = 1
		}
	}
	return bits
}

func countActive(bits []byte) int {
	n := 0
	for _, b := range bits {
		if b != 0 {
			n++
		}
	}
	return n
}

// networkState renders a short human-readable activity summary.
func networkState(outputSpikes []byte) string {
	active := 0
	for _, v := range outputSpikes {
		if v > 0 {
			active++
		}
	}
	return fmt.Sprintf("active outputs: %d/%d", active, len(outputSpikes))
}
