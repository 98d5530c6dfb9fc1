// Package evolution mutates stored spike patterns toward the network
// output they are matched against. The search is pure hill-climbing: a
// mutant replaces the original only when it scores strictly better, so
// a pattern never regresses. Mutation is throttled to every fifth
// attempt per label to keep the hot recognition path cheap.
package evolution

import (
	"math/rand"
	"time"
)

const (
	// mutationInterval is the per-label call count between mutation
	// attempts; other calls return the pattern unchanged.
	mutationInterval = 5

	// flipProbability is the independent per-bit flip chance when a
	// mutation is due.
	flipProbability = 0.05
)

// SimilarityFunc scores two spike patterns in [0,1].
type SimilarityFunc func(a, b []byte) float64

// Record tracks evolution bookkeeping for one label.
type Record struct {
	Generation int     `json:"generation"`
	Fitness    float64 `json:"fitness"`
}

// Engine owns per-label evolution state. Not safe for concurrent use.
type Engine struct {
	records map[string]*Record
	rng     *rand.Rand
}

// New creates an engine. A nil rng gets a time-seeded one.
func New(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		records: make(map[string]*Record),
		rng:     rng,
	}
}

// EvolvePattern advances the label's generation counter and, on every
// fifth call, tries a mutant of pat: each bit flips independently with
// 5% probability, and the mutant is returned only when it matches
// outputSpikes strictly better than the original under sim. All other
// calls return pat unchanged.
func (e *Engine) EvolvePattern(label string, pat, outputSpikes []byte, sim SimilarityFunc) []byte {
	rec := e.record(label)
	rec.Generation++
	if rec.Generation%mutationInterval != 0 {
		return pat
	}

	mutant := make([]byte, len(pat))
	copy(mutant, pat)
	for i := range mutant {
		if e.rng.Float64() < flipProbability {
			if mutant[i] == 0 {
				mutant[i] = 1
			} else {
				mutant[i] = 0
			}
		}
	}

	if sim(outputSpikes, mutant) > sim(outputSpikes, pat) {
		return mutant
	}
	return pat
}

// UpdateFitness accumulates a similarity observation into the label's
// running fitness total.
func (e *Engine) UpdateFitness(label string, similarity float64) {
	e.record(label).Fitness += similarity
}

// Stats returns a copy of all per-label records.
func (e *Engine) Stats() map[string]Record {
	out := make(map[string]Record, len(e.records))
	for label, rec := range e.records {
		out[label] = *rec
	}
	return out
}

// Reset drops all per-label state.
func (e *Engine) Reset() {
	e.records = make(map[string]*Record)
}

func (e *Engine) record(label string) *Record {
	rec, ok := e.records[label]
	if !ok {
		rec = &Record{}
		e.records[label] = rec
	}
	return rec
}
