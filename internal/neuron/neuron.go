// Package neuron implements a leaky integrate-and-fire (LIF) unit.
//
// A neuron integrates weighted input spikes into its membrane potential,
// fires when the potential reaches its threshold, and is then silent for a
// fixed refractory window during which it neither fires nor integrates
// input. Between spikes the potential leaks back toward the resting level.
package neuron

import "math"

const (
	// historyLimit bounds the firing-history ring buffer.
	historyLimit = 100

	// MinExcitability and MaxExcitability clamp the homeostatic
	// excitability multiplier.
	MinExcitability = 0.1
	MaxExcitability = 5.0

	// inhibitionFloorOffset is how far below resting potential
	// inhibitory input can drive the membrane.
	inhibitionFloorOffset = 20.0

	// defaultWeight applies when a spike arrives from an unregistered
	// or anonymous source.
	defaultWeight = 1.0
)

// Neuron is a single LIF unit. It performs no input validation; malformed
// parameters are a caller error.
type Neuron struct {
	ID string

	membrane         float64
	threshold        float64
	resting          float64
	refractoryPeriod int
	refractoryLeft   int

	// decayRate is carried for layer-config parity; Update applies only
	// the leak.
	decayRate float64
	leakRate  float64
	excitability     float64

	// Named per-source synaptic weights. A source is either excitatory
	// or inhibitory, never both; callers resolve the kind before
	// delivering a spike (see ReceiveSpike).
	excitatory map[string]float64
	inhibitory map[string]float64

	fired   bool
	history []bool
	start   int // ring-buffer head
	count   int
}

// New creates a neuron with a cleared membrane. The resting level is
// where the membrane lands after a spike and what the leak pulls
// toward, not the starting potential: a fresh neuron integrates from
// zero.
func New(id string, threshold, resting float64, refractoryPeriod int, decayRate, leakRate float64) *Neuron {
	return &Neuron{
		ID:               id,
		threshold:        threshold,
		resting:          resting,
		refractoryPeriod: refractoryPeriod,
		decayRate:        decayRate,
		leakRate:         leakRate,
		excitability:     1.0,
		excitatory:       make(map[string]float64),
		inhibitory:       make(map[string]float64),
		history:          make([]bool, 0, historyLimit),
	}
}

// AddInputConnection registers an excitatory source with the given weight.
func (n *Neuron) AddInputConnection(sourceID string, weight float64) {
	n.excitatory[sourceID] = weight
}

// AddInhibitoryConnection registers an inhibitory source with the given weight.
func (n *Neuron) AddInhibitoryConnection(sourceID string, weight float64) {
	n.inhibitory[sourceID] = weight
}

// ReceiveExcitatory integrates an excitatory spike, scaled by the
// neuron's excitability. No-op while refractory.
func (n *Neuron) ReceiveExcitatory(intensity, weight float64) {
	if n.refractoryLeft > 0 {
		return
	}
	n.membrane += intensity * weight * n.excitability
}

// ReceiveInhibitory integrates an inhibitory spike, floored at
// resting-20 so inhibition cannot drive the membrane arbitrarily low.
// No-op while refractory.
func (n *Neuron) ReceiveInhibitory(intensity, weight float64) {
	if n.refractoryLeft > 0 {
		return
	}
	n.membrane -= intensity * weight
	floor := n.resting - inhibitionFloorOffset
	if n.membrane < floor {
		n.membrane = floor
	}
}

// ReceiveSpike resolves sourceID against the registered weight maps and
// delivers the spike. An empty or unregistered source is treated as
// excitatory with weight 1.0.
func (n *Neuron) ReceiveSpike(intensity float64, sourceID string) {
	if w, ok := n.inhibitory[sourceID]; ok {
		n.ReceiveInhibitory(intensity, w)
		return
	}
	w := defaultWeight
	if sourceID != "" {
		if ew, ok := n.excitatory[sourceID]; ok {
			w = ew
		}
	}
	n.ReceiveExcitatory(intensity, w)
}

// Update advances the neuron one discrete tick and reports whether it
// fired. A refractory neuron only counts down. Otherwise the neuron
// fires when the membrane has reached threshold, or leaks toward
// resting when it has not.
func (n *Neuron) Update() bool {
	if n.refractoryLeft > 0 {
		n.refractoryLeft--
		n.fired = false
		return false
	}

	if n.membrane >= n.threshold {
		n.fired = true
		n.membrane = n.resting
		n.refractoryLeft = n.refractoryPeriod
	} else {
		n.fired = false
		n.membrane -= (n.membrane - n.resting) * n.leakRate
	}

	n.record(n.fired)
	return n.fired
}

// record appends a fired flag to the bounded history ring. Once full,
// the oldest entry is overwritten.
func (n *Neuron) record(fired bool) {
	if len(n.history) < historyLimit {
		n.history = append(n.history, fired)
		n.count = len(n.history)
		return
	}
	n.history[n.start] = fired
	n.start = (n.start + 1) % historyLimit
}

// HasFired reports whether the neuron fired on the most recent tick.
func (n *Neuron) HasFired() bool {
	return n.fired
}

// Membrane returns the current membrane potential.
func (n *Neuron) Membrane() float64 {
	return n.membrane
}

// Threshold returns the firing threshold.
func (n *Neuron) Threshold() float64 {
	return n.threshold
}

// Refractory reports whether the neuron is inside its refractory window.
func (n *Neuron) Refractory() bool {
	return n.refractoryLeft > 0
}

// InhibitorySources returns the IDs of registered inhibitory sources.
func (n *Neuron) InhibitorySources() []string {
	ids := make([]string, 0, len(n.inhibitory))
	for id := range n.inhibitory {
		ids = append(ids, id)
	}
	return ids
}

// FiringRate returns spikes per tick over the last window history
// entries (capped at what has been recorded). Returns 0 for an empty
// history or non-positive window.
func (n *Neuron) FiringRate(window int) float64 {
	if window <= 0 || n.count == 0 {
		return 0
	}
	if window > n.count {
		window = n.count
	}
	spikes := 0
	for i := 0; i < window; i++ {
		idx := (n.start + n.count - 1 - i) % historyLimit
		if n.history[idx] {
			spikes++
		}
	}
	return float64(spikes) / float64(window)
}

// AdjustExcitability multiplies the excitability factor, clamped to
// [MinExcitability, MaxExcitability].
func (n *Neuron) AdjustExcitability(factor float64) {
	e := n.excitability * factor
	n.excitability = math.Min(MaxExcitability, math.Max(MinExcitability, e))
}

// Excitability returns the current excitability multiplier.
func (n *Neuron) Excitability() float64 {
	return n.excitability
}

// Reset returns the neuron to its initial state, clearing the membrane,
// refractory countdown, fired flag, and firing history. Registered
// connections and excitability survive a reset.
func (n *Neuron) Reset() {
	n.membrane = 0
	n.refractoryLeft = 0
	n.fired = false
	n.history = n.history[:0]
	n.start = 0
	n.count = 0
}
