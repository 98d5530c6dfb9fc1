package neuron

import (
	"math"
	"testing"
)

func newTestNeuron() *Neuron {
	// Standard layer defaults: threshold 1.0, resting -70, refractory 5,
	// decay 0.2, leak 0.01.
	return New("n1", 1.0, -70, 5, 0.2, 0.01)
}

func TestFireAndRefractory(t *testing.T) {
	n := newTestNeuron()

	// A single spike above threshold fires a fresh neuron outright.
	n.ReceiveSpike(2.0, "")

	if !n.Update() {
		t.Fatal("Update() = false, want fire")
	}
	if !n.HasFired() {
		t.Error("HasFired() = false after firing tick")
	}
	if got := n.Membrane(); got != -70 {
		t.Errorf("membrane after fire = %v, want -70", got)
	}

	// Spikes during the refractory window must not integrate.
	n.ReceiveSpike(100, "")
	if got := n.Membrane(); got != -70 {
		t.Errorf("membrane after refractory spike = %v, want -70", got)
	}

	// The refractory window lasts 5 ticks; no firing inside it.
	for i := 0; i < 5; i++ {
		if n.Update() {
			t.Errorf("Update() fired during refractory tick %d", i)
		}
	}
	if n.Refractory() {
		t.Error("still refractory after 5 ticks")
	}
}

func TestReceiveSpikeDispatch(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*Neuron)
		source   string
		wantRise bool
	}{
		{
			name:     "anonymous source is excitatory",
			setup:    func(*Neuron) {},
			source:   "",
			wantRise: true,
		},
		{
			name:     "unregistered source is excitatory",
			setup:    func(*Neuron) {},
			source:   "stranger",
			wantRise: true,
		},
		{
			name: "registered excitatory source",
			setup: func(n *Neuron) {
				n.AddInputConnection("src", 0.5)
			},
			source:   "src",
			wantRise: true,
		},
		{
			name: "registered inhibitory source",
			setup: func(n *Neuron) {
				n.AddInhibitoryConnection("src", 0.5)
			},
			source:   "src",
			wantRise: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newTestNeuron()
			tt.setup(n)
			before := n.Membrane()
			n.ReceiveSpike(1.0, tt.source)
			rose := n.Membrane() > before
			if rose != tt.wantRise {
				t.Errorf("membrane rose = %v, want %v", rose, tt.wantRise)
			}
		})
	}
}

func TestInhibitionFloor(t *testing.T) {
	n := newTestNeuron()
	n.AddInhibitoryConnection("inh", 1.0)

	for i := 0; i < 100; i++ {
		n.ReceiveSpike(10, "inh")
	}
	if got, want := n.Membrane(), -90.0; got != want {
		t.Errorf("membrane = %v, want floor %v", got, want)
	}
}

func TestLeakTowardResting(t *testing.T) {
	n := newTestNeuron()
	n.ReceiveExcitatory(0.5, 1.0) // 0.5, below threshold

	before := n.Membrane()
	n.Update()
	after := n.Membrane()

	if after >= before {
		t.Errorf("membrane did not leak: before %v, after %v", before, after)
	}
	if after < -70 {
		t.Errorf("leak overshot resting: %v", after)
	}
}

func TestExcitabilityClamp(t *testing.T) {
	tests := []struct {
		name    string
		factors []float64
		want    float64
	}{
		{"identity", []float64{1.0}, 1.0},
		{"doubling", []float64{2.0}, 2.0},
		{"clamped high", []float64{10, 10}, MaxExcitability},
		{"clamped low", []float64{0.01}, MinExcitability},
		{"recovers from clamp", []float64{0.01, 2.0}, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := newTestNeuron()
			for _, f := range tt.factors {
				n.AdjustExcitability(f)
			}
			if got := n.Excitability(); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Excitability() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExcitabilityScalesInput(t *testing.T) {
	n := newTestNeuron()
	n.AdjustExcitability(2.0)
	n.ReceiveExcitatory(1.0, 1.0)
	if got, want := n.Membrane(), 2.0; got != want {
		t.Errorf("membrane = %v, want %v", got, want)
	}
}

func TestReset(t *testing.T) {
	n := newTestNeuron()
	n.ReceiveSpike(2.0, "")
	n.Update() // fire, membrane drops to resting

	n.Reset()

	if got := n.Membrane(); got != 0.0 {
		t.Errorf("membrane after reset = %v, want cleared (0)", got)
	}
	if n.HasFired() {
		t.Error("HasFired() = true after reset")
	}
	if n.Refractory() {
		t.Error("Refractory() = true after reset")
	}
	if got := n.FiringRate(10); got != 0 {
		t.Errorf("FiringRate(10) = %v after reset, want 0", got)
	}
}

func TestFiringRate(t *testing.T) {
	n := New("n1", 1.0, 0, 0, 0.2, 0) // no refractory, no leak: fires every tick when driven
	for i := 0; i < 10; i++ {
		n.ReceiveExcitatory(2.0, 1.0)
		n.Update()
	}
	if got := n.FiringRate(10); got != 1.0 {
		t.Errorf("FiringRate(10) = %v, want 1.0", got)
	}

	// Five silent ticks drop the rate over the same window.
	for i := 0; i < 5; i++ {
		n.Update()
	}
	if got := n.FiringRate(10); got != 0.5 {
		t.Errorf("FiringRate(10) after silence = %v, want 0.5", got)
	}
}

func TestHistoryBounded(t *testing.T) {
	n := New("n1", 1.0, 0, 0, 0.2, 0)
	for i := 0; i < 250; i++ {
		n.ReceiveExcitatory(2.0, 1.0)
		n.Update()
	}
	// The window never exceeds the 100-entry ring.
	if got := n.FiringRate(1000); got != 1.0 {
		t.Errorf("FiringRate(1000) = %v, want 1.0", got)
	}
}
