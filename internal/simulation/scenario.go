package simulation

import (
	"github.com/spikenet-io/spikenet/internal/synaptic"
)

// Scenario defines a complete simulation experiment.
type Scenario struct {
	Name string

	// Layers are created in order; layer kind follows from the id
	// ("input_*", "output_*", anything else is hidden).
	Layers []LayerSpec

	// Projections wire layer pairs all-to-all.
	Projections []ProjectionSpec

	// Trains are processed in order; each entry may repeat.
	Trains []TrainSpec

	// Seed fixes the network RNG; 0 falls back to a fixed default so
	// simulations stay reproducible.
	Seed int64

	// BeforeTrain, when non-nil, is called before each train executes.
	// Use this to manipulate the network between trains (e.g. adjusting
	// excitability to model attention shifts).
	BeforeTrain func(trainIndex int, net *synaptic.Network)
}

// LayerSpec defines one layer of the network under test.
type LayerSpec struct {
	ID      string
	Neurons int
}

// ProjectionSpec defines an all-to-all projection between two layers.
type ProjectionSpec struct {
	Source       string
	Target       string
	Weight       float64
	Plastic      bool
	LearningRate float64
}

// TrainSpec defines one stimulus presented Repeats times (default 1).
type TrainSpec struct {
	Label   string
	Values  []float64
	Repeats int
}

// TrainResult captures the outcome of the final repeat of one train.
type TrainResult struct {
	Index  int
	Label  string
	Counts []int

	// Weights snapshots every connection after the train, keyed
	// "source->target".
	Weights map[string]float64
}

// SimulationResult captures all trains and the final network state.
type SimulationResult struct {
	Trains  []TrainResult
	Network *synaptic.Network
}

// ConnectionKey builds the weight-snapshot key for a connection.
func ConnectionKey(source, target string) string {
	return source + "->" + target
}
