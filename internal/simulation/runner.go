package simulation

import (
	"math/rand"
	"testing"

	"github.com/spikenet-io/spikenet/internal/synaptic"
)

// defaultSeed keeps scenarios reproducible when no seed is given.
const defaultSeed = 42

// Runner orchestrates multi-train simulation experiments against a real
// spiking network.
type Runner struct {
	t *testing.T
}

// NewRunner creates a simulation runner.
func NewRunner(t *testing.T) *Runner {
	t.Helper()
	return &Runner{t: t}
}

// Run executes the scenario and returns the collected results.
func (r *Runner) Run(scenario Scenario) SimulationResult {
	r.t.Helper()

	seed := scenario.Seed
	if seed == 0 {
		seed = defaultSeed
	}
	net := synaptic.New(rand.New(rand.NewSource(seed)))

	// Phase 1: Build the network topology.
	for _, ls := range scenario.Layers {
		if _, err := net.CreateLayer(ls.ID, ls.Neurons); err != nil {
			r.t.Fatalf("Run: CreateLayer(%s): %v", ls.ID, err)
		}
	}
	for _, ps := range scenario.Projections {
		err := net.ConnectLayers(ps.Source, ps.Target, synaptic.ConnectOptions{
			InitialWeight:     ps.Weight,
			PlasticityEnabled: ps.Plastic,
			LearningRate:      ps.LearningRate,
		})
		if err != nil {
			r.t.Fatalf("Run: ConnectLayers(%s->%s): %v", ps.Source, ps.Target, err)
		}
	}

	// Phase 2: Run trains.
	trains := make([]TrainResult, len(scenario.Trains))
	for i, ts := range scenario.Trains {
		if scenario.BeforeTrain != nil {
			scenario.BeforeTrain(i, net)
		}
		trains[i] = r.runTrain(net, i, ts)
	}

	return SimulationResult{
		Trains:  trains,
		Network: net,
	}
}

// runTrain presents one stimulus Repeats times and snapshots the result.
func (r *Runner) runTrain(net *synaptic.Network, index int, ts TrainSpec) TrainResult {
	r.t.Helper()

	repeats := ts.Repeats
	if repeats < 1 {
		repeats = 1
	}

	var counts []int
	for rep := 0; rep < repeats; rep++ {
		var err error
		counts, err = net.ProcessSpikeTrain(ts.Values)
		if err != nil {
			r.t.Fatalf("runTrain %d (%s): ProcessSpikeTrain: %v", index, ts.Label, err)
		}
	}

	weights := make(map[string]float64)
	for _, conn := range net.Connections() {
		weights[ConnectionKey(conn.Source, conn.Target)] = conn.Weight
	}

	return TrainResult{
		Index:   index,
		Label:   ts.Label,
		Counts:  counts,
		Weights: weights,
	}
}
