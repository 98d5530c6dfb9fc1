package simulation

import (
	"testing"
)

// AssertWeightsMonotonic asserts that no connection weight ever
// decreases between consecutive trains. Potentiation-only learning must
// hold this for every plastic connection.
func AssertWeightsMonotonic(t *testing.T, result SimulationResult) {
	t.Helper()
	for i := 1; i < len(result.Trains); i++ {
		prev, cur := result.Trains[i-1], result.Trains[i]
		for key, w := range cur.Weights {
			if pw, ok := prev.Weights[key]; ok && w < pw {
				t.Errorf("AssertWeightsMonotonic: train %d: %s weight %.6f < previous %.6f", i, key, w, pw)
			}
		}
	}
}

// AssertNoWeightExplosion asserts that no connection weight exceeds
// maxWeight in any train.
func AssertNoWeightExplosion(t *testing.T, result SimulationResult, maxWeight float64) {
	t.Helper()
	for _, tr := range result.Trains {
		for key, w := range tr.Weights {
			if w > maxWeight {
				t.Errorf("AssertNoWeightExplosion: train %d: %s weight %.6f > max %.4f", tr.Index, key, w, maxWeight)
			}
		}
	}
}

// AssertWeightsFrozen asserts that the weights never change across
// trains. Rigid projections must hold this.
func AssertWeightsFrozen(t *testing.T, result SimulationResult) {
	t.Helper()
	if len(result.Trains) == 0 {
		return
	}
	first := result.Trains[0].Weights
	for _, tr := range result.Trains[1:] {
		for key, w := range tr.Weights {
			if fw, ok := first[key]; ok && w != fw {
				t.Errorf("AssertWeightsFrozen: train %d: %s weight %.6f != initial %.6f", tr.Index, key, w, fw)
			}
		}
	}
}

// AssertOutputBounded asserts that every per-output firing count stays
// within [0, maxCount] in every train.
func AssertOutputBounded(t *testing.T, result SimulationResult, maxCount int) {
	t.Helper()
	for _, tr := range result.Trains {
		for i, c := range tr.Counts {
			if c < 0 || c > maxCount {
				t.Errorf("AssertOutputBounded: train %d: output %d count %d outside [0, %d]", tr.Index, i, c, maxCount)
			}
		}
	}
}

// AssertWeightGrows asserts that a specific connection ends the run
// strictly heavier than it started.
func AssertWeightGrows(t *testing.T, result SimulationResult, key string) {
	t.Helper()
	if len(result.Trains) < 2 {
		t.Fatalf("AssertWeightGrows: need at least 2 trains, have %d", len(result.Trains))
	}
	first, ok := result.Trains[0].Weights[key]
	if !ok {
		t.Fatalf("AssertWeightGrows: connection %s not found", key)
	}
	last := result.Trains[len(result.Trains)-1].Weights[key]
	if last <= first {
		t.Errorf("AssertWeightGrows: %s weight %.6f did not grow past %.6f", key, last, first)
	}
}
