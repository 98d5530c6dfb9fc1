// Package simulation provides a multi-train test harness for validating
// emergent dynamics of the spiking network.
//
// The simulation exercises the real Network, STDP updates, and lateral
// inhibition wiring with no mocks. Scenarios are Go builders that
// construct layered networks and run configurable numbers of spike
// trains, capturing weight snapshots for property-based assertions.
//
// Usage:
//
//	func TestPlasticConvergence(t *testing.T) {
//	    r := simulation.NewRunner(t)
//	    result := r.Run(simulation.Scenario{
//	        Name:        "plastic-convergence",
//	        Layers:      []simulation.LayerSpec{...},
//	        Projections: []simulation.ProjectionSpec{...},
//	        Trains:      []simulation.TrainSpec{...},
//	    })
//	    simulation.AssertWeightsMonotonic(t, result)
//	}
package simulation
