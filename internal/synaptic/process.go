package synaptic

import (
	"fmt"
	"math"
)

// pendingSpike is a feed-forward spike in flight, delivered after its
// connection's transmission delay.
type pendingSpike struct {
	conn    *Connection
	arrival int
}

// ProcessSpikeTrain presents a scalar spike train to the input layer and
// runs the network for max(20, len(values)) ticks. At each tick the
// current value is offered to each input neuron independently with 30%
// probability. Returns per-output-neuron firing counts.
//
// The network must contain exactly one input-kind layer and exactly one
// output-kind layer. Every neuron is reset before the run, so separate
// presentations are independent; learned connection weights carry over.
func (net *Network) ProcessSpikeTrain(values []float64) ([]int, error) {
	input := net.singleLayerOfKind(KindInput)
	if input == nil {
		return nil, fmt.Errorf("%w", ErrNoInputLayer)
	}
	output := net.singleLayerOfKind(KindOutput)
	if output == nil {
		return nil, fmt.Errorf("%w", ErrNoOutputLayer)
	}

	for _, layer := range net.layers {
		for _, n := range layer.Neurons {
			n.Reset()
		}
	}
	for _, conn := range net.conns {
		conn.lastActivation = -1
	}

	ticks := len(values)
	if ticks < minTicks {
		ticks = minTicks
	}

	counts := make([]int, len(output.Neurons))
	var inFlight []pendingSpike

	for t := 0; t < ticks; t++ {
		value := 0.0
		if t < len(values) {
			value = values[t]
		}

		// Stochastic sparse coding: each input neuron sees the value
		// with fixed probability, independently.
		for _, n := range input.Neurons {
			if net.rng.Float64() < inputProbability {
				n.ReceiveExcitatory(value, 1.0)
			}
		}

		inFlight = net.deliverDue(inFlight, t)

		// Input first, hidden layers in registration order, output last.
		net.updateLayer(input, t, &inFlight)
		for _, layer := range net.layers {
			if layer.Kind == KindHidden {
				net.updateLayer(layer, t, &inFlight)
			}
		}
		net.updateLayer(output, t, &inFlight)

		for i, n := range output.Neurons {
			if n.HasFired() {
				counts[i]++
				net.applySTDP(n.ID, t)
			}
		}
	}

	return counts, nil
}

// deliverDue hands arrived spikes to their targets and returns the
// still-pending remainder.
func (net *Network) deliverDue(inFlight []pendingSpike, tick int) []pendingSpike {
	remaining := inFlight[:0]
	for _, ps := range inFlight {
		if ps.arrival > tick {
			remaining = append(remaining, ps)
			continue
		}
		if target, ok := net.neuronByID[ps.conn.Target]; ok {
			target.ReceiveExcitatory(1.0, ps.conn.Weight)
		}
	}
	return remaining
}

// updateLayer advances every neuron in the layer one tick. Firing
// neurons schedule their outgoing feed-forward spikes and inhibit their
// lateral listeners immediately.
func (net *Network) updateLayer(layer *Layer, tick int, inFlight *[]pendingSpike) {
	for _, n := range layer.Neurons {
		if !n.Update() {
			continue
		}
		for _, conn := range net.bySource[n.ID] {
			conn.lastActivation = tick
			*inFlight = append(*inFlight, pendingSpike{conn: conn, arrival: tick + conn.Delay})
		}
		for _, edge := range net.lateral[n.ID] {
			edge.target.ReceiveInhibitory(1.0, edge.weight)
		}
	}
}

// applySTDP potentiates plastic connections into a neuron that fired at
// tick t. Only presynaptic activity inside (0, stdpWindow) ticks before
// the fire counts, and the update is potentiation-only with an
// exponential falloff, capped at MaxWeight.
func (net *Network) applySTDP(targetID string, t int) {
	for _, conn := range net.byTarget[targetID] {
		if !conn.Plastic || conn.lastActivation < 0 {
			continue
		}
		dt := t - conn.lastActivation
		if dt <= 0 || dt >= stdpWindow {
			continue
		}
		conn.Weight += conn.LearningRate * math.Exp(-float64(dt)/stdpTau)
		if conn.Weight > MaxWeight {
			conn.Weight = MaxWeight
		}
	}
}
