package synaptic

import "math"

// Stats is a point-in-time summary of network topology and activity.
type Stats struct {
	Layers         int     `json:"layers"`
	Neurons        int     `json:"neurons"`
	Connections    int     `json:"connections"`
	MeanThreshold  float64 `json:"mean_threshold"`
	RecentActivity float64 `json:"recent_activity"` // mean spikes/tick over the last 20 ticks
}

const activityWindow = 20

// Stats summarizes the network: counts, mean firing threshold, and mean
// recent firing rate across all neurons.
func (net *Network) Stats() Stats {
	s := Stats{
		Layers:      len(net.layers),
		Connections: len(net.conns),
	}
	var thresholdSum, activitySum float64
	for _, layer := range net.layers {
		for _, n := range layer.Neurons {
			s.Neurons++
			thresholdSum += n.Threshold()
			activitySum += n.FiringRate(activityWindow)
		}
	}
	if s.Neurons > 0 {
		s.MeanThreshold = thresholdSum / float64(s.Neurons)
		s.RecentActivity = activitySum / float64(s.Neurons)
	}
	return s
}

// GenerateSpikes drives the network with a decaying stimulus over the
// first third of the window and returns per-tick population activity:
// the fraction of all neurons firing at each tick, in [0,1].
func (net *Network) GenerateSpikes(length int) []float64 {
	if length <= 0 {
		return nil
	}

	for _, layer := range net.layers {
		for _, n := range layer.Neurons {
			n.Reset()
		}
	}

	total := 0
	for _, layer := range net.layers {
		total += len(layer.Neurons)
	}
	if total == 0 {
		return make([]float64, length)
	}

	const stimulusStrength = 0.5
	stimulusDuration := length / 3

	activity := make([]float64, 0, length)
	var inFlight []pendingSpike

	for t := 0; t < length; t++ {
		if t < stimulusDuration {
			stimulus := stimulusStrength * (1.0 - float64(t)/float64(stimulusDuration))
			i := 0
			for _, layer := range net.layers {
				for _, n := range layer.Neurons {
					// Per-neuron variability keeps the population from
					// firing in lockstep.
					n.ReceiveExcitatory(stimulus, 0.5+0.5*math.Sin(float64(i)*0.1))
					i++
				}
			}
		}

		inFlight = net.deliverDue(inFlight, t)

		fired := 0
		for _, layer := range net.layers {
			net.updateLayer(layer, t, &inFlight)
			for _, n := range layer.Neurons {
				if n.HasFired() {
					fired++
				}
			}
		}
		activity = append(activity, float64(fired)/float64(total))
	}
	return activity
}
