// Package synaptic composes LIF neurons into a layered spiking network
// with feed-forward connections, automatic intra-layer lateral
// inhibition, and spike-timing-dependent plasticity (STDP).
//
// The learning rule is potentiation-only: weights strengthen when a
// presynaptic spike precedes a postsynaptic one inside the STDP window
// and are capped at MaxWeight. Post-before-pre timing is recorded but
// never weakens a weight.
package synaptic

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/spikenet-io/spikenet/internal/neuron"
)

// Layer kinds, inferred from the layer id naming convention.
const (
	KindInput  = "input"
	KindHidden = "hidden"
	KindOutput = "output"
)

// Topology errors. These indicate programmer misconfiguration and are
// never swallowed.
var (
	ErrDuplicateLayer = errors.New("layer id already exists")
	ErrLayerNotFound  = errors.New("layer not found")
	ErrNoInputLayer   = errors.New("network needs exactly one input layer")
	ErrNoOutputLayer  = errors.New("network needs exactly one output layer")
)

// Neuron construction defaults used by CreateLayer.
const (
	DefaultThreshold  = 1.0
	DefaultResting    = -70.0
	DefaultRefractory = 5
	DefaultDecayRate  = 0.2
	DefaultLeakRate   = 0.01
)

const (
	// MaxWeight caps every connection weight; STDP never pushes past it.
	MaxWeight = 2.0

	// stdpWindow is the pre-before-post interval (in ticks) inside which
	// potentiation applies.
	stdpWindow = 20

	// stdpTau shapes the exponential decay of the potentiation amount.
	stdpTau = 10.0

	// inhibitionFraction of a layer's neurons each member receives
	// inhibitory input from.
	inhibitionFraction = 0.2

	// inputProbability is the chance an input value is offered to each
	// input neuron on a given tick (stochastic sparse coding).
	inputProbability = 0.3

	// minTicks is the floor on simulation length in ProcessSpikeTrain.
	minTicks = 20
)

// Connection is a directed synapse between two neurons.
type Connection struct {
	Source       string
	Target       string
	Weight       float64
	Delay        int // transmission delay in ticks, [1,4]
	Plastic      bool
	LearningRate float64

	// lastActivation is the most recent tick the source fired, or -1.
	lastActivation int
}

// ConnectOptions configures a layer-to-layer projection.
type ConnectOptions struct {
	InitialWeight     float64
	PlasticityEnabled bool
	LearningRate      float64
}

// Layer is an ordered group of neurons.
type Layer struct {
	ID      string
	Kind    string
	Neurons []*neuron.Neuron
}

// inhibitoryEdge delivers a lateral spike from a firing neuron to a
// same-layer listener.
type inhibitoryEdge struct {
	target *neuron.Neuron
	weight float64
}

// Network owns layers, connections, and the tick loop. It is not safe
// for concurrent use; a single goroutine drives the whole simulation.
type Network struct {
	layers     []*Layer
	layerByID  map[string]*Layer
	conns      []*Connection
	bySource   map[string][]*Connection
	byTarget   map[string][]*Connection
	neuronByID map[string]*neuron.Neuron

	// lateral[sourceNeuronID] lists same-layer neurons inhibited when
	// the source fires.
	lateral map[string][]inhibitoryEdge

	rng *rand.Rand
}

// New creates an empty network. A nil rng gets a time-seeded one;
// tests pass a fixed seed for determinism.
func New(rng *rand.Rand) *Network {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Network{
		rng:        rng,
		layerByID:  make(map[string]*Layer),
		bySource:   make(map[string][]*Connection),
		byTarget:   make(map[string][]*Connection),
		neuronByID: make(map[string]*neuron.Neuron),
		lateral:    make(map[string][]inhibitoryEdge),
	}
}

// LayerKind infers a layer's kind from its id.
func LayerKind(id string) string {
	lower := strings.ToLower(id)
	switch {
	case strings.Contains(lower, KindInput):
		return KindInput
	case strings.Contains(lower, KindOutput):
		return KindOutput
	default:
		return KindHidden
	}
}

// CreateLayer builds neuronCount neurons with the standard defaults and
// wires lateral inhibition between them. Fails if the id is taken.
func (net *Network) CreateLayer(id string, neuronCount int) (*Layer, error) {
	if _, exists := net.layerByID[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateLayer, id)
	}

	layer := &Layer{
		ID:      id,
		Kind:    LayerKind(id),
		Neurons: make([]*neuron.Neuron, 0, neuronCount),
	}
	for i := 0; i < neuronCount; i++ {
		n := neuron.New(
			fmt.Sprintf("%s_%d", id, i),
			DefaultThreshold, DefaultResting, DefaultRefractory,
			DefaultDecayRate, DefaultLeakRate,
		)
		layer.Neurons = append(layer.Neurons, n)
		net.neuronByID[n.ID] = n
	}

	net.wireLateralInhibition(layer)

	net.layers = append(net.layers, layer)
	net.layerByID[id] = layer
	return layer, nil
}

// wireLateralInhibition gives each neuron in the layer
// ceil(0.2*N) distinct same-layer inhibitory sources, never itself.
// Layers of one neuron are left alone.
func (net *Network) wireLateralInhibition(layer *Layer) {
	n := len(layer.Neurons)
	if n <= 1 {
		return
	}
	k := int(math.Ceil(inhibitionFraction * float64(n)))

	for i, member := range layer.Neurons {
		perm := net.rng.Perm(n)
		picked := 0
		for _, j := range perm {
			if picked == k {
				break
			}
			if j == i {
				continue
			}
			source := layer.Neurons[j]
			weight := 0.5 + net.rng.Float64()*0.5
			member.AddInhibitoryConnection(source.ID, weight)
			net.lateral[source.ID] = append(net.lateral[source.ID], inhibitoryEdge{
				target: member,
				weight: weight,
			})
			picked++
		}
	}
}

// ConnectLayers creates full-bipartite excitatory connections from every
// neuron in sourceID to every neuron in targetID. Fails if either layer
// is missing.
func (net *Network) ConnectLayers(sourceID, targetID string, opts ConnectOptions) error {
	source, ok := net.layerByID[sourceID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrLayerNotFound, sourceID)
	}
	target, ok := net.layerByID[targetID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrLayerNotFound, targetID)
	}

	for _, src := range source.Neurons {
		for _, dst := range target.Neurons {
			weight := opts.InitialWeight * (0.5 + net.rng.Float64())
			if weight > MaxWeight {
				weight = MaxWeight
			}
			conn := &Connection{
				Source:         src.ID,
				Target:         dst.ID,
				Weight:         weight,
				Delay:          1 + net.rng.Intn(4),
				Plastic:        opts.PlasticityEnabled,
				LearningRate:   opts.LearningRate,
				lastActivation: -1,
			}
			net.conns = append(net.conns, conn)
			net.bySource[src.ID] = append(net.bySource[src.ID], conn)
			net.byTarget[dst.ID] = append(net.byTarget[dst.ID], conn)
			dst.AddInputConnection(src.ID, weight)
		}
	}
	return nil
}

// AdjustExcitability broadcasts a homeostatic excitability adjustment to
// every neuron in the network.
func (net *Network) AdjustExcitability(factor float64) {
	for _, layer := range net.layers {
		for _, n := range layer.Neurons {
			n.AdjustExcitability(factor)
		}
	}
}

// Layers returns the layers in registration order.
func (net *Network) Layers() []*Layer {
	return net.layers
}

// Connections returns all feed-forward connections.
func (net *Network) Connections() []*Connection {
	return net.conns
}

// singleLayerOfKind returns the unique layer of the given kind, or nil.
func (net *Network) singleLayerOfKind(kind string) *Layer {
	var found *Layer
	for _, layer := range net.layers {
		if layer.Kind != kind {
			continue
		}
		if found != nil {
			return nil
		}
		found = layer
	}
	return found
}
