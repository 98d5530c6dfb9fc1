// Package quantized implements a fixed-point, non-plastic, three-layer
// feed-forward spiking engine for high-frequency evaluation.
//
// Weights are 8-bit signed and thresholds 16-bit unsigned, fixed at
// construction; the working state is three flat buffers reused across
// calls, so a classification request allocates only its result slice.
// Learning is deliberately absent — this is the fast path, the trained
// counterpart lives in package synaptic.
package quantized

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	// ticksPerProcess is the fixed simulation length of one Process call.
	ticksPerProcess = 10

	// refractoryTicks is the post-spike silence for hidden and output
	// units.
	refractoryTicks = 2

	// maxHiddenSize caps the auto-sized hidden layer in NewClassifier.
	maxHiddenSize = 32
)

// Config describes an interpreter. Immutable after construction.
type Config struct {
	InputSize  int
	HiddenSize int
	OutputSize int

	// Weights holds the input->hidden block followed by the
	// hidden->output block: len = InputSize*HiddenSize + HiddenSize*OutputSize.
	// Weight for input i -> hidden h is Weights[i*HiddenSize+h].
	Weights []int8

	// Thresholds holds hidden thresholds followed by output thresholds:
	// len = HiddenSize + OutputSize.
	Thresholds []uint16
}

// validate checks the sequence lengths against the layer sizes.
func (c Config) validate() error {
	if c.InputSize <= 0 || c.HiddenSize <= 0 || c.OutputSize <= 0 {
		return fmt.Errorf("layer sizes must be positive: %d/%d/%d", c.InputSize, c.HiddenSize, c.OutputSize)
	}
	wantW := c.InputSize*c.HiddenSize + c.HiddenSize*c.OutputSize
	if len(c.Weights) != wantW {
		return fmt.Errorf("weights length %d, want %d", len(c.Weights), wantW)
	}
	wantT := c.HiddenSize + c.OutputSize
	if len(c.Thresholds) != wantT {
		return fmt.Errorf("thresholds length %d, want %d", len(c.Thresholds), wantT)
	}
	return nil
}

// Interpreter runs a fixed spiking program over byte input. Not safe
// for concurrent use: the working buffers are shared across calls.
type Interpreter struct {
	cfg Config

	// Working state, one entry per neuron, laid out input | hidden |
	// output. Cleared at the start of every Process call.
	membrane   []float32
	spikes     []byte
	refractory []byte
}

// New creates an interpreter and allocates its working buffers.
func New(cfg Config) (*Interpreter, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("quantized: %w", err)
	}
	total := cfg.InputSize + cfg.HiddenSize + cfg.OutputSize
	return &Interpreter{
		cfg:        cfg,
		membrane:   make([]float32, total),
		spikes:     make([]byte, total),
		refractory: make([]byte, total),
	}, nil
}

// Config returns the interpreter's immutable configuration.
func (it *Interpreter) Config() Config {
	return it.cfg
}

// Process clears the working state, loads min(len(input), InputSize)
// bytes as initial spike flags (nonzero = firing), advances exactly 10
// ticks, and returns per-output-neuron spike counts, each in [0,10].
// Oversized input is truncated; undersized input leaves the remaining
// inputs silent. Never fails.
func (it *Interpreter) Process(input []byte) []byte {
	for i := range it.membrane {
		it.membrane[i] = 0
		it.spikes[i] = 0
		it.refractory[i] = 0
	}

	n := len(input)
	if n > it.cfg.InputSize {
		n = it.cfg.InputSize
	}
	for i := 0; i < n; i++ {
		if input[i] != 0 {
			it.spikes[i] = 1
		}
	}

	out := make([]byte, it.cfg.OutputSize)
	outBase := it.cfg.InputSize + it.cfg.HiddenSize
	for t := 0; t < ticksPerProcess; t++ {
		it.advanceTimestep()
		for o := 0; o < it.cfg.OutputSize; o++ {
			if it.spikes[outBase+o] != 0 {
				out[o]++
			}
		}
	}
	return out
}

// advanceTimestep runs one tick: refractory countdown, input->hidden
// propagation, hidden threshold test and hidden->output propagation,
// then the output threshold test. A firing unit resets its membrane and
// arms a 2-tick refractory.
func (it *Interpreter) advanceTimestep() {
	cfg := it.cfg
	hiddenBase := cfg.InputSize
	outBase := cfg.InputSize + cfg.HiddenSize

	for i := range it.refractory {
		if it.refractory[i] > 0 {
			it.refractory[i]--
		}
	}

	// Input spikes drive hidden membranes.
	for i := 0; i < cfg.InputSize; i++ {
		if it.spikes[i] == 0 || it.refractory[i] > 0 {
			continue
		}
		for h := 0; h < cfg.HiddenSize; h++ {
			if it.refractory[hiddenBase+h] > 0 {
				continue
			}
			it.membrane[hiddenBase+h] += float32(cfg.Weights[i*cfg.HiddenSize+h])
		}
	}

	// Hidden threshold test; firing hidden units drive output membranes.
	hwBase := cfg.InputSize * cfg.HiddenSize
	for h := 0; h < cfg.HiddenSize; h++ {
		idx := hiddenBase + h
		it.spikes[idx] = 0
		if it.refractory[idx] > 0 || it.membrane[idx] < float32(cfg.Thresholds[h]) {
			continue
		}
		it.spikes[idx] = 1
		it.membrane[idx] = 0
		it.refractory[idx] = refractoryTicks
		for o := 0; o < cfg.OutputSize; o++ {
			if it.refractory[outBase+o] > 0 {
				continue
			}
			it.membrane[outBase+o] += float32(cfg.Weights[hwBase+h*cfg.OutputSize+o])
		}
	}

	// Output threshold test.
	for o := 0; o < cfg.OutputSize; o++ {
		idx := outBase + o
		it.spikes[idx] = 0
		if it.refractory[idx] > 0 || it.membrane[idx] < float32(cfg.Thresholds[cfg.HiddenSize+o]) {
			continue
		}
		it.spikes[idx] = 1
		it.membrane[idx] = 0
		it.refractory[idx] = refractoryTicks
	}
}

// NewClassifier builds a runnable interpreter skeleton with random
// weights and thresholds: hidden = min(32, 2*inputSize), int8 weights
// drawn uniformly, thresholds uniform in [1000, 2000). Real deployments
// supply trained parameters through New. A nil rng gets a time-seeded
// one.
func NewClassifier(inputSize, outputSize int, rng *rand.Rand) (*Interpreter, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	hidden := inputSize * 2
	if hidden > maxHiddenSize {
		hidden = maxHiddenSize
	}

	cfg := Config{
		InputSize:  inputSize,
		HiddenSize: hidden,
		OutputSize: outputSize,
		Weights:    make([]int8, inputSize*hidden+hidden*outputSize),
		Thresholds: make([]uint16, hidden+outputSize),
	}
	for i := range cfg.Weights {
		cfg.Weights[i] = int8(rng.Intn(256) - 128)
	}
	for i := range cfg.Thresholds {
		cfg.Thresholds[i] = uint16(1000 + rng.Intn(1000))
	}
	return New(cfg)
}
