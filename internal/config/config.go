// Package config provides unified configuration loading for spikenet.
// It supports loading from a YAML file and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up under <root>/.spikenet/.
const FileName = "config.yaml"

// Config contains all spikenet configuration settings.
type Config struct {
	// Recognition holds the default options for recognizePattern calls.
	Recognition RecognitionConfig `json:"recognition" yaml:"recognition"`

	// Network holds defaults for synaptic-network projections.
	Network NetworkConfig `json:"network" yaml:"network"`

	// Classifier sizes the quantized interpreter owned by the service.
	Classifier ClassifierConfig `json:"classifier" yaml:"classifier"`

	// Store selects the pattern persistence backend.
	Store StoreConfig `json:"store" yaml:"store"`

	// Logging configures operational and trace logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Seed fixes the RNG seed; 0 means time-seeded.
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// RecognitionConfig holds recognize-time defaults.
type RecognitionConfig struct {
	// Threshold is the minimum similarity for a match to be reported.
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// EnableLearning updates access bookkeeping and fitness on matches.
	EnableLearning bool `json:"enable_learning" yaml:"enable_learning"`

	// EnableEvolution mutates matched patterns toward network output.
	EnableEvolution bool `json:"enable_evolution" yaml:"enable_evolution"`
}

// NetworkConfig holds projection defaults for the learning network.
type NetworkConfig struct {
	InitialWeight     float64 `json:"initial_weight" yaml:"initial_weight"`
	LearningRate      float64 `json:"learning_rate" yaml:"learning_rate"`
	PlasticityEnabled bool    `json:"plasticity_enabled" yaml:"plasticity_enabled"`
}

// ClassifierConfig sizes the fixed-point classifier.
type ClassifierConfig struct {
	InputSize  int `json:"input_size" yaml:"input_size"`
	OutputSize int `json:"output_size" yaml:"output_size"`
}

// StoreConfig selects pattern persistence.
type StoreConfig struct {
	// Backend is "memory" or "sqlite".
	Backend string `json:"backend" yaml:"backend"`
}

// LoggingConfig configures spikenet's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables trace logging to .spikenet/recognitions.jsonl.
	Level string `json:"level" yaml:"level"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Recognition: RecognitionConfig{
			Threshold:      0.6,
			EnableLearning: true,
		},
		Network: NetworkConfig{
			InitialWeight:     1.0,
			LearningRate:      0.01,
			PlasticityEnabled: true,
		},
		Classifier: ClassifierConfig{
			InputSize:  32,
			OutputSize: 8,
		},
		Store:   StoreConfig{Backend: "memory"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads <root>/.spikenet/config.yaml when present, applies
// environment overrides, and validates the result. A missing file is
// not an error; defaults apply.
func Load(root string) (Config, error) {
	cfg := Default()

	path := filepath.Join(root, ".spikenet", FileName)
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnvOverrides lets the environment win over the file:
// SPIKENET_LOG_LEVEL, SPIKENET_STORE_BACKEND, SPIKENET_SEED.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SPIKENET_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("SPIKENET_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("SPIKENET_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = seed
		}
	}
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	if c.Recognition.Threshold < 0 || c.Recognition.Threshold > 1 {
		return fmt.Errorf("recognition.threshold %v outside [0,1]", c.Recognition.Threshold)
	}
	if c.Network.InitialWeight <= 0 {
		return fmt.Errorf("network.initial_weight must be positive, got %v", c.Network.InitialWeight)
	}
	if c.Network.LearningRate < 0 {
		return fmt.Errorf("network.learning_rate must not be negative, got %v", c.Network.LearningRate)
	}
	if c.Classifier.InputSize <= 0 || c.Classifier.OutputSize <= 0 {
		return fmt.Errorf("classifier sizes must be positive: %d/%d", c.Classifier.InputSize, c.Classifier.OutputSize)
	}
	switch c.Store.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("store.backend %q not supported (memory, sqlite)", c.Store.Backend)
	}
	return nil
}

// Save writes the config as YAML to <root>/.spikenet/config.yaml,
// creating the directory when needed.
func (c Config) Save(root string) error {
	dir := filepath.Join(root, ".spikenet")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
