package main

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spikenet-io/spikenet/internal/config"
	"github.com/spikenet-io/spikenet/internal/logging"
	"github.com/spikenet-io/spikenet/internal/quantized"
	"github.com/spikenet-io/spikenet/internal/recognition"
	"github.com/spikenet-io/spikenet/internal/store"
)

// Build-time metadata, injected via -ldflags.
var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "spikenet",
		Short: "Spiking pattern recognition for numeric payloads",
		Long: `spikenet stores labeled bit patterns and classifies numeric payloads
against them with a fixed-point spiking classifier.

Patterns live in .spikenet/ at the project root. Matched patterns can
learn (access bookkeeping) and evolve (hill-climbing mutation toward
network output).`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for agent consumption)")
	rootCmd.PersistentFlags().String("root", ".", "Project root directory")

	// Add subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newStoreCmd(),
		newRecognizeCmd(),
		newListCmd(),
		newDeleteCmd(),
		newOptimizeCmd(),
		newStatsCmd(),
		newSimulateCmd(),
		newMCPServerCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openService assembles the recognition service for a CLI invocation
// from the project config. The returned cleanup closes the store.
func openService(cmd *cobra.Command) (*recognition.Service, func(), error) {
	root, _ := cmd.Flags().GetString("root")

	cfg, err := config.Load(root)
	if err != nil {
		return nil, nil, err
	}

	var persist store.PatternStore
	switch cfg.Store.Backend {
	case "sqlite":
		persist, err = store.NewSQLitePatternStore(root)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open pattern store: %w", err)
		}
	default:
		persist = store.NewInMemoryPatternStore()
	}

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	classifier, err := quantized.NewClassifier(cfg.Classifier.InputSize, cfg.Classifier.OutputSize, rng)
	if err != nil {
		persist.Close()
		return nil, nil, err
	}

	log := logging.NewLogger(cfg.Logging.Level, os.Stderr)
	trace := logging.NewTraceLogger(filepath.Join(root, store.DataDirName), cfg.Logging.Level)

	svc, err := recognition.NewService(recognition.Config{
		Classifier: classifier,
		Store:      persist,
		Logger:     log,
		Trace:      trace,
		RNG:        rng,
	})
	if err != nil {
		persist.Close()
		return nil, nil, err
	}

	cleanup := func() {
		trace.Close()
		persist.Close()
	}
	return svc, cleanup, nil
}

// parseData converts a comma-separated list like "1,0,0.7,0" into the
// numeric payload the service expects.
func parseData(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty data")
	}
	parts := strings.Split(s, ",")
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q at position %d", p, i)
		}
		out[i] = v
	}
	return out, nil
}
