// Package mcp provides an MCP (Model Context Protocol) server for spikenet.
package mcp

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/spikenet-io/spikenet/internal/config"
	"github.com/spikenet-io/spikenet/internal/logging"
	"github.com/spikenet-io/spikenet/internal/quantized"
	"github.com/spikenet-io/spikenet/internal/recognition"
	"github.com/spikenet-io/spikenet/internal/store"
)

// Server wraps the MCP SDK server around a recognition service.
type Server struct {
	server  *sdk.Server
	service *recognition.Service
	persist store.PatternStore
	root    string
}

// Config holds server configuration.
type Config struct {
	Name    string // Server name (e.g., "spikenet")
	Version string // Server version
	Root    string // Project root directory
}

// NewServer creates a new MCP server exposing the spikenet tools. The
// recognition service is assembled from <root>/.spikenet/config.yaml.
func NewServer(cfg *Config) (*Server, error) {
	appCfg, err := config.Load(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var persist store.PatternStore
	switch appCfg.Store.Backend {
	case "sqlite":
		persist, err = store.NewSQLitePatternStore(cfg.Root)
		if err != nil {
			return nil, fmt.Errorf("failed to open pattern store: %w", err)
		}
	default:
		persist = store.NewInMemoryPatternStore()
	}

	var rng *rand.Rand
	if appCfg.Seed != 0 {
		rng = rand.New(rand.NewSource(appCfg.Seed))
	}
	classifier, err := quantized.NewClassifier(appCfg.Classifier.InputSize, appCfg.Classifier.OutputSize, rng)
	if err != nil {
		persist.Close()
		return nil, fmt.Errorf("failed to build classifier: %w", err)
	}

	// MCP talks JSON-RPC on stdout, so operational logs go to stderr.
	log := logging.NewLogger(appCfg.Logging.Level, os.Stderr)
	trace := logging.NewTraceLogger(filepath.Join(cfg.Root, store.DataDirName), appCfg.Logging.Level)

	service, err := recognition.NewService(recognition.Config{
		Classifier: classifier,
		Store:      persist,
		Logger:     log,
		Trace:      trace,
		RNG:        rng,
	})
	if err != nil {
		persist.Close()
		return nil, fmt.Errorf("failed to build recognition service: %w", err)
	}

	mcpServer := sdk.NewServer(&sdk.Implementation{
		Name:    cfg.Name,
		Version: cfg.Version,
	}, &sdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, req *sdk.InitializedRequest) {
			// Client initialized, ready to serve
		},
	})

	s := &Server{
		server:  mcpServer,
		service: service,
		persist: persist,
		root:    cfg.Root,
	}
	s.registerTools()

	return s, nil
}

// Run starts the MCP server over stdio transport.
// This blocks until the client disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	err := s.server.Run(ctx, &sdk.StdioTransport{})

	s.persist.Close()

	return err
}

// Close closes the server and releases resources.
func (s *Server) Close() error {
	return s.persist.Close()
}
