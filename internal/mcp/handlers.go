package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/spikenet-io/spikenet/internal/recognition"
)

// registerTools registers all spikenet MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "spikenet_store",
		Description: "Store a labeled pattern in the recognition table",
	}, s.handleStore)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "spikenet_recognize",
		Description: "Classify a numeric payload against the stored patterns",
	}, s.handleRecognize)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "spikenet_list",
		Description: "List all stored patterns",
	}, s.handleList)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "spikenet_delete",
		Description: "Delete a stored pattern by id",
	}, s.handleDelete)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "spikenet_optimize",
		Description: "Remove stale patterns (unused for 30 days and matched fewer than 5 times)",
	}, s.handleOptimize)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "spikenet_stats",
		Description: "Report pattern table, classifier, and cache statistics",
	}, s.handleStats)
}

func (s *Server) handleStore(ctx context.Context, req *sdk.CallToolRequest, args StoreInput) (*sdk.CallToolResult, StoreOutput, error) {
	if args.Label == "" {
		return nil, StoreOutput{}, fmt.Errorf("label is required")
	}
	if len(args.Data) == 0 {
		return nil, StoreOutput{}, fmt.Errorf("data is required")
	}

	p, err := s.service.StorePattern(ctx, recognition.PatternInput{
		ID:    args.ID,
		Label: args.Label,
		Data:  args.Data,
	})
	if err != nil {
		return nil, StoreOutput{}, err
	}

	return nil, StoreOutput{
		PatternID: p.ID,
		Label:     p.Label,
		Bits:      len(p.Bits),
		Message:   fmt.Sprintf("stored pattern %s (%s)", p.ID, p.Label),
	}, nil
}

func (s *Server) handleRecognize(ctx context.Context, req *sdk.CallToolRequest, args RecognizeInput) (*sdk.CallToolResult, RecognizeOutput, error) {
	if len(args.Data) == 0 {
		return nil, RecognizeOutput{}, fmt.Errorf("data is required")
	}

	opts := recognition.DefaultOptions()
	if args.Threshold > 0 {
		opts.Threshold = args.Threshold
	}
	if args.Learn != nil {
		opts.EnableLearning = *args.Learn
	}
	opts.EnableEvolution = args.Evolve

	res, err := s.service.Recognize(ctx, args.Data, &opts)
	if err != nil {
		return nil, RecognizeOutput{}, err
	}

	out := RecognizeOutput{
		Matched:     res.Matched,
		PatternID:   res.PatternID,
		Label:       res.Label,
		Confidence:  res.Confidence,
		Energy:      res.Energy,
		ProcessedIn: res.ProcessingTime.String(),
		Network:     res.NetworkState,
	}
	for _, c := range res.Comparisons {
		out.Comparisons = append(out.Comparisons, recognitionComparison{
			PatternID:  c.PatternID,
			Label:      c.Label,
			Similarity: c.Similarity,
		})
	}
	return nil, out, nil
}

func (s *Server) handleList(ctx context.Context, req *sdk.CallToolRequest, args ListInput) (*sdk.CallToolResult, ListOutput, error) {
	patterns := s.service.ListPatterns()

	out := ListOutput{Count: len(patterns)}
	for _, p := range patterns {
		active := 0
		for _, b := range p.Bits {
			if b != 0 {
				active++
			}
		}
		out.Patterns = append(out.Patterns, PatternListItem{
			ID:               p.ID,
			Label:            p.Label,
			ActiveBits:       active,
			RecognitionCount: p.RecognitionCount,
			LastAccessed:     p.LastAccessed,
		})
	}
	return nil, out, nil
}

func (s *Server) handleDelete(ctx context.Context, req *sdk.CallToolRequest, args DeleteInput) (*sdk.CallToolResult, DeleteOutput, error) {
	if args.PatternID == "" {
		return nil, DeleteOutput{}, fmt.Errorf("pattern_id is required")
	}

	deleted, err := s.service.DeletePattern(ctx, args.PatternID)
	if err != nil {
		return nil, DeleteOutput{}, err
	}

	msg := fmt.Sprintf("deleted pattern %s", args.PatternID)
	if !deleted {
		msg = fmt.Sprintf("pattern %s not found", args.PatternID)
	}
	return nil, DeleteOutput{Deleted: deleted, Message: msg}, nil
}

func (s *Server) handleOptimize(ctx context.Context, req *sdk.CallToolRequest, args OptimizeInput) (*sdk.CallToolResult, OptimizeOutput, error) {
	removed, err := s.service.OptimizeStorage(ctx)
	if err != nil {
		return nil, OptimizeOutput{}, err
	}
	return nil, OptimizeOutput{
		Removed: removed,
		Count:   len(removed),
		Message: fmt.Sprintf("removed %d stale pattern(s)", len(removed)),
	}, nil
}

func (s *Server) handleStats(ctx context.Context, req *sdk.CallToolRequest, args StatsInput) (*sdk.CallToolResult, StatsOutput, error) {
	stats := s.service.Stats()
	return nil, StatsOutput{
		Patterns:   stats.Patterns,
		InputSize:  stats.InputSize,
		OutputSize: stats.OutputSize,
		CacheHits:  stats.Cache.Hits,
		CacheRatio: stats.Cache.Ratio,
		CacheSize:  stats.Cache.Size,
	}, nil
}
