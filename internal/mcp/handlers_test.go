package mcp

import (
	"context"
	"strings"
	"testing"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func setupTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("SPIKENET_SEED", "1")

	server, err := NewServer(&Config{
		Name:    "test-server",
		Version: "v1.0.0",
		Root:    t.TempDir(),
	})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	t.Cleanup(func() { server.Close() })
	return server
}

func TestHandleStoreAndRecognize(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()
	req := &sdk.CallToolRequest{}

	data := make([]float64, 32)
	data[0], data[1] = 1, 1

	_, stored, err := server.handleStore(ctx, req, StoreInput{
		ID:    "p1",
		Label: "A",
		Data:  data,
	})
	if err != nil {
		t.Fatalf("handleStore failed: %v", err)
	}
	if stored.PatternID != "p1" {
		t.Errorf("PatternID = %q, want p1", stored.PatternID)
	}
	if stored.Bits != 32 {
		t.Errorf("Bits = %d, want 32", stored.Bits)
	}

	_, recognized, err := server.handleRecognize(ctx, req, RecognizeInput{Data: data})
	if err != nil {
		t.Fatalf("handleRecognize failed: %v", err)
	}
	if !recognized.Matched {
		t.Error("exact replay did not match")
	}
	if recognized.PatternID != "p1" {
		t.Errorf("PatternID = %q, want p1", recognized.PatternID)
	}
	if recognized.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", recognized.Confidence)
	}
	if len(recognized.Comparisons) != 1 {
		t.Errorf("Comparisons = %d, want 1", len(recognized.Comparisons))
	}
}

func TestHandleStoreValidation(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()
	req := &sdk.CallToolRequest{}

	if _, _, err := server.handleStore(ctx, req, StoreInput{Data: []float64{1}}); err == nil {
		t.Error("missing label accepted")
	}
	if _, _, err := server.handleStore(ctx, req, StoreInput{Label: "A"}); err == nil {
		t.Error("missing data accepted")
	}
}

func TestHandleListAndDelete(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()
	req := &sdk.CallToolRequest{}

	if _, _, err := server.handleStore(ctx, req, StoreInput{ID: "p1", Label: "A", Data: []float64{1, 1}}); err != nil {
		t.Fatal(err)
	}

	_, listed, err := server.handleList(ctx, req, ListInput{})
	if err != nil {
		t.Fatalf("handleList failed: %v", err)
	}
	if listed.Count != 1 || len(listed.Patterns) != 1 {
		t.Fatalf("Count = %d, Patterns = %d, want 1/1", listed.Count, len(listed.Patterns))
	}
	if listed.Patterns[0].ActiveBits != 2 {
		t.Errorf("ActiveBits = %d, want 2", listed.Patterns[0].ActiveBits)
	}

	_, deleted, err := server.handleDelete(ctx, req, DeleteInput{PatternID: "p1"})
	if err != nil {
		t.Fatalf("handleDelete failed: %v", err)
	}
	if !deleted.Deleted {
		t.Error("Deleted = false for known id")
	}

	_, deleted, err = server.handleDelete(ctx, req, DeleteInput{PatternID: "p1"})
	if err != nil {
		t.Fatalf("handleDelete (repeat) failed: %v", err)
	}
	if deleted.Deleted {
		t.Error("Deleted = true for unknown id")
	}
	if !strings.Contains(deleted.Message, "not found") {
		t.Errorf("Message = %q, want not-found notice", deleted.Message)
	}
}

func TestHandleOptimizeAndStats(t *testing.T) {
	server := setupTestServer(t)
	ctx := context.Background()
	req := &sdk.CallToolRequest{}

	if _, _, err := server.handleStore(ctx, req, StoreInput{ID: "p1", Label: "A", Data: []float64{1}}); err != nil {
		t.Fatal(err)
	}

	_, optimized, err := server.handleOptimize(ctx, req, OptimizeInput{})
	if err != nil {
		t.Fatalf("handleOptimize failed: %v", err)
	}
	if optimized.Count != 0 {
		t.Errorf("fresh pattern removed: %v", optimized.Removed)
	}

	_, stats, err := server.handleStats(ctx, req, StatsInput{})
	if err != nil {
		t.Fatalf("handleStats failed: %v", err)
	}
	if stats.Patterns != 1 {
		t.Errorf("Patterns = %d, want 1", stats.Patterns)
	}
	if stats.InputSize != 32 || stats.OutputSize != 8 {
		t.Errorf("sizes = %d/%d, want 32/8", stats.InputSize, stats.OutputSize)
	}
}
