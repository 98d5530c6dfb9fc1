// Package mcp provides an MCP (Model Context Protocol) server for spikenet.
package mcp

import (
	"time"
)

// StoreInput defines the input for the spikenet_store tool.
type StoreInput struct {
	ID    string    `json:"id,omitempty" jsonschema:"Pattern identifier (generated when empty)"`
	Label string    `json:"label" jsonschema:"Human-readable pattern label"`
	Data  []float64 `json:"data" jsonschema:"Numeric payload; values above 0.5 become active bits"`
}

// StoreOutput defines the output for the spikenet_store tool.
type StoreOutput struct {
	PatternID string `json:"pattern_id" jsonschema:"ID of the stored pattern"`
	Label     string `json:"label" jsonschema:"Pattern label"`
	Bits      int    `json:"bits" jsonschema:"Stored bit-vector length"`
	Message   string `json:"message" jsonschema:"Human-readable result message"`
}

// RecognizeInput defines the input for the spikenet_recognize tool.
type RecognizeInput struct {
	Data      []float64 `json:"data" jsonschema:"Numeric payload to classify"`
	Threshold float64   `json:"threshold,omitempty" jsonschema:"Minimum similarity for a match (0.0-1.0, default 0.6)"`
	Learn     *bool     `json:"learn,omitempty" jsonschema:"Update access bookkeeping on match (default true)"`
	Evolve    bool      `json:"evolve,omitempty" jsonschema:"Allow the matched pattern to mutate toward network output (default false)"`
}

// RecognizeOutput defines the output for the spikenet_recognize tool.
type RecognizeOutput struct {
	Matched     bool                     `json:"matched" jsonschema:"Whether a pattern matched at or above the threshold"`
	PatternID   string                   `json:"pattern_id,omitempty" jsonschema:"ID of the best match"`
	Label       string                   `json:"label,omitempty" jsonschema:"Label of the best match"`
	Confidence  float64                  `json:"confidence" jsonschema:"Raw best-match similarity (0.0-1.0)"`
	Energy      float64                  `json:"energy" jsonschema:"Energy consumption proxy for this call"`
	Comparisons []recognitionComparison  `json:"comparisons,omitempty" jsonschema:"Every stored pattern ranked by similarity"`
	ProcessedIn string                   `json:"processed_in" jsonschema:"Wall-clock processing time"`
	Network     string                   `json:"network" jsonschema:"Output-layer activity summary"`
}

// recognitionComparison mirrors recognition.Comparison for tool output.
type recognitionComparison struct {
	PatternID  string  `json:"pattern_id"`
	Label      string  `json:"label"`
	Similarity float64 `json:"similarity"`
}

// ListInput defines the input for the spikenet_list tool.
type ListInput struct{}

// ListOutput defines the output for the spikenet_list tool.
type ListOutput struct {
	Patterns []PatternListItem `json:"patterns,omitempty" jsonschema:"Stored patterns ordered by id"`
	Count    int               `json:"count" jsonschema:"Number of stored patterns"`
}

// PatternListItem provides a list view of a stored pattern.
type PatternListItem struct {
	ID               string    `json:"id"`
	Label            string    `json:"label"`
	ActiveBits       int       `json:"active_bits"`
	RecognitionCount int       `json:"recognition_count"`
	LastAccessed     time.Time `json:"last_accessed"`
}

// DeleteInput defines the input for the spikenet_delete tool.
type DeleteInput struct {
	PatternID string `json:"pattern_id" jsonschema:"ID of the pattern to delete"`
}

// DeleteOutput defines the output for the spikenet_delete tool.
type DeleteOutput struct {
	Deleted bool   `json:"deleted" jsonschema:"Whether the pattern existed and was removed"`
	Message string `json:"message" jsonschema:"Human-readable result message"`
}

// OptimizeInput defines the input for the spikenet_optimize tool.
type OptimizeInput struct{}

// OptimizeOutput defines the output for the spikenet_optimize tool.
type OptimizeOutput struct {
	Removed []string `json:"removed,omitempty" jsonschema:"IDs of removed stale patterns"`
	Count   int      `json:"count" jsonschema:"Number of patterns removed"`
	Message string   `json:"message" jsonschema:"Human-readable summary"`
}

// StatsInput defines the input for the spikenet_stats tool.
type StatsInput struct{}

// StatsOutput defines the output for the spikenet_stats tool.
type StatsOutput struct {
	Patterns   int     `json:"patterns" jsonschema:"Number of stored patterns"`
	InputSize  int     `json:"input_size" jsonschema:"Classifier input width"`
	OutputSize int     `json:"output_size" jsonschema:"Classifier output width"`
	CacheHits  int     `json:"cache_hits" jsonschema:"Similarity cache hits"`
	CacheRatio float64 `json:"cache_ratio" jsonschema:"Similarity cache hit ratio (0.0-1.0)"`
	CacheSize  int     `json:"cache_size" jsonschema:"Similarity cache entries"`
}
