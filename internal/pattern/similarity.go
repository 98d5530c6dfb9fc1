// Package pattern provides spike-pattern scoring and encoding
// primitives: overlap-coefficient similarity with a bounded memo cache,
// integer/bit-vector conversion, Hamming distance, and run-length
// compression.
//
// A pattern is a byte vector; a position is active when its byte is
// nonzero.
package pattern

import (
	"hash/fnv"
	"sync"
)

// Similarity returns the overlap coefficient between the active
// positions of a and b, truncated to the shorter length:
// |active(a) ∩ active(b)| / |active(a) ∪ active(b)|, and 0 when the
// union is empty. Symmetric, in [0,1].
func Similarity(a, b []byte) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	intersection, union := 0, 0
	for i := 0; i < n; i++ {
		activeA := a[i] != 0
		activeB := b[i] != 0
		switch {
		case activeA && activeB:
			intersection++
			union++
		case activeA || activeB:
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// HammingDistance counts positions where a and b differ, over the
// shorter length.
func HammingDistance(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	d := 0
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}

// cacheLimit bounds the similarity memo cache.
const cacheLimit = 10000

// CacheStats reports memoization effectiveness.
type CacheStats struct {
	Hits   int     `json:"hits"`
	Misses int     `json:"misses"`
	Size   int     `json:"size"`
	Ratio  float64 `json:"ratio"`
}

// SimilarityCache memoizes Similarity results under a structural key: a
// 64-bit FNV-1a digest of both patterns, combined order-independently
// so the cache stays symmetric. The cache is a pure performance layer;
// a miss just recomputes.
//
// Safe for concurrent use.
type SimilarityCache struct {
	mu     sync.Mutex
	scores map[uint64]float64
	hits   int
	misses int
}

// NewSimilarityCache creates an empty cache.
func NewSimilarityCache() *SimilarityCache {
	return &SimilarityCache{scores: make(map[uint64]float64)}
}

// Similarity returns the memoized overlap coefficient for a and b.
func (c *SimilarityCache) Similarity(a, b []byte) float64 {
	key := structuralKey(a, b)

	c.mu.Lock()
	if score, ok := c.scores[key]; ok {
		c.hits++
		c.mu.Unlock()
		return score
	}
	c.misses++
	c.mu.Unlock()

	score := Similarity(a, b)

	c.mu.Lock()
	if len(c.scores) >= cacheLimit {
		// Full: drop everything rather than track recency. The cache
		// refills from the working set within a few calls.
		c.scores = make(map[uint64]float64)
	}
	c.scores[key] = score
	c.mu.Unlock()

	return score
}

// Stats returns hit/miss counters and the current entry count.
func (c *SimilarityCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := CacheStats{
		Hits:   c.hits,
		Misses: c.misses,
		Size:   len(c.scores),
	}
	if total := c.hits + c.misses; total > 0 {
		s.Ratio = float64(c.hits) / float64(total)
	}
	return s
}

// Reset clears the cache and its counters.
func (c *SimilarityCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scores = make(map[uint64]float64)
	c.hits = 0
	c.misses = 0
}

// structuralKey digests both patterns and combines the halves
// commutatively, so key(a,b) == key(b,a).
func structuralKey(a, b []byte) uint64 {
	ha := digest(a)
	hb := digest(b)
	if ha > hb {
		ha, hb = hb, ha
	}
	h := fnv.New64a()
	var buf [16]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(ha >> (8 * i))
		buf[8+i] = byte(hb >> (8 * i))
	}
	h.Write(buf[:])
	return h.Sum64()
}

func digest(p []byte) uint64 {
	h := fnv.New64a()
	h.Write(p)
	return h.Sum64()
}
