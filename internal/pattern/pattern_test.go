package pattern

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []byte
		want float64
	}{
		{"both empty", nil, nil, 0},
		{"both silent", []byte{0, 0, 0}, []byte{0, 0, 0}, 0},
		{"identical nonzero", []byte{1, 0, 1, 1}, []byte{1, 0, 1, 1}, 1},
		{"disjoint", []byte{1, 0, 1, 0}, []byte{0, 1, 0, 1}, 0},
		{"half overlap", []byte{1, 1, 0, 0}, []byte{1, 0, 1, 0}, 1.0 / 3.0},
		{"nonzero counts as active", []byte{7, 0}, []byte{200, 0}, 1},
		{"length truncation", []byte{1, 1}, []byte{1, 1, 1, 1, 1, 1}, 1},
		{"one empty", []byte{1, 1}, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Similarity(tt.a, tt.b); got != tt.want {
				t.Errorf("Similarity() = %v, want %v", got, tt.want)
			}
			// Symmetry holds for every pair.
			if got := Similarity(tt.b, tt.a); got != tt.want {
				t.Errorf("Similarity(reversed) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSimilarityRange(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		a := make([]byte, rng.Intn(64))
		b := make([]byte, rng.Intn(64))
		rng.Read(a)
		rng.Read(b)
		got := Similarity(a, b)
		if got < 0 || got > 1 {
			t.Fatalf("Similarity out of range: %v for %v vs %v", got, a, b)
		}
	}
}

func TestHammingDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []byte
		want int
	}{
		{"equal", []byte{1, 2, 3}, []byte{1, 2, 3}, 0},
		{"all differ", []byte{1, 1}, []byte{0, 0}, 2},
		{"shorter length wins", []byte{1, 1, 1, 1}, []byte{0}, 1},
		{"empty", nil, []byte{1, 2}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HammingDistance(tt.a, tt.b); got != tt.want {
				t.Errorf("HammingDistance() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIntegerRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 2, 0xFF, 0xDEADBEEF, 1 << 31, 0xFFFFFFFF}
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 100; i++ {
		values = append(values, rng.Uint32())
	}

	for _, v := range values {
		p := FromInteger(v)
		if len(p) != IntegerBits {
			t.Fatalf("FromInteger(%#x) length = %d, want %d", v, len(p), IntegerBits)
		}
		if got := ToInteger(p); got != v {
			t.Errorf("round trip %#x -> %#x", v, got)
		}
	}
}

func TestFromIntegerLSBFirst(t *testing.T) {
	p := FromInteger(0b110)
	want := []byte{0, 1, 1}
	if !bytes.Equal(p[:3], want) {
		t.Errorf("FromInteger(0b110)[:3] = %v, want %v (LSB first)", p[:3], want)
	}
}

func TestMixThought(t *testing.T) {
	// Fixed mix: deterministic, and not the identity for typical input.
	if MixThought(0x12345678) != MixThought(0x12345678) {
		t.Error("MixThought is not deterministic")
	}
	changed := 0
	for _, v := range []uint32{0, 1, 0xFFFFFFFF, 0x12345678} {
		if MixThought(v) != v {
			changed++
		}
	}
	if changed == 0 {
		t.Error("MixThought never changed its input")
	}
}

func TestCompressRoundTrip(t *testing.T) {
	long := bytes.Repeat([]byte{1}, 600) // forces run splitting at 255

	tests := []struct {
		name string
		in   []byte
	}{
		{"empty", nil},
		{"single byte", []byte{7}},
		{"uniform", []byte{0, 0, 0, 0}},
		{"alternating", []byte{1, 0, 1, 0, 1}},
		{"long run", long},
		{"mixed", []byte{3, 3, 3, 0, 0, 9, 1, 1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decompress(Compress(tt.in))
			if err != nil {
				t.Fatalf("Decompress: %v", err)
			}
			if !bytes.Equal(got, tt.in) {
				t.Errorf("round trip = %v, want %v", got, tt.in)
			}
		})
	}
}

func TestCompressRandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 100; i++ {
		in := make([]byte, rng.Intn(512))
		// Skew toward runs so compression actually compresses sometimes.
		for j := range in {
			in[j] = byte(rng.Intn(3))
		}
		got, err := Decompress(Compress(in))
		if err != nil {
			t.Fatalf("Decompress: %v", err)
		}
		want := in
		if len(in) == 0 {
			want = nil
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("round trip failed for %v", in)
		}
	}
}

func TestDecompressOddLength(t *testing.T) {
	if _, err := Decompress([]byte{1, 2, 3}); err == nil {
		t.Error("Decompress(odd) = nil error, want error")
	}
}

func TestSimilarityCache(t *testing.T) {
	c := NewSimilarityCache()
	a := []byte{1, 1, 0, 0}
	b := []byte{1, 0, 1, 0}

	want := Similarity(a, b)
	if got := c.Similarity(a, b); got != want {
		t.Fatalf("cached Similarity = %v, want %v", got, want)
	}
	if got := c.Similarity(a, b); got != want {
		t.Fatalf("second cached Similarity = %v, want %v", got, want)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %d hits / %d misses, want 1/1", stats.Hits, stats.Misses)
	}
	if stats.Ratio != 0.5 {
		t.Errorf("ratio = %v, want 0.5", stats.Ratio)
	}

	// Symmetric: the reversed pair is the same cache entry.
	c.Similarity(b, a)
	if got := c.Stats().Hits; got != 2 {
		t.Errorf("hits after reversed lookup = %d, want 2", got)
	}

	c.Reset()
	stats = c.Stats()
	if stats.Hits != 0 || stats.Misses != 0 || stats.Size != 0 {
		t.Errorf("stats after reset = %+v, want zeros", stats)
	}
}

// Two distinct same-length patterns sharing a first byte must not share
// a cache entry.
func TestSimilarityCacheStructuralKey(t *testing.T) {
	c := NewSimilarityCache()
	probe := []byte{1, 1, 1, 1}
	a := []byte{1, 1, 0, 0}
	b := []byte{1, 0, 0, 0}

	first := c.Similarity(probe, a)
	second := c.Similarity(probe, b)

	if first == second {
		t.Fatalf("distinct patterns scored identically (%v); stale cache hit", first)
	}
	if got := c.Stats().Hits; got != 0 {
		t.Errorf("hits = %d, want 0 for distinct pairs", got)
	}
}
