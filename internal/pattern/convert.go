package pattern

import "math/bits"

// IntegerBits is the length of patterns produced by FromInteger.
const IntegerBits = 32

// FromInteger expands the low 32 bits of v into a 32-length 0/1 spike
// pattern, least-significant bit first.
func FromInteger(v uint32) []byte {
	p := make([]byte, IntegerBits)
	for i := 0; i < IntegerBits; i++ {
		p[i] = byte(v >> i & 1)
	}
	return p
}

// ToInteger packs a spike pattern back into an integer, treating any
// nonzero byte as a set bit, least-significant bit first. Positions past
// 32 are ignored.
func ToInteger(p []byte) uint32 {
	var v uint32
	n := len(p)
	if n > IntegerBits {
		n = IntegerBits
	}
	for i := 0; i < n; i++ {
		if p[i] != 0 {
			v |= 1 << i
		}
	}
	return v
}

// MixThought applies a fixed 32-bit mix to v: bitwise NOT, rotate right
// by 3, then XOR with the input. A cheap deterministic mixing primitive;
// purely integer arithmetic.
func MixThought(v uint32) uint32 {
	return bits.RotateLeft32(^v, -3) ^ v
}
