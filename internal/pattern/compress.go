package pattern

import "fmt"

// maxRun is the longest run a single (value,count) pair can encode.
const maxRun = 255

// Compress run-length encodes p as (value,count) byte pairs, with runs
// longer than 255 split across pairs. Compress(nil) is nil.
func Compress(p []byte) []byte {
	if len(p) == 0 {
		return nil
	}

	out := make([]byte, 0, len(p)/2+2)
	value := p[0]
	run := 0
	flush := func() {
		out = append(out, value, byte(run))
	}
	for _, b := range p {
		if b == value && run < maxRun {
			run++
			continue
		}
		flush()
		value = b
		run = 1
	}
	flush()
	return out
}

// Decompress reverses Compress. Returns an error for odd-length input;
// Decompress(nil) is nil.
func Decompress(c []byte) ([]byte, error) {
	if len(c) == 0 {
		return nil, nil
	}
	if len(c)%2 != 0 {
		return nil, fmt.Errorf("compressed pattern has odd length %d", len(c))
	}

	var out []byte
	for i := 0; i < len(c); i += 2 {
		value, count := c[i], int(c[i+1])
		for j := 0; j < count; j++ {
			out = append(out, value)
		}
	}
	return out, nil
}
