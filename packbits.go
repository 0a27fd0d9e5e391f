package ptouch

import "errors"

// TIFF PackBits, the one-directional variant the raster protocol wants:
// a control byte 0..127 introduces a literal run of n+1 bytes, a control
// byte 0x81..0xff repeats the following byte 257-n times. Runs never
// exceed 128 bytes; longer ones are split.

// packBits compresses one raster line.
func packBits(src []byte) []byte {
	out := make([]byte, 0, len(src)+len(src)/128+1)
	for i := 0; i < len(src); {
		// Measure the run of identical bytes starting here.
		run := 1
		for i+run < len(src) && run < 128 && src[i+run] == src[i] {
			run++
		}
		if run >= 2 {
			out = append(out, byte(257-run), src[i])
			i += run
			continue
		}

		// Literal run up to the next repeat, capped at 128 bytes.
		j := i + 1
		for j < len(src) && j-i < 128 {
			if j+1 < len(src) && src[j] == src[j+1] {
				break
			}
			j++
		}
		out = append(out, byte(j-i-1))
		out = append(out, src[i:j]...)
		i = j
	}
	return out
}

var errPackBitsTruncated = errors.New("packbits: truncated run")

// unpackBits reverses packBits. The printer is the usual decoder;
// this one exists so tests can verify the round trip.
func unpackBits(src []byte) ([]byte, error) {
	var out []byte
	for i := 0; i < len(src); {
		n := src[i]
		i++
		switch {
		case n <= 127:
			end := i + int(n) + 1
			if end > len(src) {
				return nil, errPackBitsTruncated
			}
			out = append(out, src[i:end]...)
			i = end
		case n == 128:
			// No-op control byte, never produced by the encoder.
		default:
			if i >= len(src) {
				return nil, errPackBitsTruncated
			}
			for k := 0; k < 257-int(n); k++ {
				out = append(out, src[i])
			}
			i++
		}
	}
	return out, nil
}
