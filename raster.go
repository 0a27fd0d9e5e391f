package ptouch

import "image"

// Bitmap is the finished 1-bit label image the driver consumes. Rendering
// is somebody else's job; see the label package for ready-made producers.
//
// The bitmap is in natural label orientation: Y runs across the tape and
// must not exceed the printable pin count, X runs along the tape and may
// be arbitrarily long.
type Bitmap interface {
	Bounds() image.Rectangle
	// BlackAt reports whether the pixel at (x, y) is to be printed.
	BlackAt(x, y int) bool
}

// encodeLine packs bitmap column x into line, which must hold the model's
// BytesPerLine bytes. Pin 0 is the most significant bit of the first byte;
// margin pins outside the printable span stay zero. Image row 0 maps to
// the highest-numbered printable pin, mirroring the head orientation.
func encodeLine(bm Bitmap, x int, tc TapeConfig, line []byte) {
	for i := range line {
		line[i] = 0
	}

	b := bm.Bounds()
	height := b.Dy()
	if height > tc.PrintPins {
		height = tc.PrintPins
	}
	for y := 0; y < height; y++ {
		if !bm.BlackAt(b.Min.X+x, b.Min.Y+y) {
			continue
		}
		pin := tc.LeftPins + tc.PrintPins - 1 - y
		line[pin/8] |= 0x80 >> uint(pin%8)
	}
}

func lineEmpty(line []byte) bool {
	for _, b := range line {
		if b != 0 {
			return false
		}
	}
	return true
}
