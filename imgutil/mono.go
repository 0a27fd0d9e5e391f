package imgutil

import (
	"image"
	"image/color"
)

// Monochrome is a 1-bit-per-pixel image backed by a packed bit slice,
// most significant bit first within each byte. A set bit is black,
// i.e. a printed pixel.
type Monochrome struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

// NewMonochrome returns an all-white bitmap covering r.
func NewMonochrome(r image.Rectangle) *Monochrome {
	stride := (r.Dx() + 7) / 8
	return &Monochrome{
		Pix:    make([]uint8, stride*r.Dy()),
		Stride: stride,
		Rect:   r,
	}
}

// ColorModel implements image.Image.
func (m *Monochrome) ColorModel() color.Model { return color.GrayModel }

// Bounds implements image.Image.
func (m *Monochrome) Bounds() image.Rectangle { return m.Rect }

// At implements image.Image.
func (m *Monochrome) At(x, y int) color.Color {
	if m.BlackAt(x, y) {
		return color.Gray{Y: 0}
	}
	return color.Gray{Y: 0xff}
}

func (m *Monochrome) index(x, y int) (int, uint8) {
	x, y = x-m.Rect.Min.X, y-m.Rect.Min.Y
	return y*m.Stride + x/8, 0x80 >> uint(x%8)
}

// BlackAt reports whether the pixel at (x, y) is black.
// Pixels outside the bounds are white.
func (m *Monochrome) BlackAt(x, y int) bool {
	if !image.Pt(x, y).In(m.Rect) {
		return false
	}
	i, mask := m.index(x, y)
	return m.Pix[i]&mask != 0
}

// SetBlack sets or clears the pixel at (x, y).
func (m *Monochrome) SetBlack(x, y int, black bool) {
	if !image.Pt(x, y).In(m.Rect) {
		return
	}
	i, mask := m.index(x, y)
	if black {
		m.Pix[i] |= mask
	} else {
		m.Pix[i] &^= mask
	}
}

// Threshold converts any image to Monochrome: pixels darker than level
// become black. Level 0 picks the conventional midpoint.
func Threshold(img image.Image, level uint8) *Monochrome {
	if level == 0 {
		level = 0x80
	}
	bounds := img.Bounds()
	mono := NewMonochrome(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			if a < 0x8000 {
				continue
			}
			// Rec. 601 luma weights.
			luma := (299*r + 587*g + 114*b) / 1000
			if luma < uint32(level)<<8 {
				mono.SetBlack(x, y, true)
			}
		}
	}
	return mono
}
