// Package label renders finished 1-bit label bitmaps for the printer
// driver: text, QR codes with captions, and arbitrary images.
package label

// Horizontal and vertical alignment are two independent enumerations
// combined as a pair, so no invalid flag arithmetic can be expressed.

type HAlign int

const (
	Left HAlign = iota
	HCenter
	Right
)

type VAlign int

const (
	Top VAlign = iota
	VCenter
	Bottom
)
