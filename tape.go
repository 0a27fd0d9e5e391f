package ptouch

import "fmt"

// TapeCategory distinguishes the supported media families.
type TapeCategory int

const (
	// Laminated is the standard TZe laminated tape.
	Laminated TapeCategory = iota
	// HeatShrink2to1 is the HSe heat-shrink tube series with a 2:1
	// shrink ratio.
	HeatShrink2to1
	// HeatShrink3to1 is the HSe heat-shrink tube series with a 3:1
	// shrink ratio.
	HeatShrink3to1
)

func (c TapeCategory) String() string {
	switch c {
	case Laminated:
		return "laminated tape"
	case HeatShrink2to1:
		return "heat-shrink tube 2:1"
	case HeatShrink3to1:
		return "heat-shrink tube 3:1"
	}
	return fmt.Sprintf("tape category %d", int(c))
}

// Tape identifies a physical tape cassette. It is a plain value, usable
// as a map key; compatibility with a printer is a lookup in the model's
// pin-layout table, nothing more.
type Tape struct {
	Category TapeCategory
	WidthMM  float64

	// MediaMM is the width in whole millimetres as the printer reports it
	// in status packets and as it is transmitted in the print information
	// command. It does not always match WidthMM: 3.5mm tape reports 4mm.
	MediaMM int
}

func (t Tape) String() string {
	return fmt.Sprintf("%gmm %s", t.WidthMM, t.Category)
}

// mediaType returns the media type byte for the print information command.
func (t Tape) mediaType() byte {
	switch t.Category {
	case HeatShrink2to1:
		return 0x11
	case HeatShrink3to1:
		return 0x17
	}
	return 0x01
}

// Laminated TZe tapes.
var (
	Tape3_5mm = Tape{Laminated, 3.5, 4}
	Tape6mm   = Tape{Laminated, 6, 6}
	Tape9mm   = Tape{Laminated, 9, 9}
	Tape12mm  = Tape{Laminated, 12, 12}
	Tape18mm  = Tape{Laminated, 18, 18}
	Tape24mm  = Tape{Laminated, 24, 24}
	Tape36mm  = Tape{Laminated, 36, 36}
)

// Heat-shrink tubes, 2:1 series.
var (
	HeatShrinkTube5_8mm  = Tape{HeatShrink2to1, 5.8, 6}
	HeatShrinkTube8_8mm  = Tape{HeatShrink2to1, 8.8, 9}
	HeatShrinkTube11_7mm = Tape{HeatShrink2to1, 11.7, 12}
	HeatShrinkTube17_7mm = Tape{HeatShrink2to1, 17.7, 18}
	HeatShrinkTube23_6mm = Tape{HeatShrink2to1, 23.6, 24}
)

// Heat-shrink tubes, 3:1 series.
var (
	HeatShrinkTube3to1_5_2mm  = Tape{HeatShrink3to1, 5.2, 5}
	HeatShrinkTube3to1_9_0mm  = Tape{HeatShrink3to1, 9.0, 9}
	HeatShrinkTube3to1_11_2mm = Tape{HeatShrink3to1, 11.2, 11}
	HeatShrinkTube3to1_21_0mm = Tape{HeatShrink3to1, 21.0, 21}
	HeatShrinkTube3to1_31_0mm = Tape{HeatShrink3to1, 31.0, 31}
)

// allTapes lists every known cassette, for width-based lookup.
var allTapes = []Tape{
	Tape3_5mm, Tape6mm, Tape9mm, Tape12mm, Tape18mm, Tape24mm, Tape36mm,

	HeatShrinkTube5_8mm, HeatShrinkTube8_8mm, HeatShrinkTube11_7mm,
	HeatShrinkTube17_7mm, HeatShrinkTube23_6mm,

	HeatShrinkTube3to1_5_2mm, HeatShrinkTube3to1_9_0mm,
	HeatShrinkTube3to1_11_2mm, HeatShrinkTube3to1_21_0mm,
	HeatShrinkTube3to1_31_0mm,
}

// FindTape resolves a cassette from its category and nominal width
// in millimetres, as users would specify it on a command line.
func FindTape(c TapeCategory, widthMM float64) (Tape, bool) {
	for _, t := range allTapes {
		if t.Category == c && t.WidthMM == widthMM {
			return t, true
		}
	}
	return Tape{}, false
}

// TapeConfig is the left-margin/printable/right-margin pin split for
// a tape on a particular model. The three always sum to the model's
// total pin count.
type TapeConfig struct {
	LeftPins  int
	PrintPins int
	RightPins int
}
