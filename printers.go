package ptouch

import "fmt"

// Model is an immutable descriptor of one supported printer. All instances
// live in the Models registry; nothing here is ever mutated after init.
type Model struct {
	Name         string
	USBProductID uint16

	TotalPins    int
	BytesPerLine int
	DPI          int
	DPIHigh      int

	AutoCut        bool
	HalfCut        bool
	PageNumberCuts bool
	HighResolution bool

	// CompressionRequired marks models whose cutter only operates with
	// TIFF compression enabled (the E550W family quirk).
	CompressionRequired bool

	layouts map[Tape]TapeConfig
}

func (m *Model) String() string { return "PT-" + m.Name }

// Layout returns the pin split for the given tape, or a not-found error
// when the model has no entry for it.
func (m *Model) Layout(t Tape) (TapeConfig, error) {
	tc, ok := m.layouts[t]
	if !ok {
		return TapeConfig{}, errf(KindNotFound, nil,
			"%s: no pin configuration for %s", m, t)
	}
	return tc, nil
}

// Tapes returns all tapes the model can print on.
func (m *Model) Tapes() []Tape {
	tapes := make([]Tape, 0, len(m.layouts))
	for t := range m.layouts {
		tapes = append(tapes, t)
	}
	return tapes
}

// -----------------------------------------------------------------------------

// Pin configurations from the official Brother PT-E550W raster reference
// (cv_pte550wp750wp710bt_eng_raster_102.pdf, section 2.3), with the
// heat-shrink rows shifted two pins up to match real devices.
func newE550(name string, productID uint16) *Model {
	return &Model{
		Name:         name,
		USBProductID: productID,

		TotalPins:    128,
		BytesPerLine: 16,
		DPI:          180,
		DPIHigh:      360,

		AutoCut:             true,
		HalfCut:             true,
		HighResolution:      true,
		CompressionRequired: true,

		layouts: map[Tape]TapeConfig{
			Tape3_5mm: {52, 24, 52},
			Tape6mm:   {48, 32, 48},
			Tape9mm:   {39, 50, 39},
			Tape12mm:  {29, 70, 29},
			Tape18mm:  {8, 112, 8},
			Tape24mm:  {0, 128, 0},

			HeatShrinkTube5_8mm:  {52, 28, 48},
			HeatShrinkTube8_8mm:  {42, 48, 38},
			HeatShrinkTube11_7mm: {33, 66, 29},
			HeatShrinkTube17_7mm: {13, 106, 9},
			HeatShrinkTube23_6mm: {0, 128, 0},

			HeatShrinkTube3to1_5_2mm:  {56, 20, 52},
			HeatShrinkTube3to1_9_0mm:  {44, 44, 40},
			HeatShrinkTube3to1_11_2mm: {41, 50, 37},
			HeatShrinkTube3to1_21_0mm: {6, 120, 2},
			// The 128-pin models cannot print on 31.0mm 3:1 tubes.
		},
	}
}

// Pin configurations from the official Brother PT-P900 raster reference
// (cv_ptp900_eng_raster_102.pdf, section 2.3.5), heat-shrink rows shifted
// 17 pins down to match the vendor software.
func p900Layouts() map[Tape]TapeConfig {
	return map[Tape]TapeConfig{
		Tape3_5mm: {248, 48, 264},
		Tape6mm:   {240, 64, 256},
		Tape9mm:   {219, 106, 235},
		Tape12mm:  {197, 150, 213},
		Tape18mm:  {155, 234, 171},
		Tape24mm:  {112, 320, 128},
		Tape36mm:  {45, 454, 61},

		HeatShrinkTube5_8mm:  {261, 56, 243},
		HeatShrinkTube8_8mm:  {241, 96, 223},
		HeatShrinkTube11_7mm: {223, 132, 205},
		HeatShrinkTube17_7mm: {183, 212, 165},
		HeatShrinkTube23_6mm: {161, 256, 143},

		HeatShrinkTube3to1_5_2mm:  {269, 40, 251},
		HeatShrinkTube3to1_9_0mm:  {245, 88, 227},
		HeatShrinkTube3to1_11_2mm: {239, 100, 221},
		HeatShrinkTube3to1_21_0mm: {169, 240, 151},
		HeatShrinkTube3to1_31_0mm: {109, 360, 91},
	}
}

func newP900(name string, productID uint16) *Model {
	return &Model{
		Name:         name,
		USBProductID: productID,

		TotalPins:    560,
		BytesPerLine: 70,
		DPI:          360,
		DPIHigh:      720,

		AutoCut:        true,
		HalfCut:        true,
		PageNumberCuts: true,
		HighResolution: true,

		layouts: p900Layouts(),
	}
}

// Models is the registry of supported printers, keyed the way the devices
// are commonly referred to (without the PT- prefix).
var Models = map[string]*Model{
	"E550W":  newE550("E550W", 0x2060),
	"P750W":  newE550("P750W", 0x2065),
	"P900":   newP900("P900", 0x2083),
	"P900W":  newP900("P900W", 0x2085),
	"P950NW": newP900("P950NW", 0x2086),
	"P910BT": newP910BT(),
}

// The P910BT shares the P900 head geometry but takes laminated tapes only.
func newP910BT() *Model {
	m := newP900("P910BT", 0x20c7)
	for t := range m.layouts {
		if t.Category != Laminated {
			delete(m.layouts, t)
		}
	}
	return m
}

// ModelByName looks up a printer model, accepting an optional PT- prefix.
func ModelByName(name string) (*Model, error) {
	if m, ok := Models[name]; ok {
		return m, nil
	}
	if len(name) > 3 && name[:3] == "PT-" {
		if m, ok := Models[name[3:]]; ok {
			return m, nil
		}
	}
	return nil, errf(KindNotFound, nil, "unknown printer model %q", name)
}

// A descriptor table failing these invariants is a defect in this file,
// not a runtime condition, hence the panic.
func init() {
	for name, m := range Models {
		if m.TotalPins != 8*m.BytesPerLine {
			panic(fmt.Sprintf("%s: %d pins do not fit %d bytes per line",
				name, m.TotalPins, m.BytesPerLine))
		}
		for t, tc := range m.layouts {
			if tc.LeftPins+tc.PrintPins+tc.RightPins != m.TotalPins {
				panic(fmt.Sprintf("%s/%s: pin split %d+%d+%d != %d",
					name, t, tc.LeftPins, tc.PrintPins, tc.RightPins,
					m.TotalPins))
			}
		}
	}
}
