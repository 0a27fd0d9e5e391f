package ptouch

import (
	"bytes"
	"image"
	"testing"

	"janouch.name/ptouch/imgutil"
)

func mustFrameBuilder(t *testing.T, m *Model, cfg Config) *frameBuilder {
	t.Helper()
	fb, err := newFrameBuilder(m, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return fb
}

func TestFrameBuilderBegin(t *testing.T) {
	fb := mustFrameBuilder(t, Models["E550W"], DefaultConfig(Models["E550W"]))
	if err := fb.begin(); err != nil {
		t.Fatal(err)
	}

	expected := append(make([]byte, 100), 0x1b, 0x40, 0x1b, 0x69, 0x61, 0x01)
	if data := fb.take(); !bytes.Equal(data, expected) {
		t.Errorf("begin sent % x", data)
	}
}

func TestFrameBuilderModeSet(t *testing.T) {
	// The 180dpi head feeds 14 dots for a 2mm margin,
	// and the cutter of this model needs compression to do anything.
	fb := mustFrameBuilder(t, Models["E550W"], DefaultConfig(Models["E550W"]))
	if err := fb.begin(); err != nil {
		t.Fatal(err)
	}
	fb.take()
	if err := fb.modeSet(); err != nil {
		t.Fatal(err)
	}

	expected := []byte{
		0x1b, 0x69, 0x4d, 0x40,
		0x1b, 0x69, 0x4b, 0x08,
		0x1b, 0x69, 0x64, 0x0e, 0x00,
		0x4d, 0x02,
	}
	if data := fb.take(); !bytes.Equal(data, expected) {
		t.Errorf("mode set sent % x, expected % x", data, expected)
	}
}

func TestFrameBuilderModeSetP900(t *testing.T) {
	// 360dpi feeds 28 dots for the same margin, the model cuts by page
	// number, and prints uncompressed by default.
	fb := mustFrameBuilder(t, Models["P900"], DefaultConfig(Models["P900"]))
	if err := fb.begin(); err != nil {
		t.Fatal(err)
	}
	fb.take()
	if err := fb.modeSet(); err != nil {
		t.Fatal(err)
	}

	expected := []byte{
		0x1b, 0x69, 0x4d, 0x40,
		0x1b, 0x69, 0x41, 0x01,
		0x1b, 0x69, 0x4b, 0x08,
		0x1b, 0x69, 0x64, 0x1c, 0x00,
		0x4d, 0x00,
	}
	if data := fb.take(); !bytes.Equal(data, expected) {
		t.Errorf("mode set sent % x, expected % x", data, expected)
	}
}

func TestFrameBuilderPage(t *testing.T) {
	m := Models["E550W"]
	tc, err := m.Layout(Tape12mm)
	if err != nil {
		t.Fatal(err)
	}

	fb := mustFrameBuilder(t, m, DefaultConfig(m))
	if err := fb.begin(); err != nil {
		t.Fatal(err)
	}
	if err := fb.modeSet(); err != nil {
		t.Fatal(err)
	}
	fb.take()

	// A single black pixel in the top row of column 3.
	bm := imgutil.NewMonochrome(image.Rect(0, 0, 8, 70))
	bm.SetBlack(3, 0, true)
	if err := fb.page(bm, Tape12mm, tc, true, true); err != nil {
		t.Fatal(err)
	}

	expected := []byte{
		// Print information: kind, width and recovery are valid,
		// laminated 12mm, continuous, 8 lines, first page.
		0x1b, 0x69, 0x7a, 0x86, 0x01, 0x0c, 0x00,
		0x08, 0x00, 0x00, 0x00, 0x00, 0x00,
		// Three blank lines, the pixel on pin 98, four blank lines.
		0x5a, 0x5a, 0x5a,
		0x47, 0x06, 0x00, 0xf5, 0x00, 0x00, 0x20, 0xfe, 0x00,
		0x5a, 0x5a, 0x5a, 0x5a,
		// Print with feeding.
		0x1a,
	}
	if data := fb.take(); !bytes.Equal(data, expected) {
		t.Errorf("page sent % x, expected % x", data, expected)
	}
}

func TestFrameBuilderChaining(t *testing.T) {
	m := Models["E550W"]
	tc, _ := m.Layout(Tape12mm)
	bm := imgutil.NewMonochrome(image.Rect(0, 0, 4, 70))

	fb := mustFrameBuilder(t, m, DefaultConfig(m))
	if err := fb.begin(); err != nil {
		t.Fatal(err)
	}
	if err := fb.modeSet(); err != nil {
		t.Fatal(err)
	}
	fb.take()

	if err := fb.page(bm, Tape12mm, tc, true, false); err != nil {
		t.Fatal(err)
	}
	first := fb.take()
	if first[len(first)-1] != 0x0c {
		t.Errorf("first page ends with %#x", first[len(first)-1])
	}
	if first[11] != 0x00 {
		t.Errorf("first page is not marked as starting: %#x", first[11])
	}

	if err := fb.page(bm, Tape12mm, tc, false, true); err != nil {
		t.Fatal(err)
	}
	last := fb.take()
	if last[len(last)-1] != 0x1a {
		t.Errorf("last page ends with %#x", last[len(last)-1])
	}
	if last[11] != 0x01 {
		t.Errorf("second page is marked as starting: %#x", last[11])
	}
}

func TestFrameBuilderHighResolution(t *testing.T) {
	m := Models["E550W"]
	tc, _ := m.Layout(Tape12mm)

	cfg := DefaultConfig(m)
	cfg.HighResolution = true
	fb := mustFrameBuilder(t, m, cfg)
	if err := fb.begin(); err != nil {
		t.Fatal(err)
	}
	fb.take()
	if err := fb.modeSet(); err != nil {
		t.Fatal(err)
	}

	mode := fb.take()
	i := bytes.Index(mode, []byte{0x1b, 0x69, 0x4b})
	if i < 0 || mode[i+3] != 0x48 {
		t.Errorf("advanced mode flags not raised: % x", mode)
	}
	// The doubled vertical density also doubles the feed margin dots.
	i = bytes.Index(mode, []byte{0x1b, 0x69, 0x64})
	if i < 0 || mode[i+3] != 0x1c || mode[i+4] != 0x00 {
		t.Errorf("margin not doubled: % x", mode)
	}

	bm := imgutil.NewMonochrome(image.Rect(0, 0, 4, 70))
	if err := fb.page(bm, Tape12mm, tc, true, true); err != nil {
		t.Fatal(err)
	}
	page := fb.take()

	// 8 raster lines announced and transmitted for 4 bitmap columns.
	if page[7] != 0x08 {
		t.Errorf("announced %d lines", page[7])
	}
	if n := bytes.Count(page, []byte{0x5a}); n != 8 {
		t.Errorf("transmitted %d lines", n)
	}
}

func TestFrameBuilderSequence(t *testing.T) {
	m := Models["E550W"]
	tc, _ := m.Layout(Tape12mm)
	bm := imgutil.NewMonochrome(image.Rect(0, 0, 4, 70))

	fb := mustFrameBuilder(t, m, DefaultConfig(m))
	if err := fb.modeSet(); err != errSequence {
		t.Errorf("mode set before begin: %s", err)
	}
	if err := fb.page(bm, Tape12mm, tc, true, true); err != errSequence {
		t.Errorf("page before begin: %s", err)
	}

	if err := fb.begin(); err != nil {
		t.Fatal(err)
	}
	if err := fb.begin(); err != errSequence {
		t.Errorf("double begin: %s", err)
	}
	if err := fb.page(bm, Tape12mm, tc, true, true); err != errSequence {
		t.Errorf("page before mode set: %s", err)
	}

	if err := fb.modeSet(); err != nil {
		t.Fatal(err)
	}
	if err := fb.page(bm, Tape12mm, tc, false, true); err != errSequence {
		t.Errorf("continuation page on a fresh run: %s", err)
	}
	if err := fb.page(bm, Tape12mm, tc, true, false); err != nil {
		t.Fatal(err)
	}
	if err := fb.page(bm, Tape12mm, tc, true, true); err != errSequence {
		t.Errorf("first page after a continued run: %s", err)
	}
}

func TestFrameBuilderValidation(t *testing.T) {
	bare := &Model{Name: "bare", TotalPins: 128, BytesPerLine: 16, DPI: 180}
	for _, cfg := range []Config{
		{AutoCut: true},
		{HalfCut: true},
		{HighResolution: true},
	} {
		if _, err := newFrameBuilder(bare, cfg); !IsKind(
			err, KindUnsupportedFeature) {
			t.Errorf("%+v on a featureless model: %s", cfg, err)
		}
	}
	if _, err := newFrameBuilder(bare, Config{MarginMM: -1}); !IsKind(
		err, KindUnsupportedFeature) {
		t.Error("negative margin accepted")
	}
}

func TestFrameBuilderForcedCompression(t *testing.T) {
	fb := mustFrameBuilder(t, Models["E550W"], Config{AutoCut: true})
	if !fb.cfg.Compression {
		t.Error("compression not forced for the cutter")
	}

	fb = mustFrameBuilder(t, Models["E550W"], Config{})
	if fb.cfg.Compression {
		t.Error("compression forced without cutting")
	}

	fb = mustFrameBuilder(t, Models["P900"], Config{AutoCut: true})
	if fb.cfg.Compression {
		t.Error("compression forced on a model that does not need it")
	}
}
