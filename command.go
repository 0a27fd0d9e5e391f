// Package ptouch is a driver for Brother P-touch label printers speaking
// the raster command protocol, over network, USB or serial transports.
package ptouch

// Resources:
//  https://download.brother.com/welcome/docp100064/cv_pte550wp750wp710bt_eng_raster_102.pdf
//  https://download.brother.com/welcome/docp100367/cv_ptp900_eng_raster_102.pdf
//  http://www.undocprint.org/formats/page_description_languages/brother_p-touch

import (
	"bytes"
	"errors"
	"math"
)

// Command byte sequences per the Brother raster command references.
// The same opcodes are shared by the whole PT raster family; what differs
// per model is which flag bits are legal, and that is checked up front.
var (
	cmdInitialize    = []byte{0x1b, 0x40}
	cmdStatusRequest = []byte{0x1b, 0x69, 0x53}
	cmdRasterMode    = []byte{0x1b, 0x69, 0x61, 0x01}
)

const (
	// The references send at least 100 zero bytes to flush a possibly
	// confused receive buffer before every job.
	invalidateLength = 100

	// Print information command flag bits.
	piKind    = 0x02
	piWidth   = 0x04
	piRecover = 0x80

	// Mode command (ESC i M) flag bits.
	modeAutoCut = 0x40

	// Advanced mode command (ESC i K) flag bits.
	advHalfCut = 0x04
	advNoChain = 0x08
	advHighRes = 0x40
)

// Config holds the per-job print settings. The zero value means standard
// resolution, no compression, no cutting and no extra margin; most callers
// want DefaultConfig instead.
type Config struct {
	HighResolution bool
	Compression    bool
	AutoCut        bool
	HalfCut        bool

	// MarginMM is the feed margin before and after each label.
	MarginMM float64
}

// DefaultConfig returns the settings a model is expected to print with:
// automatic full cuts, a 2mm feed margin, and compression where the
// model's cutter depends on it.
func DefaultConfig(m *Model) Config {
	return Config{
		Compression: m.CompressionRequired,
		AutoCut:     true,
		MarginMM:    2,
	}
}

// jobState tracks the command sequencing of one print run.
type jobState int

const (
	stateIdle jobState = iota
	stateInitialized
	stateModeSet
	statePageEnd
)

// errSequence flags a violation of the command ordering; reaching it is
// a bug in the orchestrator, not an input problem.
var errSequence = errors.New("ptouch: command sequence violation")

// frameBuilder assembles the outbound byte stream for one print run.
// Methods only append to an internal buffer; nothing is transmitted here,
// which is what makes fail-fast validation possible.
type frameBuilder struct {
	model *Model
	cfg   Config
	state jobState
	buf   bytes.Buffer
	line  []byte
}

// newFrameBuilder validates the configuration against the model's
// capability set before a single byte is produced.
func newFrameBuilder(m *Model, cfg Config) (*frameBuilder, error) {
	if cfg.AutoCut && !m.AutoCut {
		return nil, errf(KindUnsupportedFeature, nil,
			"%s has no automatic cutter", m)
	}
	if cfg.HalfCut && !m.HalfCut {
		return nil, errf(KindUnsupportedFeature, nil,
			"%s cannot half-cut", m)
	}
	if cfg.HighResolution && !m.HighResolution {
		return nil, errf(KindUnsupportedFeature, nil,
			"%s has no high resolution mode", m)
	}
	if cfg.MarginMM < 0 {
		return nil, errf(KindUnsupportedFeature, nil,
			"negative margin %gmm", cfg.MarginMM)
	}
	if m.CompressionRequired && cfg.AutoCut {
		// The cutter silently does nothing in uncompressed mode.
		cfg.Compression = true
	}
	return &frameBuilder{
		model: m,
		cfg:   cfg,
		line:  make([]byte, m.BytesPerLine),
	}, nil
}

// take hands out everything built so far and resets the buffer, so the
// orchestrator can transmit each label before encoding the next one.
func (fb *frameBuilder) take() []byte {
	data := append([]byte(nil), fb.buf.Bytes()...)
	fb.buf.Reset()
	return data
}

// begin resets the device into a known state: invalidate, initialize,
// switch to raster mode. Sent unconditionally at the start of every run
// to clear whatever a previous job may have left behind.
func (fb *frameBuilder) begin() error {
	if fb.state != stateIdle {
		return errSequence
	}
	fb.buf.Write(make([]byte, invalidateLength))
	fb.buf.Write(cmdInitialize)
	fb.buf.Write(cmdRasterMode)
	fb.state = stateInitialized
	return nil
}

// marginDots converts the configured margin to feed dots. High resolution
// doubles the vertical density and therefore the dot count.
func (fb *frameBuilder) marginDots() int {
	dpi := fb.model.DPI
	if fb.cfg.HighResolution {
		dpi = fb.model.DPIHigh
	}
	return int(math.Round(fb.cfg.MarginMM * float64(dpi) / 25.4))
}

// modeSet emits the mode-select commands. Valid exactly once per run,
// before the first raster line; a resolution or compression change
// requires a whole new run starting from begin.
func (fb *frameBuilder) modeSet() error {
	if fb.state != stateInitialized {
		return errSequence
	}

	var mode byte
	if fb.cfg.AutoCut {
		mode |= modeAutoCut
	}
	fb.buf.Write([]byte{0x1b, 0x69, 0x4d, mode})

	// Cut after every single label, on models that can count.
	if fb.cfg.AutoCut && fb.model.PageNumberCuts {
		fb.buf.Write([]byte{0x1b, 0x69, 0x41, 0x01})
	}

	adv := byte(advNoChain)
	if fb.cfg.HalfCut {
		adv |= advHalfCut
	}
	if fb.cfg.HighResolution {
		adv |= advHighRes
	}
	fb.buf.Write([]byte{0x1b, 0x69, 0x4b, adv})

	dots := fb.marginDots()
	fb.buf.Write([]byte{0x1b, 0x69, 0x64, byte(dots), byte(dots >> 8)})

	compression := byte(0x00)
	if fb.cfg.Compression {
		compression = 0x02 // TIFF
	}
	fb.buf.Write([]byte{0x4d, compression})

	fb.state = stateModeSet
	return nil
}

// page streams one label: print information, raster data, and the page
// end marker. Between labels the printer cuts according to the mode flags
// (half cut when requested); the last page ends with print-and-feed,
// which ejects and full-cuts.
func (fb *frameBuilder) page(bm Bitmap, tape Tape, tc TapeConfig,
	first, last bool) error {
	if fb.state != stateModeSet && fb.state != statePageEnd {
		return errSequence
	}
	if first != (fb.state == stateModeSet) {
		return errSequence
	}

	width := bm.Bounds().Dx()
	lines := width
	if fb.cfg.HighResolution {
		// Doubled vertical sampling: every line is transmitted twice.
		lines *= 2
	}

	info := []byte{
		0x1b, 0x69, 0x7a,
		piKind | piWidth | piRecover,
		tape.mediaType(),
		byte(tape.MediaMM),
		0x00, // media length: continuous
	}
	info = append(info,
		byte(lines), byte(lines>>8), byte(lines>>16), byte(lines>>24))
	if first {
		info = append(info, 0x00, 0x00)
	} else {
		info = append(info, 0x01, 0x00)
	}
	fb.buf.Write(info)

	for x := 0; x < width; x++ {
		encodeLine(bm, x, tc, fb.line)
		repeat := 1
		if fb.cfg.HighResolution {
			repeat = 2
		}
		for i := 0; i < repeat; i++ {
			fb.rasterLine()
		}
	}

	if last {
		fb.buf.WriteByte(0x1a) // print with feeding
		fb.state = stateIdle
	} else {
		fb.buf.WriteByte(0x0c) // print, cut boundary, no feed
		fb.state = statePageEnd
	}
	return nil
}

// rasterLine emits the current scratch line. With compression on, a blank
// line collapses into the one-byte zero-raster command; otherwise lines
// are framed as G <length, little endian> <payload>.
func (fb *frameBuilder) rasterLine() {
	if fb.cfg.Compression {
		if lineEmpty(fb.line) {
			fb.buf.WriteByte(0x5a) // Z: advance one line without data
			return
		}
		packed := packBits(fb.line)
		fb.buf.Write([]byte{0x47, byte(len(packed)), byte(len(packed) >> 8)})
		fb.buf.Write(packed)
		return
	}
	fb.buf.Write([]byte{0x47, byte(len(fb.line)), byte(len(fb.line) >> 8)})
	fb.buf.Write(fb.line)
}
