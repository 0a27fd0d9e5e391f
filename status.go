package ptouch

import (
	"fmt"
	"io"
	"strings"
)

// Status is a decoder for the 32-byte status packet the printers return.
type Status [32]byte

func (s *Status) MediaWidthMM() int { return int(s[10]) }

// MediaCategory maps the reported media type byte onto a tape category.
// The second result is false with no or unrecognized media.
func (s *Status) MediaCategory() (TapeCategory, bool) {
	switch s[11] {
	case 0x01:
		return Laminated, true
	case 0x11:
		return HeatShrink2to1, true
	case 0x17:
		return HeatShrink3to1, true
	}
	return 0, false
}

// TapeMatches reports whether the loaded media agrees with the tape
// a label is meant for.
func (s *Status) TapeMatches(t Tape) bool {
	c, ok := s.MediaCategory()
	return ok && c == t.Category && s.MediaWidthMM() == t.MediaMM
}

type StatusType byte

const (
	StatusTypeReplyToRequest    StatusType = 0x00
	StatusTypePrintingCompleted StatusType = 0x01
	StatusTypeErrorOccurred     StatusType = 0x02
	StatusTypeTurnedOff         StatusType = 0x04
	StatusTypeNotification      StatusType = 0x05
	StatusTypePhaseChange       StatusType = 0x06
)

func (s *Status) Type() StatusType { return StatusType(s[18]) }

type StatusPhase byte

const (
	StatusPhaseReceiving StatusPhase = 0x00
	StatusPhasePrinting  StatusPhase = 0x01
)

func (s *Status) Phase() StatusPhase { return StatusPhase(s[19]) }

type BatteryLevel byte

const (
	BatteryFull      BatteryLevel = 0x00
	BatteryHalf      BatteryLevel = 0x01
	BatteryLow       BatteryLevel = 0x02
	BatteryEmpty     BatteryLevel = 0x03
	BatteryACAdapter BatteryLevel = 0x04
)

func (b BatteryLevel) String() string {
	switch b {
	case BatteryFull:
		return "full"
	case BatteryHalf:
		return "half"
	case BatteryLow:
		return "low"
	case BatteryEmpty:
		return "change batteries"
	case BatteryACAdapter:
		return "AC adapter"
	}
	return fmt.Sprintf("battery %#x", byte(b))
}

func (s *Status) Battery() BatteryLevel { return BatteryLevel(s[6]) }

func decodeBitfieldErrors(b byte, errors [8]string) []string {
	var result []string
	for i := uint(0); i < 8; i++ {
		if b&(1<<i) != 0 {
			result = append(result, errors[i])
		}
	}
	return result
}

var errorInfo1 = [8]string{
	"no media", "end of media", "cutter jam", "weak batteries",
	"printer in use", "printer turned off", "high-voltage adapter",
	"fan motor error"}
var errorInfo2 = [8]string{
	"replace media", "expansion buffer full", "communication error",
	"communication buffer full", "cover open", "overheating",
	"black marking not detected", "system error"}

// Errors lists the error conditions the printer is flagging, if any.
func (s *Status) Errors() (errors []string) {
	errors = append(errors, decodeBitfieldErrors(s[8], errorInfo1)...)
	errors = append(errors, decodeBitfieldErrors(s[9], errorInfo2)...)
	return
}

// -----------------------------------------------------------------------------

// String implements the Stringer interface.
func (s *Status) String() string {
	var b strings.Builder
	s.Dump(&b)
	return b.String()
}

// Dump writes the status data to an io.Writer in a human-readable format.
func (s *Status) Dump(f io.Writer) {
	// The model code assignments are not published for the PT series,
	// so unlike the media bytes this one stays numeric.
	fmt.Fprintln(f, "model code:", s[4])

	for _, e := range decodeBitfieldErrors(s[8], errorInfo1) {
		fmt.Fprintln(f, "error 1:", e)
	}
	for _, e := range decodeBitfieldErrors(s[9], errorInfo2) {
		fmt.Fprintln(f, "error 2:", e)
	}

	fmt.Fprintln(f, "battery:", s.Battery())
	fmt.Fprintln(f, "media width:", s.MediaWidthMM(), "mm")

	if c, ok := s.MediaCategory(); ok {
		fmt.Fprintln(f, "media:", c)
	} else if s[11] == 0x00 {
		fmt.Fprintln(f, "media: no media")
	} else if s[11] == 0xff {
		fmt.Fprintln(f, "media: incompatible")
	} else {
		fmt.Fprintln(f, "media:", s[11])
	}

	switch t := s.Type(); t {
	case StatusTypeReplyToRequest:
		fmt.Fprintln(f, "status type: reply to status request")
	case StatusTypePrintingCompleted:
		fmt.Fprintln(f, "status type: printing completed")
	case StatusTypeErrorOccurred:
		fmt.Fprintln(f, "status type: error occurred")
	case StatusTypeTurnedOff:
		fmt.Fprintln(f, "status type: turned off")
	case StatusTypeNotification:
		fmt.Fprintln(f, "status type: notification")
	case StatusTypePhaseChange:
		fmt.Fprintln(f, "status type: phase change")
	default:
		fmt.Fprintln(f, "status type:", byte(t))
	}

	switch p := s.Phase(); p {
	case StatusPhaseReceiving:
		fmt.Fprintln(f, "phase state: receiving state")
	case StatusPhasePrinting:
		fmt.Fprintln(f, "phase state: printing state")
	default:
		fmt.Fprintln(f, "phase state:", byte(p))
	}
}
