package ptouch

import (
	"strings"
	"testing"
)

func sampleStatus() *Status {
	var s Status
	s[4] = 0x71  // model code
	s[6] = 0x04  // AC adapter
	s[10] = 12   // media width
	s[11] = 0x01 // laminated
	return &s
}

func TestStatusMedia(t *testing.T) {
	s := sampleStatus()
	if s.MediaWidthMM() != 12 {
		t.Errorf("media width %d", s.MediaWidthMM())
	}
	if c, ok := s.MediaCategory(); !ok || c != Laminated {
		t.Errorf("media category %s, %v", c, ok)
	}
	if !s.TapeMatches(Tape12mm) {
		t.Error("12mm laminated tape not matched")
	}
	if s.TapeMatches(Tape9mm) || s.TapeMatches(HeatShrinkTube11_7mm) {
		t.Error("matched a tape that is not loaded")
	}

	s[11] = 0x17
	s[10] = 11
	if !s.TapeMatches(HeatShrinkTube3to1_11_2mm) {
		t.Error("11.2mm 3:1 tube not matched")
	}

	s[11] = 0xff
	if _, ok := s.MediaCategory(); ok {
		t.Error("incompatible media got a category")
	}
}

func TestStatusErrors(t *testing.T) {
	s := sampleStatus()
	if len(s.Errors()) != 0 {
		t.Errorf("phantom errors: %v", s.Errors())
	}

	s[8] = 0x03 // no media, end of media
	s[9] = 0x10 // cover open
	errors := s.Errors()
	if len(errors) != 3 {
		t.Fatalf("expected 3 errors: %v", errors)
	}
	if errors[0] != "no media" || errors[1] != "end of media" ||
		errors[2] != "cover open" {
		t.Errorf("wrong errors: %v", errors)
	}
}

func TestStatusDump(t *testing.T) {
	s := sampleStatus()
	s[18] = byte(StatusTypePrintingCompleted)
	s[19] = byte(StatusPhasePrinting)

	dump := s.String()
	for _, want := range []string{
		"battery: AC adapter",
		"media width: 12 mm",
		"media: laminated tape",
		"status type: printing completed",
		"phase state: printing state",
	} {
		if !strings.Contains(dump, want) {
			t.Errorf("dump is missing %q:\n%s", want, dump)
		}
	}
}
