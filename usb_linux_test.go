package ptouch

import "testing"

func TestParseIEEE1284DeviceID(t *testing.T) {
	id := parseIEEE1284DeviceID([]byte(
		"MFG:Brother;CMD:PT-CBP;MDL:PT-E550W;CLS:PRINTER;SERN: A1B2C3 ;"))

	if got := id.FindFirst("MANUFACTURER", "MFG"); got != "Brother" {
		t.Errorf("manufacturer: %q", got)
	}
	if got := id.FindFirst("MODEL", "MDL"); got != "PT-E550W" {
		t.Errorf("model: %q", got)
	}
	if got := id.FindFirst("SERIALNUMBER", "SERN"); got != "A1B2C3" {
		t.Errorf("serial not trimmed: %q", got)
	}
	if got := id.FindFirst("COMMAND SET", "CMD"); got != "PT-CBP" {
		t.Errorf("command set: %q", got)
	}
	if got := id.FindFirst("DESCRIPTION", "DES"); got != "" {
		t.Errorf("phantom key: %q", got)
	}
}

func TestCompatible(t *testing.T) {
	tests := []struct {
		id         string
		compatible bool
	}{
		{"MFG:Brother;CMD:PT-CBP;", true},
		{"MFG:Brother;COMMAND SET:ESCP,PT-CBP;", true},
		{"MFG:Brother;CMD:ESCP;", false},
		{"MFG:Brother;", false},
	}
	for _, test := range tests {
		id := parseIEEE1284DeviceID([]byte(test.id))
		if compatible(id) != test.compatible {
			t.Errorf("%q: compatible = %v", test.id, !test.compatible)
		}
	}
}

func TestUSBConnMatchSerial(t *testing.T) {
	id := parseIEEE1284DeviceID([]byte("CMD:PT-CBP;SERN:XYZ;"))

	c := &USBConn{Serial: "XYZ"}
	if !c.match("lp0", id) {
		t.Error("matching serial rejected")
	}
	c.Serial = "ABC"
	if c.match("lp0", id) {
		t.Error("mismatched serial accepted")
	}
	c.Serial = ""
	if !c.match("lp0", id) {
		t.Error("unspecified serial rejected")
	}
}
