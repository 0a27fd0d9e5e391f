package ptouch

import (
	"errors"
	"net"
	"os"
	"testing"

	"golang.org/x/sys/unix"
)

func TestParseUSBURI(t *testing.T) {
	tests := []struct {
		uri     string
		vendor  uint16
		product uint16
		serial  string
		fails   bool
	}{
		{"usb://2060", 0, 0x2060, "", false},
		{"usb://04f9:2060", 0x04f9, 0x2060, "", false},
		{"usb://0x04F9:0x2060/A1B2C3", 0x04f9, 0x2060, "A1B2C3", false},
		{"usb://20c7/000G1234567890", 0, 0x20c7, "000G1234567890", false},

		{"2060", 0, 0, "", true},
		{"http://04f9:2060", 0, 0, "", true},
		{"usb://", 0, 0, "", true},
		{"usb://04f9:", 0, 0, "", true},
		{"usb://zzzz", 0, 0, "", true},
		{"usb://fffff", 0, 0, "", true},
		{"usb://2060/", 0, 0, "", true},
	}
	for _, test := range tests {
		vendor, product, serial, err := ParseUSBURI(test.uri)
		if test.fails {
			if err == nil {
				t.Errorf("%s: unexpected success", test.uri)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: %s", test.uri, err)
		} else if vendor != test.vendor || product != test.product ||
			serial != test.serial {
			t.Errorf("%s: got %04x:%04x/%s", test.uri, vendor, product, serial)
		}
	}
}

func TestNetworkConnDefaults(t *testing.T) {
	c := NetworkConn{Host: "printer.local"}
	if addr := c.addr(); addr != "printer.local:9100" {
		t.Errorf("default address: %s", addr)
	}
	if c.timeout() != DefaultTimeout {
		t.Errorf("default timeout: %s", c.timeout())
	}

	c = NetworkConn{Host: "::1", Port: 9101}
	if addr := c.addr(); addr != "[::1]:9101" {
		t.Errorf("explicit address: %s", addr)
	}
}

func TestIsConnectionLost(t *testing.T) {
	// Peer teardown surfaces as an errno nested in stdlib net wrappers.
	lost := &net.OpError{Op: "write", Net: "tcp",
		Err: os.NewSyscallError("write", unix.EPIPE)}
	if !isConnectionLost(lost) {
		t.Error("broken pipe not recognized")
	}
	if !isConnectionLost(unix.ECONNRESET) {
		t.Error("connection reset not recognized")
	}

	if isConnectionLost(nil) {
		t.Error("nil recognized as teardown")
	}
	if isConnectionLost(errors.New("write failed")) {
		t.Error("an unrelated failure recognized as teardown")
	}
	if isConnectionLost(unix.EAGAIN) {
		t.Error("an unrelated errno recognized as teardown")
	}
}
