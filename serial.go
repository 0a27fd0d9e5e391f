package ptouch

import (
	"errors"
	"io"
	"time"

	"github.com/goburrow/serial"
)

// SerialConn drives a printer over RS-232 or a Bluetooth serial port
// profile device, the way the older PT units without networking expose
// themselves. 115200 8N1 is what the devices actually speak.
type SerialConn struct {
	// Address is the serial device path, e.g. /dev/rfcomm0.
	Address  string
	BaudRate int           // 0 means 115200
	Timeout  time.Duration // 0 means DefaultTimeout

	state connState
	port  io.ReadWriteCloser
}

func (c *SerialConn) Open() error {
	if c.state == connOpen {
		return nil
	}
	baud := c.BaudRate
	if baud == 0 {
		baud = 115200
	}
	timeout := c.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	port, err := serial.Open(&serial.Config{
		Address:  c.Address,
		BaudRate: baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  timeout,
	})
	if err != nil {
		return errf(KindNotFound, err,
			"cannot open serial device %s", c.Address)
	}
	c.port = port
	c.state = connOpen
	return nil
}

func (c *SerialConn) Write(p []byte) error {
	if c.state != connOpen {
		return errf(KindWrite, nil, "%s: connection is not open", c.Address)
	}
	n, err := c.port.Write(p)
	if err != nil {
		return errf(KindWrite, err, "write to %s failed", c.Address)
	}
	if n != len(p) {
		return errf(KindWrite, nil,
			"incomplete write to %s: %d/%d bytes", c.Address, n, len(p))
	}
	return nil
}

// Read implements StatusReader.
func (c *SerialConn) Read(p []byte) (int, error) {
	if c.state != connOpen {
		return 0, errf(KindNetwork, nil,
			"%s: connection is not open", c.Address)
	}
	n, err := c.port.Read(p)
	if errors.Is(err, serial.ErrTimeout) {
		return n, errf(KindTimeout, err, "read from %s timed out", c.Address)
	}
	if err != nil {
		return n, errf(KindNetwork, err, "read from %s failed", c.Address)
	}
	return n, nil
}

func (c *SerialConn) Close() error {
	if c.state != connOpen {
		c.state = connClosed
		return nil
	}
	c.state = connClosed
	err := c.port.Close()
	c.port = nil
	return err
}
