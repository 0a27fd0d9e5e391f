package ptouch

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"
)

// Conn is the transport capability the driver depends on. Implementations
// track their own explicit state; Open on an already open connection and
// Close on a never-opened one are both harmless no-ops.
type Conn interface {
	Open() error
	Write(p []byte) error
	Close() error
}

// StatusReader is implemented by transports that can also read replies
// from the printer. Status queries need it; plain printing does not.
type StatusReader interface {
	Read(p []byte) (int, error)
}

type connState int

const (
	connUnopened connState = iota
	connOpen
	connClosed
)

// -----------------------------------------------------------------------------

// DefaultPort is the raw printing TCP port the printers listen on.
const DefaultPort = 9100

// DefaultTimeout applies to dialing, writes and reads unless overridden.
const DefaultTimeout = 5 * time.Second

// NetworkConn is a TCP connection to a printer's raw printing port.
type NetworkConn struct {
	Host    string
	Port    int           // 0 means DefaultPort
	Timeout time.Duration // 0 means DefaultTimeout

	state connState
	tcp   *net.TCPConn
}

func (c *NetworkConn) addr() string {
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

func (c *NetworkConn) timeout() time.Duration {
	if c.Timeout == 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// Open dials the printer. Classifies failures into timeout and network
// errors, keeping the original cause attached.
func (c *NetworkConn) Open() error {
	if c.state == connOpen {
		return nil
	}
	conn, err := net.DialTimeout("tcp", c.addr(), c.timeout())
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return errf(KindTimeout, err,
				"connection to %s timed out", c.addr())
		}
		return errf(KindNetwork, err, "cannot connect to %s", c.addr())
	}

	tcp := conn.(*net.TCPConn)
	// Get the raster stream out immediately, the payloads are tiny.
	tcp.SetNoDelay(true)
	c.tcp = tcp
	c.state = connOpen
	return nil
}

func (c *NetworkConn) Write(p []byte) error {
	if c.state != connOpen {
		return errf(KindWrite, nil, "%s: connection is not open", c.addr())
	}
	c.tcp.SetWriteDeadline(time.Now().Add(c.timeout()))
	n, err := c.tcp.Write(p)
	if err == nil && n == len(p) {
		return nil
	}

	var ne net.Error
	switch {
	case errors.As(err, &ne) && ne.Timeout():
		return errf(KindTimeout, err, "write to %s timed out", c.addr())
	case errors.Is(err, net.ErrClosed), isConnectionLost(err):
		return errf(KindNetwork, err, "connection to %s was lost", c.addr())
	case err != nil:
		return errf(KindWrite, err, "write to %s failed", c.addr())
	}
	return errf(KindWrite, nil,
		"incomplete write to %s: %d/%d bytes", c.addr(), n, len(p))
}

// Read implements StatusReader.
func (c *NetworkConn) Read(p []byte) (int, error) {
	if c.state != connOpen {
		return 0, errf(KindNetwork, nil,
			"%s: connection is not open", c.addr())
	}
	c.tcp.SetReadDeadline(time.Now().Add(c.timeout()))
	n, err := c.tcp.Read(p)
	if err != nil {
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return n, errf(KindTimeout, err,
				"read from %s timed out", c.addr())
		}
		return n, errf(KindNetwork, err, "read from %s failed", c.addr())
	}
	return n, nil
}

func (c *NetworkConn) Close() error {
	if c.state != connOpen {
		c.state = connClosed
		return nil
	}
	c.state = connClosed
	err := c.tcp.Close()
	c.tcp = nil
	return err
}

// isConnectionLost recognizes peer-initiated teardown so that it can be
// told apart from local write problems.
func isConnectionLost(err error) bool {
	return errors.Is(err, unix.EPIPE) || errors.Is(err, unix.ECONNRESET)
}

// -----------------------------------------------------------------------------

// ParseUSBURI splits a usb://[vendor:]product[/serial] device reference.
// Vendor and product are hexadecimal (an explicit 0x prefix is accepted);
// a zero vendor means "unspecified", which later defaults to Brother's ID.
func ParseUSBURI(uri string) (vendor, product uint16, serial string, err error) {
	rest, ok := strings.CutPrefix(uri, "usb://")
	if !ok {
		return 0, 0, "", fmt.Errorf(
			"invalid USB URI %q: missing usb:// scheme", uri)
	}
	if rest, serial, ok = strings.Cut(rest, "/"); ok && serial == "" {
		return 0, 0, "", fmt.Errorf(
			"invalid USB URI %q: empty serial number", uri)
	}

	vendorPart, productPart, ok := strings.Cut(rest, ":")
	if !ok {
		vendorPart, productPart = "", rest
	}
	if vendorPart != "" {
		if vendor, err = parseHexID(vendorPart); err != nil {
			return 0, 0, "", fmt.Errorf(
				"invalid USB URI %q: bad vendor ID: %w", uri, err)
		}
	}
	if productPart == "" {
		return 0, 0, "", fmt.Errorf(
			"invalid USB URI %q: missing product ID", uri)
	}
	if product, err = parseHexID(productPart); err != nil {
		return 0, 0, "", fmt.Errorf(
			"invalid USB URI %q: bad product ID: %w", uri, err)
	}
	return vendor, product, serial, nil
}

func parseHexID(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	n, err := strconv.ParseUint(s, 16, 16)
	return uint16(n), err
}
