package ptouch

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// BrotherVendorID is the USB vendor ID of Brother Industries.
const BrotherVendorID = 0x04f9

// -----------------------------------------------------------------------------

var deviceIDRegexp = regexp.MustCompile(
	`(?s:\s*([^:,;]+?)\s*:\s*([^:;]*)\s*(?:;|$))`)

type deviceID map[string][]string

// parseIEEE1284DeviceID leniently parses an IEEE 1284 Device ID string
// and returns a map containing a slice of values for each key.
func parseIEEE1284DeviceID(id []byte) deviceID {
	m := make(deviceID)
	for _, kv := range deviceIDRegexp.FindAllStringSubmatch(string(id), -1) {
		var values []string
		for _, v := range strings.Split(kv[2], ",") {
			values = append(values, strings.Trim(v, "\t\n\v\f\r "))
		}
		m[kv[1]] = values
	}
	return m
}

func (id deviceID) Find(key, abbreviation string) []string {
	if values, ok := id[key]; ok {
		return values
	}
	if values, ok := id[abbreviation]; ok {
		return values
	}
	return nil
}

func (id deviceID) FindFirst(key, abbreviation string) string {
	for _, s := range id.Find(key, abbreviation) {
		return s
	}
	return ""
}

// compatible filters out printers that would not understand the raster
// protocol: the PT raster family advertises the PT-CBP command set.
func compatible(id deviceID) bool {
	for _, commandSet := range id.Find("COMMAND SET", "CMD") {
		if commandSet == "PT-CBP" {
			return true
		}
	}
	return false
}

// -----------------------------------------------------------------------------

// Linux _IOC encoding, as <asm-generic/ioctl.h> lays it out.
const (
	iocRead      = 2
	iocNRShift   = 0
	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30

	iocnrGetDeviceID = 1
)

// lpiocGetDeviceID reads the IEEE 1284 Device ID string of a printer
// through the usblp class driver.
func lpiocGetDeviceID(fd uintptr) ([]byte, error) {
	var buf [1024]byte
	ioc := uintptr(iocRead)<<iocDirShift |
		uintptr('P')<<iocTypeShift |
		uintptr(iocnrGetDeviceID)<<iocNRShift |
		uintptr(len(buf))<<iocSizeShift
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, ioc,
		uintptr(unsafe.Pointer(&buf[0]))); errno != 0 {
		return nil, errno
	}

	// In theory it might get trimmed along the way.
	length := int(buf[0])<<8 | int(buf[1])
	if 2+length > len(buf) {
		return buf[2:], errors.New("the device ID string got trimmed")
	}
	return buf[2 : 2+length], nil
}

// sysfsUSBID reads idVendor/idProduct for an lp device from sysfs;
// zero when the attribute cannot be resolved.
func sysfsUSBID(lpName, attribute string) uint16 {
	// The ".." must survive into the path so that the kernel resolves it
	// through the interface symlink; filepath.Join would clean it away.
	raw, err := os.ReadFile(filepath.Join(
		"/sys/class/usbmisc", lpName, "device") + "/../" + attribute)
	if err != nil {
		return 0
	}
	id, err := strconv.ParseUint(strings.TrimSpace(string(raw)), 16, 16)
	if err != nil {
		return 0
	}
	return uint16(id)
}

// -----------------------------------------------------------------------------

// USBConn is a printer reached through the Linux usblp class driver.
// The zero value matches the first compatible Brother printer found;
// VendorID, ProductID and Serial narrow the search down.
type USBConn struct {
	VendorID  uint16 // 0 means BrotherVendorID
	ProductID uint16 // 0 matches any product
	Serial    string // empty matches any serial number
	Timeout   time.Duration

	state connState
	file  *os.File

	// Filled in by Open from the IEEE 1284 Device ID.
	Manufacturer string
	ModelName    string
}

// USBConnFromURI builds a USBConn from a usb://[vendor:]product[/serial]
// reference.
func USBConnFromURI(uri string) (*USBConn, error) {
	vendor, product, serial, err := ParseUSBURI(uri)
	if err != nil {
		return nil, err
	}
	return &USBConn{VendorID: vendor, ProductID: product, Serial: serial}, nil
}

func (c *USBConn) timeout() time.Duration {
	if c.Timeout == 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// match decides whether an opened lp device is the one asked for.
func (c *USBConn) match(lpName string, id deviceID) bool {
	if !compatible(id) {
		return false
	}
	vendor := c.VendorID
	if vendor == 0 {
		vendor = BrotherVendorID
	}
	if sysfs := sysfsUSBID(lpName, "idVendor"); sysfs != 0 && sysfs != vendor {
		return false
	}
	if c.ProductID != 0 {
		if sysfs := sysfsUSBID(lpName, "idProduct"); sysfs != c.ProductID {
			return false
		}
	}
	if c.Serial != "" && id.FindFirst("SERIALNUMBER", "SERN") != c.Serial &&
		id.FindFirst("SERIAL", "SN") != c.Serial {
		return false
	}
	return true
}

// Open finds and opens the first matching printer device.
func (c *USBConn) Open() error {
	if c.state == connOpen {
		return nil
	}

	// Linux usblp module, located in /drivers/usb/class/usblp.c
	paths, err := filepath.Glob("/dev/usb/lp[0-9]*")
	if err != nil {
		return errf(KindNotFound, err, "cannot enumerate usblp devices")
	}

	var denied error
	for _, candidate := range paths {
		f, err := os.OpenFile(candidate, os.O_RDWR, 0)
		if err != nil {
			if errors.Is(err, os.ErrPermission) {
				denied = err
			}
			continue
		}
		rawID, err := lpiocGetDeviceID(f.Fd())
		if err != nil {
			f.Close()
			continue
		}
		id := parseIEEE1284DeviceID(rawID)
		if !c.match(filepath.Base(candidate), id) {
			f.Close()
			continue
		}

		c.file = f
		c.Manufacturer = id.FindFirst("MANUFACTURER", "MFG")
		c.ModelName = id.FindFirst("MODEL", "MDL")
		c.state = connOpen
		return nil
	}

	if denied != nil {
		return errf(KindPermission, denied,
			"USB printer access denied, check device permissions")
	}
	return errf(KindNotFound, nil, "no matching USB printer found")
}

func (c *USBConn) Write(p []byte) error {
	if c.state != connOpen {
		return errf(KindWrite, nil, "USB connection is not open")
	}
	n, err := c.file.Write(p)
	if err != nil {
		return errf(KindWrite, err, "USB write failed")
	}
	if n != len(p) {
		return errf(KindWrite, nil,
			"incomplete USB write: %d/%d bytes", n, len(p))
	}
	return nil
}

// Read implements StatusReader. usblp returns EOF while the printer has
// nothing to say, so poll until data arrives or the deadline passes.
func (c *USBConn) Read(p []byte) (int, error) {
	if c.state != connOpen {
		return 0, errf(KindNetwork, nil, "USB connection is not open")
	}
	start := time.Now()
	for {
		n, err := c.file.Read(p)
		switch {
		case err == io.EOF || (err == nil && n == 0):
			if time.Since(start) > c.timeout() {
				return 0, errf(KindTimeout, nil, "USB read timed out")
			}
			time.Sleep(10 * time.Millisecond)
		case err != nil:
			return n, errf(KindNetwork, err, "USB read failed")
		default:
			return n, nil
		}
	}
}

func (c *USBConn) Close() error {
	if c.state != connOpen {
		c.state = connClosed
		return nil
	}
	c.state = connClosed
	err := c.file.Close()
	c.file = nil
	return err
}
