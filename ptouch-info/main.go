package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"janouch.name/ptouch"
)

var (
	host = flag.String("host", "", "network printer address")
	usb  = flag.String("usb", "",
		"USB device as usb://[vendor:]product[/serial]")
	serialPort = flag.String("serial", "", "serial device path")
)

func makeConn() (ptouch.Conn, error) {
	switch {
	case *host != "":
		return &ptouch.NetworkConn{Host: *host}, nil
	case *serialPort != "":
		return &ptouch.SerialConn{Address: *serialPort}, nil
	case *usb != "":
		return ptouch.USBConnFromURI(*usb)
	}
	return &ptouch.USBConn{}, nil
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTION]...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	conn, err := makeConn()
	if err != nil {
		log.Fatalln(err)
	}
	defer conn.Close()

	status, err := ptouch.RequestStatus(conn)
	if err != nil {
		log.Fatalln(err)
	}

	if c, ok := conn.(*ptouch.USBConn); ok {
		fmt.Printf("\x1b[1m%s %s\x1b[m\n", c.Manufacturer, c.ModelName)
	}
	fmt.Print(status)

	fmt.Println("\x1b[1mPrinters taking this cassette\x1b[m")
	names := make([]string, 0, len(ptouch.Models))
	for name := range ptouch.Models {
		names = append(names, name)
	}
	sort.Strings(names)

	var any bool
	for _, name := range names {
		m := ptouch.Models[name]
		for _, t := range m.Tapes() {
			if status.TapeMatches(t) {
				fmt.Printf("%s: %s\n", m, t)
				any = true
				break
			}
		}
	}
	if !any {
		fmt.Println("none")
	}
}
