package main

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/image/font/opentype"

	"janouch.name/ptouch"
	"janouch.name/ptouch/label"
)

var (
	printer = flag.String("printer", "E550W", "printer model")
	host    = flag.String("host", "", "network printer address")
	usb     = flag.String("usb", "",
		"USB device as usb://[vendor:]product[/serial]")
	serialPort = flag.String("serial", "", "serial device path")

	tape = flag.Float64("tape", 12, "tape width in millimetres")
	tube = flag.Int("tube", 0,
		"print on a heat-shrink tube with this shrink ratio (2 or 3)")

	imagePath = flag.String("image", "", "print a picture instead of text")
	dithering = flag.Bool("dither", false, "dither the picture")
	qrCode    = flag.Bool("qr", false, "print a QR code with a caption")

	fontPath = flag.String("font", "", "OpenType font file")
	fontSize = flag.Int("font-size", 0, "font size in pixels, 0 to fit")
	halign   = flag.String("halign", "left", "left, center or right")
	valign   = flag.String("valign", "center", "top, center or bottom")
	minWidth = flag.Int("width", 0, "minimum label width in pixels")

	highRes = flag.Bool("high-resolution", false,
		"double the lengthwise resolution")
	noCompression = flag.Bool("no-compression", false,
		"disable TIFF compression of raster data")
	fullCut = flag.Bool("full-cut", false,
		"cut labels apart instead of half-cutting")
	margin = flag.Float64("margin", 2, "feed margin in millimetres")
	copies = flag.Int("copies", 1, "number of labels to print")
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

func findTape() (ptouch.Tape, error) {
	category := ptouch.Laminated
	switch *tube {
	case 0:
	case 2:
		category = ptouch.HeatShrink2to1
	case 3:
		category = ptouch.HeatShrink3to1
	default:
		return ptouch.Tape{}, fmt.Errorf("unknown shrink ratio %d:1", *tube)
	}
	t, ok := ptouch.FindTape(category, *tape)
	if !ok {
		return ptouch.Tape{}, fmt.Errorf("no such cassette: %gmm %s",
			*tape, category)
	}
	return t, nil
}

func textOptions() (o label.TextOptions, err error) {
	if *fontPath != "" {
		var f *opentype.Font
		if f, err = label.LoadFont(*fontPath); err != nil {
			return o, err
		}
		o.Font = f
	}
	o.SizePx = *fontSize
	o.MinWidth = *minWidth

	switch *halign {
	case "left":
		o.HAlign = label.Left
	case "center":
		o.HAlign = label.HCenter
	case "right":
		o.HAlign = label.Right
	default:
		return o, fmt.Errorf("unknown alignment %q", *halign)
	}
	switch *valign {
	case "top":
		o.VAlign = label.Top
	case "center":
		o.VAlign = label.VCenter
	case "bottom":
		o.VAlign = label.Bottom
	default:
		return o, fmt.Errorf("unknown alignment %q", *valign)
	}
	return o, nil
}

func render(height int) (ptouch.Bitmap, error) {
	if *imagePath != "" {
		f, err := os.Open(*imagePath)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		img, _, err := image.Decode(f)
		if err != nil {
			return nil, err
		}
		return label.FromImage(img, height, label.ImageOptions{
			Dither:     *dithering,
			AutoRotate: true,
		}), nil
	}

	text := strings.Join(flag.Args(), "\n")
	o, err := textOptions()
	if err != nil {
		return nil, err
	}
	if *qrCode {
		return label.QR(text, height, o)
	}
	return label.Text(text, height, o)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTION]... LINE...\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()
	if *imagePath == "" && flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	model, err := ptouch.ModelByName(*printer)
	if err != nil {
		log.Fatalln(err)
	}
	t, err := findTape()
	if err != nil {
		log.Fatalln(err)
	}
	layout, err := model.Layout(t)
	if err != nil {
		log.Fatalln(err)
	}

	bitmap, err := render(layout.PrintPins)
	if err != nil {
		log.Fatalln(err)
	}

	conn, err := makeConn()
	if err != nil {
		log.Fatalln(err)
	}

	cfg := ptouch.DefaultConfig(model)
	cfg.HighResolution = *highRes
	cfg.HalfCut = model.HalfCut && !*fullCut
	cfg.MarginMM = *margin
	if *noCompression {
		cfg.Compression = false
	}

	labels := make([]*ptouch.Label, *copies)
	for i := range labels {
		labels[i] = &ptouch.Label{Bitmap: bitmap, Tape: t}
	}

	p := ptouch.NewPrinter(model, conn)
	if err := p.PrintMulti(labels, cfg); err != nil {
		log.Fatalln(err)
	}
}
