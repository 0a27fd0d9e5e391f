package main

import (
	"flag"
	"fmt"
	"html/template"
	"image"
	"image/png"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/google/uuid"

	"janouch.name/ptouch"
	"janouch.name/ptouch/imgutil"
	"janouch.name/ptouch/label"
)

var (
	printer = flag.String("printer", "E550W", "printer model")
	host    = flag.String("host", "", "network printer address")
	usb     = flag.String("usb", "",
		"USB device as usb://[vendor:]product[/serial]")
	serialPort = flag.String("serial", "", "serial device path")
)

var model *ptouch.Model

var tmpl = template.Must(template.New("form").Parse(`
	<!DOCTYPE html>
	<html><body>
	<h1>P-touch label printing tool</h1>
	<table><tr>
	<td valign=top>
		<img border=1 src='?img&amp;scale={{.Scale}}&amp;text={{.Text}}'>
	</td>
	<td valign=top>
		<fieldset>
			<p>Printer: {{ .Model }}
			{{ if .Status }}
			<p>Tape: {{ .Status.MediaWidthMM }} mm
			{{ if .PrintPins }}
			({{ .Tape }}, print area: {{ .PrintPins }} pt)
			{{ else }}
			(unsupported media)
			{{ end }}

			{{ range .Status.Errors }}
			<p>Error: {{ . }}
			{{ end }}

			{{ else }}
			<p>Error: {{ .StatusErr }}
			{{ end }}
		</fieldset>
		<form><fieldset>
			<p><label for=text>Text:</label>
				<input id=text name=text value='{{.Text}}'>
				<label for=scale>Scale:</label>
				<input id=scale name=scale value='{{.Scale}}' size=1>
			<p><input type=submit value='Update'>
				<input type=submit name=print value='Update and Print'>
		</fieldset></form>
	</td>
	</tr></table>
	</body></html>
`))

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

// loadedTape finds which of the model's cassettes the printer reports.
func loadedTape(status *ptouch.Status) (ptouch.Tape, bool) {
	for _, t := range model.Tapes() {
		if status.TapeMatches(t) {
			return t, true
		}
	}
	return ptouch.Tape{}, false
}

func handle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	conn, err := makeConn()
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}

	var (
		tape      ptouch.Tape
		printPins int
	)
	status, statusErr := ptouch.RequestStatus(conn)
	conn.Close()
	if statusErr == nil {
		if t, ok := loadedTape(status); ok {
			tape = t
			layout, _ := model.Layout(t)
			printPins = layout.PrintPins
		}
	}

	params := struct {
		Model     *ptouch.Model
		Status    *ptouch.Status
		StatusErr error
		Tape      ptouch.Tape
		PrintPins int
		Text      string
		Scale     int
	}{
		Model:     model,
		Status:    status,
		StatusErr: statusErr,
		Tape:      tape,
		PrintPins: printPins,
		Text:      r.FormValue("text"),
	}
	params.Scale, err = strconv.Atoi(r.FormValue("scale"))
	if err != nil || params.Scale < 1 {
		params.Scale = 3
	}

	var img image.Image
	if printPins != 0 {
		bitmap, err := label.Text(params.Text, printPins,
			label.TextOptions{VAlign: label.VCenter})
		if err != nil {
			http.Error(w, err.Error(), 500)
			return
		}
		img = &imgutil.Scale{Image: bitmap, Scale: params.Scale}

		if r.FormValue("print") != "" {
			job := uuid.New()
			log.Printf("job %s: printing %q on %s", job, params.Text, tape)

			p := ptouch.NewPrinter(model, conn)
			err := p.Print(&ptouch.Label{Bitmap: bitmap, Tape: tape},
				ptouch.DefaultConfig(model))
			if err != nil {
				log.Printf("job %s: %s", job, err)
			} else {
				log.Printf("job %s: done", job)
			}
		}
	}

	if _, ok := r.Form["img"]; !ok {
		w.Header().Set("Content-Type", "text/html")
		tmpl.Execute(w, &params)
		return
	}

	if img == nil {
		http.Error(w, "unknown media", 500)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, img); err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTION]... ADDRESS\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	var err error
	if model, err = ptouch.ModelByName(*printer); err != nil {
		log.Fatalln(err)
	}

	log.Println("starting server")
	http.HandleFunc("/", handle)
	log.Fatalln(http.ListenAndServe(flag.Arg(0), nil))
}
