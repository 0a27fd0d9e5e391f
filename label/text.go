package label

import (
	"image"
	"image/draw"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"janouch.name/ptouch/imgutil"
)

// TextOptions adjusts rendering of text labels, the zero value giving
// reasonable results.
type TextOptions struct {
	Font     *opentype.Font // nil means the embedded Go Regular
	SizePx   int            // 0 means size to fit the height
	HAlign   HAlign
	VAlign   VAlign
	MinWidth int // pad the bitmap to at least this many pixels
}

// LoadFont reads an OpenType or TrueType font from a file.
func LoadFont(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return opentype.Parse(data)
}

func (o *TextOptions) font() (*opentype.Font, error) {
	if o.Font != nil {
		return o.Font, nil
	}
	return opentype.Parse(goregular.TTF)
}

// Text typesets possibly multi-line text into a bitmap of the given
// height, which would normally be the number of printable pins for
// the tape at hand. Lines are separated by newlines in the input.
func Text(text string, height int, o TextOptions) (*imgutil.Monochrome, error) {
	f, err := o.font()
	if err != nil {
		return nil, err
	}

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	size := o.SizePx
	if size <= 0 {
		// Leave a bit of a margin, labels look better with one.
		size = height * 4 / 5 / len(lines)
	}
	if size < 1 {
		size = 1
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, err
	}
	defer face.Close()

	metrics := face.Metrics()
	lineHeight := (metrics.Ascent + metrics.Descent).Ceil()

	width := o.MinWidth
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > width {
			width = w
		}
	}
	if width < 1 {
		width = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	blockHeight := lineHeight * len(lines)
	var top int
	switch o.VAlign {
	case VCenter:
		top = (height - blockHeight) / 2
	case Bottom:
		top = height - blockHeight
	}

	d := font.Drawer{Dst: img, Src: image.Black, Face: face}
	for i, line := range lines {
		var left int
		switch o.HAlign {
		case HCenter:
			left = (width - font.MeasureString(face, line).Ceil()) / 2
		case Right:
			left = width - font.MeasureString(face, line).Ceil()
		}
		d.Dot = fixed.Point26_6{
			X: fixed.I(left),
			Y: fixed.I(top+i*lineHeight) + metrics.Ascent,
		}
		d.DrawString(line)
	}
	return imgutil.Threshold(img, 0), nil
}
