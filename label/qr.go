package label

import (
	"image"
	"image/draw"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"

	"janouch.name/ptouch/imgutil"
)

// QR renders a QR code followed by a human-readable caption, with
// the code square filling the full height of the bitmap.
func QR(text string, height int, o TextOptions) (*imgutil.Monochrome, error) {
	code, err := qr.Encode(text, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	code, err = barcode.Scale(code, height, height)
	if err != nil {
		return nil, err
	}

	if o.SizePx <= 0 {
		o.SizePx = height / 5
	}
	if o.VAlign == Top {
		o.VAlign = VCenter
	}
	caption, err := Text(text, height, o)
	if err != nil {
		return nil, err
	}

	gap := height / 16
	width := height + gap + caption.Bounds().Dx()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, 0, height, height),
		code, code.Bounds().Min, draw.Src)
	draw.Draw(img, image.Rect(height+gap, 0, width, height),
		caption, caption.Bounds().Min, draw.Over)
	return imgutil.Threshold(img, 0), nil
}
