package label

import (
	"image"
	"image/color"

	"github.com/makeworld-the-better-one/dither/v2"
	"golang.org/x/image/draw"

	"janouch.name/ptouch/imgutil"
)

// ImageOptions adjusts conversion of arbitrary pictures to labels.
type ImageOptions struct {
	// Dither uses Floyd-Steinberg error diffusion instead of a plain
	// luminance threshold, which suits photographic input.
	Dither bool
	// AutoRotate turns portrait input a quarter turn counterclockwise,
	// since tape labels are almost always wider than tall.
	AutoRotate bool
	// ThresholdLevel is the luminance cut-off, 0 meaning the midpoint.
	ThresholdLevel uint8
}

// FromImage resamples a picture to the given height, keeping its
// aspect ratio, and reduces it to a printable bitmap.
func FromImage(img image.Image, height int, o ImageOptions) *imgutil.Monochrome {
	if o.AutoRotate && img.Bounds().Dy() > img.Bounds().Dx() {
		img = &imgutil.LeftRotate{Image: img}
	}

	bounds := img.Bounds()
	if bounds.Dx() < 1 || bounds.Dy() < 1 {
		return imgutil.NewMonochrome(image.Rect(0, 0, 0, height))
	}

	width := bounds.Dx() * height / bounds.Dy()
	if width < 1 {
		width = 1
	}
	scaled := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)

	if o.Dither {
		d := dither.NewDitherer([]color.Color{color.Black, color.White})
		d.Matrix = dither.FloydSteinberg
		d.Serpentine = true
		return imgutil.Threshold(d.DitherPaletted(scaled), o.ThresholdLevel)
	}
	return imgutil.Threshold(scaled, o.ThresholdLevel)
}
