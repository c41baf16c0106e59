package render

import (
	"image"
	"image/color"

	"github.com/echoflaresat/spheretrace/colors"
)

// Frame is a row-major buffer of unclamped pixel colors.
type Frame struct {
	Width  int
	Height int
	Pix    []colors.RGB
}

func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]colors.RGB, width*height),
	}
}

func (f *Frame) Set(x, y int, c colors.RGB) {
	f.Pix[y*f.Width+x] = c
}

func (f *Frame) RGBAt(x, y int) colors.RGB {
	return f.Pix[y*f.Width+x]
}

func (f *Frame) ColorModel() color.Model {
	return colors.Model
}

func (f *Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

func (f *Frame) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(f.Bounds())) {
		return colors.Black()
	}
	return f.RGBAt(x, y)
}

// ToNRGBA converts the frame to 8 bits per channel with the clamp and
// rounding of colors.RGB.Bytes.
func (f *Frame) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(f.Bounds())
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetNRGBA(x, y, f.RGBAt(x, y).ToNRGBA())
		}
	}
	return img
}
