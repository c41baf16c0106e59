package colors

import (
	"image/color"
	"math"
)

// RGB is a linear color with float64 channels. Channels are not clamped:
// shading may push them above 1 and only the 8-bit conversion clamps.
type RGB struct {
	R, G, B float64
}

func New(r, g, b float64) RGB {
	return RGB{R: r, G: g, B: b}
}

func White() RGB {
	return RGB{R: 1, G: 1, B: 1}
}

func Black() RGB {
	return RGB{}
}

// RGBA implements color.Color. It reports the same 8-bit values as Bytes,
// widened to 16 bits, and is always opaque.
func (c RGB) RGBA() (r, g, b, a uint32) {
	b8 := c.Bytes()
	return uint32(b8[0]) * 0x101, uint32(b8[1]) * 0x101, uint32(b8[2]) * 0x101, 0xffff
}

// Model converts any color.Color to RGB.
var Model = color.ModelFunc(func(c color.Color) color.Color {
	return FromStandardColor(c)
})

func FromStandardColor(c color.Color) RGB {
	// Fast path: already an RGB
	if rgb, ok := c.(RGB); ok {
		return rgb
	}

	r16, g16, b16, a16 := c.RGBA()
	if a16 == 0 {
		return RGB{}
	}

	// De-premultiply and normalize to [0,1]
	invA := float64(0xffff) / float64(a16)
	return RGB{
		R: float64(r16) * invA / 65535.0,
		G: float64(g16) * invA / 65535.0,
		B: float64(b16) * invA / 65535.0,
	}
}

func From8BitRgb(r, g, b byte) RGB {
	return RGB{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
	}
}

// Add returns c + o (component-wise).
func (c RGB) Add(o RGB) RGB {
	return RGB{c.R + o.R, c.G + o.G, c.B + o.B}
}

// Mul returns c * o (component-wise).
func (c RGB) Mul(o RGB) RGB {
	return RGB{c.R * o.R, c.G * o.G, c.B * o.B}
}

// Scale returns c * s (scalar).
func (c RGB) Scale(s float64) RGB {
	return RGB{c.R * s, c.G * s, c.B * s}
}

// Clamp01 clamps each component into [0,1].
func (c RGB) Clamp01() RGB {
	return RGB{
		R: clamp01(c.R),
		G: clamp01(c.G),
		B: clamp01(c.B),
	}
}

// Bytes returns the channels as round(255 * clamp01(x)).
func (c RGB) Bytes() [3]uint8 {
	return [3]uint8{to8bit(c.R), to8bit(c.G), to8bit(c.B)}
}

// ToNRGBA converts to an opaque 8-bit color using the same rounding as Bytes.
func (c RGB) ToNRGBA() color.NRGBA {
	b := c.Bytes()
	return color.NRGBA{R: b[0], G: b[1], B: b[2], A: 0xff}
}

// --- helpers ---

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// NaN channels convert to 0.
func to8bit(x float64) uint8 {
	if math.IsNaN(x) {
		return 0
	}
	return uint8(math.Round(255.0 * clamp01(x)))
}
