// Package imageio persists rendered frames.
package imageio

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/echoflaresat/spheretrace/colors"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var ErrUnsupportedFormat = errors.New("unsupported output format")

// WritePPM writes a binary P6 image: the header, then width*height RGB
// triples in row-major order, each channel round(255*clamp(c,0,1)).
func WritePPM(w io.Writer, pixels []colors.RGB, width, height int) error {
	if len(pixels) != width*height {
		return fmt.Errorf("ppm: got %d pixels for %dx%d", len(pixels), width, height)
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", width, height); err != nil {
		return err
	}
	for _, px := range pixels {
		b := px.Bytes()
		if _, err := bw.Write(b[:]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ToImage converts row-major pixels to an 8-bit image.
func ToImage(pixels []colors.RGB, width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, pixels[y*width+x].ToNRGBA())
		}
	}
	return img
}

// File writes frames to Path, picking the encoder from its extension.
type File struct {
	Path string
}

// Encoder returns the encoder for ext (lowercase, with the dot). An empty
// extension selects PPM.
func Encoder(ext string) (func(io.Writer, []colors.RGB, int, int) error, error) {
	switch ext {
	case "", ".ppm":
		return WritePPM, nil
	case ".png":
		return encodeWith(func(w io.Writer, img image.Image) error {
			return (&png.Encoder{CompressionLevel: png.BestSpeed}).Encode(w, img)
		}), nil
	case ".jpg", ".jpeg":
		return encodeWith(func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
		}), nil
	case ".tif", ".tiff":
		return encodeWith(func(w io.Writer, img image.Image) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}), nil
	case ".bmp":
		return encodeWith(bmp.Encode), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func encodeWith(enc func(io.Writer, image.Image) error) func(io.Writer, []colors.RGB, int, int) error {
	return func(w io.Writer, pixels []colors.RGB, width, height int) error {
		if len(pixels) != width*height {
			return fmt.Errorf("got %d pixels for %dx%d", len(pixels), width, height)
		}
		return enc(w, ToImage(pixels, width, height))
	}
}

// WritePixels implements render.Sink.
func (f File) WritePixels(pixels []colors.RGB, width, height int) (err error) {
	ext := strings.ToLower(filepath.Ext(f.Path))
	encode, err := Encoder(ext)
	if err != nil {
		return err
	}

	out, err := os.Create(f.Path)
	if err != nil {
		return fmt.Errorf("create %s: %w", f.Path, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", f.Path, cerr)
		}
	}()

	if err := encode(out, pixels, width, height); err != nil {
		return fmt.Errorf("encode %s: %w", f.Path, err)
	}
	slog.Debug("image written", "path", f.Path, "width", width, "height", height)
	return nil
}
