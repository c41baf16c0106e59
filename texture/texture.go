package texture

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/echoflaresat/spheretrace/colors"
	"github.com/echoflaresat/spheretrace/texture/tiff"
	"github.com/echoflaresat/spheretrace/vectors"

	_ "golang.org/x/image/bmp"  // register BMP format with image.Decode
	_ "golang.org/x/image/tiff" // register compressed TIFF variants with image.Decode
	_ "image/jpeg"              // register JPEG format with image.Decode
	_ "image/png"               // register PNG format with image.Decode
)

// Texture is an equirectangular (longitude/latitude) environment map.
type Texture struct {
	Width  int
	Height int
	img    image.Image
	closer io.Closer // set when img is backed by a file mapping
}

// Load opens an image for sampling. Plain strip or tile TIFFs are memory
// mapped; everything else is decoded into memory.
func Load(path string) (Texture, error) {
	img, err := loadImage(path)
	if err != nil {
		return Texture{}, err
	}
	b := img.Bounds()
	if b.Empty() {
		if c, ok := img.(io.Closer); ok {
			c.Close()
		}
		return Texture{}, fmt.Errorf("%s: empty image", path)
	}

	slog.Debug("texture loaded", "path", path, "width", b.Dx(), "height", b.Dy())
	tex := FromImage(img)
	if c, ok := img.(io.Closer); ok {
		tex.closer = c
	}
	return tex, nil
}

// Close releases the file mapping behind a memory-mapped texture. The
// texture must not be sampled afterwards.
func (t Texture) Close() error {
	if t.closer == nil {
		return nil
	}
	return t.closer.Close()
}

// FromImage wraps an already decoded image.
func FromImage(img image.Image) Texture {
	b := img.Bounds()
	return Texture{
		Width:  b.Dx(),
		Height: b.Dy(),
		img:    img,
	}
}

func loadImage(path string) (image.Image, error) {
	img, err := tiff.LoadStriped(path)
	if err == nil {
		return img, nil
	}
	if !quietTiffError(err) {
		slog.Warn("failed to load striped TIFF", "path", path, "error", err)
	}

	img, err = tiff.LoadTiled(path)
	if err == nil {
		return img, nil
	}
	if !quietTiffError(err) {
		slog.Warn("failed to load tiled TIFF", "path", path, "error", err)
	}

	// fallback to image codecs
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoded, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return decoded, nil
}

func quietTiffError(err error) bool {
	return errors.Is(err, tiff.ErrInvalidHeader) ||
		errors.Is(err, tiff.ErrWrongLayout) ||
		errors.Is(err, os.ErrNotExist)
}

// Sample maps a unit direction to texture coordinates and returns the
// nearest texel. +Y is up and -Z is the center of the map.
func (t Texture) Sample(dir vectors.Vec3) colors.RGB {
	return t.getColorAtXY(t.getXY(dir))
}

func (t Texture) getColorAtXY(x, y int) colors.RGB {
	if x < 0 {
		x = 0
	} else if x >= t.Width {
		x = t.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.Height {
		y = t.Height - 1
	}

	b := t.img.Bounds()
	return colors.FromStandardColor(t.img.At(b.Min.X+x, b.Min.Y+y))
}

func (t Texture) getXY(dir vectors.Vec3) (int, int) {
	lat := math.Atan2(dir.Y, math.Sqrt(dir.X*dir.X+dir.Z*dir.Z))
	lon := math.Atan2(dir.X, -dir.Z)

	u := (0.5 + lon/(2*math.Pi)) * float64(t.Width)
	v := (0.5 - lat/math.Pi) * float64(t.Height)

	return int(math.Floor(u)), int(math.Floor(v))
}
