package tiff

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/exp/mmap"
)

// stripedTiff reads pixels straight out of the mapped file; nothing is
// decoded up front.
type stripedTiff struct {
	header Header
	reader *mmap.ReaderAt
}

// LoadStriped maps an uncompressed, strip-organized TIFF. It returns
// ErrInvalidHeader when the file is not a TIFF at all.
func LoadStriped(path string) (Image, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	header, err := parseHeader(reader)
	if err != nil {
		reader.Close()
		return nil, err
	}
	if err := validateStriped(header, reader.Len()); err != nil {
		reader.Close()
		return nil, err
	}

	return &stripedTiff{header: header, reader: reader}, nil
}

// validateStriped also checks that every strip the image needs lies inside
// the file, so At never reads past the mapping.
func validateStriped(h Header, fileLen int) error {
	if len(h.StripOffsets) == 0 {
		return ErrWrongLayout
	}
	if len(h.StripOffsets) != len(h.StripByteCounts) {
		return fmt.Errorf("invalid strip offset/length")
	}
	if h.Compression != CompressionNone {
		return fmt.Errorf("unsupported strip compression: %d", h.Compression)
	}
	if err := h.checkPixelFormat(); err != nil {
		return err
	}

	strips := (h.Height + h.RowsPerStrip - 1) / h.RowsPerStrip
	if len(h.StripOffsets) < strips {
		return fmt.Errorf("%dx%d image with %d rows per strip needs %d strips, got %d",
			h.Width, h.Height, h.RowsPerStrip, strips, len(h.StripOffsets))
	}
	for i := 0; i < strips; i++ {
		rows := min(h.RowsPerStrip, h.Height-i*h.RowsPerStrip)
		want := rows * h.Width * h.SamplesPerPixel
		if h.StripByteCounts[i] < want {
			return fmt.Errorf("strip %d holds %d bytes, need %d", i, h.StripByteCounts[i], want)
		}
		if err := checkSpan(h.StripOffsets[i], want, fileLen); err != nil {
			return fmt.Errorf("strip %d: %w", i, err)
		}
	}
	return nil
}

func (t *stripedTiff) ColorModel() color.Model {
	return color.RGBAModel
}

func (t *stripedTiff) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.header.Width, t.header.Height)
}

func (t *stripedTiff) At(x, y int) color.Color {
	h := t.header

	strip := y / h.RowsPerStrip
	localY := y % h.RowsPerStrip
	idx := h.StripOffsets[strip] + (localY*h.Width+x)*h.SamplesPerPixel

	var buf [3]byte
	if _, err := t.reader.ReadAt(buf[:h.SamplesPerPixel], int64(idx)); err != nil {
		panic(fmt.Sprintf("could not read pixel at (%d,%d): %v", x, y, err))
	}
	return h.pixel(buf[:])
}

func (t *stripedTiff) Close() error {
	return t.reader.Close()
}
