package tiff

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/echoflaresat/spheretrace/colors"
)

// Header holds the first IFD of a baseline TIFF file.
type Header struct {
	ByteOrder       binary.ByteOrder
	Width, Height   int
	SamplesPerPixel int
	BitsPerSample   []int
	Photometric     int
	Compression     int
	PlanarConfig    int

	// Strip layout
	RowsPerStrip    int
	StripOffsets    []int
	StripByteCounts []int

	// Tile layout
	TileWidth      int
	TileHeight     int
	TileOffsets    []int
	TileByteCounts []int
}

// https://www.loc.gov/preservation/digital/formats/content/tiff_tags.shtml
const (
	TagImageWidth                = 256
	TagImageLength               = 257
	TagBitsPerSample             = 258
	TagCompression               = 259
	TagPhotometricInterpretation = 262
	TagStripOffsets              = 273
	TagSamplesPerPixel           = 277
	TagRowsPerStrip              = 278
	TagStripByteCounts           = 279
	TagPlanarConfiguration       = 284
	TagTileWidth                 = 322
	TagTileLength                = 323
	TagTileOffsets               = 324
	TagTileByteCounts            = 325
)

// Field types
const (
	TypeShort = 3
	TypeLong  = 4
)

const (
	CompressionNone    = 1
	CompressionDeflate = 8

	PhotometricBlackIsZero = 1
	PhotometricRGB         = 2
)

var (
	ErrInvalidHeader = errors.New("invalid TIFF header")
	// ErrWrongLayout is returned by a loader asked to read a TIFF organized
	// the other way (strips vs tiles).
	ErrWrongLayout = errors.New("unexpected TIFF layout")
)

// Image is a TIFF image backed by a memory-mapped file.
type Image interface {
	image.Image
	io.Closer
}

func parseHeader(reader io.ReaderAt) (Header, error) {
	read := func(offset int64, size int) ([]byte, error) {
		buf := make([]byte, size)
		_, err := reader.ReadAt(buf, offset)
		return buf, err
	}

	// Read 8-byte header
	header, err := read(0, 8)
	if err != nil {
		return Header{}, ErrInvalidHeader
	}

	var bo binary.ByteOrder
	switch string(header[0:2]) {
	case "II":
		bo = binary.LittleEndian
	case "MM":
		bo = binary.BigEndian
	default:
		return Header{}, ErrInvalidHeader
	}
	if bo.Uint16(header[2:4]) != 42 {
		return Header{}, ErrInvalidHeader
	}
	ifdOffset := int64(bo.Uint32(header[4:8]))

	entryCountRaw, err := read(ifdOffset, 2)
	if err != nil {
		return Header{}, fmt.Errorf("read IFD: %w", err)
	}
	numEntries := int(bo.Uint16(entryCountRaw))
	entriesRaw, err := read(ifdOffset+2, numEntries*12)
	if err != nil {
		return Header{}, fmt.Errorf("read IFD entries: %w", err)
	}

	hdr := Header{
		ByteOrder:       bo,
		SamplesPerPixel: 1,
		Photometric:     -1,
		Compression:     CompressionNone,
		PlanarConfig:    1,
	}

	for i := 0; i < numEntries; i++ {
		entry := entriesRaw[i*12 : (i+1)*12]
		tag := bo.Uint16(entry[0:2])
		typ := bo.Uint16(entry[2:4])
		count := int(bo.Uint32(entry[4:8]))

		// Values that fit in four bytes are stored inline, left-justified.
		scalar := func() int {
			if typ == TypeShort {
				return int(bo.Uint16(entry[8:10]))
			}
			return int(bo.Uint32(entry[8:12]))
		}
		array := func() ([]int, error) {
			size := 4
			if typ == TypeShort {
				size = 2
			}
			var buf []byte
			if count*size <= 4 {
				buf = entry[8:12]
			} else {
				buf, err = read(int64(bo.Uint32(entry[8:12])), count*size)
				if err != nil {
					return nil, fmt.Errorf("read tag %d: %w", tag, err)
				}
			}
			out := make([]int, count)
			for i := range out {
				if size == 2 {
					out[i] = int(bo.Uint16(buf[i*2:]))
				} else {
					out[i] = int(bo.Uint32(buf[i*4:]))
				}
			}
			return out, nil
		}

		switch tag {
		case TagImageWidth:
			hdr.Width = scalar()
		case TagImageLength:
			hdr.Height = scalar()
		case TagBitsPerSample:
			hdr.BitsPerSample, err = array()
		case TagCompression:
			hdr.Compression = scalar()
		case TagPhotometricInterpretation:
			hdr.Photometric = scalar()
		case TagStripOffsets:
			hdr.StripOffsets, err = array()
		case TagSamplesPerPixel:
			hdr.SamplesPerPixel = scalar()
		case TagRowsPerStrip:
			hdr.RowsPerStrip = scalar()
		case TagStripByteCounts:
			hdr.StripByteCounts, err = array()
		case TagPlanarConfiguration:
			hdr.PlanarConfig = scalar()
		case TagTileWidth:
			hdr.TileWidth = scalar()
		case TagTileLength:
			hdr.TileHeight = scalar()
		case TagTileOffsets:
			hdr.TileOffsets, err = array()
		case TagTileByteCounts:
			hdr.TileByteCounts, err = array()
		}
		if err != nil {
			return Header{}, err
		}
	}

	if hdr.Width <= 0 || hdr.Height <= 0 {
		return Header{}, fmt.Errorf("invalid dimensions %dx%d", hdr.Width, hdr.Height)
	}
	if hdr.RowsPerStrip <= 0 || hdr.RowsPerStrip > hdr.Height {
		hdr.RowsPerStrip = hdr.Height
	}
	return hdr, nil
}

// checkPixelFormat accepts 8-bit chunky RGB or grayscale.
func (h Header) checkPixelFormat() error {
	if h.PlanarConfig != 1 {
		return fmt.Errorf("unsupported planar configuration: %d", h.PlanarConfig)
	}
	if len(h.BitsPerSample) == 0 || h.BitsPerSample[0] != 8 {
		return fmt.Errorf("expected 8 bits per sample, got %v", h.BitsPerSample)
	}
	switch h.Photometric {
	case PhotometricBlackIsZero:
		if h.SamplesPerPixel != 1 {
			return fmt.Errorf("unsupported grayscale format: %d samples per pixel", h.SamplesPerPixel)
		}
	case PhotometricRGB:
		if h.SamplesPerPixel != 3 {
			return fmt.Errorf("unsupported RGB format: %d samples per pixel", h.SamplesPerPixel)
		}
	default:
		return fmt.Errorf("unsupported photometric interpretation: %d", h.Photometric)
	}
	return nil
}

// checkSpan reports whether [offset, offset+size) lies inside a file of
// fileLen bytes.
func checkSpan(offset, size, fileLen int) error {
	if offset < 0 || size < 0 || offset > fileLen-size {
		return fmt.Errorf("data at offset %d (%d bytes) runs past end of file (%d bytes)", offset, size, fileLen)
	}
	return nil
}

// pixel decodes one chunky pixel starting at buf[0].
func (h Header) pixel(buf []byte) colors.RGB {
	if h.Photometric == PhotometricBlackIsZero {
		return colors.From8BitRgb(buf[0], buf[0], buf[0])
	}
	return colors.From8BitRgb(buf[0], buf[1], buf[2])
}
