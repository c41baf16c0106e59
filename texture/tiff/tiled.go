package tiff

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/exp/mmap"
)

// TileCacheSize is the number of decompressed tiles kept per image.
const TileCacheSize = 200

type tiledTiff struct {
	header      Header
	reader      *mmap.ReaderAt
	cache       *lru.Cache // tileIndex -> []byte
	tilesAcross int
	tileSize    int // bytes in one decoded tile
}

// LoadTiled maps a tiled TIFF with uncompressed or deflate tiles.
func LoadTiled(path string) (Image, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}

	header, err := parseHeader(reader)
	if err != nil {
		reader.Close()
		return nil, err
	}
	if err := validateTiled(header, reader.Len()); err != nil {
		reader.Close()
		return nil, err
	}

	cache, err := lru.New(TileCacheSize)
	if err != nil {
		reader.Close()
		return nil, err
	}

	return &tiledTiff{
		header:      header,
		reader:      reader,
		cache:       cache,
		tilesAcross: (header.Width + header.TileWidth - 1) / header.TileWidth,
		tileSize:    header.TileWidth * header.TileHeight * header.SamplesPerPixel,
	}, nil
}

// validateTiled also checks that the image is fully covered by tiles lying
// inside the file. Deflated tiles are only size-checked once inflated.
func validateTiled(h Header, fileLen int) error {
	if len(h.TileOffsets) == 0 {
		return ErrWrongLayout
	}
	if len(h.TileOffsets) != len(h.TileByteCounts) {
		return fmt.Errorf("invalid tile offset/length")
	}
	if h.TileWidth <= 0 || h.TileHeight <= 0 {
		return fmt.Errorf("invalid tile size %dx%d", h.TileWidth, h.TileHeight)
	}
	if h.Compression != CompressionNone && h.Compression != CompressionDeflate {
		return fmt.Errorf("unsupported tile compression: %d", h.Compression)
	}
	if err := h.checkPixelFormat(); err != nil {
		return err
	}

	across := (h.Width + h.TileWidth - 1) / h.TileWidth
	down := (h.Height + h.TileHeight - 1) / h.TileHeight
	if len(h.TileOffsets) < across*down {
		return fmt.Errorf("%dx%d image with %dx%d tiles needs %d tiles, got %d",
			h.Width, h.Height, h.TileWidth, h.TileHeight, across*down, len(h.TileOffsets))
	}
	tileSize := h.TileWidth * h.TileHeight * h.SamplesPerPixel
	for i := 0; i < across*down; i++ {
		if h.Compression == CompressionNone && h.TileByteCounts[i] < tileSize {
			return fmt.Errorf("tile %d holds %d bytes, need %d", i, h.TileByteCounts[i], tileSize)
		}
		if err := checkSpan(h.TileOffsets[i], h.TileByteCounts[i], fileLen); err != nil {
			return fmt.Errorf("tile %d: %w", i, err)
		}
	}
	return nil
}

func (t *tiledTiff) ColorModel() color.Model {
	return color.RGBAModel
}

func (t *tiledTiff) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.header.Width, t.header.Height)
}

func (t *tiledTiff) At(x, y int) color.Color {
	h := t.header

	tileIndex := (y/h.TileHeight)*t.tilesAcross + x/h.TileWidth

	var tile []byte
	if val, ok := t.cache.Get(tileIndex); ok {
		tile = val.([]byte)
	} else {
		var err error
		if tile, err = t.loadTile(tileIndex); err != nil {
			// Corrupt tiles render black instead of failing the whole frame.
			slog.Warn("bad TIFF tile", "tile", tileIndex, "error", err)
			tile = make([]byte, t.tileSize)
		}
		t.cache.Add(tileIndex, tile)
	}

	localX := x % h.TileWidth
	localY := y % h.TileHeight
	rowStride := h.TileWidth * h.SamplesPerPixel
	pixOffset := localY*rowStride + localX*h.SamplesPerPixel

	return h.pixel(tile[pixOffset:])
}

func (t *tiledTiff) loadTile(index int) ([]byte, error) {
	h := t.header
	offset := h.TileOffsets[index]
	byteCount := h.TileByteCounts[index]

	buf := make([]byte, byteCount)
	if _, err := t.reader.ReadAt(buf, int64(offset)); err != nil {
		return nil, fmt.Errorf("read tile %d: %w", index, err)
	}

	tile := buf
	if h.Compression == CompressionDeflate {
		r, err := zlib.NewReader(bytes.NewReader(buf))
		if err != nil {
			return nil, fmt.Errorf("inflate tile %d: %w", index, err)
		}
		defer r.Close()
		if tile, err = io.ReadAll(r); err != nil {
			return nil, fmt.Errorf("inflate tile %d: %w", index, err)
		}
	}
	if len(tile) < t.tileSize {
		return nil, fmt.Errorf("tile %d decodes to %d bytes, need %d", index, len(tile), t.tileSize)
	}
	return tile, nil
}

func (t *tiledTiff) Close() error {
	return t.reader.Close()
}
