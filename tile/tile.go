/*
Package tile builds the palette of small images that a mosaic is assembled
from.

Each tile keeps two things derived from its source image: a display raster,
resized to exactly size by size pixels and framed on a transparent square
(then flattened onto white unless transparency is kept), and a
representative color, measured by compositing the original image onto an
opaque white background and downsampling it to a single pixel.
*/
package tile

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/bodgit/emojimosaic/codec"
)

// ErrNoTiles is returned when a palette would be empty
var ErrNoTiles = errors.New("tile: no tiles")

// Filter is the resampling filter used for both the display raster and the
// representative color.
var Filter = codec.Lanczos

// Tile is one candidate image for a mosaic cell. It is immutable once
// created.
type Tile struct {
	// ID is the position of the tile's source in the sequence it was
	// loaded from.
	ID int

	// Image is the display raster. It is an *image.NRGBA when
	// transparency is kept, otherwise an opaque *image.RGBA.
	Image image.Image

	// Color is the representative color of the tile.
	Color color.NRGBA
}

// Palette is the ordered set of tiles available to a mosaic. The order is
// used to break ties when matching.
type Palette []*Tile

// New creates a tile from m, computing its representative color.
func New(id int, m image.Image, size int, keepAlpha bool) *Tile {
	return NewWithColor(id, m, size, keepAlpha, RepresentativeColor(m))
}

// NewWithColor creates a tile from m using a previously computed
// representative color.
func NewWithColor(id int, m image.Image, size int, keepAlpha bool, c color.NRGBA) *Tile {
	return &Tile{
		ID:    id,
		Image: normalize(m, size, keepAlpha),
		Color: c,
	}
}

func normalize(m image.Image, size int, keepAlpha bool) image.Image {
	m = codec.Resize(m, size, size, Filter)

	// Frame on a transparent square so every tile has the same bounds
	// whatever the source canvas looked like
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), m, m.Bounds().Min, draw.Over)

	if keepAlpha {
		return dst
	}
	return codec.Flatten(dst)
}

// RepresentativeColor returns the color that stands in for m when matching.
// The alpha component of the result is always opaque.
func RepresentativeColor(m image.Image) color.NRGBA {
	px := codec.ToNRGBA(codec.Resize(codec.Flatten(m), 1, 1, Filter)).NRGBAAt(0, 0)
	px.A = 0xff
	return px
}

// Build turns sources into a palette, in order. Every tile in the result
// has the same raster layout.
func Build(sources []image.Image, size int, keepAlpha bool) (Palette, error) {
	if len(sources) == 0 {
		return nil, ErrNoTiles
	}

	p := make(Palette, 0, len(sources))
	for i, m := range sources {
		p = append(p, New(i, m, size, keepAlpha))
	}
	return p, nil
}

// Compact removes any nil entries from p, preserving order. It returns
// ErrNoTiles if nothing remains.
func (p Palette) Compact() (Palette, error) {
	out := p[:0:0]
	for _, t := range p {
		if t != nil {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoTiles
	}
	return out, nil
}
