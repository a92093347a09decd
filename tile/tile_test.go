package tile

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(w, h int, c color.Color) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(m, m.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return m
}

// A red disc-ish shape in the middle of a transparent square
func sprite(size int) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, size, size))
	q := size / 4
	draw.Draw(m, image.Rect(q, q, size-q, size-q), image.NewUniform(color.NRGBA{0xff, 0, 0, 0xff}), image.Point{}, draw.Src)
	return m
}

func TestRepresentativeColor(t *testing.T) {
	tables := []struct {
		name string
		m    image.Image
		want color.NRGBA
	}{
		{"black", uniform(8, 8, color.Black), color.NRGBA{0, 0, 0, 0xff}},
		{"white", uniform(8, 8, color.White), color.NRGBA{0xff, 0xff, 0xff, 0xff}},
		{"blue", uniform(5, 3, color.NRGBA{0x10, 0x20, 0xc0, 0xff}), color.NRGBA{0x10, 0x20, 0xc0, 0xff}},
		{"transparent", uniform(8, 8, color.Transparent), color.NRGBA{0xff, 0xff, 0xff, 0xff}},
	}

	for _, table := range tables {
		t.Run(table.name, func(t *testing.T) {
			assert.Equal(t, table.want, RepresentativeColor(table.m))
		})
	}
}

func TestRepresentativeColorIgnoresTransparency(t *testing.T) {
	c := RepresentativeColor(sprite(16))

	// Measured over white, so the transparent border lightens the red
	// rather than darkening it
	assert.Equal(t, uint8(0xff), c.R)
	assert.True(t, c.G > 0x40, "green %d", c.G)
	assert.Equal(t, c.G, c.B)
	assert.Equal(t, uint8(0xff), c.A)
}

func TestNewKeepAlpha(t *testing.T) {
	tile := New(3, sprite(32), 16, true)

	assert.Equal(t, 3, tile.ID)
	require.IsType(t, &image.NRGBA{}, tile.Image)
	assert.Equal(t, image.Rect(0, 0, 16, 16), tile.Image.Bounds())

	m := tile.Image.(*image.NRGBA)
	assert.Equal(t, uint8(0), m.NRGBAAt(0, 0).A)
	assert.Equal(t, color.NRGBA{0xff, 0, 0, 0xff}, m.NRGBAAt(8, 8))
}

func TestNewFlatten(t *testing.T) {
	tile := New(0, sprite(16), 16, false)

	require.IsType(t, &image.RGBA{}, tile.Image)
	m := tile.Image.(*image.RGBA)
	assert.True(t, m.Opaque())
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, m.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{0xff, 0, 0, 0xff}, m.RGBAAt(8, 8))
}

func TestNewOffsetBounds(t *testing.T) {
	src := uniform(4, 4, color.Black).SubImage(image.Rect(2, 2, 4, 4))

	tile := New(0, src, 2, false)
	assert.Equal(t, image.Rect(0, 0, 2, 2), tile.Image.Bounds())
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, tile.Image.(*image.RGBA).RGBAAt(1, 1))
}

func TestNewWithColor(t *testing.T) {
	c := color.NRGBA{1, 2, 3, 0xff}
	tile := NewWithColor(7, uniform(4, 4, color.White), 4, true, c)

	assert.Equal(t, c, tile.Color)
	assert.Equal(t, 7, tile.ID)
}

func TestBuild(t *testing.T) {
	sources := []image.Image{
		uniform(20, 20, color.Black),
		sprite(40),
		uniform(10, 10, color.White),
		image.NewPaletted(image.Rect(0, 0, 20, 20), color.Palette{color.Transparent}),
	}

	for _, keepAlpha := range []bool{false, true} {
		p, err := Build(sources, 20, keepAlpha)
		require.NoError(t, err)
		require.Len(t, p, len(sources))

		for i, tile := range p {
			assert.Equal(t, i, tile.ID)
			assert.Equal(t, image.Rect(0, 0, 20, 20), tile.Image.Bounds())
			// All tiles share one layout
			assert.IsType(t, p[0].Image, tile.Image)
		}
	}

	_, err := Build(nil, 20, false)
	assert.Equal(t, ErrNoTiles, err)
}

func TestCompact(t *testing.T) {
	a := New(0, uniform(2, 2, color.Black), 2, false)
	b := New(2, uniform(2, 2, color.White), 2, false)

	p, err := Palette{a, nil, b, nil}.Compact()
	require.NoError(t, err)
	assert.Equal(t, Palette{a, b}, p)

	_, err = Palette{nil}.Compact()
	assert.Equal(t, ErrNoTiles, err)
}
