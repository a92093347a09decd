package match

import (
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/bodgit/emojimosaic/tile"
	"github.com/stretchr/testify/assert"
)

func palette(colors ...color.NRGBA) tile.Palette {
	p := make(tile.Palette, len(colors))
	for i, c := range colors {
		p[i] = &tile.Tile{
			ID:    i,
			Image: image.NewRGBA(image.Rect(0, 0, 1, 1)),
			Color: c,
		}
	}
	return p
}

var (
	black = color.NRGBA{0, 0, 0, 0xff}
	white = color.NRGBA{0xff, 0xff, 0xff, 0xff}
)

func TestDistance(t *testing.T) {
	tables := []struct {
		a, b color.NRGBA
		d    int
	}{
		{black, black, 0},
		{black, white, 765},
		{color.NRGBA{10, 10, 10, 0xff}, black, 30},
		{color.NRGBA{10, 10, 10, 0xff}, white, 735},
		{color.NRGBA{1, 2, 3, 0}, color.NRGBA{3, 2, 1, 0xff}, 4},
	}

	for _, table := range tables {
		assert.Equal(t, table.d, Distance(table.a, table.b))
		assert.Equal(t, table.d, Distance(table.b, table.a))
	}
}

func TestNearest(t *testing.T) {
	p := palette(black, white)

	assert.Same(t, p[0], Nearest(p, color.NRGBA{10, 10, 10, 0xff}))
	assert.Same(t, p[1], Nearest(p, color.NRGBA{200, 200, 200, 0xff}))
	assert.Nil(t, Nearest(nil, black))
}

func TestNearestTieBreak(t *testing.T) {
	// Both are 10 away from grey
	a := color.NRGBA{110, 100, 100, 0xff}
	b := color.NRGBA{100, 100, 110, 0xff}
	grey := color.NRGBA{100, 100, 100, 0xff}

	assert.Equal(t, Distance(a, grey), Distance(b, grey))

	p := palette(a, b)
	assert.Same(t, p[0], Nearest(p, grey))

	p = palette(b, a)
	assert.Same(t, p[0], Nearest(p, grey))
}

func TestMatcherTieBreak(t *testing.T) {
	a := color.NRGBA{110, 100, 100, 0xff}
	b := color.NRGBA{100, 100, 110, 0xff}
	grey := color.NRGBA{100, 100, 100, 0xff}

	for _, p := range []tile.Palette{palette(a, b), palette(b, a)} {
		m := New(p)
		assert.Same(t, p[0], m.Nearest(grey))
		// And again from the cache
		assert.Same(t, p[0], m.Nearest(grey))
		assert.Equal(t, uint64(1), m.Hits())
	}
}

func TestMatcher(t *testing.T) {
	p := palette(black, color.NRGBA{0xff, 0, 0, 0xff}, white)
	m := New(p)

	c := color.NRGBA{10, 10, 10, 0xff}

	miss := m.Nearest(c)
	assert.Equal(t, uint64(1), m.Misses())
	assert.Equal(t, uint64(0), m.Hits())

	hit := m.Nearest(c)
	assert.Equal(t, uint64(1), m.Misses())
	assert.Equal(t, uint64(1), m.Hits())

	assert.Same(t, miss, hit)
	assert.Same(t, Nearest(p, c), hit)
	assert.Equal(t, 1, m.Len())

	// Alpha is part of the key but not the distance
	assert.Same(t, hit, m.Nearest(color.NRGBA{10, 10, 10, 0x80}))
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, p, m.Palette())
}

func TestMatcherConcurrent(t *testing.T) {
	var colors []color.NRGBA
	for i := 0; i < 16; i++ {
		colors = append(colors, color.NRGBA{uint8(i * 16), uint8(255 - i*16), uint8(i * 8), 0xff})
	}
	p := palette(colors...)
	m := New(p)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1024; i++ {
				c := color.NRGBA{uint8(i), uint8(i >> 2), uint8(i >> 4), 0xff}
				got := m.Nearest(c)
				assert.NotNil(t, got)
				assert.Same(t, Nearest(p, c), got)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(8*1024), m.Hits()+m.Misses())
	assert.Equal(t, 1024, m.Len())
}
