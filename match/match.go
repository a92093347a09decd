/*
Package match finds the tile whose representative color is closest to a
given color.

Distance is the sum of the absolute differences of the red, green and blue
components. Alpha is ignored; it affects how a tile is composed, not how
similar its color is. When several tiles are equally close the first one in
palette order wins so output is reproducible.

A Matcher remembers every answer it has given so the palette is scanned once
per distinct color rather than once per pixel.
*/
package match

import (
	"image/color"
	"sync"
	"sync/atomic"

	"github.com/bodgit/emojimosaic/tile"
)

// Distance returns the L1 distance between the RGB components of a and b.
func Distance(a, b color.NRGBA) int {
	return abs(int(a.R)-int(b.R)) + abs(int(a.G)-int(b.G)) + abs(int(a.B)-int(b.B))
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Nearest scans p and returns the closest tile to c, or nil if p is empty.
func Nearest(p tile.Palette, c color.NRGBA) *tile.Tile {
	var best *tile.Tile
	bestDistance := int(^uint(0) >> 1)
	for _, t := range p {
		if d := Distance(t.Color, c); d < bestDistance {
			best, bestDistance = t, d
		}
	}
	return best
}

// Matcher memoizes Nearest for a fixed palette. It is safe for concurrent
// use; two goroutines racing on the same new color may both scan the palette
// but always store the same answer.
type Matcher struct {
	palette tile.Palette

	mu    sync.RWMutex
	cache map[color.NRGBA]*tile.Tile

	hits, misses uint64
}

// New returns a Matcher for p. The palette must not be modified afterwards.
func New(p tile.Palette) *Matcher {
	return &Matcher{
		palette: p,
		cache:   make(map[color.NRGBA]*tile.Tile),
	}
}

// Palette returns the palette being matched against.
func (m *Matcher) Palette() tile.Palette {
	return m.palette
}

// Nearest returns the closest tile to c, keyed on all four components of c.
func (m *Matcher) Nearest(c color.NRGBA) *tile.Tile {
	m.mu.RLock()
	t, ok := m.cache[c]
	m.mu.RUnlock()

	if ok {
		atomic.AddUint64(&m.hits, 1)
		return t
	}

	atomic.AddUint64(&m.misses, 1)
	t = Nearest(m.palette, c)

	m.mu.Lock()
	m.cache[c] = t
	m.mu.Unlock()

	return t
}

// Len returns the number of distinct colors cached.
func (m *Matcher) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}

// Hits returns the number of lookups answered from the cache.
func (m *Matcher) Hits() uint64 {
	return atomic.LoadUint64(&m.hits)
}

// Misses returns the number of lookups that required a palette scan.
func (m *Matcher) Misses() uint64 {
	return atomic.LoadUint64(&m.misses)
}
