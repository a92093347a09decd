/*
Package mosaic assembles the output image from a source image and a palette
of tiles.

Every pixel of the (downsampled) source becomes one tile-sized cell of the
output. Cells whose source pixel is near white are left as background; every
other cell is overwritten by the nearest tile. Rows are spread across a pool
of workers.
*/
package mosaic

import (
	"image"
	"image/color"
	"image/draw"
	"runtime"
	"sync"

	"github.com/bodgit/emojimosaic/codec"
	"github.com/bodgit/emojimosaic/match"
)

// SkipThreshold is the value every channel of a source pixel must reach for
// its cell to be skipped. It is a fixed policy for white backgrounds, not a
// general background detector.
const SkipThreshold = 252

// Filter is the resampling filter used to downsample the source image.
var Filter = codec.Lanczos

type options struct {
	workers  int
	progress func(row int)
}

// Option configures Compose
type Option func(*options)

// WithWorkers sets the number of goroutines composing rows, by default the
// number of CPUs.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithProgress registers a function called once for every completed row. It
// may be called from multiple goroutines.
func WithProgress(f func(row int)) Option {
	return func(o *options) {
		o.progress = f
	}
}

// Prepare converts src into the working image. Unless keepAlpha is set any
// transparency is flattened onto white first, then the image is scaled down
// so neither edge exceeds maxSize.
func Prepare(src image.Image, maxSize int, keepAlpha bool) *image.NRGBA {
	if !keepAlpha && codec.PixelFormatOf(src).HasAlpha() {
		src = codec.Flatten(src)
	}
	return codec.ToNRGBA(codec.Thumbnail(src, maxSize, Filter))
}

// Skip reports whether the cell for source color c is left as background.
func Skip(c color.NRGBA) bool {
	return c.R >= SkipThreshold && c.G >= SkipThreshold && c.B >= SkipThreshold && c.A >= SkipThreshold
}

// Background returns the color the canvas is initialised to.
func Background(keepAlpha bool) color.NRGBA {
	if keepAlpha {
		return color.NRGBA{}
	}
	return color.NRGBA{0xff, 0xff, 0xff, 0xff}
}

// Compose builds the mosaic of src using tiles of size by size pixels. The
// result is src.Bounds().Dx()*size wide and src.Bounds().Dy()*size high.
func Compose(src image.Image, m *match.Matcher, size int, keepAlpha bool, opts ...Option) *image.NRGBA {
	o := options{
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	in := codec.ToNRGBA(src)
	b := in.Bounds()

	canvas := image.NewNRGBA(image.Rect(0, 0, b.Dx()*size, b.Dy()*size))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(Background(keepAlpha)), image.Point{}, draw.Src)

	rows := make(chan int)
	go func() {
		defer close(rows)
		for y := 0; y < b.Dy(); y++ {
			rows <- y
		}
	}()

	var wg sync.WaitGroup
	wg.Add(o.workers)
	for i := 0; i < o.workers; i++ {
		go func() {
			defer wg.Done()
			for y := range rows {
				composeRow(canvas, in, m, y, size, keepAlpha)
				if o.progress != nil {
					o.progress(y)
				}
			}
		}()
	}
	wg.Wait()

	return canvas
}

// Each row writes a disjoint band of the canvas
func composeRow(canvas, in *image.NRGBA, m *match.Matcher, y, size int, keepAlpha bool) {
	for x := 0; x < in.Rect.Dx(); x++ {
		c := in.NRGBAAt(x, y)
		if Skip(c) || keepAlpha && c.A == 0 {
			continue
		}

		t := m.Nearest(c)
		if t == nil {
			continue
		}

		r := image.Rect(x*size, y*size, (x+1)*size, (y+1)*size)
		draw.Draw(canvas, r, t.Image, t.Image.Bounds().Min, draw.Src)
	}
}
