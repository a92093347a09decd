package codec

import (
	"image"

	"github.com/nfnt/resize"
	xdraw "golang.org/x/image/draw"
)

// Filter is a resampling filter
type Filter int

// Supported resampling filters
const (
	Lanczos Filter = iota
	Bicubic
	Bilinear
	NearestNeighbor
	CatmullRom
)

func (f Filter) String() string {
	switch f {
	case Lanczos:
		return "lanczos"
	case Bicubic:
		return "bicubic"
	case Bilinear:
		return "bilinear"
	case NearestNeighbor:
		return "nearest"
	case CatmullRom:
		return "catmullrom"
	default:
		return "unknown"
	}
}

// ParseFilter returns the filter with the given name. The second return value
// is false if the name isn't recognised.
func ParseFilter(name string) (Filter, bool) {
	for f := Lanczos; f <= CatmullRom; f++ {
		if f.String() == name {
			return f, true
		}
	}
	return Lanczos, false
}

func (f Filter) interpolation() resize.InterpolationFunction {
	switch f {
	case Bicubic:
		return resize.Bicubic
	case Bilinear:
		return resize.Bilinear
	case NearestNeighbor:
		return resize.NearestNeighbor
	default:
		return resize.Lanczos3
	}
}

// Resize scales m to exactly w by h pixels. If m is already that size it is
// returned unchanged so no resampling loss occurs.
func Resize(m image.Image, w, h int, f Filter) image.Image {
	b := m.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return m
	}

	if f == CatmullRom {
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), m, b, xdraw.Src, nil)
		return dst
	}

	return resize.Resize(uint(w), uint(h), m, f.interpolation())
}

// Thumbnail scales m down so that neither edge exceeds maxSize, preserving
// the aspect ratio. Images that already fit are returned unchanged.
func Thumbnail(m image.Image, maxSize int, f Filter) image.Image {
	b := m.Bounds()
	if b.Dx() <= maxSize && b.Dy() <= maxSize {
		return m
	}

	w, h := maxSize, maxSize
	if b.Dx() > b.Dy() {
		h = scale(b.Dy(), maxSize, b.Dx())
	} else {
		w = scale(b.Dx(), maxSize, b.Dy())
	}

	return Resize(m, w, h, f)
}

// scale returns v*num/den rounded to the nearest integer and never less than
// one.
func scale(v, num, den int) int {
	r := (v*num + den/2) / den
	if r < 1 {
		return 1
	}
	return r
}
