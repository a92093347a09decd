package codec

import (
	"image"
	"image/color"
)

// PixelFormat describes how an image stores its pixels, decided once when
// the image is loaded.
type PixelFormat int

// Pixel formats
const (
	RGB PixelFormat = iota
	RGBA
	IndexedTransparent
)

func (p PixelFormat) String() string {
	switch p {
	case RGB:
		return "RGB"
	case RGBA:
		return "RGBA"
	case IndexedTransparent:
		return "P+tRNS"
	default:
		return "unknown"
	}
}

// HasAlpha reports whether images in this format can contain transparency.
func (p PixelFormat) HasAlpha() bool {
	return p == RGBA || p == IndexedTransparent
}

// PixelFormatOf classifies m.
func PixelFormatOf(m image.Image) PixelFormat {
	switch i := m.(type) {
	case *image.Paletted:
		for _, c := range i.Palette {
			if _, _, _, a := c.RGBA(); a != 0xffff {
				return IndexedTransparent
			}
		}
		return RGB
	case *image.RGBA, *image.NRGBA, *image.RGBA64, *image.NRGBA64, *image.Alpha, *image.Alpha16, *image.NYCbCrA:
		return RGBA
	}

	switch m.ColorModel() {
	case color.RGBAModel, color.NRGBAModel, color.RGBA64Model, color.NRGBA64Model, color.AlphaModel, color.Alpha16Model, color.NYCbCrAModel:
		return RGBA
	}

	// Anything else that knows it has transparent pixels
	if o, ok := m.(interface{ Opaque() bool }); ok && !o.Opaque() {
		return RGBA
	}

	return RGB
}
