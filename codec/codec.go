/*
Package codec implements the image decode, resize and encode operations used
to build a mosaic.

Decoding supports every format registered with the image package, which
includes PNG, JPEG and GIF from the standard library, BMP, TIFF and WebP from
golang.org/x/image and QOI. Encoding picks the format from the file extension
of the output path and falls back to PNG.
*/
package codec

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/xfmoulet/qoi"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 95

// ErrUnknownFormat is returned when encoding to a format that isn't supported
var ErrUnknownFormat = errors.New("codec: unknown format")

// Format is an output image format
type Format int

// Supported output formats
const (
	PNG Format = iota
	JPEG
	GIF
	BMP
	TIFF
	QOI
)

func (f Format) String() string {
	switch f {
	case PNG:
		return "png"
	case JPEG:
		return "jpeg"
	case GIF:
		return "gif"
	case BMP:
		return "bmp"
	case TIFF:
		return "tiff"
	case QOI:
		return "qoi"
	default:
		return "unknown"
	}
}

// FormatFromPath returns the format implied by the extension of path. PNG is
// returned if there is no extension or it isn't recognised.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return JPEG
	case ".gif":
		return GIF
	case ".bmp":
		return BMP
	case ".tif", ".tiff":
		return TIFF
	case ".qoi":
		return QOI
	default:
		return PNG
	}
}

// Decode reads an image in any registered format from r.
func Decode(r io.Reader) (image.Image, error) {
	m, _, err := image.Decode(r)
	return m, err
}

// DecodeFile opens and decodes the image stored at path.
func DecodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Decode(f)
}

// Encode writes m to w in format f.
func Encode(w io.Writer, m image.Image, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, m)
	case JPEG:
		// JPEG has no alpha channel
		return jpeg.Encode(w, Flatten(m), &jpeg.Options{Quality: jpegQuality})
	case GIF:
		return gif.Encode(w, m, &gif.Options{
			NumColors: 256,
			Quantizer: &quantize.MedianCutQuantizer{},
			Drawer:    draw.FloydSteinberg,
		})
	case BMP:
		return bmp.Encode(w, m)
	case TIFF:
		return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case QOI:
		return qoi.Encode(w, m)
	default:
		return ErrUnknownFormat
	}
}

// EncodeFile writes m to path using the format implied by its extension.
func EncodeFile(path string, m image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Encode(f, m, FormatFromPath(path)); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

// Flatten composites m onto an opaque white background using its own alpha
// as the mask. The result is always fully opaque.
func Flatten(m image.Image) *image.RGBA {
	b := m.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), m, b.Min, draw.Over)
	return dst
}

// ToNRGBA returns m as an *image.NRGBA with its top-left corner at (0, 0),
// copying only when necessary.
func ToNRGBA(m image.Image) *image.NRGBA {
	if n, ok := m.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := m.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), m, b.Min, draw.Src)
	return dst
}
