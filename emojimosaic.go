/*
Package emojimosaic is a library for turning images into mosaics of emoji.

Tiles come either from a directory of images or from the PNG bitmaps embedded
in a color emoji font. Bitmaps extracted from a font are written to a cache
directory as sequentially numbered PNG files so later runs can skip the
extraction.
*/
package emojimosaic

import (
	"errors"
	"image"
	"log"
	"runtime"
	"sync/atomic"

	"github.com/bodgit/emojimosaic/codec"
	"github.com/bodgit/emojimosaic/match"
	"github.com/bodgit/emojimosaic/mosaic"
	"github.com/bodgit/emojimosaic/tile"
)

const (
	// DefaultEmojiSize is the default tile edge length in pixels
	DefaultEmojiSize = 20
	// DefaultMaxSize is the default limit on the longest edge of the
	// source image, measured in tiles
	DefaultMaxSize = 512
	// DefaultCache is the default directory extracted emoji are written to
	DefaultCache = "emoji"
)

var (
	// ErrFontNotFound is returned when tiles need extracting but there is
	// no font to extract them from
	ErrFontNotFound = errors.New("could not find emoji font")
	// ErrNoTilesExtracted is returned when the font contains no emoji of
	// the requested size
	ErrNoTilesExtracted = errors.New("no emoji of the requested size in font")
	// ErrInvalidSize is returned when an emoji size is not positive
	ErrInvalidSize = errors.New("emoji size must be positive")
)

// Options controls how a mosaic is rendered
type Options struct {
	// Transparency keeps the alpha channel of the source and the tiles
	Transparency bool
	// EmojiSize is the edge length of each tile in pixels
	EmojiSize int
	// MaxSize limits the longest edge of the source image before tiling
	MaxSize int
	// Progress, if set, is called as each row of the mosaic completes
	Progress func(done, total int)
}

func (o Options) emojiSize() int {
	if o.EmojiSize > 0 {
		return o.EmojiSize
	}
	return DefaultEmojiSize
}

func (o Options) maxSize() int {
	if o.MaxSize > 0 {
		return o.MaxSize
	}
	return DefaultMaxSize
}

type Mosaic struct {
	db        *ColorDB
	logger    *log.Logger
	workers   int
	verifyCRC bool
}

// New returns a Mosaic. db may be nil in which case representative colors
// are always computed from scratch.
func New(db *ColorDB, logger *log.Logger) *Mosaic {
	return &Mosaic{
		db:      db,
		logger:  logger,
		workers: runtime.NumCPU(),
	}
}

// SetWorkers sets the number of goroutines used to load tiles and compose
// the mosaic.
func (m *Mosaic) SetWorkers(n int) {
	if n > 0 {
		m.workers = n
	}
}

// SetVerifyCRC enables checking the CRC of every PNG chunk when extracting
// emoji from a font.
func (m *Mosaic) SetVerifyCRC(verify bool) {
	m.verifyCRC = verify
}

// Prepare converts src into the working image, one pixel per tile.
func (m *Mosaic) Prepare(src image.Image, o Options) *image.NRGBA {
	m.logger.Printf("Source is %s %dx%d\n", codec.PixelFormatOf(src), src.Bounds().Dx(), src.Bounds().Dy())
	return mosaic.Prepare(src, o.maxSize(), o.Transparency)
}

// Render builds the mosaic of a prepared image using palette p.
func (m *Mosaic) Render(img image.Image, p tile.Palette, o Options) *image.NRGBA {
	matcher := match.New(p)
	total := img.Bounds().Dy()

	var done int32
	out := mosaic.Compose(img, matcher, o.emojiSize(), o.Transparency,
		mosaic.WithWorkers(m.workers),
		mosaic.WithProgress(func(int) {
			n := atomic.AddInt32(&done, 1)
			if o.Progress != nil {
				o.Progress(int(n), total)
			}
		}),
	)

	m.logger.Printf("Matched %d distinct colors, %d cache hits\n", matcher.Len(), matcher.Hits())

	return out
}

// Convert reads the image at input, renders it with palette p and writes the
// result to output, the format chosen by its extension.
func (m *Mosaic) Convert(input, output string, p tile.Palette, o Options) error {
	src, err := codec.DecodeFile(input)
	if err != nil {
		return err
	}

	return codec.EncodeFile(output, m.Render(m.Prepare(src, o), p, o))
}
