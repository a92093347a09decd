/*
Package font loads the binary contents of a color emoji font so the PNG
bitmaps embedded in it can be extracted.

No part of the font is interpreted. A font compressed with zstd or gzip is
decompressed transparently, recognised by its magic number.
*/
package font

import (
	"bytes"
	"errors"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ErrNotFound is returned when no font file could be found
var ErrNotFound = errors.New("font: not found")

// DefaultPaths lists the locations searched for a color emoji font, in order.
var DefaultPaths = []string{
	// macOS 10.12 and later
	"/System/Library/Fonts/Apple Color Emoji.ttc",
	"/System/Library/Fonts/Apple Color Emoji.ttf",
	"/usr/share/fonts/truetype/noto/NotoColorEmoji.ttf",
	"/usr/share/fonts/noto/NotoColorEmoji.ttf",
	"/usr/share/fonts/google-noto-emoji/NotoColorEmoji.ttf",
	"/usr/share/fonts/noto-emoji/NotoColorEmoji.ttf",
}

var (
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicGzip = []byte{0x1f, 0x8b}
)

// Locate returns the first of paths that exists as a regular file.
func Locate(paths ...string) (string, error) {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", err
		}
		if info.Mode().IsRegular() {
			return path, nil
		}
	}
	return "", ErrNotFound
}

// Load reads the font at path. If path is empty DefaultPaths are searched.
func Load(path string) ([]byte, error) {
	if path == "" {
		var err error
		if path, err = Locate(DefaultPaths...); err != nil {
			return nil, err
		}
	}

	b, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, err
	}

	return Decompress(b)
}

// Decompress returns b decompressed if it begins with a zstd or gzip magic
// number, otherwise b itself.
func Decompress(b []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(b, magicZstd):
		d, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer d.Close()

		return d.DecodeAll(b, nil)
	case bytes.HasPrefix(b, magicGzip):
		r, err := gzip.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		defer r.Close()

		return ioutil.ReadAll(r)
	default:
		return b, nil
	}
}
