package emojimosaic

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bodgit/emojimosaic/chunk"
	"github.com/bodgit/emojimosaic/font"
)

const tileExt = ".png"

func tileFilename(dir string, i int) string {
	return filepath.Join(dir, strconv.Itoa(i)+tileExt)
}

// Extract writes every PNG stream of width size found in blob to dir as
// 0.png, 1.png, and so on, returning how many were written.
func (m *Mosaic) Extract(blob []byte, size int, dir string) (int, error) {
	if size < 1 {
		return 0, ErrInvalidSize
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, err
	}

	s := chunk.NewScanner(blob, uint32(size))
	s.VerifyCRC = m.verifyCRC

	n := 0
	for s.Next() {
		if err := ioutil.WriteFile(tileFilename(dir, n), s.Bytes(), 0644); err != nil {
			return n, err
		}
		n++
	}

	if s.Dropped() > 0 {
		m.logger.Printf("Dropped %d malformed PNG streams, last error: %v\n", s.Dropped(), s.Err())
	}
	m.logger.Printf("Extracted %d emoji of size %d to \"%s\"\n", n, size, dir)

	return n, nil
}

// ExtractFont loads the font at path, or the first of font.DefaultPaths if
// path is empty, and extracts its emoji of width size to dir.
func (m *Mosaic) ExtractFont(path string, size int, dir string) (int, error) {
	blob, err := font.Load(path)
	if err != nil {
		if errors.Is(err, font.ErrNotFound) {
			return 0, fmt.Errorf("%w: %v", ErrFontNotFound, err)
		}
		return 0, err
	}

	n, err := m.Extract(blob, size, dir)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, ErrNoTilesExtracted
	}

	return n, nil
}

// HasTiles reports whether dir exists and contains any tile images.
func HasTiles(dir string) (bool, error) {
	files, err := listTiles(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return len(files) > 0, nil
}

// EnsureTiles extracts emoji from the font into dir unless it already
// contains some. It reports whether an extraction took place.
func (m *Mosaic) EnsureTiles(path string, size int, dir string) (bool, error) {
	ok, err := HasTiles(dir)
	if err != nil || ok {
		return false, err
	}

	if _, err := m.ExtractFont(path, size, dir); err != nil {
		return false, err
	}

	return true, nil
}
