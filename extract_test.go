package emojimosaic

import (
	"errors"
	"image/color"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/emojimosaic/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "emoji")
	m := newTestMosaic(nil)

	n, err := m.Extract(fakeFont(t, 8, black, white), 8, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	files, err := listTiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{tileFilename(dir, 0), tileFilename(dir, 1)}, files)

	for _, file := range files {
		img, err := codec.DecodeFile(file)
		require.NoError(t, err)
		assert.Equal(t, 8, img.Bounds().Dx())
	}

	// The larger strike
	n, err = m.Extract(fakeFont(t, 8, black, white, red), 16, filepath.Join(dir, "16"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestExtractInvalidSize(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "emoji")
	m := newTestMosaic(nil)

	for _, size := range []int{0, -1, -8} {
		n, err := m.Extract(fakeFont(t, 8, black), size, dir)
		assert.Equal(t, ErrInvalidSize, err, "size %d", size)
		assert.Equal(t, 0, n)
	}

	// Nothing is written
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestExtractFontErrors(t *testing.T) {
	dir := t.TempDir()
	m := newTestMosaic(nil)

	_, err := m.ExtractFont(filepath.Join(dir, "missing.ttc"), 20, dir)
	assert.True(t, errors.Is(err, ErrFontNotFound))

	fontPath := filepath.Join(dir, "emoji.ttc")
	require.NoError(t, ioutil.WriteFile(fontPath, fakeFont(t, 8, color.Black), 0644))

	_, err = m.ExtractFont(fontPath, 20, filepath.Join(dir, "emoji"))
	assert.Equal(t, ErrNoTilesExtracted, err)

	_, err = m.EnsureTiles(fontPath, 20, filepath.Join(dir, "emoji"))
	assert.Equal(t, ErrNoTilesExtracted, err)
}

func TestExtractVerifyCRC(t *testing.T) {
	blob := fakeFont(t, 4, black, white)
	// Corrupt the bit depth of the first 4x4 emoji
	i := len(encodePNG(t, uniform(8, 8, black))) + len("\x00\x01\x00\x00\x00\x0esbix") + len("emjc")
	blob[i+24] ^= 0x01

	m := newTestMosaic(nil)

	n, err := m.Extract(blob, 4, filepath.Join(t.TempDir(), "plain"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	m.SetVerifyCRC(true)
	n, err = m.Extract(blob, 4, filepath.Join(t.TempDir(), "verified"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestHasTiles(t *testing.T) {
	dir := t.TempDir()

	ok, err := HasTiles(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = HasTiles(dir)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "readme.txt"), nil, 0644))
	ok, err = HasTiles(dir)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ioutil.WriteFile(tileFilename(dir, 0), nil, 0644))
	ok, err = HasTiles(dir)
	require.NoError(t, err)
	assert.True(t, ok)
}
