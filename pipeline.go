package emojimosaic

import (
	"bytes"
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/bodgit/emojimosaic/codec"
	"github.com/bodgit/emojimosaic/tile"
)

// Any file with "png" in its name is treated as a tile
func listTiles(dir string) ([]string, error) {
	d, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	info, err := d.Stat()
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return nil, errors.New("not a directory")
	}

	infos, err := d.Readdir(0)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, info := range infos {
		// Ignore any hidden files, otherwise we end up fighting with things like Spotlight, etc.
		if info.Name()[0] == '.' || !info.Mode().IsRegular() {
			continue
		}
		if strings.Contains(info.Name(), "png") {
			files = append(files, info.Name())
		}
	}

	sort.Slice(files, func(i, j int) bool { return lessTile(files[i], files[j]) })

	for i, file := range files {
		files[i] = filepath.Join(dir, file)
	}

	return files, nil
}

// Numbered files sort by number so 2.png comes before 10.png
func lessTile(a, b string) bool {
	na, errA := strconv.Atoi(strings.TrimSuffix(a, filepath.Ext(a)))
	nb, errB := strconv.Atoi(strings.TrimSuffix(b, filepath.Ext(b)))
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

type tileJob struct {
	index int
	file  string
}

func (m *Mosaic) findTiles(ctx context.Context, files []string) (<-chan tileJob, <-chan error, error) {
	out := make(chan tileJob)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for i, file := range files {
			select {
			case out <- tileJob{index: i, file: file}:
			case <-ctx.Done():
				errc <- errors.New("tile loading cancelled")
				return
			}
		}
	}()
	return out, errc, nil
}

func (m *Mosaic) loadTile(file string, id, size int, keepAlpha bool) (*tile.Tile, error) {
	b, err := ioutil.ReadFile(file)
	if err != nil {
		return nil, err
	}

	img, err := codec.Decode(bytes.NewReader(b))
	if err != nil {
		// Not fatal, the tile is just left out of the palette
		m.logger.Printf("Skipping \"%s\": %v\n", file, err)
		return nil, nil
	}

	if m.db == nil {
		return tile.New(id, img, size, keepAlpha), nil
	}

	sha := fmt.Sprintf("%X", sha1.Sum(b))

	c, ok, err := m.db.FindColorBySHA1(sha)
	if err != nil {
		return nil, err
	}
	if ok {
		return tile.NewWithColor(id, img, size, keepAlpha, c), nil
	}

	t := tile.New(id, img, size, keepAlpha)
	if err := m.db.AddColor(sha, t.Color); err != nil {
		return nil, err
	}

	return t, nil
}

// Each job writes only to its own index of tiles
func (m *Mosaic) tileWorker(ctx context.Context, in <-chan tileJob, tiles []*tile.Tile, size int, keepAlpha bool) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for job := range in {
			t, err := m.loadTile(job.file, job.index, size, keepAlpha)
			if err != nil {
				errc <- err
				return
			}
			tiles[job.index] = t
		}
	}()
	return errc, nil
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// LoadPalette decodes every tile image in dir and builds a palette from
// them, ordered by filename. Files that can't be decoded are skipped; it is
// an error if none remain.
func (m *Mosaic) LoadPalette(dir string, size int, keepAlpha bool) (tile.Palette, error) {
	files, err := listTiles(dir)
	if err != nil {
		return nil, err
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	jobs, errc, err := m.findTiles(ctx, files)
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	tiles := make(tile.Palette, len(files))
	for i := 0; i < m.workers; i++ {
		errc, err := m.tileWorker(ctx, jobs, tiles, size, keepAlpha)
		if err != nil {
			return nil, err
		}
		errcList = append(errcList, errc)
	}

	if err := waitForPipeline(errcList...); err != nil {
		return nil, err
	}

	p, err := tiles.Compact()
	if err != nil {
		return nil, err
	}

	m.logger.Printf("Loaded %d of %d emoji from \"%s\"\n", len(p), len(files), dir)

	return p, nil
}
