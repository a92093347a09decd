package main

import (
	"errors"
	"fmt"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/ioutil"
	"log"
	"os"
	"runtime"

	"github.com/bodgit/emojimosaic"
	"github.com/bodgit/emojimosaic/codec"
	"github.com/bodgit/emojimosaic/mosaic"
	"github.com/bodgit/emojimosaic/tile"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newMosaic(c *cli.Context) (*emojimosaic.Mosaic, func(), error) {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}

	if f, ok := codec.ParseFilter(c.String("filter")); ok {
		tile.Filter = f
		mosaic.Filter = f
	} else {
		return nil, nil, fmt.Errorf("unknown filter \"%s\"", c.String("filter"))
	}

	var db *emojimosaic.ColorDB
	cleanup := func() {}
	if c.String("db") != "" {
		var err error
		if db, err = emojimosaic.NewColorDB(c.String("db")); err != nil {
			return nil, nil, err
		}
		cleanup = func() { db.Close() }
	}

	m := emojimosaic.New(db, logger)
	m.SetWorkers(c.Int("workers"))
	m.SetVerifyCRC(c.Bool("verify-crc"))

	return m, cleanup, nil
}

func fontError(err error) error {
	switch {
	case errors.Is(err, emojimosaic.ErrFontNotFound):
		return cli.NewExitError("Failed to auto-extract emoji, no emoji font found. Specify a directory with pre-extracted emoji using -e to continue.", 1)
	case errors.Is(err, emojimosaic.ErrNoTilesExtracted):
		return cli.NewExitError("Failed to auto-extract emoji, the font contains no emoji of the requested size. Specify a directory with pre-extracted emoji using -e to continue.", 1)
	default:
		return cli.NewExitError(err, 1)
	}
}

func convert(c *cli.Context) error {
	if c.NArg() < 1 {
		cli.ShowAppHelpAndExit(c, 1)
	}

	m, cleanup, err := newMosaic(c)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer cleanup()

	o := emojimosaic.Options{
		Transparency: c.Bool("transparency"),
		EmojiSize:    c.Int("emoji-size"),
		MaxSize:      c.Int("size"),
	}
	if o.EmojiSize < 1 || o.MaxSize < 1 {
		return cli.NewExitError("emoji size and maximum size must be positive", 1)
	}

	dir := c.String("emoji")
	if dir == "" {
		dir = c.String("cache")
		ok, err := emojimosaic.HasTiles(dir)
		if err != nil {
			return cli.NewExitError(err, 1)
		}
		if !ok {
			fmt.Println("Attempting to extract emoji from emoji font...")
		}
		if _, err := m.EnsureTiles(c.String("font"), o.EmojiSize, dir); err != nil {
			return fontError(err)
		}
	}

	fmt.Println("Processing emoji...")
	p, err := m.LoadPalette(dir, o.EmojiSize, o.Transparency)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	input := c.Args().First()
	src, err := codec.DecodeFile(input)
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	img := m.Prepare(src, o)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()

	fmt.Printf("Creating %dx%d image from %dx%d image and %d emoji:\n", w*o.EmojiSize, h*o.EmojiSize, w, h, len(p))

	if c.Bool("verbose") {
		o.Progress = func(done, total int) {
			if done%64 == 0 || done == total {
				fmt.Fprintf(os.Stderr, "%d/%d rows\n", done, total)
			}
		}
	}
	out := m.Render(img, p, o)

	output := c.String("output")
	if output == "" {
		output = emojimosaic.OutputPath(input)
	}

	fmt.Printf("Saving image to \"%s\"...\n", output)
	if err := codec.EncodeFile(output, out); err != nil {
		return cli.NewExitError(err, 1)
	}
	fmt.Println("Done")

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "emojimosaic"
	app.Usage = "Image to emoji mosaic converter"
	app.Version = "1.0.0"
	app.ArgsUsage = "IMAGE"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "transparency",
			Aliases: []string{"t"},
			Usage:   "keep the transparency layer in the input image",
		},
		&cli.StringFlag{
			Name:    "emoji",
			Aliases: []string{"e"},
			EnvVars: []string{"EMOJIMOSAIC_EMOJI"},
			Usage:   "directory to retrieve emoji from",
		},
		&cli.IntFlag{
			Name:    "emoji-size",
			Aliases: []string{"d"},
			Value:   emojimosaic.DefaultEmojiSize,
			Usage:   "the longest edge length of emoji you are using",
		},
		&cli.IntFlag{
			Name:    "size",
			Aliases: []string{"s"},
			Value:   emojimosaic.DefaultMaxSize,
			Usage:   "maximum resolution for longest edge",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output image name",
		},
		&cli.StringFlag{
			Name:    "font",
			Aliases: []string{"f"},
			EnvVars: []string{"EMOJIMOSAIC_FONT"},
			Usage:   "emoji font to extract from, searched for if unset",
		},
		&cli.StringFlag{
			Name:    "cache",
			EnvVars: []string{"EMOJIMOSAIC_CACHE"},
			Value:   emojimosaic.DefaultCache,
			Usage:   "directory extracted emoji are stored in",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"EMOJIMOSAIC_DB"},
			Usage:   "path to emoji color database",
		},
		&cli.StringFlag{
			Name:  "filter",
			Value: codec.Lanczos.String(),
			Usage: "resampling filter: lanczos, bicubic, bilinear, nearest or catmullrom",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Value:   runtime.NumCPU(),
			Usage:   "number of workers",
		},
		&cli.BoolFlag{
			Name:  "verify-crc",
			Usage: "verify PNG chunk checksums when extracting emoji",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Action = convert

	app.Commands = []*cli.Command{
		{
			Name:        "extract",
			Usage:       "Extract emoji from a font",
			Description: "Writes every emoji of the requested size to the cache directory as numbered PNG files",
			ArgsUsage:   "[FONT]",
			Action: func(c *cli.Context) error {
				if c.Int("emoji-size") < 1 {
					return cli.NewExitError("emoji size must be positive", 1)
				}

				m, cleanup, err := newMosaic(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer cleanup()

				n, err := m.ExtractFont(c.Args().First(), c.Int("emoji-size"), c.String("cache"))
				if err != nil {
					return fontError(err)
				}

				fmt.Printf("Extracted %d emoji to \"%s\"\n", n, c.String("cache"))

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
