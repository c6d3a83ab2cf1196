package main

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"log"
	"os"
	"text/tabwriter"

	"github.com/KononK/resize"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/wasm4kit/png2src"
	"github.com/wasm4kit/png2src/internal/config"
	"github.com/wasm4kit/png2src/internal/logger"
	"github.com/wasm4kit/png2src/sprite"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

// setup loads the configuration and applies the global flags on top.
func setup(c *cli.Context) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, err
	}

	if c.IsSet("db") {
		cfg.Database = c.String("db")
	}
	if c.Bool("verbose") {
		cfg.Logger.Level = "debug"
	}

	return cfg, logger.New(cfg.Logger), nil
}

func parseFormat(s string) (sprite.Format, error) {
	switch s {
	case "hex":
		return sprite.Hex, nil
	case "binary":
		return sprite.Binary, nil
	default:
		return sprite.Hex, fmt.Errorf("unknown format %q", s)
	}
}

func palette(cfg *config.Config) (color.Palette, error) {
	if len(cfg.Palette) == 0 {
		return sprite.DefaultPalette, nil
	}
	return sprite.ParsePalette(cfg.Palette)
}

func main() {
	app := cli.NewApp()

	app.Name = "png2src"
	app.Usage = "WASM-4 sprite conversion utility"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to configuration file",
		},
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"PNG2SRC_DB"},
			Usage:   "path to sprite catalog database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	formatFlag := &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "render data bytes as \"hex\" or \"binary\"",
	}

	app.Commands = []*cli.Command{
		{
			Name:      "convert",
			Usage:     "Convert PNG images and print their source declarations",
			ArgsUsage: "FILE [FILE...]",
			Flags:     []cli.Flag{formatFlag},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cfg, _, err := setup(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				if c.IsSet("format") {
					cfg.Format = c.String("format")
				}
				format, err := parseFormat(cfg.Format)
				if err != nil {
					return cli.Exit(err, 1)
				}

				for _, file := range c.Args().Slice() {
					name, err := png2src.Stem(file)
					if err != nil {
						return cli.Exit(err, 1)
					}

					b, err := os.ReadFile(file)
					if err != nil {
						return cli.Exit(err, 1)
					}

					s, err := sprite.Convert(name, b)
					if err != nil {
						return cli.Exit(fmt.Errorf("%s: %w", file, err), 1)
					}

					fmt.Println(s.Source(format))
				}

				return nil
			},
		},
		{
			Name:      "generate",
			Usage:     "Generate a module of sprite constants from a directory tree",
			ArgsUsage: "DIRECTORY",
			Flags: []cli.Flag{
				formatFlag,
				&cli.BoolFlag{
					Name:  "flatten",
					Usage: "merge every sprite into a single module",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "write generated source to `FILE` instead of stdout",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cfg, _, err := setup(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				if c.IsSet("format") {
					cfg.Format = c.String("format")
				}
				if c.IsSet("flatten") {
					cfg.Flatten = c.Bool("flatten")
				}
				format, err := parseFormat(cfg.Format)
				if err != nil {
					return cli.Exit(err, 1)
				}

				m, err := png2src.BuildModuleTree(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}
				if cfg.Flatten {
					m = m.Flatten()
				}

				parsed, err := m.Parse()
				if err != nil {
					return cli.Exit(err, 1)
				}

				out := os.Stdout
				if path := c.String("output"); path != "" {
					f, err := os.Create(path)
					if err != nil {
						return cli.Exit(err, 1)
					}
					defer f.Close()
					out = f
				}

				if err := parsed.WriteSource(out, format); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "instructions",
			Usage:     "Print cargo build instructions for a directory tree",
			ArgsUsage: "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				m, err := png2src.BuildModuleTree(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := m.WriteBuildInstructions(os.Stdout); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "quantize",
			Usage:     "Requantize an image down to a console palette",
			ArgsUsage: "SRC DST",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "colors",
					Usage: "number of palette colors, 2 or 4",
					Value: 4,
				},
				&cli.BoolFlag{
					Name:  "dither",
					Usage: "dither with error diffusion",
				},
				&cli.StringSliceFlag{
					Name:  "palette",
					Usage: "map onto these \"#rrggbb\" colors instead of choosing them",
				},
				&cli.UintFlag{
					Name:  "width",
					Usage: "resize to `WIDTH` pixels first, 0 keeps the aspect ratio",
				},
				&cli.UintFlag{
					Name:  "height",
					Usage: "resize to `HEIGHT` pixels first, 0 keeps the aspect ratio",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() != 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cfg, _, err := setup(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				if c.IsSet("palette") {
					cfg.Palette = c.StringSlice("palette")
				}

				f, err := os.Open(c.Args().Get(0))
				if err != nil {
					return cli.Exit(err, 1)
				}
				m, _, err := image.Decode(f)
				f.Close()
				if err != nil {
					return cli.Exit(err, 1)
				}

				if c.IsSet("width") || c.IsSet("height") {
					m = resize.Resize(c.Uint("width"), c.Uint("height"), m, resize.NearestNeighbor)
				}

				var p *image.Paletted
				if len(cfg.Palette) > 0 {
					pal, err := palette(cfg)
					if err != nil {
						return cli.Exit(err, 1)
					}
					p = sprite.QuantizeToPalette(m, pal, c.Bool("dither"))
				} else {
					n := c.Int("colors")
					if n != 2 && n != 4 {
						return cli.Exit(fmt.Errorf("colors must be 2 or 4, not %d", n), 1)
					}
					p = sprite.Quantize(m, n, c.Bool("dither"))
				}

				out, err := os.Create(c.Args().Get(1))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer out.Close()

				if err := png.Encode(out, p); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "index",
			Usage:     "Convert a directory tree into the sprite catalog",
			ArgsUsage: "DIRECTORY",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "workers",
					Usage: "number of concurrent conversion workers",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				cfg, l, err := setup(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				if c.IsSet("workers") {
					cfg.Workers = c.Int("workers")
				}

				db, err := png2src.OpenCatalog(cfg.Database)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				if err := png2src.New(db, l, cfg.Workers).Index(c.Args().First()); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "list",
			Usage: "List the sprites in the catalog",
			Action: func(c *cli.Context) error {
				cfg, _, err := setup(c)
				if err != nil {
					return cli.Exit(err, 1)
				}

				db, err := png2src.OpenCatalog(cfg.Database)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				entries, err := db.Entries()
				if err != nil {
					return cli.Exit(err, 1)
				}

				w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
				fmt.Fprintln(w, "NAME\tSIZE\tFLAGS\tPATH")
				for _, e := range entries {
					fmt.Fprintf(w, "%s\t%dx%d\t%s\t%s\n", e.Name, e.Width, e.Height, e.Flags, e.Path)
				}

				return w.Flush()
			},
		},
		{
			Name:  "serve",
			Usage: "Serve sprite previews from the catalog over HTTP",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "addr",
					Usage: "listen `ADDRESS`",
				},
				&cli.IntFlag{
					Name:  "scale",
					Usage: "preview scale factor",
				},
				&cli.StringSliceFlag{
					Name:  "palette",
					Usage: "draw previews with these \"#rrggbb\" colors",
				},
			},
			Action: func(c *cli.Context) error {
				cfg, l, err := setup(c)
				if err != nil {
					return cli.Exit(err, 1)
				}
				if c.IsSet("addr") {
					cfg.Server.Addr = c.String("addr")
				}
				if c.IsSet("scale") {
					cfg.Server.Scale = c.Int("scale")
				}
				if c.IsSet("palette") {
					cfg.Palette = c.StringSlice("palette")
				}

				pal, err := palette(cfg)
				if err != nil {
					return cli.Exit(err, 1)
				}

				db, err := png2src.OpenCatalog(cfg.Database)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				if err := png2src.New(db, l, cfg.Workers).Serve(cfg.Server.Addr, pal, cfg.Server.Scale); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
