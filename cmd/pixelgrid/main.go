package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ironsheep/pixelgrid/internal/pipeline"
	"github.com/ironsheep/pixelgrid/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const logLevelEnv = "PIXELGRID_LOG_LEVEL"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Printf("pixelgrid %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
	}
}

func main() {
	// Logging goes to stderr; stdout carries summaries and the MCP protocol.
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	app := cli.NewApp()
	app.Name = "pixelgrid"
	app.Usage = "Recover the logical pixel grid of rasterized pixel art"
	app.Version = Version

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "log diagnostics to stderr (also " + logLevelEnv + "=debug)",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:   "crop",
			Usage:  "Crop an image to its content box and report the inferred pixel size",
			Flags:  append(commonFlags(), outputFlag(), debugGridFlag()),
			Action: runCrop,
		},
		{
			Name:  "downscale",
			Usage: "Rebuild pixel art at its logical N×N resolution",
			Flags: append(commonFlags(), outputFlag(), debugGridFlag(),
				&cli.IntFlag{
					Name:    "pixel-size",
					Aliases: []string{"p"},
					Usage:   "source pixels per output pixel (required unless --infer)",
				},
				&cli.BoolFlag{
					Name:  "infer",
					Usage: "infer the pixel size over the square content region when --pixel-size is not given",
				},
				&cli.Float64Flag{
					Name:    "tolerance",
					Aliases: []string{"t"},
					Usage:   "merge sampled colors within this RGB distance, scaled so black-white = 1 (0 to 1)",
				},
				&cli.IntFlag{
					Name:  "max-colors",
					Usage: "reduce the output to at most this many colors (0 disables)",
				},
				&cli.BoolFlag{
					Name:  "keep-background",
					Usage: "keep background-colored cells opaque for opaque sources",
				},
				&cli.IntFlag{
					Name:  "preview-scale",
					Usage: "also write <stem>_preview<ext> enlarged by this factor (0 disables)",
				},
			),
			Action: runDownscale,
		},
		{
			Name:  "analyze",
			Usage: "Report content box, background and pixel size without writing files",
			Flags: append(commonFlags(),
				&cli.BoolFlag{
					Name:  "json",
					Usage: "print the summary as JSON",
				},
			),
			Action: runAnalyze,
		},
		{
			Name:  "serve",
			Usage: "Run as an MCP server over stdin/stdout",
			Action: func(c *cli.Context) error {
				logger := newLogger(c)
				logger.Printf("pixelgrid MCP server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)

				if err := server.New(logger, Version).Run(); err != nil {
					return cli.Exit(fmt.Sprintf("Server error: %v", err), 1)
				}
				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// commonFlags are accepted by every image command.
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "input",
			Aliases:  []string{"i"},
			Usage:    "source image (PNG, JPEG or GIF)",
			Required: true,
		},
		&cli.IntFlag{
			Name:    "size",
			Aliases: []string{"s", "output-size", "target-size"},
			Value:   pipeline.DefaultTargetSize,
			Usage:   "output side length N in logical pixels",
		},
		&cli.IntFlag{
			Name:    "bg-threshold",
			Aliases: []string{"b"},
			Value:   pipeline.DefaultBackgroundThreshold,
			Usage:   "per-channel tolerance for matching the background color",
		},
		&cli.IntFlag{
			Name:    "run-threshold",
			Aliases: []string{"r"},
			Value:   pipeline.DefaultRunLengthThreshold,
			Usage:   "per-channel tolerance against the first pixel of a run",
		},
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output path (default derived from the input)",
	}
}

func debugGridFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "debug-grid",
		Aliases: []string{"d"},
		Usage:   "also write a debug image with the grid drawn on top",
	}
}

// newLogger returns a logger writing to stderr when verbose output was
// requested, and a discarding one otherwise.
func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") || os.Getenv(logLevelEnv) == "debug" {
		logger.SetOutput(os.Stderr)
		logger.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	}
	return logger
}

func printSummary(s *pipeline.Summary) {
	for _, line := range s.Lines() {
		fmt.Println(line)
	}
}

func runCrop(c *cli.Context) error {
	opts := pipeline.DefaultCropOptions()
	opts.Input = c.String("input")
	opts.Output = c.String("output")
	opts.TargetSize = c.Int("size")
	opts.BackgroundThreshold = c.Int("bg-threshold")
	opts.RunThreshold = c.Int("run-threshold")
	opts.DebugGrid = c.Bool("debug-grid")

	summary, err := pipeline.New(newLogger(c), nil).CropToContent(opts)
	if err != nil {
		return cli.Exit(err, 1)
	}
	printSummary(summary)
	return nil
}

func runDownscale(c *cli.Context) error {
	opts := pipeline.DefaultDownscaleOptions()
	opts.Input = c.String("input")
	opts.Output = c.String("output")
	opts.TargetSize = c.Int("size")
	opts.PixelSize = c.Int("pixel-size")
	opts.Infer = c.Bool("infer")
	opts.MaxColors = c.Int("max-colors")
	opts.KeepBackground = c.Bool("keep-background")
	opts.PreviewScale = c.Int("preview-scale")
	opts.DebugGrid = c.Bool("debug-grid")
	opts.BackgroundThreshold = c.Int("bg-threshold")
	opts.RunThreshold = c.Int("run-threshold")
	if c.IsSet("tolerance") {
		tolerance := c.Float64("tolerance")
		opts.Tolerance = &tolerance
	}
	if c.IsSet("pixel-size") && opts.PixelSize <= 0 {
		return cli.Exit(fmt.Errorf("%w: --pixel-size must be positive, got %d", pipeline.ErrInvalidParameter, opts.PixelSize), 1)
	}

	summary, err := pipeline.New(newLogger(c), nil).Downscale(opts)
	if err != nil {
		return cli.Exit(err, 1)
	}
	printSummary(summary)
	return nil
}

func runAnalyze(c *cli.Context) error {
	opts := pipeline.DefaultAnalyzeOptions()
	opts.Input = c.String("input")
	opts.TargetSize = c.Int("size")
	opts.BackgroundThreshold = c.Int("bg-threshold")
	opts.RunThreshold = c.Int("run-threshold")

	summary, err := pipeline.New(newLogger(c), nil).Analyze(opts)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			return cli.Exit(err, 1)
		}
		return nil
	}
	printSummary(summary)
	return nil
}
