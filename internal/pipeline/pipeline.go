package pipeline

import (
	"fmt"
	"image"
	"io"
	"log"
	"os"

	"github.com/ironsheep/pixelgrid/internal/imaging"
)

// Loader decodes source images. *imaging.ImageCache satisfies it.
type Loader interface {
	Load(path string) (*image.NRGBA, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(path string) (*image.NRGBA, error)

// Load calls f(path).
func (f LoaderFunc) Load(path string) (*image.NRGBA, error) {
	return f(path)
}

// Pipeline runs the crop, downscale and analyze operations. It holds no
// per-run state, so one value can serve any number of calls.
type Pipeline struct {
	logger *log.Logger
	loader Loader
}

// New returns a Pipeline that logs diagnostics to logger and reads images
// through loader. A nil logger discards output; a nil loader decodes from
// disk on every call.
func New(logger *log.Logger, loader Loader) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if loader == nil {
		loader = LoaderFunc(imaging.Load)
	}
	return &Pipeline{logger: logger, loader: loader}
}

// Box is a half-open rectangle in source pixel coordinates.
type Box struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

func newBox(r image.Rectangle) *Box {
	return &Box{Left: r.Min.X, Top: r.Min.Y, Right: r.Max.X, Bottom: r.Max.Y}
}

// Rect converts b back to an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.Left, b.Top, b.Right, b.Bottom)
}

func (b Box) String() string {
	return fmt.Sprintf("(%d, %d, %d, %d)", b.Left, b.Top, b.Right, b.Bottom)
}

// Summary reports what a run detected and produced. The values are
// diagnostic; the images written to disk are the functional result.
type Summary struct {
	InputWidth  int `json:"input_width"`
	InputHeight int `json:"input_height"`

	// Mode is "alpha" or "background", see detection.Mode.
	Mode string `json:"mode"`

	Background    *imaging.ColorResult `json:"background,omitempty"`
	ContentBounds *Box                 `json:"content_bounds"`
	Square        *Box                 `json:"square,omitempty"`

	ExpectedPixelSize int  `json:"expected_pixel_size,omitempty"`
	PixelSize         int  `json:"pixel_size"`
	PixelSizeInferred bool `json:"pixel_size_inferred"`

	AlignedRegion *Box `json:"aligned_region,omitempty"`

	// PaletteSize is the number of distinct colors in the output grid.
	PaletteSize int `json:"palette_size,omitempty"`

	Output        string `json:"output,omitempty"`
	OutputWidth   int    `json:"output_width,omitempty"`
	OutputHeight  int    `json:"output_height,omitempty"`
	DebugOutput   string `json:"debug_output,omitempty"`
	PreviewOutput string `json:"preview_output,omitempty"`
}

// Lines renders the summary as human-readable lines.
func (s *Summary) Lines() []string {
	lines := []string{fmt.Sprintf("Input: %dx%d", s.InputWidth, s.InputHeight)}
	if s.Background != nil {
		c := s.Background.RGBA
		lines = append(lines, fmt.Sprintf("Background color: (%d, %d, %d, %d) %s", c.R, c.G, c.B, c.A, s.Background.Hex))
	}
	if s.ContentBounds != nil {
		lines = append(lines, fmt.Sprintf("Content bbox: %s (%s mode)", s.ContentBounds, s.Mode))
	}
	if s.Square != nil {
		lines = append(lines, fmt.Sprintf("Square region: %s (side %d)", s.Square, s.Square.Rect().Dx()))
	}
	if s.PixelSizeInferred {
		lines = append(lines, fmt.Sprintf("Inferred pixel size: %d (expected %d)", s.PixelSize, s.ExpectedPixelSize))
	} else if s.PixelSize > 0 {
		lines = append(lines, fmt.Sprintf("Using pixel size: %d", s.PixelSize))
	}
	if s.AlignedRegion != nil {
		lines = append(lines, fmt.Sprintf("Aligned region: %s (pixel size: %d)", s.AlignedRegion, s.PixelSize))
	}
	if s.PaletteSize > 0 {
		lines = append(lines, fmt.Sprintf("Palette: %d colors", s.PaletteSize))
	}
	if s.DebugOutput != "" {
		lines = append(lines, fmt.Sprintf("Wrote debug overlay to %s", s.DebugOutput))
	}
	if s.PreviewOutput != "" {
		lines = append(lines, fmt.Sprintf("Wrote preview to %s", s.PreviewOutput))
	}
	if s.Output != "" {
		lines = append(lines, fmt.Sprintf("Wrote %s (%dx%d)", s.Output, s.OutputWidth, s.OutputHeight))
	}
	return lines
}

// output is one image scheduled for writing.
type output struct {
	path string
	img  image.Image
}

// writeOutputs saves every output in order. If any write fails, files
// already written by this call are removed so a failed run leaves nothing
// behind.
func (p *Pipeline) writeOutputs(outputs []output) error {
	for _, o := range outputs {
		if err := imaging.CheckOutputPath(o.path); err != nil {
			return err
		}
	}

	written := make([]string, 0, len(outputs))
	for _, o := range outputs {
		if err := imaging.Save(o.img, o.path); err != nil {
			for _, path := range written {
				if rmErr := os.Remove(path); rmErr != nil {
					p.logger.Printf("Failed to remove partial output %s: %v", path, rmErr)
				}
			}
			return err
		}
		written = append(written, o.path)
	}
	return nil
}

// load decodes the input image.
func (p *Pipeline) load(path string) (*image.NRGBA, error) {
	img, err := p.loader.Load(path)
	if err != nil {
		return nil, err
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %s has no pixels", ErrEmptyContent, path)
	}
	return img, nil
}
