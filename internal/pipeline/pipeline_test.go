package pipeline

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/pixelgrid/internal/imaging"
)

var (
	red   = color.NRGBA{255, 0, 0, 255}
	blue  = color.NRGBA{0, 0, 255, 255}
	white = color.NRGBA{255, 255, 255, 255}
	none  = color.NRGBA{0, 0, 0, 0}
)

// writeTestImage saves img as a PNG in dir and returns its path.
func writeTestImage(t *testing.T, dir, name string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
	return path
}

// loadTestImage decodes the image at path, failing the test on error.
func loadTestImage(t *testing.T, path string) *image.NRGBA {
	t.Helper()
	img, err := imaging.Load(path)
	if err != nil {
		t.Fatalf("failed to load %s: %v", path, err)
	}
	return img
}

// fillRect paints r of img with c.
func fillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

// createCheckerImage draws a cells×cells checkerboard of red and fg blocks,
// each block pixels wide, at offset on a size×size canvas filled with bg.
// Cell (0,0) is red.
func createCheckerImage(size, offset, cells, block int, fg, bg color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	fillRect(img, img.Bounds(), bg)
	for cy := 0; cy < cells; cy++ {
		for cx := 0; cx < cells; cx++ {
			c := red
			if (cx+cy)%2 == 1 {
				c = fg
			}
			x, y := offset+cx*block, offset+cy*block
			fillRect(img, image.Rect(x, y, x+block, y+block), c)
		}
	}
	return img
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestNewDefaults(t *testing.T) {
	p := New(nil, nil)
	if p.logger == nil {
		t.Error("New(nil, nil) left logger nil")
	}
	if p.loader == nil {
		t.Error("New(nil, nil) left loader nil")
	}
}

func TestLoaderIsUsed(t *testing.T) {
	dir := t.TempDir()
	src := createCheckerImage(16, 0, 4, 4, blue, white)

	calls := 0
	loader := LoaderFunc(func(path string) (*image.NRGBA, error) {
		calls++
		if path != "memory.png" {
			t.Errorf("loader got path %q, want memory.png", path)
		}
		return src, nil
	})

	opts := DefaultDownscaleOptions()
	opts.Input = "memory.png"
	opts.Output = filepath.Join(dir, "out.png")
	opts.TargetSize = 4
	opts.PixelSize = 4

	if _, err := New(nil, loader).Downscale(opts); err != nil {
		t.Fatalf("Downscale failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}
}

func TestLoadEmptyImage(t *testing.T) {
	loader := LoaderFunc(func(string) (*image.NRGBA, error) {
		return image.NewNRGBA(image.Rectangle{}), nil
	})

	opts := DefaultAnalyzeOptions()
	opts.Input = "empty.png"
	_, err := New(nil, loader).Analyze(opts)
	if !errors.Is(err, ErrEmptyContent) {
		t.Errorf("expected ErrEmptyContent, got %v", err)
	}
}

func TestWriteOutputsRemovesPartialFiles(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))

	first := filepath.Join(dir, "first.png")
	blocked := filepath.Join(dir, "blocked.png")
	// A directory at the target path makes the second write fail.
	if err := os.Mkdir(blocked, 0o755); err != nil {
		t.Fatal(err)
	}

	err := New(nil, nil).writeOutputs([]output{{first, img}, {blocked, img}})
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("expected ErrWrite, got %v", err)
	}
	if fileExists(first) {
		t.Error("first output should have been removed after the failed write")
	}
}

func TestWriteOutputsChecksExtensionsFirst(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))

	first := filepath.Join(dir, "first.png")
	err := New(nil, nil).writeOutputs([]output{
		{first, img},
		{filepath.Join(dir, "second.xyz"), img},
	})
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("expected ErrWrite, got %v", err)
	}
	if fileExists(first) {
		t.Error("no file should be written when an extension is unsupported")
	}
}

func TestBox(t *testing.T) {
	r := image.Rect(1, 2, 5, 7)
	b := newBox(r)
	if b.Rect() != r {
		t.Errorf("Rect() = %v, want %v", b.Rect(), r)
	}
	if got := b.String(); got != "(1, 2, 5, 7)" {
		t.Errorf("String() = %q", got)
	}
}

func TestSummaryLines(t *testing.T) {
	bg := imaging.NewColorResult(white)
	s := &Summary{
		InputWidth:        32,
		InputHeight:       24,
		Mode:              "background",
		Background:        &bg,
		ContentBounds:     newBox(image.Rect(4, 4, 20, 20)),
		Square:            newBox(image.Rect(4, 4, 20, 20)),
		ExpectedPixelSize: 4,
		PixelSize:         4,
		PixelSizeInferred: true,
		AlignedRegion:     newBox(image.Rect(4, 4, 20, 20)),
		PaletteSize:       2,
		Output:            "out.png",
		OutputWidth:       4,
		OutputHeight:      4,
	}

	text := strings.Join(s.Lines(), "\n")
	for _, want := range []string{
		"Input: 32x24",
		"Background color: (255, 255, 255, 255) #FFFFFF",
		"Content bbox: (4, 4, 20, 20) (background mode)",
		"Square region: (4, 4, 20, 20) (side 16)",
		"Inferred pixel size: 4 (expected 4)",
		"Aligned region: (4, 4, 20, 20) (pixel size: 4)",
		"Palette: 2 colors",
		"Wrote out.png (4x4)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "preview") {
		t.Errorf("summary mentions a preview that was not written:\n%s", text)
	}
}
