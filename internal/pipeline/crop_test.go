package pipeline

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
)

func TestCropToContentTransparentBlock(t *testing.T) {
	dir := t.TempDir()

	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	fillRect(src, image.Rect(0, 0, 4, 4), red)
	input := writeTestImage(t, dir, "block.png", src)

	opts := DefaultCropOptions()
	opts.Input = input
	opts.TargetSize = 1

	summary, err := New(nil, nil).CropToContent(opts)
	if err != nil {
		t.Fatalf("CropToContent failed: %v", err)
	}

	wantOutput := filepath.Join(dir, "block_cropped.png")
	if summary.Output != wantOutput {
		t.Errorf("Output = %q, want %q", summary.Output, wantOutput)
	}
	if summary.Mode != "alpha" {
		t.Errorf("Mode = %q, want alpha", summary.Mode)
	}
	if summary.PixelSize != 4 {
		t.Errorf("PixelSize = %d, want 4", summary.PixelSize)
	}

	out := loadTestImage(t, wantOutput)
	if out.Bounds().Dx() != 4 || out.Bounds().Dy() != 4 {
		t.Fatalf("output is %dx%d, want 4x4", out.Bounds().Dx(), out.Bounds().Dy())
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if got := out.NRGBAAt(x, y); got != red {
				t.Fatalf("pixel (%d,%d) = %v, want opaque red", x, y, got)
			}
		}
	}
}

func TestCropToContentOpaqueBackground(t *testing.T) {
	dir := t.TempDir()

	// 2×2 cells of 4px at (4,4) on a 16×16 white canvas.
	src := createCheckerImage(16, 4, 2, 4, blue, white)
	input := writeTestImage(t, dir, "sprite.png", src)

	opts := DefaultCropOptions()
	opts.Input = input
	opts.Output = filepath.Join(dir, "out.png")
	opts.TargetSize = 2
	opts.DebugGrid = true

	summary, err := New(nil, nil).CropToContent(opts)
	if err != nil {
		t.Fatalf("CropToContent failed: %v", err)
	}

	if summary.Mode != "background" {
		t.Errorf("Mode = %q, want background", summary.Mode)
	}
	if summary.Background == nil || summary.Background.Hex != "#FFFFFF" {
		t.Errorf("Background = %+v, want white", summary.Background)
	}
	if got := summary.ContentBounds.Rect(); got != image.Rect(4, 4, 12, 12) {
		t.Errorf("ContentBounds = %v, want (4,4)-(12,12)", got)
	}
	if summary.PixelSize != 4 {
		t.Errorf("PixelSize = %d, want 4", summary.PixelSize)
	}

	out := loadTestImage(t, opts.Output)
	if out.Bounds().Dx() != 8 || out.Bounds().Dy() != 8 {
		t.Fatalf("output is %dx%d, want 8x8", out.Bounds().Dx(), out.Bounds().Dy())
	}
	if got := out.NRGBAAt(0, 0); got != red {
		t.Errorf("pixel (0,0) = %v, want red", got)
	}
	if got := out.NRGBAAt(5, 1); got != blue {
		t.Errorf("pixel (5,1) = %v, want blue", got)
	}

	wantDebug := filepath.Join(dir, "out_grid_overlay.png")
	if summary.DebugOutput != wantDebug {
		t.Errorf("DebugOutput = %q, want %q", summary.DebugOutput, wantDebug)
	}
	debug := loadTestImage(t, wantDebug)
	if debug.Bounds() != out.Bounds() {
		t.Errorf("debug overlay bounds %v, want %v", debug.Bounds(), out.Bounds())
	}
}

func TestCropToContentClearsEnclosedBackground(t *testing.T) {
	dir := t.TempDir()

	// The white checker cells inside the content box match the background.
	src := createCheckerImage(16, 4, 2, 4, white, white)
	input := writeTestImage(t, dir, "holes.png", src)

	opts := DefaultCropOptions()
	opts.Input = input
	opts.TargetSize = 2

	summary, err := New(nil, nil).CropToContent(opts)
	if err != nil {
		t.Fatalf("CropToContent failed: %v", err)
	}

	out := loadTestImage(t, summary.Output)
	if got := out.NRGBAAt(0, 0); got != red {
		t.Errorf("pixel (0,0) = %v, want red", got)
	}
	if got := out.NRGBAAt(5, 1).A; got != 0 {
		t.Errorf("pixel (5,1) alpha = %d, want 0", got)
	}
}

func TestCropToContentErrors(t *testing.T) {
	dir := t.TempDir()

	solid := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	fillRect(solid, solid.Bounds(), blue)
	solidPath := writeTestImage(t, dir, "solid.png", solid)

	transparent := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	clearPath := writeTestImage(t, dir, "clear.png", transparent)

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	block := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	fillRect(block, image.Rect(2, 2, 6, 6), red)
	blockPath := writeTestImage(t, dir, "ok.png", block)

	tests := []struct {
		name    string
		input   string
		output  string
		wantErr error
	}{
		{"solid color", solidPath, "", ErrEmptyContent},
		{"fully transparent", clearPath, "", ErrEmptyContent},
		{"missing file", filepath.Join(dir, "missing.png"), "", ErrDecode},
		{"undecodable file", garbage, "", ErrDecode},
		{"unsupported output format", blockPath, filepath.Join(dir, "out.xyz"), ErrWrite},
		{"output directory missing", blockPath, filepath.Join(dir, "nope", "out.png"), ErrWrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultCropOptions()
			opts.Input = tt.input
			opts.Output = tt.output

			_, err := New(nil, nil).CropToContent(opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if fileExists(filepath.Join(dir, "solid_cropped.png")) {
		t.Error("failed crop left an output file behind")
	}
}
