package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ironsheep/pixelgrid/internal/sampling"
)

const (
	// DefaultBackgroundThreshold is the per-channel tolerance used to decide
	// whether a pixel matches the background color.
	DefaultBackgroundThreshold = 24

	// DefaultRunLengthThreshold is the per-channel tolerance for two pixels
	// to belong to the same run during pixel size inference.
	DefaultRunLengthThreshold = 4

	// DefaultTargetSize is the default output side length.
	DefaultTargetSize = 16
)

// CropOptions configures CropToContent.
type CropOptions struct {
	Input  string
	Output string

	// TargetSize is the expected output resolution, used as the prior for
	// pixel size inference.
	TargetSize int

	BackgroundThreshold int
	RunThreshold        int

	// DebugGrid also writes the cropped image with the inferred grid drawn
	// on top, next to Output.
	DebugGrid bool
}

// DefaultCropOptions returns CropOptions with the default thresholds and
// target size.
func DefaultCropOptions() CropOptions {
	return CropOptions{
		TargetSize:          DefaultTargetSize,
		BackgroundThreshold: DefaultBackgroundThreshold,
		RunThreshold:        DefaultRunLengthThreshold,
	}
}

func (o CropOptions) validate() error {
	if o.Input == "" {
		return fmt.Errorf("%w: input path is required", ErrInvalidParameter)
	}
	return validateCommon(o.TargetSize, o.BackgroundThreshold, o.RunThreshold)
}

// DownscaleOptions configures Downscale.
type DownscaleOptions struct {
	Input  string
	Output string

	// TargetSize is the side length N of the N×N output.
	TargetSize int

	// PixelSize is the number of source pixels per output pixel. Zero means
	// unset: Infer must then be true.
	PixelSize int

	// Infer estimates the pixel size over the square content region when
	// PixelSize is zero.
	Infer bool

	// Tolerance, when set, merges sampled colors closer than it (0 to 1).
	Tolerance *float64

	// MaxColors, when positive, reduces the output to at most that many
	// visible colors.
	MaxColors int

	// KeepBackground disables clearing background-colored output pixels of
	// fully opaque sources.
	KeepBackground bool

	// PreviewScale, when positive, also writes the output enlarged by this
	// factor.
	PreviewScale int

	// DebugGrid also writes the source with the sampling grid drawn on top.
	DebugGrid bool

	BackgroundThreshold int
	RunThreshold        int
}

// DefaultDownscaleOptions returns DownscaleOptions with the default
// thresholds and target size.
func DefaultDownscaleOptions() DownscaleOptions {
	return DownscaleOptions{
		TargetSize:          DefaultTargetSize,
		BackgroundThreshold: DefaultBackgroundThreshold,
		RunThreshold:        DefaultRunLengthThreshold,
	}
}

func (o DownscaleOptions) validate() error {
	if o.Input == "" {
		return fmt.Errorf("%w: input path is required", ErrInvalidParameter)
	}
	if err := validateCommon(o.TargetSize, o.BackgroundThreshold, o.RunThreshold); err != nil {
		return err
	}
	if o.PixelSize < 0 {
		return fmt.Errorf("%w: pixel size must be positive, got %d", ErrInvalidParameter, o.PixelSize)
	}
	if o.PixelSize == 0 && !o.Infer {
		return fmt.Errorf("%w: pixel size is required for downscale unless inference is enabled", ErrInvalidParameter)
	}
	if o.Tolerance != nil && (*o.Tolerance < 0 || *o.Tolerance > 1) {
		return fmt.Errorf("%w: tolerance must be in [0,1], got %g", ErrInvalidParameter, *o.Tolerance)
	}
	if o.MaxColors < 0 || o.MaxColors > sampling.MaxPaletteColors {
		return fmt.Errorf("%w: max colors must be in [0,%d], got %d", ErrInvalidParameter, sampling.MaxPaletteColors, o.MaxColors)
	}
	if o.PreviewScale < 0 {
		return fmt.Errorf("%w: preview scale must not be negative, got %d", ErrInvalidParameter, o.PreviewScale)
	}
	return nil
}

// AnalyzeOptions configures Analyze.
type AnalyzeOptions struct {
	Input string

	TargetSize          int
	BackgroundThreshold int
	RunThreshold        int
}

// DefaultAnalyzeOptions returns AnalyzeOptions with the default thresholds
// and target size.
func DefaultAnalyzeOptions() AnalyzeOptions {
	return AnalyzeOptions{
		TargetSize:          DefaultTargetSize,
		BackgroundThreshold: DefaultBackgroundThreshold,
		RunThreshold:        DefaultRunLengthThreshold,
	}
}

func (o AnalyzeOptions) validate() error {
	if o.Input == "" {
		return fmt.Errorf("%w: input path is required", ErrInvalidParameter)
	}
	return validateCommon(o.TargetSize, o.BackgroundThreshold, o.RunThreshold)
}

func validateCommon(targetSize, bgThreshold, runThreshold int) error {
	if targetSize <= 0 {
		return fmt.Errorf("%w: target size must be positive, got %d", ErrInvalidParameter, targetSize)
	}
	if bgThreshold < 0 {
		return fmt.Errorf("%w: background threshold must not be negative, got %d", ErrInvalidParameter, bgThreshold)
	}
	if runThreshold < 0 {
		return fmt.Errorf("%w: run threshold must not be negative, got %d", ErrInvalidParameter, runThreshold)
	}
	return nil
}

// Operation names the two output-producing modes.
type Operation string

const (
	OperationCrop      Operation = "crop"
	OperationDownscale Operation = "downscale"
)

// DefaultOutputPath derives an output path next to input:
// "<stem>_cropped<ext>" or "<stem>_downscaled<ext>".
func DefaultOutputPath(input string, op Operation) string {
	suffix := "_downscaled"
	if op == OperationCrop {
		suffix = "_cropped"
	}
	stem, ext := splitExt(input)
	return stem + suffix + ext
}

// GridOverlayPath is where crop writes its grid overlay:
// "<stem>_grid_overlay<ext>", without doubling an existing suffix.
func GridOverlayPath(output string) string {
	stem, ext := splitExt(output)
	for _, suffix := range []string{"_grid_overlay", "_grid"} {
		if strings.HasSuffix(filepath.Base(stem), suffix) {
			stem = strings.TrimSuffix(stem, suffix)
			break
		}
	}
	return stem + "_grid_overlay" + ext
}

// DebugOverlayPath is where downscale writes its debug overlay:
// "<stem>_debug.png".
func DebugOverlayPath(output string) string {
	stem, _ := splitExt(output)
	return stem + "_debug.png"
}

// PreviewPath is where downscale writes its enlarged preview:
// "<stem>_preview<ext>".
func PreviewPath(output string) string {
	stem, ext := splitExt(output)
	return stem + "_preview" + ext
}

func splitExt(path string) (stem, ext string) {
	ext = filepath.Ext(path)
	return strings.TrimSuffix(path, ext), ext
}
