package pipeline

import (
	"fmt"
	"image/color"

	"github.com/ironsheep/pixelgrid/internal/detection"
	"github.com/ironsheep/pixelgrid/internal/imaging"
	"github.com/ironsheep/pixelgrid/internal/sampling"
)

// Downscale writes a TargetSize×TargetSize reconstruction of the input
// image to opts.Output (derived from the input when empty).
//
// The content box is expanded to a square anchored at its top-left corner,
// aligned to a grid of PixelSize cells (inferred over the square when
// PixelSize is zero and Infer is set) and sampled at cell centers. Sampled
// colors are then optionally merged by Tolerance and reduced to MaxColors.
// For fully opaque sources, output pixels matching the background become
// transparent unless KeepBackground is set.
func (p *Pipeline) Downscale(opts DownscaleOptions) (*Summary, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Output == "" {
		opts.Output = DefaultOutputPath(opts.Input, OperationDownscale)
	}

	img, err := p.load(opts.Input)
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()

	content, err := detection.DetectContent(img, opts.BackgroundThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to detect content in %s: %w", opts.Input, err)
	}
	square := detection.ExpandToSquare(content.Bounds, bounds)

	var bg *color.NRGBA
	if content.Mode == detection.ModeBackground {
		bg = &content.Background
	}

	summary := &Summary{
		InputWidth:        bounds.Dx(),
		InputHeight:       bounds.Dy(),
		Mode:              content.Mode.String(),
		ContentBounds:     newBox(content.Bounds),
		Square:            newBox(square),
		ExpectedPixelSize: detection.ExpectedPixelSize(square, opts.TargetSize),
		PixelSize:         opts.PixelSize,
	}
	if bg != nil {
		bgResult := imaging.NewColorResult(*bg)
		summary.Background = &bgResult
	}

	if summary.PixelSize == 0 {
		summary.PixelSize, err = detection.InferPixelSize(img, square, detection.InferOptions{
			TargetSize:          opts.TargetSize,
			Background:          bg,
			BackgroundThreshold: opts.BackgroundThreshold,
			RunThreshold:        opts.RunThreshold,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to infer pixel size: %w", err)
		}
		summary.PixelSizeInferred = true
	}

	region, err := sampling.AlignRegion(square, opts.TargetSize, summary.PixelSize, bounds)
	if err != nil {
		return nil, err
	}
	summary.AlignedRegion = newBox(region)

	pixels, err := sampling.SampleCenters(img, region, opts.TargetSize, summary.PixelSize)
	if err != nil {
		return nil, err
	}
	if opts.Tolerance != nil {
		pixels = sampling.MergePalette(pixels, *opts.Tolerance)
	}
	if opts.MaxColors > 0 {
		pixels, err = sampling.ReducePalette(pixels, opts.MaxColors)
		if err != nil {
			return nil, err
		}
	}
	if bg != nil && !opts.KeepBackground {
		pixels = imaging.ClearBackgroundColors(pixels, *bg, opts.BackgroundThreshold)
	}
	summary.PaletteSize = countColors(pixels)

	result, err := imaging.FromColors(opts.TargetSize, pixels)
	if err != nil {
		return nil, err
	}
	summary.Output = opts.Output
	summary.OutputWidth = opts.TargetSize
	summary.OutputHeight = opts.TargetSize

	outputs := []output{{path: opts.Output, img: result}}
	if opts.DebugGrid {
		label := fmt.Sprintf("%dx%d", opts.TargetSize, opts.TargetSize)
		overlay, err := imaging.RegionOverlay(img, region, summary.PixelSize, label)
		if err != nil {
			return nil, fmt.Errorf("failed to draw debug overlay: %w", err)
		}
		summary.DebugOutput = DebugOverlayPath(opts.Output)
		outputs = append(outputs, output{path: summary.DebugOutput, img: overlay})
	}
	if opts.PreviewScale > 0 {
		preview, err := imaging.Enlarge(result, opts.PreviewScale)
		if err != nil {
			return nil, fmt.Errorf("failed to enlarge preview: %w", err)
		}
		summary.PreviewOutput = PreviewPath(opts.Output)
		outputs = append(outputs, output{path: summary.PreviewOutput, img: preview})
	}

	if err := p.writeOutputs(outputs); err != nil {
		return nil, err
	}

	p.logger.Printf("Input: %dx%d", summary.InputWidth, summary.InputHeight)
	if bg != nil {
		p.logger.Printf("Background color: %s", imaging.FormatColor(*bg))
	}
	p.logger.Printf("Content bbox: %s (%s mode)", summary.ContentBounds, summary.Mode)
	p.logger.Printf("Square region: %s", summary.Square)
	p.logger.Printf("Using pixel size: %d (inferred: %t)", summary.PixelSize, summary.PixelSizeInferred)
	p.logger.Printf("Aligned region: %s (pixel size: %d)", summary.AlignedRegion, summary.PixelSize)
	p.logger.Printf("Wrote %s (%dx%d)", opts.Output, opts.TargetSize, opts.TargetSize)

	return summary, nil
}

// countColors returns the number of distinct visible colors.
func countColors(pixels []color.NRGBA) int {
	seen := make(map[color.NRGBA]struct{})
	for _, c := range pixels {
		if c.A != 0 {
			seen[c] = struct{}{}
		}
	}
	return len(seen)
}
