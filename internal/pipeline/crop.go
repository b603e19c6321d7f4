package pipeline

import (
	"fmt"
	"image/color"

	"github.com/ironsheep/pixelgrid/internal/detection"
	"github.com/ironsheep/pixelgrid/internal/imaging"
)

// CropToContent writes the detected content box of the input image to
// opts.Output (derived from the input when empty).
//
// For fully opaque images the background color is estimated from the border
// and cleared to transparent inside the crop. Images that already carry
// transparency are cropped to their visible pixels as-is. The pixel size is
// inferred on the cropped image and reported; with DebugGrid a grid at that
// spacing is drawn over the crop and written next to the output.
func (p *Pipeline) CropToContent(opts CropOptions) (*Summary, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Output == "" {
		opts.Output = DefaultOutputPath(opts.Input, OperationCrop)
	}

	img, err := p.load(opts.Input)
	if err != nil {
		return nil, err
	}

	bg := detection.EstimateBackground(img)
	content, err := detection.DetectContent(img, opts.BackgroundThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to detect content in %s: %w", opts.Input, err)
	}

	cropped, err := imaging.Crop(img, content.Bounds)
	if err != nil {
		return nil, fmt.Errorf("failed to crop %s: %w", opts.Input, err)
	}

	var inferBG *color.NRGBA
	if content.Mode == detection.ModeBackground {
		cropped, err = imaging.ClearBackground(cropped, bg, opts.BackgroundThreshold)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidParameter, err)
		}
		inferBG = &bg
	}

	pixelSize, err := detection.InferPixelSize(cropped, cropped.Bounds(), detection.InferOptions{
		TargetSize:          opts.TargetSize,
		Background:          inferBG,
		BackgroundThreshold: opts.BackgroundThreshold,
		RunThreshold:        opts.RunThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to infer pixel size: %w", err)
	}

	bgResult := imaging.NewColorResult(bg)
	summary := &Summary{
		InputWidth:        img.Bounds().Dx(),
		InputHeight:       img.Bounds().Dy(),
		Mode:              content.Mode.String(),
		Background:        &bgResult,
		ContentBounds:     newBox(content.Bounds),
		ExpectedPixelSize: detection.ExpectedPixelSize(cropped.Bounds(), opts.TargetSize),
		PixelSize:         pixelSize,
		PixelSizeInferred: true,
		Output:            opts.Output,
		OutputWidth:       cropped.Bounds().Dx(),
		OutputHeight:      cropped.Bounds().Dy(),
	}

	outputs := []output{{path: opts.Output, img: cropped}}
	if opts.DebugGrid {
		overlay, err := imaging.GridOverlay(cropped, pixelSize)
		if err != nil {
			return nil, fmt.Errorf("failed to draw grid overlay: %w", err)
		}
		summary.DebugOutput = GridOverlayPath(opts.Output)
		outputs = append(outputs, output{path: summary.DebugOutput, img: overlay})
	}

	if err := p.writeOutputs(outputs); err != nil {
		return nil, err
	}

	p.logger.Printf("Input: %dx%d", summary.InputWidth, summary.InputHeight)
	p.logger.Printf("Background color: %s", imaging.FormatColor(bg))
	p.logger.Printf("Content bbox: %s (%s mode)", summary.ContentBounds, summary.Mode)
	p.logger.Printf("Inferred pixel size: %d", pixelSize)
	p.logger.Printf("Wrote %s (%dx%d)", opts.Output, summary.OutputWidth, summary.OutputHeight)

	return summary, nil
}
