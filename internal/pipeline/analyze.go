package pipeline

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/ironsheep/pixelgrid/internal/detection"
	"github.com/ironsheep/pixelgrid/internal/imaging"
	"github.com/ironsheep/pixelgrid/internal/sampling"
)

// Analyze runs detection and pixel size inference without writing
// anything. AlignedRegion is left empty when the inferred grid does not fit
// the image from the square's corner.
func (p *Pipeline) Analyze(opts AnalyzeOptions) (*Summary, error) {
	if err := opts.validate(); err != nil {
		return nil, err
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

	bg := detection.EstimateBackground(img)
	bgResult := imaging.NewColorResult(bg)

	var inferBG *color.NRGBA
	if content.Mode == detection.ModeBackground {
		inferBG = &bg
	}

	pixelSize, err := detection.InferPixelSize(img, square, detection.InferOptions{
		TargetSize:          opts.TargetSize,
		Background:          inferBG,
		BackgroundThreshold: opts.BackgroundThreshold,
		RunThreshold:        opts.RunThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to infer pixel size: %w", err)
	}

	summary := &Summary{
		InputWidth:        bounds.Dx(),
		InputHeight:       bounds.Dy(),
		Mode:              content.Mode.String(),
		Background:        &bgResult,
		ContentBounds:     newBox(content.Bounds),
		Square:            newBox(square),
		ExpectedPixelSize: detection.ExpectedPixelSize(square, opts.TargetSize),
		PixelSize:         pixelSize,
		PixelSizeInferred: true,
	}

	region, err := sampling.AlignRegion(square, opts.TargetSize, pixelSize, bounds)
	switch {
	case err == nil:
		summary.AlignedRegion = newBox(region)
	case errors.Is(err, ErrGridOverflow):
		p.logger.Printf("Grid does not fit: %v", err)
	default:
		return nil, err
	}

	p.logger.Printf("Analyzed %s: content %s, pixel size %d", opts.Input, summary.ContentBounds, pixelSize)
	return summary, nil
}
