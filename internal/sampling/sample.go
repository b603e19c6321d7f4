package sampling

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

var (
	// ErrGridOverflow is returned when pixelSize*targetSize does not fit in
	// the image, either at all or from the region's top-left corner.
	ErrGridOverflow = errors.New("grid does not fit inside the image")

	// ErrInvalidParameter is returned for non-positive sizes and
	// out-of-range thresholds or tolerances.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// checkGrid verifies that a targetSize×targetSize grid of pixelSize cells
// anchored at origin lies within bounds.
func checkGrid(origin image.Point, targetSize, pixelSize int, bounds image.Rectangle) error {
	if targetSize <= 0 {
		return fmt.Errorf("%w: target size must be positive, got %d", ErrInvalidParameter, targetSize)
	}
	if pixelSize <= 0 {
		return fmt.Errorf("%w: pixel size must be positive, got %d", ErrInvalidParameter, pixelSize)
	}

	span := pixelSize * targetSize
	if span > bounds.Dx() || span > bounds.Dy() {
		return fmt.Errorf("%w: %d×%d grid of %dpx cells needs %dpx, image is %dx%d; reduce pixel size or target size",
			ErrGridOverflow, targetSize, targetSize, pixelSize, span, bounds.Dx(), bounds.Dy())
	}
	if origin.X+span > bounds.Max.X || origin.Y+span > bounds.Max.Y {
		return fmt.Errorf("%w: grid anchored at (%d,%d) needs %dpx and exceeds image bounds %dx%d; adjust pixel size or target size",
			ErrGridOverflow, origin.X, origin.Y, span, bounds.Dx(), bounds.Dy())
	}
	return nil
}

// AlignRegion snaps square to a grid of targetSize cells of pixelSize
// source pixels, keeping its top-left corner. The returned region is
// (left, top, left+pixelSize*targetSize, top+pixelSize*targetSize).
func AlignRegion(square image.Rectangle, targetSize, pixelSize int, bounds image.Rectangle) (image.Rectangle, error) {
	if err := checkGrid(square.Min, targetSize, pixelSize, bounds); err != nil {
		return image.Rectangle{}, err
	}
	span := pixelSize * targetSize
	return image.Rect(square.Min.X, square.Min.Y, square.Min.X+span, square.Min.Y+span), nil
}

// SampleCenters reads the color at the center of every grid cell of region.
//
// Cell (xi, yi) is sampled at (floor((xi+0.5)*pixelSize) + left,
// floor((yi+0.5)*pixelSize) + top), clamped into the image. The result is
// row-major with targetSize*targetSize entries. Sampling the center instead
// of averaging keeps antialiased block edges out of the result.
func SampleCenters(img *image.NRGBA, region image.Rectangle, targetSize, pixelSize int) ([]color.NRGBA, error) {
	bounds := img.Bounds()
	if err := checkGrid(region.Min, targetSize, pixelSize, bounds); err != nil {
		return nil, err
	}

	samples := make([]color.NRGBA, 0, targetSize*targetSize)
	for yi := 0; yi < targetSize; yi++ {
		y := clamp(cellCenter(yi, pixelSize)+region.Min.Y, bounds.Min.Y, bounds.Max.Y-1)
		for xi := 0; xi < targetSize; xi++ {
			x := clamp(cellCenter(xi, pixelSize)+region.Min.X, bounds.Min.X, bounds.Max.X-1)
			samples = append(samples, img.NRGBAAt(x, y))
		}
	}
	return samples, nil
}

// cellCenter is floor((i+0.5)*size) in integer arithmetic.
func cellCenter(i, size int) int {
	return (2*i + 1) * size / 2
}

// clamp constrains an integer value to the range [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
