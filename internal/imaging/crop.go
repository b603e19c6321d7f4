package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Crop extracts a rectangular region from an image. The result has its
// origin at (0,0).
func Crop(img image.Image, r image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()

	if !r.In(bounds) {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.Min.X, r.Min.Y, r.Max.X, r.Max.Y, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if r.Empty() {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	return imaging.Crop(img, r), nil
}

// ClearBackground returns a copy of img where every visible pixel within
// threshold of bg (per RGB channel) has its alpha set to 0. RGB values are
// kept so the cleared pixels still carry their original color.
func ClearBackground(img *image.NRGBA, bg color.NRGBA, threshold int) (*image.NRGBA, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("background threshold must be non-negative, got %d", threshold)
	}

	out := imaging.Clone(img)
	for i := 0; i+3 < len(out.Pix); i += 4 {
		if out.Pix[i+3] == 0 {
			continue
		}
		c := color.NRGBA{R: out.Pix[i], G: out.Pix[i+1], B: out.Pix[i+2], A: out.Pix[i+3]}
		if Close(c, bg, threshold) {
			out.Pix[i+3] = 0
		}
	}
	return out, nil
}

// ClearBackgroundColors applies the same rule as ClearBackground to a flat
// list of colors and returns a new slice.
func ClearBackgroundColors(colors []color.NRGBA, bg color.NRGBA, threshold int) []color.NRGBA {
	out := make([]color.NRGBA, len(colors))
	for i, c := range colors {
		if c.A != 0 && Close(c, bg, threshold) {
			c.A = 0
		}
		out[i] = c
	}
	return out
}

// FromColors builds a size×size image from row-major colors.
func FromColors(size int, colors []color.NRGBA) (*image.NRGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("image size must be positive, got %d", size)
	}
	if len(colors) != size*size {
		return nil, fmt.Errorf("expected %d colors for a %dx%d image, got %d", size*size, size, size, len(colors))
	}

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for i, c := range colors {
		img.SetNRGBA(i%size, i/size, c)
	}
	return img, nil
}
