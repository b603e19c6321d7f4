package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	// GridColor is the semi-transparent red used for grid lines.
	GridColor = color.NRGBA{R: 255, G: 0, B: 0, A: 160}

	// BorderColor is the green used for the sampled region outline and label.
	BorderColor = color.NRGBA{R: 0, G: 255, B: 0, A: 200}
)

// GridOverlay draws grid lines every spacing pixels across the whole image,
// starting at the top-left corner. The source image is not modified.
func GridOverlay(img image.Image, spacing int) (*image.NRGBA, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("grid spacing must be positive, got %d", spacing)
	}

	result := imaging.Clone(img)
	b := result.Bounds()

	for x := b.Min.X; x <= b.Max.X; x += spacing {
		blendRect(result, image.Rect(x, b.Min.Y, x+1, b.Max.Y), GridColor)
	}
	for y := b.Min.Y; y <= b.Max.Y; y += spacing {
		blendRect(result, image.Rect(b.Min.X, y, b.Max.X, y+1), GridColor)
	}

	return result, nil
}

// RegionOverlay draws the sampling grid of region over a copy of img: grid
// lines every spacing pixels inside the region, a two pixel border around
// it and a label in the top-left corner.
func RegionOverlay(img image.Image, region image.Rectangle, spacing int, label string) (*image.NRGBA, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("grid spacing must be positive, got %d", spacing)
	}
	if region.Empty() {
		return nil, fmt.Errorf("overlay region (%d,%d)-(%d,%d) is empty",
			region.Min.X, region.Min.Y, region.Max.X, region.Max.Y)
	}

	result := imaging.Clone(img)

	for x := region.Min.X; x <= region.Max.X; x += spacing {
		blendRect(result, image.Rect(x, region.Min.Y, x+1, region.Max.Y), GridColor)
	}
	for y := region.Min.Y; y <= region.Max.Y; y += spacing {
		blendRect(result, image.Rect(region.Min.X, y, region.Max.X, y+1), GridColor)
	}

	drawBorder(result, region, 2, BorderColor)
	if label != "" {
		drawLabel(result, region.Min.X+4, region.Min.Y+4, label, BorderColor)
	}

	return result, nil
}

// blendRect composites c over r, clipped to the image.
func blendRect(dst *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

// drawBorder outlines r with an inward border of the given width.
func drawBorder(dst *image.NRGBA, r image.Rectangle, width int, c color.NRGBA) {
	if width*2 >= r.Dx() || width*2 >= r.Dy() {
		blendRect(dst, r, c)
		return
	}
	blendRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+width), c)
	blendRect(dst, image.Rect(r.Min.X, r.Max.Y-width, r.Max.X, r.Max.Y), c)
	blendRect(dst, image.Rect(r.Min.X, r.Min.Y+width, r.Min.X+width, r.Max.Y-width), c)
	blendRect(dst, image.Rect(r.Max.X-width, r.Min.Y+width, r.Max.X, r.Max.Y-width), c)
}

// drawLabel renders text with its top-left corner at (x, y).
func drawLabel(dst *image.NRGBA, x, y int, text string, c color.NRGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y + face.Ascent)},
	}
	d.DrawString(text)
}
