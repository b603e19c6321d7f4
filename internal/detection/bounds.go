package detection

import (
	"errors"
	"image"
	"image/color"

	"github.com/ironsheep/pixelgrid/internal/imaging"
)

// ErrEmptyContent is returned when an image has no visible or
// non-background pixels.
var ErrEmptyContent = errors.New("no content detected")

// Mode tells how content was separated from the background.
type Mode int

const (
	// ModeAlpha means the image carries real transparency and content is
	// every pixel with alpha > 0.
	ModeAlpha Mode = iota

	// ModeBackground means the image is fully opaque and content is every
	// pixel not within the threshold of the estimated background color.
	ModeBackground
)

func (m Mode) String() string {
	switch m {
	case ModeAlpha:
		return "alpha"
	case ModeBackground:
		return "background"
	default:
		return "unknown"
	}
}

// Content is the result of DetectContent.
type Content struct {
	// Bounds is the tight half-open box around the content.
	Bounds image.Rectangle

	// Mode is the detection mode that produced Bounds.
	Mode Mode

	// Background is the estimated background color. It is only meaningful
	// in ModeBackground.
	Background color.NRGBA
}

// DetectContent finds the bounding box of the visible content of img.
//
// If the alpha channel is not uniformly 255 the box encloses every pixel
// with alpha > 0. Otherwise the background is estimated from the border and
// the box encloses every pixel whose R, G or B differs from it by more than
// threshold. There is no padding around the detected extent.
//
// ErrEmptyContent is returned for fully transparent and solid-color images.
func DetectContent(img *image.NRGBA, threshold int) (Content, error) {
	lo, hi := imaging.AlphaExtrema(img)
	if hi == 0 {
		return Content{}, ErrEmptyContent
	}

	if lo < 255 {
		r, ok := imaging.AlphaBounds(img)
		if !ok {
			return Content{}, ErrEmptyContent
		}
		return Content{Bounds: r, Mode: ModeAlpha}, nil
	}

	bg := EstimateBackground(img)
	r, ok := boundsUnlike(img, bg, threshold)
	if !ok {
		return Content{}, ErrEmptyContent
	}
	return Content{Bounds: r, Mode: ModeBackground, Background: bg}, nil
}

// boundsUnlike returns the tight box around pixels not close to bg.
func boundsUnlike(img *image.NRGBA, bg color.NRGBA, threshold int) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if imaging.Close(img.NRGBAAt(x, y), bg, threshold) {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// ExpandToSquare grows r into a square whose side is the larger of r's width
// and height, keeping r's top-left corner. The square only slides left or up
// when it would overflow the image. When the side exceeds the smaller image
// dimension it is capped there, so the result always fits inside bounds.
func ExpandToSquare(r image.Rectangle, bounds image.Rectangle) image.Rectangle {
	side := r.Dx()
	if r.Dy() > side {
		side = r.Dy()
	}
	if side > bounds.Dx() {
		side = bounds.Dx()
	}
	if side > bounds.Dy() {
		side = bounds.Dy()
	}

	left, top := r.Min.X, r.Min.Y
	if left+side > bounds.Max.X {
		left = max(bounds.Min.X, bounds.Max.X-side)
	}
	if top+side > bounds.Max.Y {
		top = max(bounds.Min.Y, bounds.Max.Y-side)
	}

	return image.Rect(left, top, left+side, top+side)
}
