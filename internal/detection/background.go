package detection

import (
	"image"
	"image/color"
	"sort"
)

// OpaqueAlpha is the alpha value at or above which a border pixel counts as
// an opaque background sample.
const OpaqueAlpha = 250

// EstimateBackground estimates the background color of img from its border.
//
// Every pixel of the top row, bottom row, left column and right column is
// collected. When at least one of them has alpha >= OpaqueAlpha only those
// opaque samples are kept, so antialiased transparent edges do not drag the
// estimate. The result is the per-channel median of R, G and B (the mean of
// the two middle values, rounded down, for an even count) with alpha 255.
//
// An empty image yields fully transparent black.
func EstimateBackground(img *image.NRGBA) color.NRGBA {
	samples := borderPixels(img)

	opaque := samples[:0:0]
	for _, c := range samples {
		if c.A >= OpaqueAlpha {
			opaque = append(opaque, c)
		}
	}
	if len(opaque) > 0 {
		samples = opaque
	}

	if len(samples) == 0 {
		return color.NRGBA{}
	}

	rs := make([]int, len(samples))
	gs := make([]int, len(samples))
	bs := make([]int, len(samples))
	for i, c := range samples {
		rs[i], gs[i], bs[i] = int(c.R), int(c.G), int(c.B)
	}

	return color.NRGBA{
		R: uint8(median(rs)),
		G: uint8(median(gs)),
		B: uint8(median(bs)),
		A: 255,
	}
}

// borderPixels returns the top and bottom row pixels followed by the left and
// right column pixels. Corners appear twice, once from each pass.
func borderPixels(img *image.NRGBA) []color.NRGBA {
	b := img.Bounds()
	if b.Empty() {
		return nil
	}

	out := make([]color.NRGBA, 0, 2*(b.Dx()+b.Dy()))
	for x := b.Min.X; x < b.Max.X; x++ {
		out = append(out, img.NRGBAAt(x, b.Min.Y), img.NRGBAAt(x, b.Max.Y-1))
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		out = append(out, img.NRGBAAt(b.Min.X, y), img.NRGBAAt(b.Max.X-1, y))
	}
	return out
}

// median sorts values in place.
func median(values []int) int {
	sort.Ints(values)
	mid := len(values) / 2
	if len(values)%2 == 0 {
		return (values[mid-1] + values[mid]) / 2
	}
	return values[mid]
}
