package imaging

import "image"

// AlphaExtrema returns the smallest and largest alpha values in img.
// An empty image reports (0, 0).
func AlphaExtrema(img *image.NRGBA) (lo, hi uint8) {
	b := img.Bounds()
	if b.Empty() {
		return 0, 0
	}

	lo, hi = 255, 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			a := img.Pix[i+3]
			if a < lo {
				lo = a
			}
			if a > hi {
				hi = a
			}
			i += 4
		}
	}
	return lo, hi
}

// AlphaBounds returns the tight half-open rectangle enclosing every pixel
// with alpha > 0. The boolean is false when no such pixel exists.
func AlphaBounds(img *image.NRGBA) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.Pix[i+3] > 0 {
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
			i += 4
		}
	}

	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}
