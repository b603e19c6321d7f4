package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/transform"
)

// Enlarge scales img up by an integer factor with nearest-neighbour
// sampling, so every source pixel becomes a flat factor×factor block.
func Enlarge(img image.Image, factor int) (*image.RGBA, error) {
	if factor < 1 {
		return nil, fmt.Errorf("scale factor must be at least 1, got %d", factor)
	}
	b := img.Bounds()
	return transform.Resize(img, b.Dx()*factor, b.Dy()*factor, transform.NearestNeighbor), nil
}
