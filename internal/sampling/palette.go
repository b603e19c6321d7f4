package sampling

import (
	"image/color"
	"math"

	"github.com/ironsheep/pixelgrid/internal/imaging"
)

// maxRGBDistance is the diagonal of the unit RGB cube.
var maxRGBDistance = math.Sqrt(3)

// Distance is the Euclidean distance between the RGB channels of a and b in
// normalized space, scaled so black to white is 1 (the raw unit-cube
// distance divided by √3). Alpha is ignored.
func Distance(a, b color.NRGBA) float64 {
	return imaging.Normalize(a).DistanceRgb(imaging.Normalize(b)) / maxRGBDistance
}

// palette groups colors into clusters on first match. Each cluster is
// represented by the first color that created it. The zero value is an
// empty palette ready to use.
type palette struct {
	tolerance float64
	reps      []color.NRGBA
}

// assign returns the representative for c: the first existing cluster in
// insertion order whose representative is within tolerance, or c itself as
// the representative of a new cluster.
func (p *palette) assign(c color.NRGBA) color.NRGBA {
	for _, rep := range p.reps {
		if Distance(c, rep) <= p.tolerance {
			return rep
		}
	}
	p.reps = append(p.reps, c)
	return c
}

// MergePalette replaces every color by the representative of its cluster.
//
// Colors are processed in order; each joins the first cluster whose
// representative lies within tolerance (0 keeps only exact RGB matches
// together, 1 merges everything). The result has the same length and order
// as colors. Assignment is first-match, not nearest-match, so the output
// depends on input order.
func MergePalette(colors []color.NRGBA, tolerance float64) []color.NRGBA {
	p := palette{tolerance: tolerance}
	merged := make([]color.NRGBA, len(colors))
	for i, c := range colors {
		merged[i] = p.assign(c)
	}
	return merged
}
