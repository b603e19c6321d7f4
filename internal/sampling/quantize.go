package sampling

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ericpauley/go-quantize/quantize"
)

// MaxPaletteColors is the largest palette ReducePalette can produce.
const MaxPaletteColors = 256

// ReducePalette limits the visible colors to at most maxColors using
// median cut. Fully transparent colors are left untouched and do not take a
// palette slot; every other color keeps its alpha and takes the RGB of its
// palette entry. Input with maxColors or fewer distinct visible colors is
// returned unchanged (as a copy).
func ReducePalette(colors []color.NRGBA, maxColors int) ([]color.NRGBA, error) {
	if maxColors < 1 || maxColors > MaxPaletteColors {
		return nil, fmt.Errorf("%w: max colors must be in [1,%d], got %d", ErrInvalidParameter, MaxPaletteColors, maxColors)
	}

	out := make([]color.NRGBA, len(colors))
	copy(out, colors)

	distinct := make(map[color.NRGBA]struct{})
	visible := make([]color.NRGBA, 0, len(colors))
	for _, c := range colors {
		if c.A == 0 {
			continue
		}
		visible = append(visible, c)
		opaque := c
		opaque.A = 255
		distinct[opaque] = struct{}{}
	}
	if len(distinct) <= maxColors {
		return out, nil
	}

	// lay the visible colors out as a one-row opaque image for the quantizer
	src := image.NewNRGBA(image.Rect(0, 0, len(visible), 1))
	for i, c := range visible {
		c.A = 255
		src.SetNRGBA(i, 0, c)
	}

	q := quantize.MedianCutQuantizer{}
	palette := q.Quantize(make(color.Palette, 0, maxColors), src)
	if len(palette) == 0 {
		return out, nil
	}

	for i, c := range out {
		if c.A == 0 {
			continue
		}
		opaque := c
		opaque.A = 255
		p := color.NRGBAModel.Convert(palette.Convert(opaque)).(color.NRGBA)
		out[i] = color.NRGBA{R: p.R, G: p.G, B: p.B, A: c.A}
	}
	return out, nil
}
