package imaging

import (
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// ColorResult contains a color value in the two representations used by
// diagnostics: a compact hex string and the raw components.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
}

// NewColorResult converts an 8-bit color to its diagnostic representation.
func NewColorResult(c color.NRGBA) ColorResult {
	return ColorResult{
		Hex:  Hex(c),
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
	}
}

// Close reports whether a and b differ by at most threshold in each of the
// R, G and B channels. Alpha is ignored.
func Close(a, b color.NRGBA, threshold int) bool {
	return absDiff(a.R, b.R) <= threshold &&
		absDiff(a.G, b.G) <= threshold &&
		absDiff(a.B, b.B) <= threshold
}

// Normalize maps the RGB channels of c into [0,1]. Alpha is dropped.
func Normalize(c color.NRGBA) colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// Hex formats the RGB channels of c as "#RRGGBB".
func Hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// FormatColor renders c the way summaries print it: "(r, g, b, a)".
func FormatColor(c color.NRGBA) string {
	return fmt.Sprintf("(%d, %d, %d, %d)", c.R, c.G, c.B, c.A)
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
