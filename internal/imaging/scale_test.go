package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestEnlarge(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	src.SetNRGBA(1, 0, color.NRGBA{0, 255, 0, 255})
	src.SetNRGBA(0, 1, color.NRGBA{0, 0, 255, 255})
	src.SetNRGBA(1, 1, color.NRGBA{255, 255, 255, 255})

	out, err := Enlarge(src, 4)
	if err != nil {
		t.Fatalf("Enlarge failed: %v", err)
	}
	if out.Bounds() != image.Rect(0, 0, 8, 8) {
		t.Fatalf("bounds: got %v, want 8x8", out.Bounds())
	}

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			want := color.RGBAModel.Convert(src.NRGBAAt(x, y)).(color.RGBA)
			if got := out.RGBAAt(4*x+1, 4*y+1); got != want {
				t.Errorf("block (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestEnlarge_InvalidFactor(t *testing.T) {
	src := createInMemoryImage(2, 2, color.NRGBA{1, 2, 3, 255})
	for _, factor := range []int{0, -3} {
		if _, err := Enlarge(src, factor); err == nil {
			t.Errorf("Enlarge(factor=%d): expected error", factor)
		}
	}
}
