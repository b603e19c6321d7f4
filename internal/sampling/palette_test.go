package sampling

import (
	"image/color"
	"math"
	"reflect"
	"testing"
)

var testColors = []color.NRGBA{
	{255, 0, 0, 255},
	{250, 4, 2, 255},
	{0, 0, 255, 255},
	{255, 0, 0, 255},
	{0, 0, 0, 255},
	{255, 255, 255, 255},
	{3, 0, 250, 255},
	{128, 128, 128, 255},
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b color.NRGBA
		want float64
	}{
		{"identical", color.NRGBA{10, 20, 30, 255}, color.NRGBA{10, 20, 30, 255}, 0},
		{"alpha ignored", color.NRGBA{10, 20, 30, 0}, color.NRGBA{10, 20, 30, 255}, 0},
		{"black to white", color.NRGBA{0, 0, 0, 255}, color.NRGBA{255, 255, 255, 255}, 1},
		{"one channel full", color.NRGBA{0, 0, 0, 255}, color.NRGBA{255, 0, 0, 255}, 1 / math.Sqrt(3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Distance: got %f, want %f", got, tt.want)
			}
		})
	}
}

func TestMergePalette_ZeroTolerance(t *testing.T) {
	got := MergePalette(testColors, 0)
	if !reflect.DeepEqual(got, testColors) {
		t.Errorf("MergePalette(0): got %v, want input unchanged", got)
	}
}

func TestMergePalette_MaxTolerance(t *testing.T) {
	got := MergePalette(testColors, 1.0)
	if len(got) != len(testColors) {
		t.Fatalf("len: got %d, want %d", len(got), len(testColors))
	}
	for i, c := range got {
		if c != testColors[0] {
			t.Errorf("color %d: got %v, want first color %v", i, c, testColors[0])
		}
	}
}

func TestMergePalette_NearDuplicates(t *testing.T) {
	got := MergePalette(testColors, 0.05)
	want := []color.NRGBA{
		{255, 0, 0, 255},
		{255, 0, 0, 255}, // merged into red
		{0, 0, 255, 255},
		{255, 0, 0, 255},
		{0, 0, 0, 255},
		{255, 255, 255, 255},
		{0, 0, 255, 255}, // merged into blue
		{128, 128, 128, 255},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergePalette(0.05): got %v, want %v", got, want)
	}
}

func TestMergePalette_FirstMatchNotNearest(t *testing.T) {
	a := color.NRGBA{100, 100, 100, 255}
	b := color.NRGBA{140, 100, 100, 255}
	c := color.NRGBA{135, 100, 100, 255} // nearer to b, but a is within tolerance

	tol := Distance(a, c) + 1e-9
	if Distance(a, b) <= tol {
		t.Fatal("test setup: a and b must stay separate clusters")
	}

	got := MergePalette([]color.NRGBA{a, b, c}, tol)
	if got[2] != a {
		t.Errorf("third color: got %v, want first matching cluster %v", got[2], a)
	}
}

func TestMergePalette_OrderDependent(t *testing.T) {
	a := color.NRGBA{0, 0, 0, 255}
	b := color.NRGBA{20, 20, 20, 255}

	forward := MergePalette([]color.NRGBA{a, b}, 0.1)
	backward := MergePalette([]color.NRGBA{b, a}, 0.1)

	if forward[1] != a || backward[1] != b {
		t.Errorf("representative should be the first color seen: forward %v, backward %v", forward, backward)
	}
}

func TestMergePalette_Empty(t *testing.T) {
	if got := MergePalette(nil, 0.5); len(got) != 0 {
		t.Errorf("MergePalette(nil): got %v", got)
	}
}

func TestPalette(t *testing.T) {
	p := palette{tolerance: 0.05}
	for _, c := range testColors {
		p.assign(c)
	}

	want := []color.NRGBA{
		{255, 0, 0, 255},
		{0, 0, 255, 255},
		{0, 0, 0, 255},
		{255, 255, 255, 255},
		{128, 128, 128, 255},
	}
	if !reflect.DeepEqual(p.reps, want) {
		t.Errorf("representatives: got %v, want %v", p.reps, want)
	}
}

func TestPalette_ZeroValue(t *testing.T) {
	var p palette
	if got := p.assign(color.NRGBA{1, 2, 3, 255}); got != (color.NRGBA{1, 2, 3, 255}) {
		t.Errorf("assign: got %v", got)
	}
	if len(p.reps) != 1 {
		t.Errorf("clusters: got %d, want 1", len(p.reps))
	}
}

func TestMergePalette_ScaledTolerance(t *testing.T) {
	black := color.NRGBA{0, 0, 0, 255}
	nearBlack := color.NRGBA{26, 0, 0, 255}

	// 26/255 is just over 0.1 raw but under 0.1 once scaled by √3
	got := MergePalette([]color.NRGBA{black, nearBlack}, 0.1)
	if got[1] != black {
		t.Errorf("tolerance 0.1: got %v, want %v merged into black", got[1], black)
	}

	got = MergePalette([]color.NRGBA{black, nearBlack}, 0.05)
	if got[1] != nearBlack {
		t.Errorf("tolerance 0.05: got %v, want %v kept", got[1], nearBlack)
	}
}
