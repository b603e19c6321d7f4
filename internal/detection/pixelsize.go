package detection

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/ironsheep/pixelgrid/internal/imaging"
)

const (
	// maxSampleLines caps the number of rows and of columns scanned.
	maxSampleLines = 16

	// sampleDivisions sets the scan step to a region dimension divided by it.
	sampleDivisions = 8
)

// InferOptions controls pixel size inference.
type InferOptions struct {
	// TargetSize is the requested output side length N in logical pixels.
	TargetSize int

	// Background, when set, marks pixels within BackgroundThreshold of it
	// as background. Pixels with alpha 0 are always background.
	Background *color.NRGBA

	// BackgroundThreshold is the per-channel tolerance against Background.
	BackgroundThreshold int

	// RunThreshold is the per-channel tolerance between a pixel and the
	// first pixel of the current run for the run to continue.
	RunThreshold int
}

// ExpectedPixelSize is the size prior max(width, height)/target rounded
// half to even, never below 1.
func ExpectedPixelSize(region image.Rectangle, target int) int {
	side := region.Dx()
	if region.Dy() > side {
		side = region.Dy()
	}
	expected := int(math.RoundToEven(float64(side) / float64(target)))
	if expected < 1 {
		return 1
	}
	return expected
}

// InferPixelSize estimates how many source pixels one logical pixel spans
// inside region.
//
// Up to 16 evenly spaced rows and 16 columns are walked and split into runs
// of mutually close, non-background pixels. Run lengths outside
// [max(1, expected/4), expected*4] are dropped, and the most frequent
// remaining length wins (see DominantRunLength). With no usable runs the
// prior from ExpectedPixelSize is returned. The result is clamped to
// [1, min(width, height)].
func InferPixelSize(img *image.NRGBA, region image.Rectangle, opts InferOptions) (int, error) {
	if opts.TargetSize <= 0 {
		return 0, fmt.Errorf("target size must be positive, got %d", opts.TargetSize)
	}
	region = region.Intersect(img.Bounds())
	if region.Empty() {
		return 0, fmt.Errorf("inference region is empty")
	}

	width, height := region.Dx(), region.Dy()
	expected := ExpectedPixelSize(region, opts.TargetSize)

	var runs []int
	line := make([]color.NRGBA, 0, max(width, height))

	for _, y := range sampleLines(region.Min.Y, region.Max.Y) {
		line = line[:0]
		for x := region.Min.X; x < region.Max.X; x++ {
			line = append(line, img.NRGBAAt(x, y))
		}
		runs = appendRuns(runs, line, opts)
	}
	for _, x := range sampleLines(region.Min.X, region.Max.X) {
		line = line[:0]
		for y := region.Min.Y; y < region.Max.Y; y++ {
			line = append(line, img.NRGBAAt(x, y))
		}
		runs = appendRuns(runs, line, opts)
	}

	lower := max(1, expected/4)
	upper := expected * 4
	filtered := runs[:0]
	for _, r := range runs {
		if r >= lower && r <= upper {
			filtered = append(filtered, r)
		}
	}

	inferred, ok := DominantRunLength(filtered, expected)
	if !ok {
		return expected, nil
	}

	inferred = max(1, inferred)
	inferred = min(inferred, max(1, min(width, height)))
	return inferred, nil
}

// sampleLines picks scanline coordinates in [from, to): every
// (to-from)/8-th coordinate, at most 16 of them.
func sampleLines(from, to int) []int {
	step := max(1, (to-from)/sampleDivisions)

	var lines []int
	for v := from; v < to && len(lines) < maxSampleLines; v += step {
		lines = append(lines, v)
	}
	if len(lines) == 0 {
		lines = append(lines, from+(to-from)/2)
	}
	return lines
}

// appendRuns splits line into runs and appends their lengths to runs.
//
// A run continues while each pixel is within RunThreshold of the run's first
// pixel. Entering a background pixel ends the current run; leaving the
// background starts a new one.
func appendRuns(runs []int, line []color.NRGBA, opts InferOptions) []int {
	if len(line) == 0 {
		return runs
	}

	isBackground := func(c color.NRGBA) bool {
		if c.A == 0 {
			return true
		}
		return opts.Background != nil && imaging.Close(c, *opts.Background, opts.BackgroundThreshold)
	}

	last := line[0]
	lastBG := isBackground(last)
	length := 1
	if lastBG {
		length = 0
	}

	for _, c := range line[1:] {
		switch {
		case isBackground(c):
			if !lastBG && length > 0 {
				runs = append(runs, length)
			}
			last, lastBG, length = c, true, 0
		case lastBG:
			last, lastBG, length = c, false, 1
		case imaging.Close(c, last, opts.RunThreshold):
			// last stays the first pixel of the run
			length++
		default:
			runs = append(runs, length)
			last, length = c, 1
		}
	}

	if length > 0 && !lastBG {
		runs = append(runs, length)
	}
	return runs
}

// RunFrequency is one entry of a run length histogram.
type RunFrequency struct {
	Length int
	Count  int
}

// RunHistogram counts run lengths and returns the entries ordered by
// preference: highest count first, then the length closest to expected,
// then the longer length.
func RunHistogram(runs []int, expected int) []RunFrequency {
	counts := make(map[int]int)
	for _, r := range runs {
		counts[r]++
	}

	hist := make([]RunFrequency, 0, len(counts))
	for length, count := range counts {
		hist = append(hist, RunFrequency{Length: length, Count: count})
	}

	sort.Slice(hist, func(i, j int) bool {
		a, b := hist[i], hist[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		da, db := absInt(a.Length-expected), absInt(b.Length-expected)
		if da != db {
			return da < db
		}
		return a.Length > b.Length
	})
	return hist
}

// DominantRunLength returns the preferred run length from RunHistogram.
// The boolean is false when runs is empty.
func DominantRunLength(runs []int, expected int) (int, bool) {
	hist := RunHistogram(runs, expected)
	if len(hist) == 0 {
		return 0, false
	}
	return hist[0].Length, true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
