// Package detection recovers the layout of rasterized pixel art.
//
// A pixel-art image exported at an arbitrary size is made of flat square
// blocks, one per logical pixel, possibly surrounded by a background and
// softened by antialiasing at block edges. This package answers three
// questions about such an image:
//
//   - What is the background? EstimateBackground takes the per-channel median
//     of the border pixels, preferring opaque samples.
//   - Where is the art? DetectContent returns the tight content box, using the
//     alpha channel when the image has transparency and the background color
//     otherwise. ExpandToSquare grows that box to a square anchored at its
//     top-left corner.
//   - How large is one logical pixel? InferPixelSize histograms the lengths of
//     flat color runs along sampled rows and columns and picks the dominant
//     length, guided by the size implied by the requested output resolution.
//
// # Algorithm Overview
//
//  1. Background estimation over the four border lines
//  2. Content box detection (alpha mode or background mode)
//  3. Square expansion, sliding only when the square would overflow the image
//  4. Run-length histogram over up to 16 rows and 16 columns
//  5. Outlier filtering to [expected/4, expected*4] and dominant length selection
//
// Every function is a pure computation over an in-memory image; inputs are
// never modified.
//
// # Coordinate System
//
// All rectangles are half-open image.Rectangle values:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
package detection
