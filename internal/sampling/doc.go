// Package sampling turns a located pixel grid into output colors.
//
// AlignRegion snaps a square content region to a grid of targetSize cells of
// a given pixel size, SampleCenters reads one color per cell at its center,
// and MergePalette optionally folds near-duplicate colors onto a shared
// representative to hide rasterization noise. ReducePalette caps the number
// of distinct colors with median cut.
package sampling
