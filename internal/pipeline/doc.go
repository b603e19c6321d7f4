// Package pipeline wires content detection, pixel size inference, grid
// sampling and palette cleanup into the three operations exposed to users:
//
//   - CropToContent trims an image to its content box and reports the
//     inferred pixel size.
//   - Downscale rebuilds pixel art at its logical N×N resolution.
//   - Analyze reports what the other two would detect without writing.
//
// Each operation validates its options, loads the image through the
// Pipeline's Loader and aborts on the first error. Outputs are written only
// after every image has been produced, and a failed write removes the files
// written before it.
package pipeline
