// Package imaging is the image I/O collaborator of the pixel grid pipeline.
//
// It decodes source files into 8-bit non-premultiplied RGBA buffers, writes
// results back to disk, and provides the small set of pixel services the
// detection and sampling stages need: alpha extrema, the alpha bounding box,
// cropping, background clearing, debug overlays and preview enlargement.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, Min is inclusive (top-left) and Max is exclusive (bottom-right)
//
// Images returned by Load, Crop and the overlay functions always have their
// origin at (0,0).
//
// # Immutability
//
// No function mutates its input image. Operations that change pixels work on a
// clone and return it, so a decoded image can be shared between pipeline stages
// and cached by ImageCache.
//
// # Error Handling
//
// Failures to open or decode a file wrap ErrDecode; failures to encode or write
// wrap ErrWrite. Both can be tested with errors.Is.
package imaging
