package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	"github.com/disintegration/imaging"
)

var (
	// ErrDecode is returned when a source image cannot be opened or decoded.
	ErrDecode = errors.New("cannot decode image")

	// ErrWrite is returned when an image cannot be encoded or written to disk.
	ErrWrite = errors.New("cannot write image")
)

// Load opens and decodes the image at path and converts it to 8-bit
// non-premultiplied RGBA with its origin at (0,0).
//
// Parameters:
//   - path: Absolute or relative file path to the image. Supported formats are
//     PNG, JPEG, and GIF.
//
// Returns:
//   - *image.NRGBA: The decoded image. Palette, grayscale and premultiplied
//     images are converted so every pixel carries independent R, G, B and A.
//   - error: Wraps ErrDecode if the file cannot be opened or decoded.
func Load(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", ErrDecode, path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", ErrDecode, path, err)
	}

	return imaging.Clone(img), nil
}

// Save encodes img to path. The format is chosen from the file extension.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	return nil
}

// CheckOutputPath reports whether Save can encode to path based on its
// extension, without touching the filesystem.
func CheckOutputPath(path string) error {
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	return nil
}

// ImageCache provides thread-safe caching of decoded images to avoid redundant disk reads.
//
// The cache stores decoded *image.NRGBA values keyed by their file path. Once an
// image is loaded, subsequent Load() calls for the same path return the cached
// copy without disk I/O. Callers must treat the returned images as read-only;
// every operation in this module produces new buffers instead of mutating its input.
//
// ImageCache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached images remain in memory until explicitly removed via Evict() or Clear().
// The long-running server evicts an entry whenever a tool writes to that path.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	img, err := cache.Load("/path/to/sprite.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache.Evict("/path/to/sprite.png") // Optional: free memory
type ImageCache struct {
	mu     sync.RWMutex
	images map[string]*image.NRGBA
}

// NewImageCache creates and initializes a new empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images: make(map[string]*image.NRGBA),
	}
}

// Load retrieves an image from the cache or loads it from disk if not cached.
//
// The image is cached using the exact path string provided. Different paths to the
// same file (e.g., relative vs absolute) will result in separate cache entries.
// Failed loads are not cached.
func (c *ImageCache) Load(path string) (*image.NRGBA, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Clear removes all images from the cache, freeing the associated memory.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]*image.NRGBA)
	c.mu.Unlock()
}

// Evict removes a specific image from the cache by its path.
//
// If the path is not in the cache, this method does nothing.
// After eviction, the next Load() call for this path will read from disk.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len reports the number of cached images.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ImageInfo contains metadata about a decoded image.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// AlphaMin is the smallest alpha value found in the image.
	AlphaMin uint8 `json:"alpha_min"`

	// AlphaMax is the largest alpha value found in the image.
	AlphaMax uint8 `json:"alpha_max"`

	// Opaque is true when every pixel has alpha 255.
	Opaque bool `json:"opaque"`
}

// Info reports the dimensions and alpha range of img.
func Info(img *image.NRGBA) ImageInfo {
	lo, hi := AlphaExtrema(img)
	return ImageInfo{
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
		AlphaMin: lo,
		AlphaMax: hi,
		Opaque:   lo == 255 && hi == 255,
	}
}
