package service

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ImageSize is a rendition of a catalog image
type ImageSize string

const (
	ImageThumb  ImageSize = "thumb"
	ImageMedium ImageSize = "medium"
)

type rendition struct {
	maxDim  int
	quality int
}

var renditions = map[ImageSize]rendition{
	ImageThumb:  {maxDim: 300, quality: 60},
	ImageMedium: {maxDim: 800, quality: 75},
}

// ParseImageSize maps a query value to a size; empty means medium
func ParseImageSize(s string) (ImageSize, error) {
	if s == "" {
		return ImageMedium, nil
	}
	size := ImageSize(s)
	if _, ok := renditions[size]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownImageSize, s)
	}
	return size, nil
}

// ImageCache stores optimized renditions on disk
type ImageCache struct {
	dir string
}

// NewImageCache creates the cache directory if needed
func NewImageCache(dir string) (*ImageCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &ImageCache{dir: dir}, nil
}

// Path returns the cache file for an image reference and size. References
// are hashed into a name-based UUID so any ref maps to a safe file name.
func (c *ImageCache) Path(ref string, size ImageSize) string {
	key := uuid.NewSHA1(uuid.NameSpaceURL, []byte(ref))
	return filepath.Join(c.dir, fmt.Sprintf("item_%s_%s.jpg", key, size))
}

// Read returns a cached rendition, or false when it is not cached
func (c *ImageCache) Read(ref string, size ImageSize) ([]byte, bool) {
	data, err := os.ReadFile(c.Path(ref, size))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Save stores a rendition
func (c *ImageCache) Save(ref string, size ImageSize, data []byte) error {
	path := c.Path(ref, size)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	log.Printf("✓ Image cached: %s", path)
	return nil
}

// OptimizeImage decodes any supported image, fits it inside the size's
// bounding box and re-encodes it as JPEG. Smaller images are not upscaled.
func OptimizeImage(imageData []byte, size ImageSize) ([]byte, error) {
	r, ok := renditions[size]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownImageSize, size)
	}

	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > r.maxDim || bounds.Dy() > r.maxDim {
		img = imaging.Fit(img, r.maxDim, r.maxDim, imaging.Lanczos)
		log.Printf("🔄 Resized image: %dx%d -> %dx%d", bounds.Dx(), bounds.Dy(), img.Bounds().Dx(), img.Bounds().Dy())
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(r.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
