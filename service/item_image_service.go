package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

// Image errors
var (
	ErrUnsupportedImageRef = errors.New("unsupported image reference")
	ErrImageSourceDisabled = errors.New("image source is not configured")
	ErrUnknownImageSize    = errors.New("unknown image size")
	ErrNotAnImage          = errors.New("file is not an image")
)

const driveRefPrefix = "drive:"

// ItemImageServiceInterface defines the contract for serving item images
type ItemImageServiceInterface interface {
	GetImage(ctx context.Context, ref string, size ImageSize) ([]byte, error)
}

// ItemImageService serves optimized catalog item images.
//
// An item's image reference is either a document store file path
// ("/files/coffee.png", "/private/files/...") or a Drive file ("drive:<fileID>").
// Renditions are cached on disk.
type ItemImageService struct {
	files FileFetcherInterface
	drive DriveServiceInterface
	cache *ImageCache
}

// Ensure ItemImageService implements ItemImageServiceInterface
var _ ItemImageServiceInterface = (*ItemImageService)(nil)

// NewItemImageService creates a new ItemImageService. drive may be nil when
// no Drive credentials are configured.
func NewItemImageService(files FileFetcherInterface, drive DriveServiceInterface, cache *ImageCache) *ItemImageService {
	return &ItemImageService{
		files: files,
		drive: drive,
		cache: cache,
	}
}

// GetImage returns the JPEG rendition of an item image
func (s *ItemImageService) GetImage(ctx context.Context, ref string, size ImageSize) ([]byte, error) {
	ref = strings.TrimSpace(ref)
	if strings.Contains(ref, "..") {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedImageRef, ref)
	}
	if _, ok := renditions[size]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownImageSize, size)
	}

	if data, ok := s.cache.Read(ref, size); ok {
		log.Printf("✓ Image cache hit: %s (%s)", ref, size)
		return data, nil
	}

	original, err := s.download(ctx, ref)
	if err != nil {
		return nil, err
	}

	optimized, err := OptimizeImage(original, size)
	if err != nil {
		return nil, fmt.Errorf("failed to optimize %s: %w", ref, err)
	}

	// A failed cache write only costs a re-download next time.
	if err := s.cache.Save(ref, size, optimized); err != nil {
		log.Printf("⚠️  %v", err)
	}
	return optimized, nil
}

func (s *ItemImageService) download(ctx context.Context, ref string) ([]byte, error) {
	switch {
	case strings.HasPrefix(ref, driveRefPrefix):
		if s.drive == nil {
			return nil, fmt.Errorf("%w: drive", ErrImageSourceDisabled)
		}
		fileID := strings.TrimPrefix(ref, driveRefPrefix)
		if fileID == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedImageRef, ref)
		}
		return s.drive.DownloadImage(ctx, fileID)
	case strings.HasPrefix(ref, "/files/"), strings.HasPrefix(ref, "/private/files/"):
		if s.files == nil {
			return nil, fmt.Errorf("%w: document store", ErrImageSourceDisabled)
		}
		return s.files.Fetch(ctx, ref)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedImageRef, ref)
}
