package service

import "context"

// DriveServiceInterface defines the contract for Google Drive operations
type DriveServiceInterface interface {
	DownloadImage(ctx context.Context, fileID string) ([]byte, error)
}

// FileFetcherInterface fetches files served by the document store
type FileFetcherInterface interface {
	Fetch(ctx context.Context, path string) ([]byte, error)
}
