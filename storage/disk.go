// Package storage provides object storage for uploaded files such as
// payment proofs and gift card artwork.
//
// Two drivers are available:
//   - "local": local filesystem (default), served by the API under /uploads
//   - "s3": S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
package storage

import (
	"context"
)

// Disk is the object storage driver interface
type Disk interface {
	// Put writes content to path, replacing any existing object
	Put(ctx context.Context, path string, content []byte, contentType string) error

	// Delete removes an object. Returns nil if it did not exist.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path
	URL(path string) string
}

// Upload stores content on disk under path and returns its public URL
func Upload(ctx context.Context, disk Disk, path string, content []byte, contentType string) (string, error) {
	if err := disk.Put(ctx, path, content, contentType); err != nil {
		return "", err
	}
	return disk.URL(path), nil
}
