package storage

import (
	"context"
	"fmt"

	"github.com/Govind-619/ScentSphere/config"
)

// New builds the disk selected by STORAGE_DRIVER
func New(ctx context.Context, cfg *config.Config) (Disk, error) {
	switch cfg.StorageDriver {
	case "", "local":
		return NewLocalDisk(cfg.UploadDir, cfg.PublicURL)
	case "s3":
		return NewS3Disk(ctx, S3Options{
			Bucket:   cfg.S3Bucket,
			Region:   cfg.S3Region,
			Key:      cfg.S3Key,
			Secret:   cfg.S3Secret,
			Endpoint: cfg.S3Endpoint,
			BaseURL:  cfg.S3URL,
		})
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.StorageDriver)
	}
}
