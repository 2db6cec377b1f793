// Package storage stores uploaded files on the local filesystem or an
// S3-compatible bucket (AWS S3, MinIO, R2, Spaces).
//
//	disk, err := storage.FromConfig(ctx)
//	err = disk.Put(ctx, "products/12/cover.jpg", file, "image/jpeg")
//	url := disk.URL("products/12/cover.jpg")
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/shashiranjanraj/liftstore/config"
)

// ErrInvalidPath is returned for keys that are empty or escape the root.
var ErrInvalidPath = errors.New("storage: invalid path")

// Disk is a flat object store keyed by slash-separated paths.
type Disk interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	// Delete returns nil if the object does not exist.
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// URL is the public URL clients fetch the object from.
	URL(key string) string
}

// FromConfig builds the disk named by STORAGE_DISK.
func FromConfig(ctx context.Context) (Disk, error) {
	switch name := config.StorageDefault(); name {
	case "local":
		return NewLocal(config.StorageLocalRoot(), config.StorageURL()), nil
	case "s3":
		return NewS3(ctx, S3Options{
			Bucket:   config.StorageS3Bucket(),
			Region:   config.StorageS3Region(),
			Key:      config.StorageS3Key(),
			Secret:   config.StorageS3Secret(),
			Endpoint: config.StorageS3Endpoint(),
			BaseURL:  config.StorageS3URL(),
		})
	default:
		return nil, fmt.Errorf("storage: unknown disk %q (supported: local, s3)", name)
	}
}

// cleanKey normalises key and rejects anything that would climb out of the
// disk root.
func cleanKey(key string) (string, error) {
	k := strings.TrimLeft(path.Clean("/"+strings.ReplaceAll(key, "\\", "/")), "/")
	if k == "" || k == "." || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, key)
	}
	return k, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
