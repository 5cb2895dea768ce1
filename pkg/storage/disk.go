// Package storage is the filesystem abstraction behind cover image uploads.
//
// Two drivers are available:
//   - "local": files under STORAGE_LOCAL_ROOT, served on /storage
//   - "s3":    S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
//	storage.Connect(ctx)
//	disk, _ := storage.Default()
//	_ = disk.Put(ctx, "books/cover.png", r, "image/png")
//	url := disk.URL("books/cover.png")
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get for a missing object.
var ErrNotFound = errors.New("storage: object not found")

// Disk is the driver interface every backend implements.
type Disk interface {
	// Name is the driver name used in logs and metrics.
	Name() string

	// Put writes r to path, creating parent directories where relevant.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error

	// Get returns a reader for path. The caller must close it.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists reports whether an object exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes path. Missing objects are not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL for path.
	URL(path string) string

	// PathFromURL is the inverse of URL. ok is false for URLs this disk did
	// not produce.
	PathFromURL(url string) (path string, ok bool)
}
