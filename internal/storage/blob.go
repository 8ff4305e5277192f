package storage

import (
	"context"
	"io"
	"io/fs"

	"github.com/pkg/errors"
)

// ErrNotFound is matched (via errors.Is) by every store when a key is absent.
var ErrNotFound = fs.ErrNotExist

type BlobStore interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Location describes where key lives, for logs and error messages.
	Location(key string) string
}

// NewStore builds the store named by driver: "fs" or "s3".
func NewStore(ctx context.Context, driver, basePath string, s3c S3Config) (BlobStore, error) {
	switch driver {
	case "", "fs":
		return NewFSStore(basePath)
	case "s3":
		return NewS3Store(ctx, s3c)
	default:
		return nil, errors.Errorf("unsupported rubric driver: %s", driver)
	}
}
