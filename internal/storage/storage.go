// Package storage keeps advertisement image blobs outside the database.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrEmptyKey = errors.New("storage: empty key")

// BlobStore saves and removes opaque objects addressed by key
type BlobStore interface {
	// Put stores the object and returns the public URL it is served from
	Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
