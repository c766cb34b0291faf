// Package storage holds the blob store backends that keep uploaded file
// bytes. Metadata (filename, content type) lives in the relational store;
// backends only see opaque object keys.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned when no object exists under a key.
var ErrObjectNotFound = errors.New("object not found")

// BlobStore streams objects in and out of a backend.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
