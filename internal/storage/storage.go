package storage

import (
	"context"
	"errors"
	"io"
)

var ErrObjectNotFound = errors.New("object not found")

// Object is an opened stored image.
type Object struct {
	io.ReadCloser
	Size        int64
	ContentType string
}

// ImageStore persists uploaded images under flat, caller-chosen names.
type ImageStore interface {
	Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, name string) (*Object, error)
	// Remove deletes name; removing a missing object is not an error.
	Remove(ctx context.Context, name string) error
}
