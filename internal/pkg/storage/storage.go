// Package storage keeps uploaded blobs. Paths are relative and slash separated.
package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound    = errors.New("storage: object not found")
	ErrInvalidPath = errors.New("storage: invalid path")
)

type Storage interface {
	Save(ctx context.Context, path string, content io.Reader) error
	// Get fails with ErrNotFound when nothing is stored at path.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete is a no-op for missing paths.
	Delete(ctx context.Context, path string) error
}
