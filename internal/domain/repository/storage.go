package repository

import (
	"context"
	"io"
	"time"
)

// PosterStorage defines the interface for the warm poster store.
// Implementations should be provided by the infrastructure layer (e.g., MinIO).
// Keys are catalog-relative poster paths (e.g., "/abc123.jpg").
type PosterStorage interface {
	// Upload stores a poster image under its catalog path.
	Upload(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error

	// Download retrieves a stored poster. Returns ErrPosterNotFound when
	// the path has not been warmed. Caller closes the ReadCloser.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists reports whether a poster has been warmed.
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes a stored poster.
	Delete(ctx context.Context, path string) error
}

// ObjectInfo contains metadata about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
}
