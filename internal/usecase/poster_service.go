package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hszk-dev/cinegraph/internal/domain/repository"
)

// maxPosterBytes bounds a single poster download in the warm path.
// w500 posters are well under this.
const maxPosterBytes = 4 << 20

// PosterService serves poster images through a warm object-store cache.
// A store hit never touches the catalog; a miss streams from the catalog
// and enqueues a warm task so the next request hits the store.
type PosterService interface {
	// GetPoster returns the image stream for a catalog poster path.
	// Returns repository.ErrPosterNotFound when neither the store nor the
	// catalog has it. Caller closes the ReadCloser.
	GetPoster(ctx context.Context, path string) (io.ReadCloser, error)

	// WarmPoster fetches a poster from the catalog and uploads it to the
	// store. Idempotent: an already-warmed path is a no-op.
	WarmPoster(ctx context.Context, path string) error
}

type posterService struct {
	catalog CatalogService
	storage repository.PosterStorage
	queue   repository.MessageQueue
}

// NewPosterService creates a PosterService instance. queue may be nil in
// the worker, which warms directly and never publishes.
func NewPosterService(catalog CatalogService, storage repository.PosterStorage, queue repository.MessageQueue) PosterService {
	return &posterService{
		catalog: catalog,
		storage: storage,
		queue:   queue,
	}
}

func (s *posterService) GetPoster(ctx context.Context, path string) (io.ReadCloser, error) {
	stored, err := s.storage.Download(ctx, path)
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, repository.ErrPosterNotFound) {
		// Degraded store: log and serve from the catalog instead
		slog.Warn("poster store lookup failed, serving from catalog",
			"path", path,
			"error", err,
		)
	}

	stream, err := s.catalog.GetImage(ctx, path)
	if err != nil {
		return nil, err
	}

	if s.queue != nil {
		if err := s.queue.PublishPosterWarmTask(ctx, repository.PosterWarmTask{Path: path}); err != nil {
			// Warm failure is non-critical; the poster still reaches the client
			slog.Warn("failed to enqueue poster warm task",
				"path", path,
				"error", err,
			)
		}
	}

	return stream, nil
}

func (s *posterService) WarmPoster(ctx context.Context, path string) error {
	exists, err := s.storage.Exists(ctx, path)
	if err != nil {
		return fmt.Errorf("check poster: %w", err)
	}
	if exists {
		return nil
	}

	stream, err := s.catalog.GetImage(ctx, path)
	if err != nil {
		return fmt.Errorf("fetch poster: %w", err)
	}
	defer stream.Close()

	// Buffer before upload so a broken download never stores a truncated
	// object.
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(stream, maxPosterBytes)); err != nil {
		return fmt.Errorf("read poster: %w", err)
	}

	if err := s.storage.Upload(ctx, path, &buf, int64(buf.Len()), "image/jpeg"); err != nil {
		return fmt.Errorf("store poster: %w", err)
	}
	return nil
}
