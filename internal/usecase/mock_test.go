package usecase

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hszk-dev/cinegraph/internal/domain/model"
	"github.com/hszk-dev/cinegraph/internal/domain/repository"
)

// mockCatalogService provides a configurable mock for CatalogService.
// Call counters track how often each catalog query was issued.
type mockCatalogService struct {
	getPopularMoviesFn    func(ctx context.Context, language string) ([]model.Movie, error)
	getMoviesByGenreFn    func(ctx context.Context, genreID int, language string) ([]model.Movie, error)
	getMoviesByCastFn     func(ctx context.Context, personID int, language string) ([]model.Movie, error)
	getMoviesByCrewFn     func(ctx context.Context, personID int, language string) ([]model.Movie, error)
	getMoviesByKeywordsFn func(ctx context.Context, keywordIDs []int, language string) ([]model.Movie, error)
	getSimilarMoviesFn    func(ctx context.Context, movieID int, language string) ([]model.Movie, error)
	searchMoviesFn        func(ctx context.Context, query, language string) ([]model.Movie, error)
	getMovieDetailsFn     func(ctx context.Context, movieID int, language string) (*model.MovieDetails, error)
	getMovieCreditsFn     func(ctx context.Context, movieID int, language string) (*model.Credits, error)
	getMovieKeywordsFn    func(ctx context.Context, movieID int) ([]model.Keyword, error)
	getGenresFn           func(ctx context.Context, language string) ([]model.Genre, error)
	getImageFn            func(ctx context.Context, path string) (io.ReadCloser, error)

	calls atomic.Int32

	popularCalls atomic.Int32
	genreCalls   atomic.Int32
	detailCalls  atomic.Int32
	genresCalls  atomic.Int32
}

func (m *mockCatalogService) GetPopularMovies(ctx context.Context, language string) ([]model.Movie, error) {
	m.calls.Add(1)
	m.popularCalls.Add(1)
	if m.getPopularMoviesFn != nil {
		return m.getPopularMoviesFn(ctx, language)
	}
	return []model.Movie{}, nil
}

func (m *mockCatalogService) GetMoviesByGenre(ctx context.Context, genreID int, language string) ([]model.Movie, error) {
	m.calls.Add(1)
	m.genreCalls.Add(1)
	if m.getMoviesByGenreFn != nil {
		return m.getMoviesByGenreFn(ctx, genreID, language)
	}
	return []model.Movie{}, nil
}

func (m *mockCatalogService) GetMoviesByCast(ctx context.Context, personID int, language string) ([]model.Movie, error) {
	m.calls.Add(1)
	if m.getMoviesByCastFn != nil {
		return m.getMoviesByCastFn(ctx, personID, language)
	}
	return []model.Movie{}, nil
}

func (m *mockCatalogService) GetMoviesByCrew(ctx context.Context, personID int, language string) ([]model.Movie, error) {
	m.calls.Add(1)
	if m.getMoviesByCrewFn != nil {
		return m.getMoviesByCrewFn(ctx, personID, language)
	}
	return []model.Movie{}, nil
}

func (m *mockCatalogService) GetMoviesByKeywords(ctx context.Context, keywordIDs []int, language string) ([]model.Movie, error) {
	m.calls.Add(1)
	if m.getMoviesByKeywordsFn != nil {
		return m.getMoviesByKeywordsFn(ctx, keywordIDs, language)
	}
	return []model.Movie{}, nil
}

func (m *mockCatalogService) GetSimilarMovies(ctx context.Context, movieID int, language string) ([]model.Movie, error) {
	m.calls.Add(1)
	if m.getSimilarMoviesFn != nil {
		return m.getSimilarMoviesFn(ctx, movieID, language)
	}
	return []model.Movie{}, nil
}

func (m *mockCatalogService) SearchMovies(ctx context.Context, query, language string) ([]model.Movie, error) {
	m.calls.Add(1)
	if m.searchMoviesFn != nil {
		return m.searchMoviesFn(ctx, query, language)
	}
	return []model.Movie{}, nil
}

func (m *mockCatalogService) GetMovieDetails(ctx context.Context, movieID int, language string) (*model.MovieDetails, error) {
	m.calls.Add(1)
	m.detailCalls.Add(1)
	if m.getMovieDetailsFn != nil {
		return m.getMovieDetailsFn(ctx, movieID, language)
	}
	return nil, repository.ErrMovieNotFound
}

func (m *mockCatalogService) GetMovieCredits(ctx context.Context, movieID int, language string) (*model.Credits, error) {
	m.calls.Add(1)
	if m.getMovieCreditsFn != nil {
		return m.getMovieCreditsFn(ctx, movieID, language)
	}
	return nil, repository.ErrMovieNotFound
}

func (m *mockCatalogService) GetMovieKeywords(ctx context.Context, movieID int) ([]model.Keyword, error) {
	m.calls.Add(1)
	if m.getMovieKeywordsFn != nil {
		return m.getMovieKeywordsFn(ctx, movieID)
	}
	return []model.Keyword{}, nil
}

func (m *mockCatalogService) GetGenres(ctx context.Context, language string) ([]model.Genre, error) {
	m.calls.Add(1)
	m.genresCalls.Add(1)
	if m.getGenresFn != nil {
		return m.getGenresFn(ctx, language)
	}
	return []model.Genre{}, nil
}

func (m *mockCatalogService) GetImage(ctx context.Context, path string) (io.ReadCloser, error) {
	m.calls.Add(1)
	if m.getImageFn != nil {
		return m.getImageFn(ctx, path)
	}
	return nil, repository.ErrPosterNotFound
}

// mockResponseCache is an in-memory cache.ResponseCache for testing.
type mockResponseCache struct {
	mu    sync.Mutex
	data  map[string][]byte
	getFn func(ctx context.Context, key string) ([]byte, bool, error)
	setFn func(ctx context.Context, key string, data []byte, ttl time.Duration) error

	getCalls atomic.Int32
	setCalls atomic.Int32
}

func newMockResponseCache() *mockResponseCache {
	return &mockResponseCache{data: make(map[string][]byte)}
}

func (m *mockResponseCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.getCalls.Add(1)
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	return data, ok, nil
}

func (m *mockResponseCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	m.setCalls.Add(1)
	if m.setFn != nil {
		return m.setFn(ctx, key, data, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

// mockRatingRepository provides a configurable mock for RatingRepository.
type mockRatingRepository struct {
	upsertFn      func(ctx context.Context, rating *model.UserRating) error
	getByUserIDFn func(ctx context.Context, userID uuid.UUID) (model.RatingSet, error)
	deleteFn      func(ctx context.Context, userID uuid.UUID, movieID int) error
}

func (m *mockRatingRepository) Upsert(ctx context.Context, rating *model.UserRating) error {
	if m.upsertFn != nil {
		return m.upsertFn(ctx, rating)
	}
	return nil
}

func (m *mockRatingRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (model.RatingSet, error) {
	if m.getByUserIDFn != nil {
		return m.getByUserIDFn(ctx, userID)
	}
	return model.RatingSet{}, nil
}

func (m *mockRatingRepository) Delete(ctx context.Context, userID uuid.UUID, movieID int) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID, movieID)
	}
	return nil
}

// mockRecommendationEngine provides a configurable mock for
// RecommendationEngine.
type mockRecommendationEngine struct {
	recommendFn func(ctx context.Context, ratings model.RatingSet, ratedMovies []model.Movie, language string) ([]model.Recommendation, error)
}

func (m *mockRecommendationEngine) Recommend(ctx context.Context, ratings model.RatingSet, ratedMovies []model.Movie, language string) ([]model.Recommendation, error) {
	if m.recommendFn != nil {
		return m.recommendFn(ctx, ratings, ratedMovies, language)
	}
	return []model.Recommendation{}, nil
}

// mockPosterStorage provides a configurable mock for PosterStorage.
type mockPosterStorage struct {
	uploadFn   func(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error
	downloadFn func(ctx context.Context, path string) (io.ReadCloser, error)
	existsFn   func(ctx context.Context, path string) (bool, error)
	deleteFn   func(ctx context.Context, path string) error
}

func (m *mockPosterStorage) Upload(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, path, reader, size, contentType)
	}
	return nil
}

func (m *mockPosterStorage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	if m.downloadFn != nil {
		return m.downloadFn(ctx, path)
	}
	return nil, repository.ErrPosterNotFound
}

func (m *mockPosterStorage) Exists(ctx context.Context, path string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, path)
	}
	return false, nil
}

func (m *mockPosterStorage) Delete(ctx context.Context, path string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, path)
	}
	return nil
}

// mockMessageQueue provides a configurable mock for MessageQueue.
type mockMessageQueue struct {
	publishFn func(ctx context.Context, task repository.PosterWarmTask) error
	consumeFn func(ctx context.Context, handler func(task repository.PosterWarmTask) error) error

	published atomic.Int32
}

func (m *mockMessageQueue) PublishPosterWarmTask(ctx context.Context, task repository.PosterWarmTask) error {
	m.published.Add(1)
	if m.publishFn != nil {
		return m.publishFn(ctx, task)
	}
	return nil
}

func (m *mockMessageQueue) ConsumePosterWarmTasks(ctx context.Context, handler func(task repository.PosterWarmTask) error) error {
	if m.consumeFn != nil {
		return m.consumeFn(ctx, handler)
	}
	return nil
}

func (m *mockMessageQueue) Close() error { return nil }
