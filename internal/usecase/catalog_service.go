package usecase

import (
	"context"
	"io"
	"sync"

	"github.com/hszk-dev/cinegraph/internal/domain/model"
	"github.com/hszk-dev/cinegraph/internal/domain/repository"
)

// CatalogService defines the typed facade over the movie catalog used by
// handlers and the recommendation engine. List operations return empty
// slices for "no results"; only single-entity lookups report absence, via
// repository.ErrMovieNotFound.
type CatalogService interface {
	// GetPopularMovies returns the first two pages of the popularity list
	// merged in order.
	GetPopularMovies(ctx context.Context, language string) ([]model.Movie, error)

	// GetMoviesByGenre returns genre discovery results.
	GetMoviesByGenre(ctx context.Context, genreID int, language string) ([]model.Movie, error)

	// GetMoviesByCast returns movies featuring a person.
	GetMoviesByCast(ctx context.Context, personID int, language string) ([]model.Movie, error)

	// GetMoviesByCrew returns movies a person directed.
	GetMoviesByCrew(ctx context.Context, personID int, language string) ([]model.Movie, error)

	// GetMoviesByKeywords returns discovery results for keyword IDs.
	GetMoviesByKeywords(ctx context.Context, keywordIDs []int, language string) ([]model.Movie, error)

	// GetSimilarMovies returns the catalog's similarity list for a movie.
	GetSimilarMovies(ctx context.Context, movieID int, language string) ([]model.Movie, error)

	// SearchMovies returns title-search results for a free-text query.
	SearchMovies(ctx context.Context, query, language string) ([]model.Movie, error)

	// GetMovieDetails returns the composite detail record with credits
	// and videos.
	GetMovieDetails(ctx context.Context, movieID int, language string) (*model.MovieDetails, error)

	// GetMovieCredits returns the raw cast and crew of a movie.
	GetMovieCredits(ctx context.Context, movieID int, language string) (*model.Credits, error)

	// GetMovieKeywords returns the keywords attached to a movie.
	GetMovieKeywords(ctx context.Context, movieID int) ([]model.Keyword, error)

	// GetGenres returns the genre taxonomy.
	GetGenres(ctx context.Context, language string) ([]model.Genre, error)

	// GetImage streams an image by its catalog-relative path.
	GetImage(ctx context.Context, path string) (io.ReadCloser, error)
}

// popularPages is how many popularity pages the merged list spans.
const popularPages = 2

type catalogService struct {
	catalog repository.Catalog
}

// NewCatalogService creates the uncached catalog facade.
func NewCatalogService(catalog repository.Catalog) CatalogService {
	return &catalogService{catalog: catalog}
}

// GetPopularMovies fetches the first two popularity pages concurrently and
// merges them in page order. A failed page contributes nothing; the call
// errors only when every page failed.
func (s *catalogService) GetPopularMovies(ctx context.Context, language string) ([]model.Movie, error) {
	pages := make([][]model.Movie, popularPages)
	errs := make([]error, popularPages)

	var wg sync.WaitGroup
	for i := 0; i < popularPages; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pages[i], errs[i] = s.catalog.PopularMovies(ctx, i+1, language)
		}(i)
	}
	wg.Wait()

	merged := make([]model.Movie, 0, popularPages*20)
	var firstErr error
	for i := 0; i < popularPages; i++ {
		if errs[i] != nil {
			if firstErr == nil {
				firstErr = errs[i]
			}
			continue
		}
		merged = append(merged, pages[i]...)
	}
	if len(merged) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return merged, nil
}

func (s *catalogService) GetMoviesByGenre(ctx context.Context, genreID int, language string) ([]model.Movie, error) {
	return s.catalog.MoviesByGenre(ctx, genreID, language)
}

func (s *catalogService) GetMoviesByCast(ctx context.Context, personID int, language string) ([]model.Movie, error) {
	return s.catalog.MoviesByCast(ctx, personID, language)
}

func (s *catalogService) GetMoviesByCrew(ctx context.Context, personID int, language string) ([]model.Movie, error) {
	return s.catalog.MoviesByCrew(ctx, personID, language)
}

func (s *catalogService) GetMoviesByKeywords(ctx context.Context, keywordIDs []int, language string) ([]model.Movie, error) {
	return s.catalog.MoviesByKeywords(ctx, keywordIDs, language)
}

func (s *catalogService) GetSimilarMovies(ctx context.Context, movieID int, language string) ([]model.Movie, error) {
	return s.catalog.SimilarMovies(ctx, movieID, language)
}

func (s *catalogService) SearchMovies(ctx context.Context, query, language string) ([]model.Movie, error) {
	return s.catalog.SearchMovies(ctx, query, language)
}

func (s *catalogService) GetMovieDetails(ctx context.Context, movieID int, language string) (*model.MovieDetails, error) {
	return s.catalog.MovieDetails(ctx, movieID, language)
}

func (s *catalogService) GetMovieCredits(ctx context.Context, movieID int, language string) (*model.Credits, error) {
	return s.catalog.MovieCredits(ctx, movieID, language)
}

func (s *catalogService) GetMovieKeywords(ctx context.Context, movieID int) ([]model.Keyword, error) {
	return s.catalog.MovieKeywords(ctx, movieID)
}

func (s *catalogService) GetGenres(ctx context.Context, language string) ([]model.Genre, error) {
	return s.catalog.Genres(ctx, language)
}

func (s *catalogService) GetImage(ctx context.Context, path string) (io.ReadCloser, error) {
	return s.catalog.Image(ctx, path)
}
