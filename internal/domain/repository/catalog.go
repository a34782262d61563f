package repository

import (
	"context"
	"io"

	"github.com/hszk-dev/cinegraph/internal/domain/model"
)

// Catalog defines the typed query surface of the external movie catalog.
// Implementations should be provided by the infrastructure layer (TMDB).
//
// List queries return empty slices for "no results", never nil-with-error.
// Single-entity queries return ErrMovieNotFound for absence and
// ErrCatalogUnavailable when the catalog could not be reached at all.
type Catalog interface {
	// PopularMovies returns one page of the popularity-ordered list.
	PopularMovies(ctx context.Context, page int, language string) ([]model.Movie, error)

	// MoviesByGenre returns discovery results for a genre, ordered by the
	// catalog's vote-count ranking.
	MoviesByGenre(ctx context.Context, genreID int, language string) ([]model.Movie, error)

	// MoviesByCast returns discovery results for movies featuring a person.
	MoviesByCast(ctx context.Context, personID int, language string) ([]model.Movie, error)

	// MoviesByCrew returns the movies a person directed, ordered by vote
	// count descending and capped to 20.
	MoviesByCrew(ctx context.Context, personID int, language string) ([]model.Movie, error)

	// MoviesByKeywords returns discovery results matching any of the
	// keyword IDs, restricted to titles with at least 100 votes.
	MoviesByKeywords(ctx context.Context, keywordIDs []int, language string) ([]model.Movie, error)

	// SimilarMovies returns the catalog's own similarity list for a movie.
	SimilarMovies(ctx context.Context, movieID int, language string) ([]model.Movie, error)

	// SearchMovies returns title-search results for a free-text query.
	SearchMovies(ctx context.Context, query, language string) ([]model.Movie, error)

	// MovieDetails returns the composite detail record including credits
	// and videos, fetched in a single catalog call.
	MovieDetails(ctx context.Context, movieID int, language string) (*model.MovieDetails, error)

	// MovieCredits returns the raw cast and crew of a movie.
	MovieCredits(ctx context.Context, movieID int, language string) (*model.Credits, error)

	// MovieKeywords returns the keywords attached to a movie.
	MovieKeywords(ctx context.Context, movieID int) ([]model.Keyword, error)

	// Genres returns the catalog's genre taxonomy.
	Genres(ctx context.Context, language string) ([]model.Genre, error)

	// Image streams an image by its catalog-relative path. Caller closes
	// the returned ReadCloser.
	Image(ctx context.Context, path string) (io.ReadCloser, error)
}
