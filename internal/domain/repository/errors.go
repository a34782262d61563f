package repository

import "errors"

var (
	// ErrMovieNotFound is returned when a single-entity catalog lookup
	// finds nothing. Absence is not a fault; callers map it to an empty
	// response rather than an error page.
	ErrMovieNotFound = errors.New("movie not found")

	// ErrCatalogUnavailable is returned when both the primary host and
	// the fallback address failed for one request.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrRatingNotFound is returned when a user rating row does not exist.
	ErrRatingNotFound = errors.New("rating not found")

	// ErrPosterNotFound is returned when a poster is absent from both the
	// poster store and the catalog.
	ErrPosterNotFound = errors.New("poster not found")

	// ErrBucketNotFound is returned when the configured storage bucket
	// does not exist.
	ErrBucketNotFound = errors.New("bucket not found")
)
