package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/hszk-dev/cinegraph/internal/domain/model"
)

// RatingRepository defines persistence for user movie ratings.
// Implementations should be provided by the infrastructure layer (PostgreSQL).
type RatingRepository interface {
	// Upsert inserts the rating or replaces an existing one for the same
	// (user, movie) pair.
	Upsert(ctx context.Context, rating *model.UserRating) error

	// GetByUserID returns all ratings of a user as a RatingSet.
	// Returns an empty set when the user has rated nothing.
	GetByUserID(ctx context.Context, userID uuid.UUID) (model.RatingSet, error)

	// Delete removes one rating. Returns ErrRatingNotFound if absent.
	Delete(ctx context.Context, userID uuid.UUID, movieID int) error
}
