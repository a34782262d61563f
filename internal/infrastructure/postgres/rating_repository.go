package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hszk-dev/cinegraph/internal/domain/model"
	"github.com/hszk-dev/cinegraph/internal/domain/repository"
	"github.com/hszk-dev/cinegraph/internal/infrastructure/metrics"
)

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RatingRepository implements repository.RatingRepository using PostgreSQL.
type RatingRepository struct {
	db DBTX
}

// NewRatingRepository creates a new RatingRepository instance.
func NewRatingRepository(db DBTX) *RatingRepository {
	return &RatingRepository{db: db}
}

// Upsert inserts the rating or replaces an existing one for the same
// (user, movie) pair, preserving the original created_at.
func (r *RatingRepository) Upsert(ctx context.Context, rating *model.UserRating) error {
	const query = `
		INSERT INTO user_ratings (user_id, movie_id, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, movie_id)
		DO UPDATE SET rating = EXCLUDED.rating, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(ctx, query,
		rating.UserID,
		rating.MovieID,
		rating.Rating,
		rating.CreatedAt,
		rating.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableUserRatings).Inc()
	return nil
}

// GetByUserID returns all ratings of a user as a RatingSet.
func (r *RatingRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (model.RatingSet, error) {
	const query = `
		SELECT movie_id, rating
		FROM user_ratings
		WHERE user_id = $1
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings by user ID: %w", err)
	}
	defer rows.Close()

	ratings := make(model.RatingSet)
	for rows.Next() {
		var movieID, rating int
		if err := rows.Scan(&movieID, &rating); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings[movieID] = rating
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableUserRatings).Inc()
	return ratings, nil
}

// Delete removes one rating. Returns ErrRatingNotFound if no row matched.
func (r *RatingRepository) Delete(ctx context.Context, userID uuid.UUID, movieID int) error {
	const query = `
		DELETE FROM user_ratings
		WHERE user_id = $1 AND movie_id = $2
	`

	tag, err := r.db.Exec(ctx, query, userID, movieID)
	if err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrRatingNotFound
	}

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryDelete, metrics.TableUserRatings).Inc()
	return nil
}
