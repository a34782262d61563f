package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hszk-dev/cinegraph/internal/domain/model"
	"github.com/hszk-dev/cinegraph/internal/domain/repository"
)

// RatingService manages persisted user ratings and derives
// recommendations from them.
type RatingService interface {
	// RateMovie stores or replaces the user's rating for a movie.
	RateMovie(ctx context.Context, userID uuid.UUID, movieID, rating int) error

	// GetRatings returns the user's full rating set.
	GetRatings(ctx context.Context, userID uuid.UUID) (model.RatingSet, error)

	// DeleteRating removes one rating. Returns repository.ErrRatingNotFound
	// if the user never rated the movie.
	DeleteRating(ctx context.Context, userID uuid.UUID, movieID int) error

	// RecommendForUser computes recommendations from the user's stored
	// ratings. A user with no ratings gets an empty list.
	RecommendForUser(ctx context.Context, userID uuid.UUID, language string) ([]model.Recommendation, error)
}

type ratingService struct {
	repo   repository.RatingRepository
	engine RecommendationEngine
}

// NewRatingService creates a RatingService instance.
func NewRatingService(repo repository.RatingRepository, engine RecommendationEngine) RatingService {
	return &ratingService{repo: repo, engine: engine}
}

func (s *ratingService) RateMovie(ctx context.Context, userID uuid.UUID, movieID, rating int) error {
	userRating, err := model.NewUserRating(userID, movieID, rating)
	if err != nil {
		return err
	}

	if err := s.repo.Upsert(ctx, userRating); err != nil {
		return fmt.Errorf("store rating: %w", err)
	}
	return nil
}

func (s *ratingService) GetRatings(ctx context.Context, userID uuid.UUID) (model.RatingSet, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *ratingService) DeleteRating(ctx context.Context, userID uuid.UUID, movieID int) error {
	return s.repo.Delete(ctx, userID, movieID)
}

func (s *ratingService) RecommendForUser(ctx context.Context, userID uuid.UUID, language string) ([]model.Recommendation, error) {
	ratings, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load ratings: %w", err)
	}

	return s.engine.Recommend(ctx, ratings, nil, language)
}
