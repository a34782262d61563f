package model

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	// MinRating and MaxRating bound user ratings (star scale).
	MinRating = 1
	MaxRating = 5
)

var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrInvalidUserID = errors.New("user ID cannot be nil")
	ErrInvalidMovie  = errors.New("movie ID must be positive")
)

// RatingSet maps a movie ID to the user's rating for it. It is supplied
// once per recommendation request and is treated as immutable for the
// duration of the call.
type RatingSet map[int]int

// Valid returns a copy holding only positive ratings. Zero and negative
// values mean "not rated" and are dropped.
func (r RatingSet) Valid() RatingSet {
	valid := make(RatingSet, len(r))
	for id, rating := range r {
		if rating > 0 {
			valid[id] = rating
		}
	}
	return valid
}

// IDs returns the movie IDs of the set in no particular order.
func (r RatingSet) IDs() []int {
	ids := make([]int, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	return ids
}

// Seeds returns the movie IDs that drive signal expansion: up to max
// ratings valued MaxRating-1 or higher, ordered by rating descending with
// movie ID ascending as the tie-break. When no rating qualifies, the
// lowest-ID rated movie becomes the sole seed. Empty set yields no seeds.
func (r RatingSet) Seeds(max int) []int {
	high := make([]int, 0, len(r))
	for id, rating := range r {
		if rating >= MaxRating-1 {
			high = append(high, id)
		}
	}
	sort.Slice(high, func(i, j int) bool {
		if r[high[i]] != r[high[j]] {
			return r[high[i]] > r[high[j]]
		}
		return high[i] < high[j]
	})
	if len(high) > max {
		high = high[:max]
	}
	if len(high) > 0 {
		return high
	}

	all := r.IDs()
	if len(all) == 0 {
		return nil
	}
	sort.Ints(all)
	return all[:1]
}

// UserRating is one persisted rating row.
type UserRating struct {
	UserID    uuid.UUID
	MovieID   int
	Rating    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUserRating validates and builds a UserRating.
func NewUserRating(userID uuid.UUID, movieID, rating int) (*UserRating, error) {
	if userID == uuid.Nil {
		return nil, ErrInvalidUserID
	}
	if movieID <= 0 {
		return nil, ErrInvalidMovie
	}
	if rating < MinRating || rating > MaxRating {
		return nil, ErrInvalidRating
	}

	now := time.Now()
	return &UserRating{
		UserID:    userID,
		MovieID:   movieID,
		Rating:    rating,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Recommendation is one scored candidate produced by the recommendation
// engine. Reasons are human-readable, language-dependent labels; the list
// never contains duplicates.
type Recommendation struct {
	Movie   Movie    `json:"movie"`
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
}
