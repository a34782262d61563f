package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/hszk-dev/cinegraph/internal/domain/model"
	"github.com/hszk-dev/cinegraph/internal/domain/repository"
	"github.com/hszk-dev/cinegraph/internal/usecase"
)

// RatingHandler handles persisted user rating requests.
type RatingHandler struct {
	svc usecase.RatingService
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(svc usecase.RatingService) *RatingHandler {
	return &RatingHandler{svc: svc}
}

// RateRequest is the body of PUT /v1/users/{userID}/ratings/{movieID}.
type RateRequest struct {
	Rating int `json:"rating"`
}

// RatingsResponse wraps a user's rating set.
type RatingsResponse struct {
	Ratings model.RatingSet `json:"ratings"`
}

// Rate handles PUT /v1/users/{userID}/ratings/{movieID}
func (h *RatingHandler) Rate(w http.ResponseWriter, r *http.Request) {
	userID, movieID, ok := ratingPathParams(w, r)
	if !ok {
		return
	}

	var req RateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	if err := h.svc.RateMovie(r.Context(), userID, movieID, req.Rating); err != nil {
		if errors.Is(err, model.ErrInvalidRating) {
			Error(w, http.StatusBadRequest, "invalid_rating", "Rating must be between 1 and 5")
			return
		}
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// List handles GET /v1/users/{userID}/ratings
func (h *RatingHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := userPathID(w, r)
	if !ok {
		return
	}

	ratings, err := h.svc.GetRatings(r.Context(), userID)
	if err != nil {
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}
	JSON(w, http.StatusOK, RatingsResponse{Ratings: ratings})
}

// Delete handles DELETE /v1/users/{userID}/ratings/{movieID}
func (h *RatingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, movieID, ok := ratingPathParams(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteRating(r.Context(), userID, movieID); err != nil {
		if errors.Is(err, repository.ErrRatingNotFound) {
			Error(w, http.StatusNotFound, "rating_not_found", "Rating not found")
			return
		}
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Recommend handles POST /v1/users/{userID}/recommendations
func (h *RatingHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	userID, ok := userPathID(w, r)
	if !ok {
		return
	}

	recommendations, err := h.svc.RecommendForUser(r.Context(), userID, language(r))
	if err != nil {
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}
	JSON(w, http.StatusOK, RecommendResponse{Recommendations: recommendations})
}

func userPathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_user_id", "User ID must be a valid UUID")
		return uuid.Nil, false
	}
	return userID, true
}

func ratingPathParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, int, bool) {
	userID, ok := userPathID(w, r)
	if !ok {
		return uuid.Nil, 0, false
	}

	movieID, err := strconv.Atoi(chi.URLParam(r, "movieID"))
	if err != nil || movieID <= 0 {
		Error(w, http.StatusBadRequest, "invalid_movie_id", "Movie ID must be a positive integer")
		return uuid.Nil, 0, false
	}
	return userID, movieID, true
}
