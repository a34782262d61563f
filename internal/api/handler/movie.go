package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/hszk-dev/cinegraph/internal/domain/model"
	"github.com/hszk-dev/cinegraph/internal/domain/repository"
	"github.com/hszk-dev/cinegraph/internal/usecase"
)

const (
	// defaultLanguage matches the catalog locale the UI ships with.
	defaultLanguage = "tr-TR"

	// minSearchLength rejects queries too short to rank usefully.
	minSearchLength = 2

	// maxSearchResults caps one search response.
	maxSearchResults = 20
)

// MovieHandler handles catalog and recommendation HTTP requests.
type MovieHandler struct {
	catalog usecase.CatalogService
	engine  usecase.RecommendationEngine
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(catalog usecase.CatalogService, engine usecase.RecommendationEngine) *MovieHandler {
	return &MovieHandler{catalog: catalog, engine: engine}
}

// MovieListResponse wraps a movie collection.
type MovieListResponse struct {
	Movies []model.Movie `json:"movies"`
}

// RecommendRequest is the body of POST /v1/recommendations.
type RecommendRequest struct {
	Ratings  model.RatingSet `json:"ratings"`
	Language string          `json:"language,omitempty"`
}

// RecommendResponse wraps the scored recommendation list.
type RecommendResponse struct {
	Recommendations []model.Recommendation `json:"recommendations"`
}

// Popular handles GET /v1/movies/popular
func (h *MovieHandler) Popular(w http.ResponseWriter, r *http.Request) {
	movies, err := h.catalog.GetPopularMovies(r.Context(), language(r))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, MovieListResponse{Movies: movies})
}

// Search handles GET /v1/movies/search?q=
func (h *MovieHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len([]rune(query)) < minSearchLength {
		Error(w, http.StatusBadRequest, "invalid_query", "Query must be at least 2 characters")
		return
	}

	movies, err := h.catalog.SearchMovies(r.Context(), query, language(r))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	if len(movies) > maxSearchResults {
		movies = movies[:maxSearchResults]
	}
	JSON(w, http.StatusOK, MovieListResponse{Movies: movies})
}

// Discover handles GET /v1/movies/discover?genre=
func (h *MovieHandler) Discover(w http.ResponseWriter, r *http.Request) {
	genreID, err := strconv.Atoi(r.URL.Query().Get("genre"))
	if err != nil || genreID <= 0 {
		Error(w, http.StatusBadRequest, "invalid_genre", "Genre must be a positive integer")
		return
	}

	movies, err := h.catalog.GetMoviesByGenre(r.Context(), genreID, language(r))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, MovieListResponse{Movies: movies})
}

// Details handles GET /v1/movies/{id}
func (h *MovieHandler) Details(w http.ResponseWriter, r *http.Request) {
	movieID, ok := moviePathID(w, r)
	if !ok {
		return
	}

	details, err := h.catalog.GetMovieDetails(r.Context(), movieID, language(r))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, details)
}

// Credits handles GET /v1/movies/{id}/credits
func (h *MovieHandler) Credits(w http.ResponseWriter, r *http.Request) {
	movieID, ok := moviePathID(w, r)
	if !ok {
		return
	}

	credits, err := h.catalog.GetMovieCredits(r.Context(), movieID, language(r))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, credits)
}

// Genres handles GET /v1/genres
func (h *MovieHandler) Genres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.catalog.GetGenres(r.Context(), language(r))
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string][]model.Genre{"genres": genres})
}

// Recommend handles POST /v1/recommendations
func (h *MovieHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Language == "" {
		req.Language = language(r)
	}

	if len(req.Ratings.Valid()) == 0 {
		Error(w, http.StatusBadRequest, "no_ratings", "Rate at least one movie")
		return
	}

	recommendations, err := h.engine.Recommend(r.Context(), req.Ratings, nil, req.Language)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, RecommendResponse{Recommendations: recommendations})
}

// handleServiceError maps domain errors to HTTP responses.
func (h *MovieHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrMovieNotFound):
		Error(w, http.StatusNotFound, "movie_not_found", "Movie not found")
	case errors.Is(err, repository.ErrCatalogUnavailable):
		Error(w, http.StatusServiceUnavailable, "catalog_unavailable", "Movie catalog is temporarily unavailable")
	default:
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}

// language reads the request locale, defaulting to the UI's primary one.
func language(r *http.Request) string {
	if lang := r.URL.Query().Get("language"); lang != "" {
		return lang
	}
	return defaultLanguage
}

// moviePathID parses the {id} path parameter, writing a 400 on failure.
func moviePathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	movieID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || movieID <= 0 {
		Error(w, http.StatusBadRequest, "invalid_movie_id", "Movie ID must be a positive integer")
		return 0, false
	}
	return movieID, true
}
