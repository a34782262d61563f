package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hszk-dev/cinegraph/internal/domain/model"
	"github.com/hszk-dev/cinegraph/internal/domain/repository"
)

// Mock CatalogService

type mockCatalogService struct {
	getPopularMoviesFn func(ctx context.Context, language string) ([]model.Movie, error)
	getMoviesByGenreFn func(ctx context.Context, genreID int, language string) ([]model.Movie, error)
	searchMoviesFn     func(ctx context.Context, query, language string) ([]model.Movie, error)
	getMovieDetailsFn  func(ctx context.Context, movieID int, language string) (*model.MovieDetails, error)
	getMovieCreditsFn  func(ctx context.Context, movieID int, language string) (*model.Credits, error)
	getGenresFn        func(ctx context.Context, language string) ([]model.Genre, error)
}

func (m *mockCatalogService) GetPopularMovies(ctx context.Context, language string) ([]model.Movie, error) {
	if m.getPopularMoviesFn != nil {
		return m.getPopularMoviesFn(ctx, language)
	}
	return []model.Movie{}, nil
}

func (m *mockCatalogService) GetMoviesByGenre(ctx context.Context, genreID int, language string) ([]model.Movie, error) {
	if m.getMoviesByGenreFn != nil {
		return m.getMoviesByGenreFn(ctx, genreID, language)
	}
	return []model.Movie{}, nil
}

func (m *mockCatalogService) GetMoviesByCast(ctx context.Context, personID int, language string) ([]model.Movie, error) {
	return []model.Movie{}, nil
}

func (m *mockCatalogService) GetMoviesByCrew(ctx context.Context, personID int, language string) ([]model.Movie, error) {
	return []model.Movie{}, nil
}

func (m *mockCatalogService) GetMoviesByKeywords(ctx context.Context, keywordIDs []int, language string) ([]model.Movie, error) {
	return []model.Movie{}, nil
}

func (m *mockCatalogService) GetSimilarMovies(ctx context.Context, movieID int, language string) ([]model.Movie, error) {
	return []model.Movie{}, nil
}

func (m *mockCatalogService) SearchMovies(ctx context.Context, query, language string) ([]model.Movie, error) {
	if m.searchMoviesFn != nil {
		return m.searchMoviesFn(ctx, query, language)
	}
	return []model.Movie{}, nil
}

func (m *mockCatalogService) GetMovieDetails(ctx context.Context, movieID int, language string) (*model.MovieDetails, error) {
	if m.getMovieDetailsFn != nil {
		return m.getMovieDetailsFn(ctx, movieID, language)
	}
	return nil, repository.ErrMovieNotFound
}

func (m *mockCatalogService) GetMovieCredits(ctx context.Context, movieID int, language string) (*model.Credits, error) {
	if m.getMovieCreditsFn != nil {
		return m.getMovieCreditsFn(ctx, movieID, language)
	}
	return nil, repository.ErrMovieNotFound
}

func (m *mockCatalogService) GetMovieKeywords(ctx context.Context, movieID int) ([]model.Keyword, error) {
	return []model.Keyword{}, nil
}

func (m *mockCatalogService) GetGenres(ctx context.Context, language string) ([]model.Genre, error) {
	if m.getGenresFn != nil {
		return m.getGenresFn(ctx, language)
	}
	return []model.Genre{}, nil
}

func (m *mockCatalogService) GetImage(ctx context.Context, path string) (io.ReadCloser, error) {
	return nil, repository.ErrPosterNotFound
}

// Mock RecommendationEngine

type mockEngine struct {
	recommendFn func(ctx context.Context, ratings model.RatingSet, ratedMovies []model.Movie, language string) ([]model.Recommendation, error)
}

func (m *mockEngine) Recommend(ctx context.Context, ratings model.RatingSet, ratedMovies []model.Movie, language string) ([]model.Recommendation, error) {
	if m.recommendFn != nil {
		return m.recommendFn(ctx, ratings, ratedMovies, language)
	}
	return []model.Recommendation{}, nil
}

func movieRouter(h *MovieHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/v1/movies/popular", h.Popular)
	r.Get("/v1/movies/search", h.Search)
	r.Get("/v1/movies/discover", h.Discover)
	r.Get("/v1/movies/{id}", h.Details)
	r.Get("/v1/movies/{id}/credits", h.Credits)
	r.Get("/v1/genres", h.Genres)
	r.Post("/v1/recommendations", h.Recommend)
	return r
}

func TestMovieHandler_Popular(t *testing.T) {
	var gotLanguage string
	catalog := &mockCatalogService{
		getPopularMoviesFn: func(ctx context.Context, language string) ([]model.Movie, error) {
			gotLanguage = language
			return []model.Movie{{ID: 550, Title: "Fight Club"}}, nil
		},
	}
	router := movieRouter(NewMovieHandler(catalog, &mockEngine{}))

	req := httptest.NewRequest(http.MethodGet, "/v1/movies/popular", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotLanguage != "tr-TR" {
		t.Errorf("language = %q, want the tr-TR default", gotLanguage)
	}

	var resp MovieListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.Movies) != 1 || resp.Movies[0].ID != 550 {
		t.Errorf("movies = %v, want one movie with ID 550", resp.Movies)
	}
}

func TestMovieHandler_Popular_LanguageOverride(t *testing.T) {
	var gotLanguage string
	catalog := &mockCatalogService{
		getPopularMoviesFn: func(ctx context.Context, language string) ([]model.Movie, error) {
			gotLanguage = language
			return []model.Movie{}, nil
		},
	}
	router := movieRouter(NewMovieHandler(catalog, &mockEngine{}))

	req := httptest.NewRequest(http.MethodGet, "/v1/movies/popular?language=en-US", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if gotLanguage != "en-US" {
		t.Errorf("language = %q, want en-US", gotLanguage)
	}
}

func TestMovieHandler_Search_QueryTooShort(t *testing.T) {
	router := movieRouter(NewMovieHandler(&mockCatalogService{}, &mockEngine{}))

	req := httptest.NewRequest(http.MethodGet, "/v1/movies/search?q=a", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestMovieHandler_Details(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		detailsErr error
		wantStatus int
	}{
		{name: "found", url: "/v1/movies/550", wantStatus: http.StatusOK},
		{name: "not found", url: "/v1/movies/999", detailsErr: repository.ErrMovieNotFound, wantStatus: http.StatusNotFound},
		{name: "catalog down", url: "/v1/movies/550", detailsErr: repository.ErrCatalogUnavailable, wantStatus: http.StatusServiceUnavailable},
		{name: "invalid id", url: "/v1/movies/abc", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &mockCatalogService{
				getMovieDetailsFn: func(ctx context.Context, movieID int, language string) (*model.MovieDetails, error) {
					if tt.detailsErr != nil {
						return nil, tt.detailsErr
					}
					return &model.MovieDetails{ID: movieID, Title: "Fight Club"}, nil
				},
			}
			router := movieRouter(NewMovieHandler(catalog, &mockEngine{}))

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestMovieHandler_Recommend(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "valid request",
			body:       `{"ratings": {"550": 5, "238": 4}}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "empty ratings",
			body:       `{"ratings": {}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "all ratings non-positive",
			body:       `{"ratings": {"550": 0}}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `not-json`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engineCalled := false
			engine := &mockEngine{
				recommendFn: func(ctx context.Context, ratings model.RatingSet, ratedMovies []model.Movie, language string) ([]model.Recommendation, error) {
					engineCalled = true
					return []model.Recommendation{
						{Movie: model.Movie{ID: 13}, Score: 7.2, Reasons: []string{"🎬 Yönetmen: David Fincher"}},
					}, nil
				},
			}
			router := movieRouter(NewMovieHandler(&mockCatalogService{}, engine))

			req := httptest.NewRequest(http.MethodPost, "/v1/recommendations", bytes.NewReader([]byte(tt.body)))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				if engineCalled {
					t.Error("engine must not run for rejected requests")
				}
				return
			}

			var resp RecommendResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid response body: %v", err)
			}
			if len(resp.Recommendations) != 1 {
				t.Errorf("recommendations = %v, want 1", resp.Recommendations)
			}
		})
	}
}
