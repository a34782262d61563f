package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hszk-dev/cinegraph/internal/domain/repository"
	"github.com/hszk-dev/cinegraph/internal/usecase"
)

// ImageHandler serves poster images through the warm-through poster store.
type ImageHandler struct {
	svc usecase.PosterService
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(svc usecase.PosterService) *ImageHandler {
	return &ImageHandler{svc: svc}
}

// Get handles GET /images/*
func (h *ImageHandler) Get(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	path = "/" + strings.TrimPrefix(path, "/")
	if path == "/" {
		Error(w, http.StatusBadRequest, "invalid_path", "Image path is required")
		return
	}

	body, err := h.svc.GetPoster(r.Context(), path)
	if err != nil {
		if errors.Is(err, repository.ErrPosterNotFound) || errors.Is(err, repository.ErrMovieNotFound) {
			Error(w, http.StatusNotFound, "image_not_found", "Image not found")
			return
		}
		if errors.Is(err, repository.ErrCatalogUnavailable) {
			Error(w, http.StatusServiceUnavailable, "catalog_unavailable", "Image source is temporarily unavailable")
			return
		}
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	io.Copy(w, body)
}
