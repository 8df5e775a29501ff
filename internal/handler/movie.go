package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/anandsr-dev/movs-n-rec/internal/middleware"
	"github.com/anandsr-dev/movs-n-rec/internal/model"
	"github.com/anandsr-dev/movs-n-rec/internal/repository"
	"github.com/anandsr-dev/movs-n-rec/internal/service"
	"github.com/anandsr-dev/movs-n-rec/internal/tmdb"
)

type MovieHandler struct {
	svc *service.MovieService
}

func NewMovieHandler(svc *service.MovieService) *MovieHandler {
	return &MovieHandler{svc: svc}
}

// Create handles POST /api/movies
func (h *MovieHandler) Create(c fiber.Ctx) error {
	var req model.CreateMovieRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	genres, errMsg := middleware.ValidateGenres(req.Genres)
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.Genres = genres

	movie, err := h.svc.Create(c.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", err.Error())
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create movie")
	}
	Metrics.MoviesCreatedTotal.WithLabelValues("manual").Inc()

	return c.Status(fiber.StatusCreated).JSON(movie)
}

// ImportFromTMDB handles POST /api/movies/tmdb/:tmdbId
func (h *MovieHandler) ImportFromTMDB(c fiber.Ctx) error {
	tmdbID, err := strconv.ParseInt(c.Params("tmdbId"), 10, 64)
	if err != nil || tmdbID <= 0 {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "tmdbId must be a positive integer")
	}

	movie, err := h.svc.ImportFromTMDB(c.Context(), tmdbID)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Movie not found on TMDB")
		}
		if errors.Is(err, service.ErrValidation) {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", err.Error())
		}
		return middleware.ErrorResponse(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", "Failed to import movie from TMDB")
	}
	Metrics.MoviesCreatedTotal.WithLabelValues("tmdb").Inc()

	return c.Status(fiber.StatusCreated).JSON(movie)
}

// Get handles GET /api/movies/:movieId
func (h *MovieHandler) Get(c fiber.Ctx) error {
	movieID, errMsg := middleware.ValidateID(c.Params("movieId"), "movieId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	movie, cached, err := h.svc.Get(c.Context(), movieID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Movie not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch movie")
	}

	if cached != nil {
		Metrics.CacheHits.Inc()
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		c.Set("X-Cache", "HIT")
		return c.Send(cached)
	}
	Metrics.CacheMisses.Inc()
	return c.JSON(movie)
}

// List handles GET /api/movies?page=N
func (h *MovieHandler) List(c fiber.Ctx) error {
	page, _ := strconv.Atoi(fiber.Query[string](c, "page"))

	resp, err := h.svc.List(c.Context(), page)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list movies")
	}
	return c.JSON(resp)
}

// Update handles PATCH /api/movies/:movieId
func (h *MovieHandler) Update(c fiber.Ctx) error {
	movieID, errMsg := middleware.ValidateID(c.Params("movieId"), "movieId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	var req model.UpdateMovieRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	if req.Genres != nil {
		genres, errMsg := middleware.ValidateGenres(*req.Genres)
		if errMsg != "" {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
		}
		req.Genres = &genres
	}

	movie, err := h.svc.Update(c.Context(), movieID, req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Movie not found")
		}
		if errors.Is(err, service.ErrValidation) {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", err.Error())
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update movie")
	}

	return c.JSON(movie)
}

// Delete handles DELETE /api/movies/:movieId
func (h *MovieHandler) Delete(c fiber.Ctx) error {
	movieID, errMsg := middleware.ValidateID(c.Params("movieId"), "movieId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	if err := h.svc.Delete(c.Context(), movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Movie not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete movie")
	}

	return c.JSON(fiber.Map{"success": true})
}
