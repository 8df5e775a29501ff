package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/anandsr-dev/movs-n-rec/internal/middleware"
	"github.com/anandsr-dev/movs-n-rec/internal/model"
	"github.com/anandsr-dev/movs-n-rec/internal/repository"
	"github.com/anandsr-dev/movs-n-rec/internal/service"
)

type ReviewHandler struct {
	svc *service.ReviewService
}

func NewReviewHandler(svc *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// Add handles POST /api/reviews
func (h *ReviewHandler) Add(c fiber.Ctx) error {
	var req model.AddReviewRequest
	if err := c.Bind().JSON(&req); err != nil {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Invalid request body")
	}

	movieID, errMsg := middleware.ValidateID(req.MovieID, "movieId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}
	req.MovieID = movieID
	req.Comment = middleware.ValidateComment(req.Comment)

	userID, _ := c.Locals(middleware.LocalUserID).(string)

	resp, err := h.svc.Add(c.Context(), userID, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", err.Error())
		}
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Movie or user not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to submit review")
	}
	Metrics.ReviewsTotal.Inc()

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListByMovie handles GET /api/movies/:movieId/reviews?page=N
func (h *ReviewHandler) ListByMovie(c fiber.Ctx) error {
	movieID, errMsg := middleware.ValidateID(c.Params("movieId"), "movieId")
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", errMsg)
	}

	page, _ := strconv.Atoi(fiber.Query[string](c, "page"))

	resp, err := h.svc.ListByMovie(c.Context(), movieID, page)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list reviews")
	}
	return c.JSON(resp)
}
