package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/anandsr-dev/movs-n-rec/internal/middleware"
	"github.com/anandsr-dev/movs-n-rec/internal/service"
)

type AnalyticsHandler struct {
	svc *service.AnalyticsService
}

func NewAnalyticsHandler(svc *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// TopRated handles GET /api/analytics/top-rated?minRating=N&limit=N
func (h *AnalyticsHandler) TopRated(c fiber.Ctx) error {
	minRating := 0.0
	if raw := fiber.Query[string](c, "minRating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "minRating must be a non-negative number")
		}
		minRating = v
	}
	limit, _ := strconv.Atoi(fiber.Query[string](c, "limit"))

	movies, err := h.svc.TopRated(c.Context(), minRating, limit)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch top rated movies")
	}
	return c.JSON(fiber.Map{"movies": movies})
}

// MostRated handles GET /api/analytics/most-rated?limit=N
func (h *AnalyticsHandler) MostRated(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(fiber.Query[string](c, "limit"))

	movies, err := h.svc.MostRated(c.Context(), limit)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch most rated movies")
	}
	return c.JSON(fiber.Map{"movies": movies})
}
