package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/anandsr-dev/movs-n-rec/internal/middleware"
	"github.com/anandsr-dev/movs-n-rec/internal/repository"
	"github.com/anandsr-dev/movs-n-rec/internal/service"
)

type RecommendHandler struct {
	svc *service.RecommendService
}

func NewRecommendHandler(svc *service.RecommendService) *RecommendHandler {
	return &RecommendHandler{svc: svc}
}

// Get handles GET /api/recommendations for the authenticated user.
func (h *RecommendHandler) Get(c fiber.Ctx) error {
	userID, _ := c.Locals(middleware.LocalUserID).(string)
	if userID == "" {
		return middleware.ErrorResponse(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}

	start := time.Now()
	resp, err := h.svc.GetRecommendations(c.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "User not found")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build recommendations")
	}
	Metrics.RecommendationDuration.Observe(time.Since(start).Seconds())

	return c.JSON(resp)
}
