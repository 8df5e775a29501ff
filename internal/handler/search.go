package handler

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/anandsr-dev/movs-n-rec/internal/middleware"
	"github.com/anandsr-dev/movs-n-rec/internal/service"
)

const searchPageLimit = 20

type SearchHandler struct {
	svc *service.SearchService
}

func NewSearchHandler(svc *service.SearchService) *SearchHandler {
	return &SearchHandler{svc: svc}
}

// Search handles GET /api/search?q=...&genres=a,b&minRating=N&page=N
func (h *SearchHandler) Search(c fiber.Ctx) error {
	query := fiber.Query[string](c, "q")

	var genres []string
	if raw := fiber.Query[string](c, "genres"); raw != "" {
		for _, g := range strings.Split(raw, ",") {
			if g = strings.TrimSpace(g); g != "" {
				genres = append(genres, g)
			}
		}
	}

	minRating := 0.0
	if raw := fiber.Query[string](c, "minRating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "minRating must be a non-negative number")
		}
		minRating = v
	}

	page, _ := strconv.Atoi(fiber.Query[string](c, "page"))

	movies, err := h.svc.Search(c.Context(), query, service.SearchFilters{
		Genres:    genres,
		MinRating: minRating,
	}, page, searchPageLimit)
	if err != nil {
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Search failed")
	}

	return c.JSON(fiber.Map{"movies": movies})
}
