package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/anandsr-dev/movs-n-rec/internal/handler"
	"github.com/anandsr-dev/movs-n-rec/internal/middleware"
	"github.com/anandsr-dev/movs-n-rec/internal/service"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Auth      *handler.AuthHandler
	User      *handler.UserHandler
	Movie     *handler.MovieHandler
	Review    *handler.ReviewHandler
	Recommend *handler.RecommendHandler
	Search    *handler.SearchHandler
	Analytics *handler.AnalyticsHandler
	Stats     *handler.StatsHandler
	Health    *handler.HealthHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, authSvc *service.AuthService, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	// Probes and metrics (no auth)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	authLimiter := middleware.NewAuthRateLimiter()
	reviewLimiter := middleware.NewReviewRateLimiter()
	catalogLimiter := middleware.NewCatalogWriteRateLimiter()
	searchLimiter := middleware.NewSearchRateLimiter()

	api := app.Group("/api")

	// Public auth routes
	auth := api.Group("/auth", authLimiter.Handler())
	auth.Post("/signup", h.Auth.Signup)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/logout", h.Auth.Logout)

	// Public aggregate stats
	api.Get("/stats", h.Stats.GetStats)

	// Everything below requires a valid access token
	guard := middleware.RequireAuth(authSvc)
	admin := middleware.RequireAdmin()

	// User routes
	api.Get("/users/:userId", h.User.GetByUserID, guard)
	api.Patch("/users/:userId/genres", h.User.UpdateGenres, guard)

	// Movie catalog
	api.Get("/movies", h.Movie.List, guard)
	api.Post("/movies", h.Movie.Create, guard, admin, catalogLimiter.Handler())
	api.Post("/movies/tmdb/:tmdbId", h.Movie.ImportFromTMDB, guard, admin, catalogLimiter.Handler())
	api.Get("/movies/:movieId", h.Movie.Get, guard)
	api.Patch("/movies/:movieId", h.Movie.Update, guard, admin, catalogLimiter.Handler())
	api.Delete("/movies/:movieId", h.Movie.Delete, guard, admin, catalogLimiter.Handler())
	api.Get("/movies/:movieId/reviews", h.Review.ListByMovie, guard)

	// Reviews
	api.Post("/reviews", h.Review.Add, guard, reviewLimiter.Handler())

	// Recommendations
	api.Get("/recommendations", h.Recommend.Get, guard)

	// Search
	api.Get("/search", h.Search.Search, guard, searchLimiter.Handler())

	// Analytics
	api.Get("/analytics/top-rated", h.Analytics.TopRated, guard)
	api.Get("/analytics/most-rated", h.Analytics.MostRated, guard)
}
