package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"

	"github.com/anandsr-dev/movs-n-rec/internal/config"
	"github.com/anandsr-dev/movs-n-rec/internal/db"
	"github.com/anandsr-dev/movs-n-rec/internal/events"
	"github.com/anandsr-dev/movs-n-rec/internal/handler"
	"github.com/anandsr-dev/movs-n-rec/internal/middleware"
	"github.com/anandsr-dev/movs-n-rec/internal/repository"
	"github.com/anandsr-dev/movs-n-rec/internal/router"
	"github.com/anandsr-dev/movs-n-rec/internal/service"
	"github.com/anandsr-dev/movs-n-rec/internal/tmdb"
)

func main() {
	cfg := config.Load()

	middleware.InitLogger(cfg.LogLevel, "movs-n-rec")
	log.Logger = middleware.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	handler.InitMetrics(pool)

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	bus := events.NewBus(nil)
	defer bus.Close()

	var tmdbClient tmdb.Client
	if cfg.TMDBAPIKey != "" {
		client, err := tmdb.NewHTTPClient(cfg.TMDBBaseURL, cfg.TMDBAPIKey, 10*time.Second)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid TMDB configuration")
		}
		tmdbClient = client
	} else {
		log.Info().Msg("tmdb: no API key configured, imports disabled")
	}

	// Repositories
	userRepo := repository.NewUserRepo(pool)
	movieRepo := repository.NewMovieRepo(pool)
	reviewRepo := repository.NewReviewRepo(pool)

	// Services
	searchSvc := service.NewSearchService(cache.Client())
	authSvc := service.NewAuthService(userRepo, cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenExpiry, cfg.RefreshTokenExpiry)
	userSvc := service.NewUserService(userRepo)
	movieSvc := service.NewMovieService(movieRepo, cache, searchSvc, bus, tmdbClient, cfg.PaginationLimit)
	reviewSvc := service.NewReviewService(reviewRepo, cache, cfg.PaginationLimit)
	recommendSvc := service.NewRecommendService(userRepo, movieRepo, reviewRepo, cfg.RecommendationMinRating, cfg.PaginationLimit)
	analyticsSvc := service.NewAnalyticsService(movieRepo)

	// Background workers
	notifier := service.NewNotifier(bus, userRepo)
	go func() {
		if err := notifier.Start(ctx); err != nil {
			log.Error().Err(err).Msg("notifier stopped with error")
		}
	}()

	reindexWorker := service.NewReindexWorker(movieRepo, searchSvc, cfg.SearchReindexInterval)
	reindexWorker.OnRebuild(handler.Metrics.SearchReindexDuration.Observe)
	go reindexWorker.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "movs-n-rec API",
		ServerHeader: "movs-n-rec",
	})

	router.Setup(app, &router.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		User:      handler.NewUserHandler(userSvc),
		Movie:     handler.NewMovieHandler(movieSvc),
		Review:    handler.NewReviewHandler(reviewSvc),
		Recommend: handler.NewRecommendHandler(recommendSvc),
		Search:    handler.NewSearchHandler(searchSvc),
		Analytics: handler.NewAnalyticsHandler(analyticsSvc),
		Stats:     handler.NewStatsHandler(userSvc),
		Health:    handler.NewHealthHandler(pool, cache.Client()),
	}, authSvc, cfg.CORSOrigins)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("backend starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received, draining")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
