package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics holds all Prometheus collectors for the backend.
var Metrics = struct {
	ReviewsTotal           prometheus.Counter
	MoviesCreatedTotal     *prometheus.CounterVec
	RequestDuration        *prometheus.HistogramVec
	DBPoolActive           prometheus.GaugeFunc
	DBPoolIdle             prometheus.GaugeFunc
	RequestsInFlight       prometheus.Gauge
	CacheHits              prometheus.Counter
	CacheMisses            prometheus.Counter
	RecommendationDuration prometheus.Histogram
	SearchReindexDuration  prometheus.Histogram
}{}

// InitMetrics registers all Prometheus metrics. Call once at startup.
func InitMetrics(pool *pgxpool.Pool) {
	Metrics.ReviewsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "movies_reviews_total",
			Help: "Total reviews submitted.",
		},
	)

	Metrics.MoviesCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movies_created_total",
			Help: "Total movies added to the catalog, by source.",
		},
		[]string{"source"},
	)

	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movies_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "movies_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	Metrics.CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "movies_cache_hits_total",
			Help: "Total Redis cache hits.",
		},
	)

	Metrics.CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "movies_cache_misses_total",
			Help: "Total Redis cache misses.",
		},
	)

	Metrics.RecommendationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "movies_recommendation_duration_seconds",
			Help:    "Duration of recommendation aggregation requests.",
			Buckets: prometheus.DefBuckets,
		},
	)

	Metrics.SearchReindexDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "movies_search_reindex_duration_seconds",
			Help:    "Duration of full search mirror rebuilds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// DB pool gauges read live stats from pgxpool
	if pool != nil {
		Metrics.DBPoolActive = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "movies_db_connection_pool_active",
				Help: "Number of active database connections.",
			},
			func() float64 {
				return float64(pool.Stat().AcquiredConns())
			},
		)

		Metrics.DBPoolIdle = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "movies_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			},
			func() float64 {
				return float64(pool.Stat().IdleConns())
			},
		)

		prometheus.MustRegister(Metrics.DBPoolActive)
		prometheus.MustRegister(Metrics.DBPoolIdle)
	}

	prometheus.MustRegister(
		Metrics.ReviewsTotal,
		Metrics.MoviesCreatedTotal,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.CacheHits,
		Metrics.CacheMisses,
		Metrics.RecommendationDuration,
		Metrics.SearchReindexDuration,
	)
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next() — Fiber
		// returns slices backed by the fasthttp buffer which can be reused
		// or overwritten by handlers (especially fasthttpadaptor).
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// sanitizeEndpoint normalizes paths to avoid cardinality explosion.
func sanitizeEndpoint(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/movies/") && strings.HasSuffix(path, "/reviews"):
		return "/api/movies/:movieId/reviews"
	case strings.HasPrefix(path, "/api/movies/tmdb/"):
		return "/api/movies/tmdb/:tmdbId"
	case strings.HasPrefix(path, "/api/movies/"):
		return "/api/movies/:movieId"
	case strings.HasPrefix(path, "/api/users/") && strings.HasSuffix(path, "/genres"):
		return "/api/users/:userId/genres"
	case strings.HasPrefix(path, "/api/users/"):
		return "/api/users/:userId"
	default:
		return path
	}
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
