package di

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"loreweave-backend/internal/config"
	"loreweave-backend/internal/handlers"
	"loreweave-backend/internal/infrastructure/observability"
	"loreweave-backend/internal/middleware"
)

// newRouter assembles the HTTP surface: global middleware, public
// health/metrics endpoints, and the versioned API behind a circuit breaker.
func newRouter(
	cfg *config.Config,
	logger *zap.Logger,
	collector *observability.Collector,
	canvases *handlers.CanvasHandler,
	generations *handlers.GenerationHandler,
	health *handlers.HealthHandler,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - applied to all routes
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout, logger))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if cfg.Observability.EnableMetrics {
		r.Use(observability.MetricsMiddleware(collector))
	}
	if cfg.Observability.EnableTracing {
		r.Use(observability.TracingMiddleware(cfg.Observability.ServiceName))
	}

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/health", health.Health)
		if cfg.Observability.EnableMetrics {
			r.Method(http.MethodGet, "/metrics", collector.Handler())
		}
	})

	// API routes, shed under sustained failure so a wedged generation
	// backend cannot pile up request goroutines.
	r.Group(func(r chi.Router) {
		r.Use(middleware.CircuitBreaker(middleware.DefaultCircuitBreakerConfig("api"), logger))
		handlers.RegisterRoutes(r, canvases, generations)
	})

	return r
}
