// Package api serves read-only previews of the assembled season worksheet.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"

	"github.com/tom-troughton/ukcs-spreadsheet/internal/api/handler"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/cache"
	"github.com/tom-troughton/ukcs-spreadsheet/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(previewer handler.Previewer, appCache *cache.Cache, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware(logger))
	r.Use(middleware.Compress(5)) // gzip
	r.Use(middleware.Recoverer)

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	h := handler.New(previewer, appCache, logger)

	r.Get("/", h.Root)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/cache", h.HealthCheckCache)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/seasons/{season}/standings", h.GetSeasonStandings)
	})

	return r
}
