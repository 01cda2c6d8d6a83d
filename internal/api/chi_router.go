// Reelgauge - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelgauge

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/reelgauge/internal/config"
	"github.com/tomtom215/reelgauge/internal/database"
	"github.com/tomtom215/reelgauge/internal/middleware"
	"github.com/tomtom215/reelgauge/internal/recommend"
)

// chiMiddleware adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler so it works with r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Router wires handlers and middleware into the HTTP surface.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	perfMon       *middleware.PerformanceMonitor
}

// NewRouter creates a router from the application's components.
func NewRouter(cfg *config.Config, db *database.DB, engine *recommend.Engine) *Router {
	perfMon := middleware.NewPerformanceMonitor(1000)

	return &Router{
		handler: NewHandler(cfg, db, engine, perfMon),
		chiMiddleware: NewChiMiddlewareFromConfig(
			cfg.Server.CORSOrigins,
			cfg.Server.RateLimitReqs,
			cfg.Server.RateLimitWindow,
		),
		perfMon: perfMon,
	}
}

// Setup configures all HTTP routes using the Chi router.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(router.perfMon.Middleware)

	// Health endpoints get permissive rate limiting for monitoring probes
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// Data endpoints
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))

		r.Get("/movies", router.handler.Movies)
		r.Get("/movies/search", router.handler.SearchMovies)
		r.Get("/recommendations/movie/{movieID}", router.handler.Recommend)
		r.Get("/performance", router.handler.Performance)
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
