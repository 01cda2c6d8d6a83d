// Reelgauge - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelgauge

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/reelgauge/internal/cache"
	"github.com/tomtom215/reelgauge/internal/config"
	"github.com/tomtom215/reelgauge/internal/database"
	"github.com/tomtom215/reelgauge/internal/metrics"
	"github.com/tomtom215/reelgauge/internal/middleware"
	"github.com/tomtom215/reelgauge/internal/models"
	"github.com/tomtom215/reelgauge/internal/recommend"
)

const version = "1.0.0"

// Handler holds dependencies for all HTTP handlers.
type Handler struct {
	config  *config.Config
	db      *database.DB
	engine  *recommend.Engine
	perfMon *middleware.PerformanceMonitor

	// recCache memoizes per-movie recommendation lists; moviesCache holds
	// the full reference table. Both are latency optimizations only:
	// entries expire on their TTL and results are recomputed.
	recCache    *cache.Cache
	moviesCache *cache.Cache

	startTime time.Time
}

// NewHandler creates a handler with its caches configured from cfg.
func NewHandler(cfg *config.Config, db *database.DB, engine *recommend.Engine, perfMon *middleware.PerformanceMonitor) *Handler {
	return &Handler{
		config:      cfg,
		db:          db,
		engine:      engine,
		perfMon:     perfMon,
		recCache:    cache.New(cfg.Recommend.CacheTTL),
		moviesCache: cache.New(cfg.Recommend.MoviesCacheTTL),
		startTime:   time.Now(),
	}
}

// Health handles health check requests, reporting database connectivity
// and record counts.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	status := "healthy"
	var movieCount, ratingCount int64
	if dbConnected {
		var err error
		movieCount, ratingCount, err = h.db.GetRecordCounts(r.Context())
		if err != nil {
			status = "degraded"
		}
	} else {
		status = "degraded"
	}

	health := models.HealthStatus{
		Status:            status,
		Version:           version,
		DatabaseConnected: dbConnected,
		MovieCount:        movieCount,
		RatingCount:       ratingCount,
		UptimeSeconds:     time.Since(h.startTime).Seconds(),
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthLive is a minimal liveness probe.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"status": "alive"},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady is a readiness probe: ready only when the database answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil || h.db.Ping(r.Context()) != nil {
		respondError(w, http.StatusServiceUnavailable, "DATABASE_ERROR", "Database not ready", nil)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"status": "ready"},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// moviesRequest carries validated pagination parameters.
type moviesRequest struct {
	Limit  int `validate:"min=1,max=1000"`
	Offset int `validate:"min=0"`
}

// Movies returns a page of the movie reference table. The full table is
// cached; pagination slices the cached copy.
func (h *Handler) Movies(w http.ResponseWriter, r *http.Request) {
	req := moviesRequest{
		Limit:  getIntParam(r, "limit", h.config.API.DefaultPageSize),
		Offset: getIntParam(r, "offset", 0),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}
	if req.Limit > h.config.API.MaxPageSize {
		req.Limit = h.config.API.MaxPageSize
	}

	start := time.Now()

	movies, cached, err := h.allMovies(r.Context())
	if err != nil {
		respondDatabaseError(w, "Failed to load movies", err)
		return
	}

	total := len(movies)
	if req.Offset > total {
		req.Offset = total
	}
	end := req.Offset + req.Limit
	if end > total {
		end = total
	}
	page := movies[req.Offset:end]

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"movies": page,
			"total":  total,
			"limit":  req.Limit,
			"offset": req.Offset,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      cached,
		},
	})
}

// allMovies returns the cached movie table, loading it on a miss.
func (h *Handler) allMovies(ctx context.Context) ([]models.Movie, bool, error) {
	key := cache.GenerateKey("movies", nil)
	if v, ok := h.moviesCache.Get(key); ok {
		metrics.CacheHits.WithLabelValues("movies").Inc()
		return v.([]models.Movie), true, nil
	}
	metrics.CacheMisses.WithLabelValues("movies").Inc()

	movies, err := h.db.Movies(ctx)
	if err != nil {
		return nil, false, err
	}
	if movies == nil {
		movies = []models.Movie{}
	}
	h.moviesCache.Set(key, movies)
	return movies, false, nil
}

// SearchMovies finds movies by cleaned-title substring match.
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "query parameter q is required", nil)
		return
	}

	limit := getIntParam(r, "limit", h.config.API.DefaultPageSize)
	if limit > h.config.API.MaxPageSize {
		limit = h.config.API.MaxPageSize
	}

	start := time.Now()
	results, err := h.db.SearchMovies(r.Context(), term, limit)
	if err != nil {
		respondDatabaseError(w, "Movie search failed", err)
		return
	}
	if results == nil {
		results = []models.Movie{}
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"movies": results,
			"total":  len(results),
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// Recommend computes the ranked recommendation list for a target movie.
//
// A data-source failure responds with DATABASE_ERROR; a movie with no
// qualifying cohort responds success with an empty list. The two cases stay
// distinguishable to clients.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	movieID, err := recommend.ParseMovieID(chi.URLParam(r, "movieID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_MOVIE_ID", "movie id must be an integer", err)
		return
	}

	cacheKey := cache.GenerateKey("recommend", map[string]interface{}{"movie_id": movieID})
	if v, ok := h.recCache.Get(cacheKey); ok {
		metrics.CacheHits.WithLabelValues("recommendations").Inc()
		respondJSON(w, http.StatusOK, &models.APIResponse{
			Status: "success",
			Data:   v,
			Metadata: models.Metadata{
				Timestamp: time.Now(),
				Cached:    true,
			},
		})
		return
	}
	metrics.CacheMisses.WithLabelValues("recommendations").Inc()

	start := time.Now()
	recs, err := h.engine.Recommend(r.Context(), movieID)
	metrics.RecordRecommendation(time.Since(start), len(recs), err)
	if err != nil {
		respondDatabaseError(w, "Failed to compute recommendations", err)
		return
	}
	if recs == nil {
		recs = []models.Recommendation{}
	}

	data := map[string]interface{}{
		"movie_id":        movieID,
		"recommendations": recs,
		"total":           len(recs),
	}
	h.recCache.SetWithTTL(cacheKey, data, h.config.Recommend.CacheTTL)

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// Performance returns per-endpoint latency statistics from the in-process
// performance monitor.
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"endpoints": h.perfMon.GetStats(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
