// Reelgauge - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelgauge

package recommend

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tomtom215/reelgauge/internal/models"
)

// HighRatingThreshold is the rating value a rating event must exceed to count
// as "highly rated". Ratings are on a 0.5-5.0 scale in half-point increments.
const HighRatingThreshold = 4.0

// AffinityFloor is the noise floor applied to both aggregator statistics:
// movies whose cohort-relative score does not exceed it are dropped before
// they reach the combiner.
const AffinityFloor = 0.1

// MovieAffinity is one entry of the similar-user affinity statistic: the
// fraction of the target movie's seed cohort that also rated this movie
// highly. Affinity is in [0,1].
type MovieAffinity struct {
	MovieID  int64   `json:"movie_id"`
	Affinity float64 `json:"affinity"`
}

// RatingEvent is a single highly-rated event from the cohort-filtered event
// set. Events arrive at the combiner unaggregated; popularity is derived
// from them per request.
type RatingEvent struct {
	UserID  int64   `json:"user_id"`
	MovieID int64   `json:"movie_id"`
	Rating  float64 `json:"rating"`
}

// DataSource supplies the two aggregator statistics and the movie metadata
// table. Implementations must be pure reads: an unknown movie ID or an empty
// cohort yields empty results, not an error. Errors are reserved for the
// data source itself being unavailable.
type DataSource interface {
	// SimilarUserAffinity returns the per-movie affinity statistic for the
	// target movie's seed cohort, filtered to affinity > AffinityFloor.
	SimilarUserAffinity(ctx context.Context, movieID int64) ([]MovieAffinity, error)

	// CohortRatingEvents returns the raw highly-rated events restricted to
	// movies the seed cohort co-likes above AffinityFloor.
	CohortRatingEvents(ctx context.Context, movieID int64) ([]RatingEvent, error)

	// Movies returns the full movie reference table.
	Movies(ctx context.Context) ([]models.Movie, error)
}

// Config contains tuning parameters for the engine.
type Config struct {
	// MaxResults is the number of ranked rows kept before the metadata join.
	// A movie missing from metadata is dropped afterwards, so responses may
	// carry fewer entries.
	MaxResults int `json:"max_results" koanf:"max_results"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		MaxResults: 10,
	}
}

// Validate checks configuration bounds.
func (c Config) Validate() error {
	if c.MaxResults < 1 {
		return fmt.Errorf("max_results must be positive, got %d", c.MaxResults)
	}
	return nil
}

// ParseMovieID converts an external textual movie identifier to the engine's
// native int64. Selection surfaces hand ids around in assorted numeric
// shapes ("318", "318.0", " 318 "); everything is normalized here, at the
// aggregator boundary, instead of relying on incidental coercion downstream.
func ParseMovieID(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("movie id is empty")
	}

	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return id, nil
	}

	// Tolerate float renderings of integral ids.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("movie id %q is not numeric", raw)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("movie id %q is not an integer", raw)
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("movie id %q out of range", raw)
	}
	return int64(f), nil
}
