// Reelgauge - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelgauge

package recommend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelgauge/internal/models"
)

// Engine computes ranked recommendations from a DataSource. It carries no
// mutable state across requests; all intermediate statistics are local to a
// single Recommend call.
type Engine struct {
	cfg    Config
	source DataSource
	logger zerolog.Logger
}

// NewEngine creates an engine with the given configuration and data source.
func NewEngine(cfg Config, source DataSource, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	if source == nil {
		return nil, fmt.Errorf("data source is required")
	}
	return &Engine{
		cfg:    cfg,
		source: source,
		logger: logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Recommend returns up to MaxResults recommendations for the target movie,
// ordered by descending score.
//
// The return values distinguish the three outcomes callers care about:
// a non-empty slice (recommendations found), an empty slice with nil error
// (the target has no qualifying cohort, legitimately nothing to recommend),
// and a non-nil error (the data source failed). Callers must not collapse
// the last two.
func (e *Engine) Recommend(ctx context.Context, movieID int64) ([]models.Recommendation, error) {
	start := time.Now()

	affinities, err := e.source.SimilarUserAffinity(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("similar-user affinity for movie %d: %w", movieID, err)
	}

	events, err := e.source.CohortRatingEvents(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("cohort rating events for movie %d: %w", movieID, err)
	}

	// Empty cohort: both statistics are empty and nothing can be scored.
	if len(events) == 0 {
		e.logger.Debug().Int64("movie_id", movieID).Msg("no qualifying cohort events")
		return []models.Recommendation{}, nil
	}

	ranked := combineScores(affinities, events, e.cfg.MaxResults)

	movies, err := e.source.Movies(ctx)
	if err != nil {
		return nil, fmt.Errorf("movie metadata: %w", err)
	}

	results := joinMetadata(ranked, movies)

	e.logger.Debug().
		Int64("movie_id", movieID).
		Int("results", len(results)).
		Dur("elapsed", time.Since(start)).
		Msg("recommendations computed")

	return results, nil
}

// scoredMovie is the merged per-movie row before the metadata join.
type scoredMovie struct {
	movieID int64
	score   float64
}

// combineScores merges the affinity statistic with the cohort event set,
// derives per-movie scores, and returns the top maxResults rows sorted by
// descending score.
//
// Popularity is eventCount(movie) / distinctUsers(event set). The merge is a
// full outer join on movie ID with missing sides filled as zero, and a
// popularity of exactly zero is replaced by one before dividing: a movie with
// affinity but no measured popularity scores its affinity unchanged, never
// infinity.
func combineScores(affinities []MovieAffinity, events []RatingEvent, maxResults int) []scoredMovie {
	eventCounts := make(map[int64]int, len(events))
	users := make(map[int64]struct{})
	for _, ev := range events {
		eventCounts[ev.MovieID]++
		users[ev.UserID] = struct{}{}
	}

	popularity := make(map[int64]float64, len(eventCounts))
	if n := len(users); n > 0 {
		for movieID, count := range eventCounts {
			popularity[movieID] = float64(count) / float64(n)
		}
	}

	affinity := make(map[int64]float64, len(affinities))
	for _, a := range affinities {
		affinity[a.MovieID] = a.Affinity
	}

	// Full outer merge on movie ID, zero-filled.
	merged := make(map[int64]struct{}, len(affinity)+len(popularity))
	for id := range affinity {
		merged[id] = struct{}{}
	}
	for id := range popularity {
		merged[id] = struct{}{}
	}

	scored := make([]scoredMovie, 0, len(merged))
	for id := range merged {
		pop := popularity[id]
		if pop == 0 {
			pop = 1
		}
		scored = append(scored, scoredMovie{
			movieID: id,
			score:   affinity[id] / pop,
		})
	}

	// Movie ID breaks score ties so a fixed snapshot always ranks identically.
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].movieID < scored[j].movieID
	})

	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}
	return scored
}

// joinMetadata resolves ranked rows against the movie reference table.
// Inner-join semantics: a scored movie absent from metadata is dropped, so
// the response never carries a null-titled row.
func joinMetadata(ranked []scoredMovie, movies []models.Movie) []models.Recommendation {
	meta := make(map[int64]models.Movie, len(movies))
	for _, m := range movies {
		meta[m.MovieID] = m
	}

	results := make([]models.Recommendation, 0, len(ranked))
	for _, s := range ranked {
		m, ok := meta[s.movieID]
		if !ok {
			continue
		}
		results = append(results, models.Recommendation{
			MovieID: s.movieID,
			Title:   m.Title,
			Genres:  m.Genres,
			Score:   s.score,
		})
	}
	return results
}
