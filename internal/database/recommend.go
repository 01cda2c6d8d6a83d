// Reelgauge - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelgauge

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/reelgauge/internal/metrics"
	"github.com/tomtom215/reelgauge/internal/models"
	"github.com/tomtom215/reelgauge/internal/recommend"
)

// DB satisfies the engine's data source contract.
var _ recommend.DataSource = (*DB)(nil)

// SimilarUserAffinity computes the per-movie affinity statistic for the
// target movie's seed cohort: among users who rated the target above the
// high-rating threshold, the fraction who also rated each other movie that
// highly. Results below the noise floor are dropped in the query.
//
// An unknown movie ID or an empty cohort yields zero rows, not an error.
func (db *DB) SimilarUserAffinity(ctx context.Context, movieID int64) ([]recommend.MovieAffinity, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
		WITH seed_cohort AS (
			SELECT DISTINCT "userId"
			FROM ratings
			WHERE "movieId" = ? AND rating > ?
		),
		cohort_likes AS (
			SELECT r."movieId", COUNT(DISTINCT r."userId") AS fans
			FROM ratings r
			JOIN seed_cohort sc ON r."userId" = sc."userId"
			WHERE r.rating > ?
			GROUP BY r."movieId"
		)
		SELECT
			cl."movieId",
			cl.fans * 1.0 / (SELECT COUNT(*) FROM seed_cohort) AS affinity
		FROM cohort_likes cl
		WHERE cl.fans * 1.0 / (SELECT COUNT(*) FROM seed_cohort) > ?
		ORDER BY affinity DESC`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query,
		movieID, recommend.HighRatingThreshold, recommend.HighRatingThreshold, recommend.AffinityFloor)
	metrics.RecordDBQuery("select", "ratings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("similar-user affinity query failed: %w", err)
	}
	defer closeWithLog(rows, "affinity rows")

	var affinities []recommend.MovieAffinity
	for rows.Next() {
		var a recommend.MovieAffinity
		if err := rows.Scan(&a.MovieID, &a.Affinity); err != nil {
			return nil, fmt.Errorf("failed to scan affinity row: %w", err)
		}
		affinities = append(affinities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("affinity row iteration failed: %w", err)
	}

	return affinities, nil
}

// CohortRatingEvents returns the raw highly-rated events, from all users,
// restricted to movies the seed cohort co-likes above the noise floor.
// The events arrive unaggregated: the engine derives the cohort-relative
// popularity statistic from them. The pre-filter to co-liked movies means
// that statistic is not a true global base rate; downstream scoring depends
// on exactly this shape.
func (db *DB) CohortRatingEvents(ctx context.Context, movieID int64) ([]recommend.RatingEvent, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
		WITH seed_cohort AS (
			SELECT DISTINCT "userId"
			FROM ratings
			WHERE "movieId" = ? AND rating > ?
		),
		cohort_likes AS (
			SELECT r."movieId", COUNT(DISTINCT r."userId") AS fans
			FROM ratings r
			JOIN seed_cohort sc ON r."userId" = sc."userId"
			WHERE r.rating > ?
			GROUP BY r."movieId"
		),
		retained AS (
			SELECT "movieId"
			FROM cohort_likes
			WHERE fans * 1.0 / (SELECT COUNT(*) FROM seed_cohort) > ?
		)
		SELECT r."userId", r."movieId", r.rating
		FROM ratings r
		JOIN retained rt ON r."movieId" = rt."movieId"
		WHERE r.rating > ?`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query,
		movieID, recommend.HighRatingThreshold, recommend.HighRatingThreshold,
		recommend.AffinityFloor, recommend.HighRatingThreshold)
	metrics.RecordDBQuery("select", "ratings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("cohort rating events query failed: %w", err)
	}
	defer closeWithLog(rows, "event rows")

	var events []recommend.RatingEvent
	for rows.Next() {
		var e recommend.RatingEvent
		if err := rows.Scan(&e.UserID, &e.MovieID, &e.Rating); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("event row iteration failed: %w", err)
	}

	return events, nil
}

// Movies returns the full movie reference table.
func (db *DB) Movies(ctx context.Context) ([]models.Movie, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
		SELECT "movieId", title, COALESCE(genres, ''), COALESCE(clean_title, '')
		FROM movies
		ORDER BY "movieId"`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query)
	metrics.RecordDBQuery("select", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("movies query failed: %w", err)
	}
	defer closeWithLog(rows, "movie rows")

	var movies []models.Movie
	for rows.Next() {
		var m models.Movie
		if err := rows.Scan(&m.MovieID, &m.Title, &m.Genres, &m.CleanTitle); err != nil {
			return nil, fmt.Errorf("failed to scan movie row: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("movie row iteration failed: %w", err)
	}

	return movies, nil
}

// SearchMovies finds movies whose cleaned title contains the given term,
// case-insensitively. The term is cleaned the same way titles are so
// punctuation in the query cannot prevent a match.
func (db *DB) SearchMovies(ctx context.Context, term string, limit int) ([]models.Movie, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT "movieId", title, COALESCE(genres, ''), COALESCE(clean_title, '')
		FROM movies
		WHERE lower(COALESCE(clean_title, title)) LIKE '%' || lower(regexp_replace(?, '[^a-zA-Z0-9 ]', '', 'g')) || '%'
		ORDER BY "movieId"
		LIMIT ?`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, term, limit)
	metrics.RecordDBQuery("select", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("movie search query failed: %w", err)
	}
	defer closeWithLog(rows, "search rows")

	var movies []models.Movie
	for rows.Next() {
		var m models.Movie
		if err := rows.Scan(&m.MovieID, &m.Title, &m.Genres, &m.CleanTitle); err != nil {
			return nil, fmt.Errorf("failed to scan search row: %w", err)
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search row iteration failed: %w", err)
	}

	return movies, nil
}
