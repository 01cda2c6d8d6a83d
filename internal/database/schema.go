// Reelgauge - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelgauge

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/reelgauge/internal/logging"
)

// createTables creates the movies and ratings tables if they don't exist.
// Column names are quoted to preserve the camelCase identifiers used by
// the MovieLens CSV headers.
func (db *DB) createTables() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tables := []string{
		`CREATE TABLE IF NOT EXISTS movies (
			"movieId" BIGINT PRIMARY KEY,
			title VARCHAR NOT NULL,
			genres VARCHAR,
			clean_title VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS ratings (
			"userId" BIGINT NOT NULL,
			"movieId" BIGINT NOT NULL,
			rating DOUBLE NOT NULL,
			"timestamp" BIGINT
		)`,
	}

	for _, ddl := range tables {
		if _, err := db.conn.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// createIndexes creates indexes supporting the recommendation queries.
// The cohort queries filter ratings by movieId+rating and userId+rating,
// so both composite orderings are covered.
func (db *DB) createIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_ratings_movie ON ratings ("movieId")`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_user ON ratings ("userId")`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_rating ON ratings (rating)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_movie_rating ON ratings ("movieId", rating)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_user_rating ON ratings ("userId", rating)`,
		`CREATE INDEX IF NOT EXISTS idx_movies_movie ON movies ("movieId")`,
		`CREATE INDEX IF NOT EXISTS idx_movies_clean_title ON movies (clean_title)`,
	}

	for _, ddl := range indexes {
		if _, err := db.conn.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	logging.Debug().Int("count", len(indexes)).Msg("Database indexes ensured")
	return nil
}
