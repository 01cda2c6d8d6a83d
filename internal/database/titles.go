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
	"github.com/tomtom215/reelgauge/internal/metrics"
)

// CleanMovieTitles populates the clean_title column by stripping every
// character that is not a letter, digit, or space from the raw title.
// Search operates on clean_title so punctuation differences in the source
// data ("Seven (a.k.a. Se7en)") do not break matching.
//
// This is a one-time enrichment after import; re-running it is harmless.
func (db *DB) CleanMovieTitles(ctx context.Context) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()

	// Imported tables may predate the schema's clean_title column.
	if _, err := db.conn.ExecContext(ctx,
		`ALTER TABLE movies ADD COLUMN IF NOT EXISTS clean_title VARCHAR`); err != nil {
		return 0, fmt.Errorf("failed to add clean_title column: %w", err)
	}

	res, err := db.conn.ExecContext(ctx,
		`UPDATE movies SET clean_title = regexp_replace(title, '[^a-zA-Z0-9 ]', '', 'g')`)
	metrics.RecordDBQuery("update", "movies", time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to clean movie titles: %w", err)
	}

	updated, err := res.RowsAffected()
	if err != nil {
		// DuckDB reports affected rows; treat a missing count as zero rather than failing
		updated = 0
	}

	logging.Info().Int64("rows", updated).Msg("Cleaned movie titles")
	return updated, nil
}
