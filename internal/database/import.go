// Reelgauge - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelgauge

package database

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tomtom215/reelgauge/internal/logging"
	"github.com/tomtom215/reelgauge/internal/metrics"
)

// validTableName restricts imported table names to safe SQL identifiers.
// Table names come from filenames and cannot be bound as query parameters.
var validTableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ImportCSVDir loads every *.csv file in dir into a table named after the
// lowercased filename (movies.csv -> movies, ratings.csv -> ratings).
// Existing tables are replaced, so an import is a full snapshot refresh.
// Returns a map of table name to imported row count.
func (db *DB) ImportCSVDir(ctx context.Context, dir string) (map[string]int64, error) {
	start := time.Now()

	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan csv directory %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no csv files found in %s", dir)
	}

	counts := make(map[string]int64, len(files))
	for _, path := range files {
		table := strings.ToLower(strings.TrimSuffix(filepath.Base(path), ".csv"))
		if !validTableName.MatchString(table) {
			return nil, fmt.Errorf("csv filename %q does not map to a valid table name", filepath.Base(path))
		}

		count, err := db.importCSVFile(ctx, table, path)
		if err != nil {
			return nil, fmt.Errorf("failed to import %s: %w", path, err)
		}
		counts[table] = count

		metrics.ImportedRows.WithLabelValues(table).Add(float64(count))
		logging.Info().
			Str("table", table).
			Str("file", path).
			Int64("rows", count).
			Msg("Imported CSV file")
	}

	// read_csv_auto builds movies from the CSV header alone; restore the
	// enrichment column so metadata reads work before titles are cleaned.
	if _, ok := counts["movies"]; ok {
		if _, err := db.conn.ExecContext(ctx,
			`ALTER TABLE movies ADD COLUMN IF NOT EXISTS clean_title VARCHAR`); err != nil {
			return nil, fmt.Errorf("failed to restore clean_title column: %w", err)
		}
	}

	// CREATE OR REPLACE drops indexes along with the old table
	if err := db.createIndexes(); err != nil {
		return nil, fmt.Errorf("failed to rebuild indexes after import: %w", err)
	}

	if err := db.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to checkpoint after import")
	}

	metrics.ImportDuration.Observe(time.Since(start).Seconds())
	return counts, nil
}

// importCSVFile replaces one table with the contents of a CSV file using
// DuckDB's read_csv_auto for type and header inference.
func (db *DB) importCSVFile(ctx context.Context, table, path string) (int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()

	// The file path is inlined because DDL statements do not support
	// parameter binding; single quotes are escaped to keep the literal safe.
	escaped := strings.ReplaceAll(path, "'", "''")
	ddl := fmt.Sprintf(`CREATE OR REPLACE TABLE %s AS SELECT * FROM read_csv_auto('%s')`, table, escaped)

	_, err := db.conn.ExecContext(ctx, ddl)
	metrics.RecordDBQuery("import", table, time.Since(start), err)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := db.conn.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count imported rows: %w", err)
	}

	return count, nil
}
