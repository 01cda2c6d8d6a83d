// Reelgauge - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelgauge

// Package main is the entry point for the Reelgauge server.
//
// Reelgauge serves collaborative-filtering movie recommendations over a
// MovieLens-style dataset stored in DuckDB. Given a target movie it finds
// the users who rated it highly, measures which other movies that cohort
// also rates highly, normalizes by cohort-relative popularity, and returns
// a ranked top list.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered sources (defaults, config.yaml, env)
//  2. Database: DuckDB with the movies and ratings tables
//  3. Data preparation (optional): CSV import and title cleaning at startup
//  4. Recommendation engine: pure scoring logic over the database queries
//  5. HTTP Server: Chi router with health, movie, and recommendation routes
//
// # Configuration
//
// Common environment variables:
//
//	DUCKDB_PATH            database file path (default /data/reelgauge.duckdb)
//	HTTP_PORT              listen port (default 8394)
//	IMPORT_ENABLED=true    import *.csv from IMPORT_CSV_DIR at startup
//	IMPORT_CSV_DIR         directory holding movies.csv and ratings.csv
//	RECOMMEND_MAX_RESULTS  ranked list size (default 10)
//	LOG_LEVEL              trace|debug|info|warn|error (default info)
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections, waits up to 10s for in-flight requests, then
// checkpoints and closes the database.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/reelgauge/internal/api"
	"github.com/tomtom215/reelgauge/internal/config"
	"github.com/tomtom215/reelgauge/internal/database"
	"github.com/tomtom215/reelgauge/internal/logging"
	"github.com/tomtom215/reelgauge/internal/recommend"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Bool("import_enabled", cfg.Import.Enabled).
		Msg("Starting Reelgauge")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	if cfg.Import.Enabled {
		if err := runImport(db, cfg); err != nil {
			logging.Fatal().Err(err).Msg("Failed to import rating data")
		}
	}

	engine, err := recommend.NewEngine(
		recommend.Config{MaxResults: cfg.Recommend.MaxResults},
		db,
		logging.Logger(),
	)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	router := api.NewRouter(cfg, db, engine)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("HTTP server shutdown error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("HTTP server error")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}

// runImport performs the startup data preparation: CSV import and, when
// enabled, title cleaning.
func runImport(db *database.DB, cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	counts, err := db.ImportCSVDir(ctx, cfg.Import.CSVDir)
	if err != nil {
		return fmt.Errorf("csv import failed: %w", err)
	}
	for table, rows := range counts {
		logging.Info().Str("table", table).Int64("rows", rows).Msg("Table imported")
	}

	if cfg.Import.CleanTitles {
		updated, err := db.CleanMovieTitles(ctx)
		if err != nil {
			return fmt.Errorf("title cleaning failed: %w", err)
		}
		logging.Info().Int64("rows", updated).Msg("Movie titles cleaned")
	}

	return nil
}
