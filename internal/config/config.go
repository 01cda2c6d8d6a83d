// Reelgauge - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelgauge

// Package config defines application configuration and loads it via Koanf v2
// with layered sources: built-in defaults, an optional YAML file, and
// environment variables (highest priority).
package config

import (
	"fmt"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Import    ImportConfig    `koanf:"import"`
	Recommend RecommendConfig `koanf:"recommend"`
	API       APIConfig       `koanf:"api"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// DatabaseConfig contains DuckDB settings.
type DatabaseConfig struct {
	// Path is the database file path, or ":memory:" for an ephemeral store.
	Path string `koanf:"path"`

	// MaxMemory bounds DuckDB's memory usage (e.g. "2GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads sets DuckDB's thread count. 0 = use runtime.NumCPU().
	Threads int `koanf:"threads"`

	// PreserveInsertionOrder matches the DuckDB default. Disabling it
	// reduces memory usage for large imports but may change result order
	// of unordered queries.
	PreserveInsertionOrder bool `koanf:"preserve_insertion_order"`
}

// ImportConfig controls the one-time data preparation steps that run at
// startup: CSV ingestion, title cleaning, and index creation.
type ImportConfig struct {
	// Enabled runs CSV import at startup.
	Enabled bool `koanf:"enabled"`

	// CSVDir is the directory scanned for *.csv files. Each file becomes a
	// table named after the lowercased filename.
	CSVDir string `koanf:"csv_dir"`

	// CleanTitles populates the movies.clean_title column after import.
	CleanTitles bool `koanf:"clean_titles"`
}

// RecommendConfig contains recommendation engine and memoization settings.
type RecommendConfig struct {
	// MaxResults is the ranked-list truncation size.
	MaxResults int `koanf:"max_results"`

	// CacheTTL bounds how long a per-movie recommendation result is served
	// from cache. The cache is a latency optimization only; results are
	// recomputed after expiry.
	CacheTTL time.Duration `koanf:"cache_ttl"`

	// MoviesCacheTTL bounds the movie metadata table cache. The reference
	// table is assumed stable for a session.
	MoviesCacheTTL time.Duration `koanf:"movies_cache_ttl"`
}

// APIConfig contains API behavior settings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8394,
			Timeout:         30 * time.Second,
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: 1 * time.Minute,
		},
		Database: DatabaseConfig{
			Path:                   "/data/reelgauge.duckdb",
			MaxMemory:              "2GB",
			Threads:                0, // 0 = use runtime.NumCPU()
			PreserveInsertionOrder: true,
		},
		Import: ImportConfig{
			Enabled:     false, // opt-in: the database usually already holds data
			CSVDir:      "data/csv_files",
			CleanTitles: true,
		},
		Recommend: RecommendConfig{
			MaxResults:     10,
			CacheTTL:       10 * time.Minute,
			MoviesCacheTTL: 1 * time.Hour,
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks the configuration for invalid combinations.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be positive")
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}
	if c.Import.Enabled && c.Import.CSVDir == "" {
		return fmt.Errorf("import.csv_dir is required when import is enabled")
	}
	if c.Recommend.MaxResults < 1 {
		return fmt.Errorf("recommend.max_results must be positive, got %d", c.Recommend.MaxResults)
	}
	if c.Recommend.CacheTTL < 0 || c.Recommend.MoviesCacheTTL < 0 {
		return fmt.Errorf("cache TTLs must not be negative")
	}
	if c.API.DefaultPageSize < 1 || c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("invalid API page size configuration")
	}
	return nil
}
