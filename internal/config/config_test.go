// Reelgauge - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelgauge

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithKoanfDefaults(t *testing.T) {
	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8394 {
		t.Errorf("server.port = %d, want 8394", cfg.Server.Port)
	}
	if cfg.Database.Path != "/data/reelgauge.duckdb" {
		t.Errorf("database.path = %q, want /data/reelgauge.duckdb", cfg.Database.Path)
	}
	if cfg.Recommend.MaxResults != 10 {
		t.Errorf("recommend.max_results = %d, want 10", cfg.Recommend.MaxResults)
	}
	if cfg.Recommend.CacheTTL != 10*time.Minute {
		t.Errorf("recommend.cache_ttl = %v, want 10m", cfg.Recommend.CacheTTL)
	}
	if cfg.Recommend.MoviesCacheTTL != 1*time.Hour {
		t.Errorf("recommend.movies_cache_ttl = %v, want 1h", cfg.Recommend.MoviesCacheTTL)
	}
	if cfg.Import.Enabled {
		t.Error("import.enabled should default to false")
	}
}

func TestLoadWithKoanfEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DUCKDB_PATH", ":memory:")
	t.Setenv("RECOMMEND_MAX_RESULTS", "5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Path != ":memory:" {
		t.Errorf("database.path = %q, want :memory:", cfg.Database.Path)
	}
	if cfg.Recommend.MaxResults != 5 {
		t.Errorf("recommend.max_results = %d, want 5", cfg.Recommend.MaxResults)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadWithKoanfCORSOriginsFromEnv(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.Server.CORSOrigins) != len(want) {
		t.Fatalf("cors_origins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Server.CORSOrigins[i] != want[i] {
			t.Errorf("cors_origins[%d] = %q, want %q", i, cfg.Server.CORSOrigins[i], want[i])
		}
	}
}

func TestLoadWithKoanfConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 7171\nimport:\n  enabled: true\n  csv_dir: /srv/ml-latest\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 7171 {
		t.Errorf("server.port = %d, want 7171", cfg.Server.Port)
	}
	if !cfg.Import.Enabled || cfg.Import.CSVDir != "/srv/ml-latest" {
		t.Errorf("import config = %+v, want enabled with /srv/ml-latest", cfg.Import)
	}
}

func TestLoadWithKoanfEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7171\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7272")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 7272 {
		t.Errorf("server.port = %d, want env override 7272", cfg.Server.Port)
	}
}

func TestLoadWithKoanfRejectsInvalid(t *testing.T) {
	t.Setenv("HTTP_PORT", "70000")

	if _, err := LoadWithKoanf(); err == nil {
		t.Error("expected validation failure for out-of-range port")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults valid", mutate: func(*Config) {}, wantErr: false},
		{name: "zero port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "empty db path", mutate: func(c *Config) { c.Database.Path = "" }, wantErr: true},
		{name: "import without dir", mutate: func(c *Config) {
			c.Import.Enabled = true
			c.Import.CSVDir = ""
		}, wantErr: true},
		{name: "zero max results", mutate: func(c *Config) { c.Recommend.MaxResults = 0 }, wantErr: true},
		{name: "negative cache ttl", mutate: func(c *Config) { c.Recommend.CacheTTL = -time.Second }, wantErr: true},
		{name: "max page below default", mutate: func(c *Config) { c.API.MaxPageSize = 5 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
