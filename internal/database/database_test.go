// Reelgauge - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelgauge

package database

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/reelgauge/internal/config"
)

// testDBSemaphore limits concurrent database creation to prevent resource
// exhaustion in CI. Concurrent DuckDB CGO calls can hang under pressure, so
// database access is fully serialized across tests.
var testDBSemaphore = make(chan struct{}, 1)

// testDBMutex serializes database creation for short periods to reduce contention.
var testDBMutex sync.Mutex

// setupTestDB creates a new in-memory test database with timeout protection.
// The semaphore is held for the ENTIRE test lifecycle (released via
// t.Cleanup) so only one test has an active DuckDB connection at a time.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Acquire semaphore to limit concurrency - blocks until available
	testDBSemaphore <- struct{}{}
	t.Cleanup(func() {
		<-testDBSemaphore
	})

	cfg := &config.DatabaseConfig{
		Path:      ":memory:",
		MaxMemory: "1GB",
	}

	type result struct {
		db  *DB
		err error
	}

	resultCh := make(chan result, 1)
	go func() {
		testDBMutex.Lock()
		db, err := New(cfg)
		testDBMutex.Unlock()
		resultCh <- result{db: db, err: err}
	}()

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("Failed to create test database: %v", res.err)
		}
		t.Cleanup(func() {
			if err := res.db.Close(); err != nil {
				t.Errorf("Failed to close test database: %v", err)
			}
		})
		return res.db
	case <-time.After(120 * time.Second):
		t.Fatalf("Timeout: database creation took longer than 120s")
		return nil
	}
}

// insertTestMovies seeds the movies table.
func insertTestMovies(t *testing.T, db *DB, movies [][3]interface{}) {
	t.Helper()
	for _, m := range movies {
		_, err := db.conn.Exec(
			`INSERT INTO movies ("movieId", title, genres) VALUES (?, ?, ?)`,
			m[0], m[1], m[2])
		if err != nil {
			t.Fatalf("Failed to insert test movie: %v", err)
		}
	}
}

// insertTestRating inserts one rating event.
func insertTestRating(t *testing.T, db *DB, userID, movieID int64, rating float64) {
	t.Helper()
	_, err := db.conn.Exec(
		`INSERT INTO ratings ("userId", "movieId", rating, "timestamp") VALUES (?, ?, ?, ?)`,
		userID, movieID, rating, time.Now().Unix())
	if err != nil {
		t.Fatalf("Failed to insert test rating: %v", err)
	}
}

func TestNewCreatesSchema(t *testing.T) {
	db := setupTestDB(t)

	ctx := context.Background()
	movies, ratings, err := db.GetRecordCounts(ctx)
	if err != nil {
		t.Fatalf("GetRecordCounts() error = %v", err)
	}
	if movies != 0 || ratings != 0 {
		t.Errorf("fresh database has %d movies, %d ratings, want 0/0", movies, ratings)
	}
}

func TestPing(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestCheckpoint(t *testing.T) {
	db := setupTestDB(t)

	if err := db.Checkpoint(context.Background()); err != nil {
		t.Errorf("Checkpoint() error = %v", err)
	}
}

func TestGetRecordCounts(t *testing.T) {
	db := setupTestDB(t)

	insertTestMovies(t, db, [][3]interface{}{
		{int64(1), "Toy Story (1995)", "Animation|Children"},
		{int64(2), "Jumanji (1995)", "Adventure"},
	})
	insertTestRating(t, db, 100, 1, 5.0)

	movies, ratings, err := db.GetRecordCounts(context.Background())
	if err != nil {
		t.Fatalf("GetRecordCounts() error = %v", err)
	}
	if movies != 2 {
		t.Errorf("movies = %d, want 2", movies)
	}
	if ratings != 1 {
		t.Errorf("ratings = %d, want 1", ratings)
	}
}

func TestCreateTablesIdempotent(t *testing.T) {
	db := setupTestDB(t)

	// Schema creation runs once in New; a second pass must not fail.
	if err := db.createTables(); err != nil {
		t.Errorf("createTables() second run error = %v", err)
	}
	if err := db.createIndexes(); err != nil {
		t.Errorf("createIndexes() second run error = %v", err)
	}
}

func TestCreateIndexesPresent(t *testing.T) {
	db := setupTestDB(t)

	rows, err := db.conn.Query(`SELECT index_name FROM duckdb_indexes()`)
	if err != nil {
		t.Fatalf("duckdb_indexes() query error = %v", err)
	}
	defer rows.Close()

	present := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan error = %v", err)
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows error = %v", err)
	}

	want := []string{
		"idx_ratings_movie",
		"idx_ratings_user",
		"idx_ratings_rating",
		"idx_ratings_movie_rating",
		"idx_ratings_user_rating",
		"idx_movies_movie",
		"idx_movies_clean_title",
	}
	for _, name := range want {
		if !present[name] {
			t.Errorf("index %s missing", name)
		}
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unrelated", fmt.Errorf("syntax error"), false},
		{"closed", fmt.Errorf("sql: database is closed"), true},
		{"bad conn", fmt.Errorf("driver: bad connection"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConnectionError(tt.err); got != tt.want {
				t.Errorf("IsConnectionError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
