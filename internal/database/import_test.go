// Reelgauge - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelgauge

package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeCSVFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write csv fixture: %v", err)
	}
}

func TestImportCSVDir(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()

	writeCSVFixture(t, dir, "movies.csv",
		"movieId,title,genres\n1,Toy Story (1995),Animation|Children\n2,Jumanji (1995),Adventure\n")
	writeCSVFixture(t, dir, "ratings.csv",
		"userId,movieId,rating,timestamp\n1,1,5.0,964982703\n1,2,3.5,964982704\n2,1,4.5,964982705\n")

	counts, err := db.ImportCSVDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("ImportCSVDir() error = %v", err)
	}

	if counts["movies"] != 2 {
		t.Errorf("movies count = %d, want 2", counts["movies"])
	}
	if counts["ratings"] != 3 {
		t.Errorf("ratings count = %d, want 3", counts["ratings"])
	}

	movies, ratings, err := db.GetRecordCounts(context.Background())
	if err != nil {
		t.Fatalf("GetRecordCounts() error = %v", err)
	}
	if movies != 2 || ratings != 3 {
		t.Errorf("record counts = %d/%d, want 2/3", movies, ratings)
	}
}

func TestImportCSVDirUppercaseFilename(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()

	writeCSVFixture(t, dir, "Movies.csv",
		"movieId,title,genres\n1,Toy Story (1995),Animation\n")

	counts, err := db.ImportCSVDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("ImportCSVDir() error = %v", err)
	}
	if counts["movies"] != 1 {
		t.Errorf("lowercased table count = %d, want 1", counts["movies"])
	}
}

func TestImportCSVDirReplacesExisting(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()

	insertTestMovies(t, db, [][3]interface{}{
		{int64(99), "Stale (1990)", "Drama"},
	})

	writeCSVFixture(t, dir, "movies.csv",
		"movieId,title,genres\n1,Fresh (2020),Comedy\n")

	if _, err := db.ImportCSVDir(context.Background(), dir); err != nil {
		t.Fatalf("ImportCSVDir() error = %v", err)
	}

	movies, err := db.Movies(context.Background())
	if err != nil {
		t.Fatalf("Movies() error = %v", err)
	}
	if len(movies) != 1 || movies[0].MovieID != 1 {
		t.Errorf("import did not replace existing table: %+v", movies)
	}
}

func TestImportCSVDirEmpty(t *testing.T) {
	db := setupTestDB(t)

	if _, err := db.ImportCSVDir(context.Background(), t.TempDir()); err == nil {
		t.Error("expected error for directory with no csv files")
	}
}

func TestImportCSVDirBadFilename(t *testing.T) {
	db := setupTestDB(t)
	dir := t.TempDir()

	writeCSVFixture(t, dir, "bad name;drop.csv", "a,b\n1,2\n")

	if _, err := db.ImportCSVDir(context.Background(), dir); err == nil {
		t.Error("expected error for filename that is not a valid table name")
	}
}
