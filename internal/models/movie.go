// Reelgauge - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelgauge

// Package models defines the data structures shared between the database,
// recommendation, and API layers.
package models

// Movie is a row of the movies reference table. MovieID is the stable join
// key across ratings and all derived statistics. CleanTitle is the
// alphanumeric-only variant produced by the title-cleaning enrichment and
// used for search; it is empty until cleaning has run.
type Movie struct {
	MovieID    int64  `json:"movie_id"`
	Title      string `json:"title"`
	CleanTitle string `json:"clean_title,omitempty"`
	Genres     string `json:"genres,omitempty"`
}

// Rating is an immutable historical rating event. Rating values are on a
// 0.5-5.0 scale in half-point increments; values above 4 count as highly
// rated for cohort construction.
type Rating struct {
	UserID    int64   `json:"user_id"`
	MovieID   int64   `json:"movie_id"`
	Rating    float64 `json:"rating"`
	Timestamp int64   `json:"timestamp,omitempty"`
}

// Recommendation is one ranked entry of a recommendation result: a movie
// joined with its combined score. Results are ordered by descending score.
type Recommendation struct {
	MovieID int64   `json:"movie_id"`
	Title   string  `json:"title"`
	Genres  string  `json:"genres,omitempty"`
	Score   float64 `json:"score"`
}
