// Reelgauge - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelgauge

package models

// HealthStatus reports service health for monitoring.
//
// Status values:
//   - "healthy": database reachable
//   - "degraded": database unreachable; recommendations will fail
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	MovieCount        int64   `json:"movie_count"`
	RatingCount       int64   `json:"rating_count"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}
