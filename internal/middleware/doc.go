// Reelgauge - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelgauge

/*
Package middleware provides HTTP middleware components for the application.

Key Components:

  - Compression: Gzip compression for responses
  - Performance Monitor: Request latency tracking with percentile calculations
  - Request ID: UUID-based request tracking
  - Prometheus Metrics: HTTP request/response instrumentation

Middleware here uses the http.HandlerFunc wrapping style; the api package
adapts it to Chi's func(http.Handler) http.Handler for use with r.Use().

Thread Safety:

All middleware components are thread-safe:
  - Compression pools gzip writers with sync.Pool
  - Performance monitor uses sync.RWMutex over a sliding window
  - Request ID uses context.Context (immutable)
  - Prometheus metrics use atomic operations
*/
package middleware
