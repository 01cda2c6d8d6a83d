// Reelgauge - Collaborative Filtering Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelgauge

// Package recommend implements the collaborative-filtering scoring engine.
//
// Given a target movie, the engine combines two statistics read from a
// DataSource into a ranked top-N recommendation list:
//
//   - Similar-user affinity: of the users who rated the target movie highly
//     (rating > 4), the fraction who also rated each other movie highly.
//   - Cohort-relative popularity: within the rating events retained by the
//     cohort pre-filter, the per-movie event count divided by the number of
//     distinct users contributing to that event set.
//
// The final score for a movie is affinity / popularity, with a popularity of
// exactly zero replaced by one so that a movie with no measured popularity
// scores its raw affinity rather than dividing by zero. Results are sorted
// by descending score, truncated, and inner-joined with movie metadata.
//
// The popularity statistic is intentionally computed over the cohort-filtered
// event set rather than the full rating population; it normalizes against
// what the cohort's broader evidence looks like, not a global base rate.
// Changing that coupling changes the shape of results.
//
// The engine is stateless between calls: every request recomputes both
// statistics from the DataSource, so concurrent calls are independent by
// construction. Caching, when wanted, belongs to the caller (see the api
// package), never inside the engine.
package recommend
