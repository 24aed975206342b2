// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package recommend implements item-item movie recommendations over a sparse,
// popularity-filtered rating matrix.
//
// # Pipeline
//
// A training pass runs these stages in order and either produces a complete
// Snapshot or nothing:
//
//	DataSource.LoadJoined  ratings ⋈ movies on movie id, projected to (user, title, rating)
//	Filter                 keep rows whose title AND user reach the minimum counts
//	BuildMatrix            titles × users CSR matrix plus the TitleIndex bijection
//	IndexBuilder.Fit       nearest-neighbor model over the matrix rows
//
// Filter counts titles and users on the unfiltered table and applies both
// thresholds in one pass. Re-counting after the first predicate would drop
// more rows and change the neighbor structure.
//
// # Concurrency
//
// Everything reachable from a Snapshot is immutable. The Engine holds the
// current Snapshot behind an atomic pointer; queries load it once and never
// take locks. Retraining builds a fresh Snapshot and swaps it in, so a failed
// retrain leaves the previous model serving.
//
// # Errors
//
//   - *DataSourceError: input unreadable or missing required columns
//   - ErrEmptyMatrix: no titles or no users survived filtering
//   - ErrModelNotTrained: query before the first successful Train
//   - ErrUnknownTitle: title not in the TitleIndex; Engine.Recommend reports
//     this as found=false rather than an error
//
// The neighbor search itself lives in the algorithms subpackage and is
// plugged in through IndexBuilder.
package recommend
