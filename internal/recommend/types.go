// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"time"
)

// RatingRecord is one row of the ratings table.
type RatingRecord struct {
	UserID int64   `json:"user_id"`
	ItemID int64   `json:"item_id"`
	Rating float64 `json:"rating"`
}

// ItemRecord is one row of the movies table.
type ItemRecord struct {
	ItemID int64  `json:"item_id"`
	Title  string `json:"title"`
}

// JoinedRow is a rating keyed by title instead of item id.
// Two item ids sharing a title end up under the same key.
type JoinedRow struct {
	UserID int64   `json:"user_id"`
	Title  string  `json:"title"`
	Rating float64 `json:"rating"`
}

// JoinedTable is the output of the ratings/movies inner join.
type JoinedTable struct {
	Rows []JoinedRow
}

// Len returns the number of rows.
func (t *JoinedTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// FilteredTable is the subset of a JoinedTable that passed the popularity filter.
type FilteredTable struct {
	Rows []JoinedRow

	// MinItemCount and MinUserCount are the thresholds that produced Rows.
	MinItemCount int
	MinUserCount int

	// SourceRows is the size of the unfiltered table.
	SourceRows int
}

// Len returns the number of rows.
func (t *FilteredTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Recommendation is a neighbor title with its cosine similarity to the query.
type Recommendation struct {
	Title      string  `json:"title"`
	Similarity float64 `json:"similarity"`
}

// Neighbor is a row of the rating matrix returned by a NeighborModel query.
type Neighbor struct {
	// Index is the TitleIndex slot of the neighbor.
	Index int

	// Distance is the cosine distance to the query row, in [0, 2].
	Distance float64
}

// Similarity returns 1 - Distance.
func (n Neighbor) Similarity() float64 {
	return 1 - n.Distance
}

// DataSource produces the joined ratings table for a training pass.
type DataSource interface {
	LoadJoined(ctx context.Context) (*JoinedTable, error)
}

// RatingSource yields the raw ratings table.
type RatingSource interface {
	Ratings(ctx context.Context) ([]RatingRecord, error)
}

// ItemSource yields the raw movies table.
type ItemSource interface {
	Items(ctx context.Context) ([]ItemRecord, error)
}

// NeighborModel answers k-nearest-neighbor queries over matrix rows.
// Implementations are immutable once returned by an IndexBuilder and safe
// for concurrent use.
type NeighborModel interface {
	// Query returns up to k neighbors of row, excluding row itself,
	// ordered by increasing distance.
	Query(row, k int) ([]Neighbor, error)

	// Size returns the number of indexed rows.
	Size() int
}

// IndexBuilder fits a NeighborModel over a rating matrix.
type IndexBuilder interface {
	// Name identifies the strategy in logs and status output.
	Name() string
	Fit(ctx context.Context, m *RatingMatrix) (NeighborModel, error)
}

// TrainingStats describes the data behind a snapshot.
type TrainingStats struct {
	JoinedRows   int     `json:"joined_rows"`
	FilteredRows int     `json:"filtered_rows"`
	Titles       int     `json:"titles"`
	Users        int     `json:"users"`
	NonZero      int     `json:"non_zero"`
	Density      float64 `json:"density"`
}

// TrainingStatus reports the engine's training state.
type TrainingStatus struct {
	IsTraining     bool          `json:"is_training"`
	ModelVersion   int64         `json:"model_version"`
	Algorithm      string        `json:"algorithm"`
	LastTrainedAt  time.Time     `json:"last_trained_at,omitempty"`
	LastDurationMS int64         `json:"last_duration_ms"`
	LastError      string        `json:"last_error,omitempty"`
	Stats          TrainingStats `json:"stats"`
}

// EngineMetrics holds query counters since process start.
type EngineMetrics struct {
	Requests    int64 `json:"requests"`
	NotFound    int64 `json:"not_found"`
	CacheHits   int64 `json:"cache_hits"`
	CacheMisses int64 `json:"cache_misses"`
	Searches    int64 `json:"searches"`
}
