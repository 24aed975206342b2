// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"fmt"
	"time"
)

// Snapshot is one complete trained model. All fields are immutable after
// construction and a Snapshot may be shared by any number of readers.
type Snapshot struct {
	Version   int64
	TrainedAt time.Time
	Algorithm string

	Titles *TitleIndex
	Matrix *RatingMatrix
	Model  NeighborModel
	Stats  TrainingStats
}

// Train runs one full pass (load, filter, build, fit) and returns the
// resulting snapshot with Version 0. Engine.Train assigns versions.
func Train(ctx context.Context, source DataSource, builder IndexBuilder, minItemCount, minUserCount int) (*Snapshot, error) {
	if source == nil {
		return nil, &DataSourceError{Source: "loader", Err: fmt.Errorf("no data source configured")}
	}
	if builder == nil {
		return nil, fmt.Errorf("no index builder configured")
	}

	joined, err := source.LoadJoined(ctx)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, NewDataSourceError("joined", err)
	}

	filtered := Filter(joined, minItemCount, minUserCount)

	matrix, titles, err := BuildMatrix(filtered)
	if err != nil {
		return nil, fmt.Errorf("build matrix from %d filtered rows: %w", filtered.Len(), err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model, err := builder.Fit(ctx, matrix)
	if err != nil {
		return nil, fmt.Errorf("fit %s index: %w", builder.Name(), err)
	}

	return &Snapshot{
		TrainedAt: time.Now(),
		Algorithm: builder.Name(),
		Titles:    titles,
		Matrix:    matrix,
		Model:     model,
		Stats: TrainingStats{
			JoinedRows:   joined.Len(),
			FilteredRows: filtered.Len(),
			Titles:       matrix.Rows(),
			Users:        matrix.Cols(),
			NonZero:      matrix.NNZ(),
			Density:      matrix.Density(),
		},
	}, nil
}

// Recommend returns the k titles nearest to title, most similar first.
// It never includes title itself. k is capped by the number of other
// titles; k <= 0 yields an empty result.
func (s *Snapshot) Recommend(title string, k int) ([]Recommendation, error) {
	if s == nil || s.Model == nil {
		return nil, ErrModelNotTrained
	}
	row, ok := s.Titles.Index(title)
	if !ok {
		return nil, ErrUnknownTitle
	}
	if k <= 0 {
		return []Recommendation{}, nil
	}

	neighbors, err := s.Model.Query(row, k)
	if err != nil {
		return nil, fmt.Errorf("query neighbors of %q: %w", title, err)
	}

	out := make([]Recommendation, 0, len(neighbors))
	for _, n := range neighbors {
		t, ok := s.Titles.Title(n.Index)
		if !ok {
			return nil, fmt.Errorf("neighbor row %d outside title index of size %d", n.Index, s.Titles.Len())
		}
		out = append(out, Recommendation{Title: t, Similarity: n.Similarity()})
	}
	return out, nil
}

// SearchTitles delegates to the snapshot's TitleIndex.
func (s *Snapshot) SearchTitles(query string, limit int) ([]string, error) {
	if s == nil || s.Titles == nil {
		return nil, ErrModelNotTrained
	}
	return s.Titles.Search(query, limit), nil
}
