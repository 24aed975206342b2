// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"fmt"
	"sort"
)

// RatingMatrix is a titles × users sparse matrix in CSR layout. Only
// non-zero ratings are stored and column indices within a row are
// strictly increasing. It is read-only after BuildMatrix returns.
type RatingMatrix struct {
	rows    int
	cols    int
	indptr  []int
	indices []int
	values  []float64
}

// NewRatingMatrix assembles a matrix from CSR arrays. It is meant for
// tests and alternative builders; the arrays are not copied.
func NewRatingMatrix(rows, cols int, indptr, indices []int, values []float64) (*RatingMatrix, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("invalid shape %dx%d", rows, cols)
	}
	if len(indptr) != rows+1 || indptr[0] != 0 {
		return nil, fmt.Errorf("indptr must have %d entries starting at 0", rows+1)
	}
	if len(indices) != len(values) || indptr[rows] != len(indices) {
		return nil, fmt.Errorf("indices/values length mismatch")
	}
	for i := 0; i < rows; i++ {
		if indptr[i+1] < indptr[i] {
			return nil, fmt.Errorf("indptr not monotonic at row %d", i)
		}
		for p := indptr[i]; p < indptr[i+1]; p++ {
			if indices[p] < 0 || indices[p] >= cols {
				return nil, fmt.Errorf("column %d out of range in row %d", indices[p], i)
			}
			if p > indptr[i] && indices[p] <= indices[p-1] {
				return nil, fmt.Errorf("columns not strictly increasing in row %d", i)
			}
		}
	}
	return &RatingMatrix{rows: rows, cols: cols, indptr: indptr, indices: indices, values: values}, nil
}

// Rows returns the number of titles.
func (m *RatingMatrix) Rows() int { return m.rows }

// Cols returns the number of users.
func (m *RatingMatrix) Cols() int { return m.cols }

// NNZ returns the number of stored entries.
func (m *RatingMatrix) NNZ() int { return len(m.values) }

// Row returns the user columns and ratings stored for row i.
// The returned slices alias the matrix and must not be modified.
func (m *RatingMatrix) Row(i int) (cols []int, vals []float64) {
	lo, hi := m.indptr[i], m.indptr[i+1]
	return m.indices[lo:hi:hi], m.values[lo:hi:hi]
}

// At returns entry (i, u), or 0 if nothing is stored there.
func (m *RatingMatrix) At(i, u int) float64 {
	cols, vals := m.Row(i)
	p := sort.SearchInts(cols, u)
	if p < len(cols) && cols[p] == u {
		return vals[p]
	}
	return 0
}

// Density returns NNZ / (rows × cols).
func (m *RatingMatrix) Density() float64 {
	if m.rows == 0 || m.cols == 0 {
		return 0
	}
	return float64(len(m.values)) / (float64(m.rows) * float64(m.cols))
}

type triplet struct {
	row, col int
	val      float64
}

// BuildMatrix converts the filtered table into a titles × users matrix and
// the matching TitleIndex. Titles and users are assigned dense slots in
// sorted order. When one user has several rows for the same title, the last
// row in table order wins. Explicit zero ratings are not stored.
//
// ErrEmptyMatrix is returned when the table has no titles or no users.
func BuildMatrix(t *FilteredTable) (*RatingMatrix, *TitleIndex, error) {
	if t.Len() == 0 {
		return nil, nil, ErrEmptyMatrix
	}

	titleKeys := make([]string, len(t.Rows))
	userKeys := make([]int64, len(t.Rows))
	for i, r := range t.Rows {
		titleKeys[i] = r.Title
		userKeys[i] = r.UserID
	}
	titles := NewTitleIndex(titleKeys)
	users := newDenseIndex(userKeys)
	if titles.Len() == 0 || users.len() == 0 {
		return nil, nil, ErrEmptyMatrix
	}

	entries := make([]triplet, len(t.Rows))
	for i, r := range t.Rows {
		row, _ := titles.Index(r.Title)
		col, _ := users.slot(r.UserID)
		entries[i] = triplet{row: row, col: col, val: r.Rating}
	}
	// Stable keeps table order among duplicates so the last one is the
	// last write.
	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].row != entries[b].row {
			return entries[a].row < entries[b].row
		}
		return entries[a].col < entries[b].col
	})

	m := &RatingMatrix{
		rows:    titles.Len(),
		cols:    users.len(),
		indptr:  make([]int, titles.Len()+1),
		indices: make([]int, 0, len(entries)),
		values:  make([]float64, 0, len(entries)),
	}
	for i, e := range entries {
		if i+1 < len(entries) && entries[i+1].row == e.row && entries[i+1].col == e.col {
			continue
		}
		if e.val == 0 {
			continue
		}
		m.indices = append(m.indices, e.col)
		m.values = append(m.values, e.val)
		m.indptr[e.row+1]++
	}
	for i := 1; i < len(m.indptr); i++ {
		m.indptr[i] += m.indptr[i-1]
	}

	return m, titles, nil
}
