// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package algorithms implements the nearest-neighbor index used by the
// recommendation engine.
//
// CosineKNN is an exhaustive cosine-distance search over the rows of a
// recommend.RatingMatrix. It returns exact results; ties in distance are
// broken by lower row index.
package algorithms

import (
	"container/heap"
	"context"
	"fmt"
	"runtime"
	"slices"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/tomtom215/marquee/internal/recommend"
)

// KNNConfig contains configuration for the cosine kNN index.
type KNNConfig struct {
	// NumWorkers is the number of goroutines Fit uses for per-row work.
	// Zero or negative means runtime.NumCPU().
	NumWorkers int

	// Precompute is the number of neighbors computed for every row during
	// Fit. Queries for k <= Precompute are then answered from memory.
	// Zero disables precomputation; each query scans all rows.
	Precompute int
}

// DefaultKNNConfig returns default kNN configuration.
func DefaultKNNConfig() KNNConfig {
	return KNNConfig{
		NumWorkers: runtime.NumCPU(),
		Precompute: 0,
	}
}

// CosineKNN builds CosineIndex models. It holds no model state and may be
// reused across training passes.
type CosineKNN struct {
	config KNNConfig
}

// NewCosineKNN creates a builder with the given configuration.
func NewCosineKNN(cfg KNNConfig) *CosineKNN {
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = runtime.NumCPU()
	}
	if cfg.Precompute < 0 {
		cfg.Precompute = 0
	}
	return &CosineKNN{config: cfg}
}

// Name returns the strategy identifier.
func (c *CosineKNN) Name() string {
	return "cosine-brute"
}

// Fit indexes the rows of m. The matrix must not be modified afterwards.
func (c *CosineKNN) Fit(ctx context.Context, m *recommend.RatingMatrix) (recommend.NeighborModel, error) {
	if m == nil || m.Rows() == 0 || m.Cols() == 0 {
		return nil, recommend.ErrEmptyMatrix
	}
	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	idx := &CosineIndex{
		matrix: m,
		norms:  make([]float64, m.Rows()),
	}

	parallelRows(ctx, m.Rows(), c.config.NumWorkers, func(row int) {
		_, vals := m.Row(row)
		idx.norms[row] = floats.Norm(vals, 2)
	})
	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	idx.transpose()

	if c.config.Precompute > 0 && m.Rows() > 1 {
		k := min(c.config.Precompute, m.Rows()-1)
		idx.precomputed = make([][]recommend.Neighbor, m.Rows())
		parallelRows(ctx, m.Rows(), c.config.NumWorkers, func(row int) {
			idx.precomputed[row] = idx.scan(row, k)
		})
		if ContextCancelled(ctx) {
			return nil, ctx.Err()
		}
		idx.precomputeK = k
	}

	return idx, nil
}

// parallelRows calls fn for every row in [0, n), split into contiguous
// chunks across workers. Each row is visited by exactly one goroutine.
// Remaining rows are skipped once ctx is cancelled.
func parallelRows(ctx context.Context, n, workers int, fn func(row int)) {
	if workers <= 1 || n < 2*workers {
		for row := 0; row < n; row++ {
			if ContextCancelled(ctx) {
				return
			}
			fn(row)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for row := start; row < end; row++ {
				if ContextCancelled(ctx) {
					return
				}
				fn(row)
			}
		}(start, end)
	}

	wg.Wait()
}

// CosineIndex is an immutable exhaustive cosine kNN model.
type CosineIndex struct {
	matrix *recommend.RatingMatrix
	norms  []float64

	// Column-major copy of the matrix: rows rated by each user.
	colptr  []int
	rowIdx  []int
	colVals []float64

	precomputed [][]recommend.Neighbor
	precomputeK int

	dotPool sync.Pool
}

func (idx *CosineIndex) transpose() {
	m := idx.matrix
	idx.colptr = make([]int, m.Cols()+1)
	idx.rowIdx = make([]int, m.NNZ())
	idx.colVals = make([]float64, m.NNZ())

	for row := 0; row < m.Rows(); row++ {
		cols, _ := m.Row(row)
		for _, u := range cols {
			idx.colptr[u+1]++
		}
	}
	for u := 1; u < len(idx.colptr); u++ {
		idx.colptr[u] += idx.colptr[u-1]
	}

	next := slices.Clone(idx.colptr[:m.Cols()])
	for row := 0; row < m.Rows(); row++ {
		cols, vals := m.Row(row)
		for p, u := range cols {
			idx.rowIdx[next[u]] = row
			idx.colVals[next[u]] = vals[p]
			next[u]++
		}
	}
}

// Size returns the number of indexed rows.
func (idx *CosineIndex) Size() int {
	if idx == nil || idx.matrix == nil {
		return 0
	}
	return idx.matrix.Rows()
}

// Query returns the k rows closest to row by cosine distance, excluding row,
// ordered by increasing distance with ties broken by lower index. k is
// capped at Size()-1.
func (idx *CosineIndex) Query(row, k int) ([]recommend.Neighbor, error) {
	if idx == nil || idx.matrix == nil {
		return nil, recommend.ErrModelNotTrained
	}
	n := idx.matrix.Rows()
	if row < 0 || row >= n {
		return nil, fmt.Errorf("row %d out of range [0, %d)", row, n)
	}
	k = min(k, n-1)
	if k <= 0 {
		return []recommend.Neighbor{}, nil
	}

	if idx.precomputed != nil && k <= idx.precomputeK {
		return slices.Clone(idx.precomputed[row][:k]), nil
	}
	return idx.scan(row, k), nil
}

// scan computes the dot product of row with every other row through the
// column-major copy, then keeps the k best.
func (idx *CosineIndex) scan(row, k int) []recommend.Neighbor {
	n := idx.matrix.Rows()

	dots := idx.getDots(n)
	defer idx.dotPool.Put(dots)

	cols, vals := idx.matrix.Row(row)
	for p, u := range cols {
		qv := vals[p]
		for q := idx.colptr[u]; q < idx.colptr[u+1]; q++ {
			(*dots)[idx.rowIdx[q]] += qv * idx.colVals[q]
		}
	}

	qNorm := idx.norms[row]
	best := make(worstFirst, 0, k)
	for other := 0; other < n; other++ {
		if other == row {
			continue
		}
		cand := recommend.Neighbor{
			Index:    other,
			Distance: cosineDistance((*dots)[other], qNorm, idx.norms[other]),
		}
		if len(best) < k {
			heap.Push(&best, cand)
			continue
		}
		if closer(cand, best[0]) {
			best[0] = cand
			heap.Fix(&best, 0)
		}
	}

	out := []recommend.Neighbor(best)
	slices.SortFunc(out, func(a, b recommend.Neighbor) int {
		switch {
		case closer(a, b):
			return -1
		case closer(b, a):
			return 1
		default:
			return 0
		}
	})
	return out
}

func (idx *CosineIndex) getDots(n int) *[]float64 {
	if v, ok := idx.dotPool.Get().(*[]float64); ok && len(*v) == n {
		clear(*v)
		return v
	}
	buf := make([]float64, n)
	return &buf
}

// cosineDistance matches the usual definition with zero vectors treated as
// orthogonal to everything: 1 - dot/(|a||b|), clipped to [0, 2].
func cosineDistance(dot, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 1
	}
	d := 1 - dot/(normA*normB)
	switch {
	case d < 0:
		return 0
	case d > 2:
		return 2
	default:
		return d
	}
}

// closer reports whether a ranks ahead of b.
func closer(a, b recommend.Neighbor) bool {
	if a.Distance != b.Distance {
		return a.Distance < b.Distance
	}
	return a.Index < b.Index
}

// worstFirst is a heap whose root is the worst retained neighbor.
type worstFirst []recommend.Neighbor

func (h worstFirst) Len() int           { return len(h) }
func (h worstFirst) Less(i, j int) bool { return closer(h[j], h[i]) }
func (h worstFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *worstFirst) Push(x any) { *h = append(*h, x.(recommend.Neighbor)) }

func (h *worstFirst) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// ContextCancelled reports whether ctx is done without blocking.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

var (
	_ recommend.IndexBuilder  = (*CosineKNN)(nil)
	_ recommend.NeighborModel = (*CosineIndex)(nil)
)
