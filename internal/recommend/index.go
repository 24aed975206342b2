// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"cmp"
	"slices"
	"strings"
)

// denseIndex maps distinct keys to contiguous slots [0, n) in sorted key
// order, with O(1) lookups in both directions.
type denseIndex[K cmp.Ordered] struct {
	keys  []K
	slots map[K]int
}

func newDenseIndex[K cmp.Ordered](keys []K) *denseIndex[K] {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	slots := make(map[K]int, len(sorted))
	for i, k := range sorted {
		slots[k] = i
	}
	return &denseIndex[K]{keys: sorted, slots: slots}
}

func (d *denseIndex[K]) len() int { return len(d.keys) }

func (d *denseIndex[K]) slot(k K) (int, bool) {
	i, ok := d.slots[k]
	return i, ok
}

// DefaultSearchLimit is the number of titles Search returns when the caller
// does not set a positive limit.
const DefaultSearchLimit = 10

// TitleIndex is the bijection between matrix rows and titles. Titles are
// held in sorted order. A TitleIndex is immutable and safe for concurrent use.
type TitleIndex struct {
	idx   *denseIndex[string]
	lower []string
}

// NewTitleIndex builds an index over the distinct values of titles.
func NewTitleIndex(titles []string) *TitleIndex {
	idx := newDenseIndex(titles)
	lower := make([]string, len(idx.keys))
	for i, t := range idx.keys {
		lower[i] = strings.ToLower(t)
	}
	return &TitleIndex{idx: idx, lower: lower}
}

// Len returns the number of titles.
func (x *TitleIndex) Len() int {
	if x == nil {
		return 0
	}
	return x.idx.len()
}

// Index returns the row of title.
func (x *TitleIndex) Index(title string) (int, bool) {
	if x == nil {
		return 0, false
	}
	return x.idx.slot(title)
}

// Title returns the title at row i.
func (x *TitleIndex) Title(i int) (string, bool) {
	if x == nil || i < 0 || i >= len(x.idx.keys) {
		return "", false
	}
	return x.idx.keys[i], true
}

// Titles returns a copy of all titles in index order.
func (x *TitleIndex) Titles() []string {
	if x == nil {
		return nil
	}
	return slices.Clone(x.idx.keys)
}

// Search returns up to limit titles containing query, compared
// case-insensitively, in index order. An empty query matches nothing.
// A limit <= 0 means DefaultSearchLimit.
func (x *TitleIndex) Search(query string, limit int) []string {
	if query == "" || x.Len() == 0 {
		return []string{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	q := strings.ToLower(query)
	out := make([]string, 0, min(limit, 16))
	for i, lt := range x.lower {
		if !strings.Contains(lt, q) {
			continue
		}
		out = append(out, x.idx.keys[i])
		if len(out) == limit {
			break
		}
	}
	return out
}
