// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

// Default popularity thresholds.
const (
	DefaultMinItemCount = 50
	DefaultMinUserCount = 50
)

// Filter keeps the rows whose title has at least minItemCount ratings and
// whose user has at least minUserCount ratings. Both counts are taken over
// the whole input table and both predicates are applied together; the filter
// is never re-run on its own output. An empty result is valid.
func Filter(t *JoinedTable, minItemCount, minUserCount int) *FilteredTable {
	out := &FilteredTable{
		MinItemCount: minItemCount,
		MinUserCount: minUserCount,
		SourceRows:   t.Len(),
	}
	if t.Len() == 0 {
		out.Rows = []JoinedRow{}
		return out
	}

	titleCounts := make(map[string]int)
	userCounts := make(map[int64]int)
	for _, r := range t.Rows {
		titleCounts[r.Title]++
		userCounts[r.UserID]++
	}

	rows := make([]JoinedRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		if titleCounts[r.Title] >= minItemCount && userCounts[r.UserID] >= minUserCount {
			rows = append(rows, r)
		}
	}
	out.Rows = rows
	return out
}
