// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"errors"
)

// Load reads both tables and inner-joins them on item id, projecting each
// match to (user, title, rating). Ratings without a movie are dropped; a
// movie id listed twice yields one row per listing. Row order follows the
// ratings table.
//
// Any source failure is returned as a *DataSourceError and no partial table
// is produced.
func Load(ctx context.Context, ratings RatingSource, items ItemSource) (*JoinedTable, error) {
	if ratings == nil || items == nil {
		return nil, &DataSourceError{Source: "loader", Err: errors.New("ratings and items sources are required")}
	}

	itemRows, err := items.Items(ctx)
	if err != nil {
		return nil, NewDataSourceError("items", err)
	}
	ratingRows, err := ratings.Ratings(ctx)
	if err != nil {
		return nil, NewDataSourceError("ratings", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return Join(ratingRows, itemRows), nil
}

// Join performs the inner join used by Load on in-memory records.
func Join(ratings []RatingRecord, items []ItemRecord) *JoinedTable {
	titles := make(map[int64][]string, len(items))
	for _, it := range items {
		titles[it.ItemID] = append(titles[it.ItemID], it.Title)
	}

	rows := make([]JoinedRow, 0, len(ratings))
	for _, r := range ratings {
		for _, title := range titles[r.ItemID] {
			rows = append(rows, JoinedRow{UserID: r.UserID, Title: title, Rating: r.Rating})
		}
	}
	return &JoinedTable{Rows: rows}
}

// JoinSources adapts separate rating and item sources to a DataSource that
// joins them in memory.
type JoinSources struct {
	Ratings RatingSource
	Items   ItemSource
}

// LoadJoined implements DataSource.
func (s JoinSources) LoadJoined(ctx context.Context) (*JoinedTable, error) {
	return Load(ctx, s.Ratings, s.Items)
}

var _ DataSource = JoinSources{}
