// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package dataset

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/tomtom215/marquee/internal/recommend"
)

// errNonFinite rejects NaN and infinite ratings.
var errNonFinite = errors.New("rating must be finite")

// ctxCheckInterval is how many rows are parsed between context checks.
const ctxCheckInterval = 1 << 16

// CSVSource reads ratings and movies from CSV files with a header row.
type CSVSource struct {
	ratingsPath string
	moviesPath  string
}

// NewCSVSource creates a CSV loader for the given files.
func NewCSVSource(ratingsPath, moviesPath string) *CSVSource {
	return &CSVSource{ratingsPath: ratingsPath, moviesPath: moviesPath}
}

// LoadJoined implements recommend.DataSource.
func (s *CSVSource) LoadJoined(ctx context.Context) (*recommend.JoinedTable, error) {
	return recommend.Load(ctx, s, s)
}

// Close implements Source. CSVSource holds no open handles between loads.
func (s *CSVSource) Close() error { return nil }

// Ratings implements recommend.RatingSource.
func (s *CSVSource) Ratings(ctx context.Context) ([]recommend.RatingRecord, error) {
	var out []recommend.RatingRecord
	err := readCSV(ctx, s.ratingsPath, []string{colUserID, colMovieID, colRating}, func(line int, f []string) error {
		user, err := strconv.ParseInt(strings.TrimSpace(f[0]), 10, 64)
		if err != nil {
			return fieldError(line, colUserID, f[0], err)
		}
		item, err := strconv.ParseInt(strings.TrimSpace(f[1]), 10, 64)
		if err != nil {
			return fieldError(line, colMovieID, f[1], err)
		}
		rating, err := strconv.ParseFloat(strings.TrimSpace(f[2]), 64)
		if err != nil {
			return fieldError(line, colRating, f[2], err)
		}
		if math.IsNaN(rating) || math.IsInf(rating, 0) {
			return fieldError(line, colRating, f[2], errNonFinite)
		}
		out = append(out, recommend.RatingRecord{UserID: user, ItemID: item, Rating: rating})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Items implements recommend.ItemSource.
func (s *CSVSource) Items(ctx context.Context) ([]recommend.ItemRecord, error) {
	var out []recommend.ItemRecord
	err := readCSV(ctx, s.moviesPath, []string{colMovieID, colTitle}, func(line int, f []string) error {
		item, err := strconv.ParseInt(strings.TrimSpace(f[0]), 10, 64)
		if err != nil {
			return fieldError(line, colMovieID, f[0], err)
		}
		out = append(out, recommend.ItemRecord{ItemID: item, Title: f[1]})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// readCSV streams path, calling fn with the requested columns of each data
// row in order. Fields are passed through untrimmed. Errors are returned as *recommend.DataSourceError.
func readCSV(ctx context.Context, path string, columns []string, fn func(line int, fields []string) error) error {
	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return &recommend.DataSourceError{Source: path, Err: err}
	}
	defer f.Close() //nolint:errcheck // read-only file

	r := csv.NewReader(bufio.NewReaderSize(f, 1<<20))
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("file is empty")
		}
		return &recommend.DataSourceError{Source: path, Err: fmt.Errorf("read header: %w", err)}
	}
	positions, err := resolveColumns(header, columns)
	if err != nil {
		return &recommend.DataSourceError{Source: path, Err: err}
	}

	fields := make([]string, len(columns))
	for line := 2; ; line++ {
		if line%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &recommend.DataSourceError{Source: path, Err: err}
		}
		for i, p := range positions {
			fields[i] = record[p]
		}
		if err := fn(line, fields); err != nil {
			return &recommend.DataSourceError{Source: path, Err: err}
		}
	}
}

// resolveColumns maps each wanted column name to its header position.
func resolveColumns(header, want []string) ([]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	out := make([]int, len(want))
	var missing []string
	for i, name := range want {
		p, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		out[i] = p
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required column(s) %s", strings.Join(missing, ", "))
	}
	return out, nil
}

func fieldError(line int, column, value string, err error) error {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		err = numErr.Err
	}
	return fmt.Errorf("line %d: invalid %s %q: %w", line, column, value, err)
}

var (
	_ recommend.DataSource   = (*CSVSource)(nil)
	_ recommend.RatingSource = (*CSVSource)(nil)
	_ recommend.ItemSource   = (*CSVSource)(nil)
	_ Source                 = (*CSVSource)(nil)
)
