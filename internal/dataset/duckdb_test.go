// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package dataset

import (
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/tomtom215/marquee/internal/recommend"
)

func newDuckDB(t *testing.T, ratings, movies string) *DuckDBSource {
	t.Helper()
	src, err := NewDuckDBSource(ratings, movies, "256MB", 1)
	if err != nil {
		t.Fatalf("NewDuckDBSource() error = %v", err)
	}
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func TestDuckDBSource_MatchesCSV(t *testing.T) {
	ratings, movies := writeSample(t)

	got, err := newDuckDB(t, ratings, movies).LoadJoined(context.Background())
	if err != nil {
		t.Fatalf("LoadJoined() error = %v", err)
	}
	if !reflect.DeepEqual(got.Rows, sampleJoined) {
		t.Errorf("LoadJoined() rows =\n%v\nwant\n%v", got.Rows, sampleJoined)
	}
}

func TestDuckDBSource_Errors(t *testing.T) {
	dir := t.TempDir()
	goodMovies := writeFile(t, dir, "movies.csv", sampleMovies)

	tests := []struct {
		name    string
		ratings string
		wantMsg string
	}{
		{name: "missing file", ratings: filepath.Join(dir, "nope.csv"), wantMsg: "nope.csv"},
		{name: "missing column", ratings: writeFile(t, dir, "norating.csv", "userId,movieId\n1,1\n"), wantMsg: "missing required column(s) rating"},
		{name: "malformed rating", ratings: writeFile(t, dir, "bad.csv", "userId,movieId,rating\n1,1,4\n2,1,four\n"), wantMsg: "bad.csv"},
		{name: "nan rating", ratings: writeFile(t, dir, "nan.csv", "userId,movieId,rating\n1,1,4\n1,1,NaN\n"), wantMsg: "nan.csv"},
		{name: "infinite rating", ratings: writeFile(t, dir, "inf.csv", "userId,movieId,rating\n1,3,Inf\n"), wantMsg: "inf.csv"},
		{name: "infinite rating on unlisted movie", ratings: writeFile(t, dir, "neginf.csv", "userId,movieId,rating\n1,1,4\n1,99,-inf\n"), wantMsg: "neginf.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newDuckDB(t, tt.ratings, goodMovies).LoadJoined(context.Background())
			if !recommend.IsDataSourceError(err) {
				t.Fatalf("LoadJoined() error = %v, want *DataSourceError", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestDuckDBConnString(t *testing.T) {
	tests := []struct {
		name      string
		maxMemory string
		threads   int
		contains  []string
		wantErr   bool
	}{
		{name: "defaults", contains: []string{":memory:?", "autoload_known_extensions=false", "preserve_insertion_order=true"}},
		{name: "memory and threads", maxMemory: "1GB", threads: 4, contains: []string{"max_memory=1GB", "threads=4"}},
		{name: "memory with space", maxMemory: "512 MB", contains: []string{"max_memory=512MB"}},
		{name: "invalid memory", maxMemory: "1 gigabyte", wantErr: true},
		{name: "negative threads", threads: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := duckDBConnString(tt.maxMemory, tt.threads)
			if (err != nil) != tt.wantErr {
				t.Fatalf("duckDBConnString() error = %v, wantErr %v", err, tt.wantErr)
			}
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("duckDBConnString() = %q, want it to contain %q", got, s)
				}
			}
		})
	}
}

func TestQuoteLiteral(t *testing.T) {
	if got := quoteLiteral("/data/o'brien.csv"); got != "'/data/o''brien.csv'" {
		t.Errorf("quoteLiteral() = %s", got)
	}
}
