// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package dataset

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/tomtom215/marquee/internal/recommend"
)

var sampleJoined = []recommend.JoinedRow{
	{UserID: 1, Title: "Toy Story (1995)", Rating: 4},
	{UserID: 1, Title: "Grumpier Old Men (1995)", Rating: 4},
	{UserID: 1, Title: "Heat (1995)", Rating: 4},
	{UserID: 1, Title: "American President, The (1995)", Rating: 4},
	{UserID: 2, Title: "Toy Story (1995)", Rating: 5},
	{UserID: 2, Title: "Heat (1995)", Rating: 3.5},
	{UserID: 2, Title: "American President, The (1995)", Rating: 3.5},
	{UserID: 3, Title: "Grumpier Old Men (1995)", Rating: 2.5},
	{UserID: 3, Title: "  Sabrina (1995)  ", Rating: 3},
	{UserID: 3, Title: "Up (2009) ", Rating: 4.5},
}

func TestCSVSource_LoadJoined(t *testing.T) {
	ratings, movies := writeSample(t)

	got, err := NewCSVSource(ratings, movies).LoadJoined(context.Background())
	if err != nil {
		t.Fatalf("LoadJoined() error = %v", err)
	}
	if !reflect.DeepEqual(got.Rows, sampleJoined) {
		t.Errorf("LoadJoined() rows =\n%v\nwant\n%v", got.Rows, sampleJoined)
	}
}

func TestCSVSource_ColumnOrderIndependent(t *testing.T) {
	dir := t.TempDir()
	ratings := writeFile(t, dir, "r.csv", "\ufefftimestamp, rating ,movieId,userId\n0,4.5,1,7\n")
	movies := writeFile(t, dir, "m.csv", "title,movieId\nToy Story (1995),1\n")

	got, err := NewCSVSource(ratings, movies).LoadJoined(context.Background())
	if err != nil {
		t.Fatalf("LoadJoined() error = %v", err)
	}
	want := []recommend.JoinedRow{{UserID: 7, Title: "Toy Story (1995)", Rating: 4.5}}
	if !reflect.DeepEqual(got.Rows, want) {
		t.Errorf("rows = %v, want %v", got.Rows, want)
	}
}

func TestCSVSource_Whitespace(t *testing.T) {
	dir := t.TempDir()
	ratings := writeFile(t, dir, "r.csv", "userId,movieId,rating\n 1 , 1 , 4.5 \n1,2,3\n")
	movies := writeFile(t, dir, "m.csv", "movieId,title\n1,  Heat (1995)  \n 2 ,\"Up (2009) \"\n")

	got, err := NewCSVSource(ratings, movies).LoadJoined(context.Background())
	if err != nil {
		t.Fatalf("LoadJoined() error = %v", err)
	}
	want := []recommend.JoinedRow{
		{UserID: 1, Title: "  Heat (1995)  ", Rating: 4.5},
		{UserID: 1, Title: "Up (2009) ", Rating: 3},
	}
	if !reflect.DeepEqual(got.Rows, want) {
		t.Errorf("rows = %q, want %q", titles(got.Rows), titles(want))
	}
}

func titles(rows []recommend.JoinedRow) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Title
	}
	return out
}

func TestCSVSource_Errors(t *testing.T) {
	dir := t.TempDir()
	goodMovies := writeFile(t, dir, "movies.csv", sampleMovies)
	goodRatings := writeFile(t, dir, "ratings.csv", sampleRatings)

	tests := []struct {
		name    string
		ratings string
		movies  string
		wantMsg string
	}{
		{
			name:    "missing ratings file",
			ratings: filepath.Join(dir, "nope.csv"),
			movies:  goodMovies,
			wantMsg: "nope.csv",
		},
		{
			name:    "empty movies file",
			ratings: goodRatings,
			movies:  writeFile(t, dir, "empty.csv", ""),
			wantMsg: "file is empty",
		},
		{
			name:    "missing rating column",
			ratings: writeFile(t, dir, "norating.csv", "userId,movieId\n1,1\n"),
			movies:  goodMovies,
			wantMsg: "missing required column(s) rating",
		},
		{
			name:    "missing title column",
			ratings: goodRatings,
			movies:  writeFile(t, dir, "notitle.csv", "movieId,name\n1,x\n"),
			wantMsg: "missing required column(s) title",
		},
		{
			name:    "malformed rating",
			ratings: writeFile(t, dir, "badrating.csv", "userId,movieId,rating\n1,1,four\n"),
			movies:  goodMovies,
			wantMsg: `line 2: invalid rating "four"`,
		},
		{
			name:    "nan rating",
			ratings: writeFile(t, dir, "nan.csv", "userId,movieId,rating\n1,1,4\n1,1,NaN\n"),
			movies:  goodMovies,
			wantMsg: `line 3: invalid rating "NaN": rating must be finite`,
		},
		{
			name:    "infinite rating",
			ratings: writeFile(t, dir, "inf.csv", "userId,movieId,rating\n1,3,Inf\n"),
			movies:  goodMovies,
			wantMsg: `line 2: invalid rating "Inf": rating must be finite`,
		},
		{
			name:    "negative infinite rating on unlisted movie",
			ratings: writeFile(t, dir, "neginf.csv", "userId,movieId,rating\n1,99,-infinity\n"),
			movies:  goodMovies,
			wantMsg: "rating must be finite",
		},
		{
			name:    "malformed user id",
			ratings: writeFile(t, dir, "baduser.csv", "userId,movieId,rating\n1,1,4\nx,1,4\n"),
			movies:  goodMovies,
			wantMsg: `line 3: invalid userId "x"`,
		},
		{
			name:    "malformed movie id",
			ratings: goodRatings,
			movies:  writeFile(t, dir, "badmovie.csv", "movieId,title\n1.5,x\n"),
			wantMsg: `invalid movieId "1.5"`,
		},
		{
			name:    "ragged row",
			ratings: writeFile(t, dir, "ragged.csv", "userId,movieId,rating\n1,1\n"),
			movies:  goodMovies,
			wantMsg: "wrong number of fields",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewCSVSource(tt.ratings, tt.movies).LoadJoined(context.Background())
			if err == nil {
				t.Fatal("LoadJoined() error = nil, want error")
			}
			if table != nil {
				t.Error("LoadJoined() returned a partial table")
			}
			var dse *recommend.DataSourceError
			if !errors.As(err, &dse) {
				t.Fatalf("error %T is not a *DataSourceError: %v", err, err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestNewSource(t *testing.T) {
	ratings, movies := writeSample(t)

	tests := []struct {
		name    string
		opts    Options
		want    string
		wantErr bool
	}{
		{name: "default is csv", opts: Options{RatingsPath: ratings, MoviesPath: movies}, want: "*dataset.CSVSource"},
		{name: "csv", opts: Options{Loader: LoaderCSV, RatingsPath: ratings, MoviesPath: movies}, want: "*dataset.CSVSource"},
		{name: "duckdb", opts: Options{Loader: LoaderDuckDB, RatingsPath: ratings, MoviesPath: movies}, want: "*dataset.DuckDBSource"},
		{name: "unknown loader", opts: Options{Loader: "parquet", RatingsPath: ratings, MoviesPath: movies}, wantErr: true},
		{name: "missing path", opts: Options{RatingsPath: ratings}, wantErr: true},
		{name: "bad max memory", opts: Options{Loader: LoaderDuckDB, RatingsPath: ratings, MoviesPath: movies, DuckDBMaxMemory: "lots"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewSource(tt.opts)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSource() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer src.Close() //nolint:errcheck // test cleanup
			if got := reflect.TypeOf(src).String(); got != tt.want {
				t.Errorf("NewSource() type = %s, want %s", got, tt.want)
			}
		})
	}
}
