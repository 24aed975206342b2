// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package dataset

import (
	"fmt"

	"github.com/tomtom215/marquee/internal/recommend"
)

// Loader names.
const (
	LoaderCSV    = "csv"
	LoaderDuckDB = "duckdb"
)

// MovieLens column names.
const (
	colUserID  = "userId"
	colMovieID = "movieId"
	colRating  = "rating"
	colTitle   = "title"
)

// Options selects and configures a loader.
type Options struct {
	Loader      string
	RatingsPath string
	MoviesPath  string

	// DuckDBMaxMemory is passed to DuckDB's max_memory setting (e.g. "1GB").
	DuckDBMaxMemory string
	// DuckDBThreads limits DuckDB worker threads. Zero lets DuckDB decide.
	DuckDBThreads int
}

// Source is a recommend.DataSource that may hold resources.
type Source interface {
	recommend.DataSource
	Close() error
}

// NewSource returns the loader named by opts.Loader.
func NewSource(opts Options) (Source, error) {
	if opts.RatingsPath == "" || opts.MoviesPath == "" {
		return nil, fmt.Errorf("ratings and movies paths are required")
	}
	switch opts.Loader {
	case LoaderCSV, "":
		return NewCSVSource(opts.RatingsPath, opts.MoviesPath), nil
	case LoaderDuckDB:
		return NewDuckDBSource(opts.RatingsPath, opts.MoviesPath, opts.DuckDBMaxMemory, opts.DuckDBThreads)
	default:
		return nil, fmt.Errorf("unknown loader %q (expected %q or %q)", opts.Loader, LoaderCSV, LoaderDuckDB)
	}
}
