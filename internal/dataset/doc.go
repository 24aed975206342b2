// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package dataset reads the MovieLens ratings and movies tables.

Two loaders are provided:

  - CSVSource parses both files with encoding/csv and joins them in memory
    through recommend.Load.
  - DuckDBSource lets an in-process DuckDB instance scan and join the files
    with read_csv_auto, which is considerably faster on the full 25M-row
    dataset.

Both resolve columns by header name (userId, movieId, rating, title), so
extra columns such as timestamp or genres are ignored. Any unreadable file,
missing column or malformed numeric field is reported as a
*recommend.DataSourceError.

Example:

	src, err := dataset.NewSource(dataset.Options{
	    Loader:      dataset.LoaderDuckDB,
	    RatingsPath: "data/ratings.csv",
	    MoviesPath:  "data/movies.csv",
	})
	if err != nil {
	    return err
	}
	defer src.Close()
	table, err := src.LoadJoined(ctx)
*/
package dataset
