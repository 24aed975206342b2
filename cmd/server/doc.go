// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package main is the entry point for the Marquee server.
//
// Marquee answers "movies similar to X" from a MovieLens-style ratings table.
// At startup it joins ratings with titles, drops sparse titles and users,
// builds a title x user rating matrix and indexes it for cosine nearest
// neighbor queries. The trained snapshot is then served over HTTP.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, optional config.yaml, environment (Koanf v2)
//  2. Logging: zerolog with the configured level and format
//  3. Data source: CSV reader or DuckDB read_csv_auto join (LOADER)
//  4. Engine: cosine kNN builder plus the snapshot holder
//  5. Initial training: blocking; any failure exits the process
//  6. Supervisor tree: retrain service in the model layer, HTTP in the API layer
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (DATA_DIR, MIN_ITEM_RATINGS, HTTP_PORT, ...)
//   - Config file (CONFIG_PATH or config.yaml)
//   - Built-in defaults
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests up to HTTP_SHUTDOWN_TIMEOUT
//   - Cancels any running retrain and closes the data source
//
// # Example Usage
//
//	export DATA_DIR=./ml-latest-small
//	export MIN_ITEM_RATINGS=50 MIN_USER_RATINGS=50
//	./marquee-server
//
//	curl -s -X POST localhost:5000/recommend -d '{"movie_name":"Heat (1995)","k":5}'
package main
