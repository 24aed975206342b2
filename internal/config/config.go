// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

// Package config loads Marquee configuration with Koanf v2.
//
// Sources are layered, later ones winning:
//  1. Defaults: built-in values from defaultConfig()
//  2. Config file: optional YAML (CONFIG_PATH, ./config.yaml, /etc/marquee/config.yaml)
//  3. Environment variables: an explicit mapping of names such as HTTP_PORT
//     or MIN_ITEM_RATINGS onto config paths
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
//	ratingsPath := cfg.Data.RatingsPath()
package config

import (
	"path/filepath"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Data      DataConfig      `koanf:"data"`
	Recommend RecommendConfig `koanf:"recommend"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// SecurityConfig holds rate limiting and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level" validate:"oneof=trace debug info warn warning error"`

	// Format is json (production) or console (development).
	Format string `koanf:"format" validate:"oneof=json console"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// DataConfig locates the two MovieLens-style input tables.
//
// Environment Variables:
//   - DATA_DIR: directory holding the files (default: ./data)
//   - RATINGS_FILE: ratings table, relative to DATA_DIR unless absolute (default: ratings.csv)
//   - MOVIES_FILE: movies table, relative to DATA_DIR unless absolute (default: movies.csv)
//   - LOADER: csv or duckdb (default: csv)
//   - DUCKDB_MAX_MEMORY: DuckDB memory cap (default: 1GB)
//   - DUCKDB_THREADS: DuckDB worker threads, 0 for DuckDB's default (default: 0)
type DataConfig struct {
	Dir         string `koanf:"dir"`
	RatingsFile string `koanf:"ratings_file" validate:"required"`
	MoviesFile  string `koanf:"movies_file" validate:"required"`
	Loader      string `koanf:"loader" validate:"oneof=csv duckdb"`

	// DuckDBMaxMemory caps DuckDB memory when Loader is duckdb (e.g. "1GB").
	DuckDBMaxMemory string `koanf:"duckdb_max_memory"`

	// DuckDBThreads sets DuckDB's threads setting; 0 leaves DuckDB's default.
	DuckDBThreads int `koanf:"duckdb_threads" validate:"min=0"`
}

// RatingsPath returns the resolved ratings file path.
func (d DataConfig) RatingsPath() string {
	return d.resolve(d.RatingsFile)
}

// MoviesPath returns the resolved movies file path.
func (d DataConfig) MoviesPath() string {
	return d.resolve(d.MoviesFile)
}

func (d DataConfig) resolve(name string) string {
	if filepath.IsAbs(name) || d.Dir == "" {
		return name
	}
	return filepath.Join(d.Dir, name)
}

// RecommendConfig holds training and query settings.
//
// Environment Variables:
//   - MIN_ITEM_RATINGS: minimum ratings per title to keep it (default: 50)
//   - MIN_USER_RATINGS: minimum ratings per user to keep them (default: 50)
//   - DEFAULT_K: neighbors returned when a request does not say (default: 5)
//   - MAX_K: largest k a request may ask for (default: 100)
//   - SEARCH_LIMIT: default title search limit (default: 10)
//   - KNN_WORKERS: similarity scan workers, 0 = runtime.NumCPU() (default: 0)
//   - KNN_PRECOMPUTE: neighbors cached per title at train time, 0 = scan per query (default: 0)
//   - RETRAIN_INTERVAL: periodic retrain interval, 0 disables (default: 0)
//   - TRAIN_TIMEOUT: upper bound on one training pass (default: 30m)
//   - CACHE_ENABLED, CACHE_SIZE, CACHE_TTL: recommendation result cache
type RecommendConfig struct {
	MinItemRatings  int           `koanf:"min_item_ratings" validate:"min=1"`
	MinUserRatings  int           `koanf:"min_user_ratings" validate:"min=1"`
	DefaultK        int           `koanf:"default_k" validate:"min=1"`
	MaxK            int           `koanf:"max_k" validate:"min=1"`
	SearchLimit     int           `koanf:"search_limit" validate:"min=1"`
	MaxSearchLimit  int           `koanf:"max_search_limit" validate:"min=1"`
	Workers         int           `koanf:"workers" validate:"min=0"`
	Precompute      int           `koanf:"precompute" validate:"min=0"`
	RetrainInterval time.Duration `koanf:"retrain_interval" validate:"min=0"`
	TrainTimeout    time.Duration `koanf:"train_timeout" validate:"gt=0"`
	CacheEnabled    bool          `koanf:"cache_enabled"`
	CacheSize       int           `koanf:"cache_size" validate:"min=0"`
	CacheTTL        time.Duration `koanf:"cache_ttl" validate:"min=0"`
}
