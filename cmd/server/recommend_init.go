// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/dataset"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/recommend/algorithms"
)

// RecommendComponents holds the engine and the data source it trains from.
type RecommendComponents struct {
	Engine *recommend.Engine
	Source dataset.Source
}

// Close releases the data source.
func (c *RecommendComponents) Close() error {
	return c.Source.Close()
}

// initRecommend wires the data source, the kNN builder and the engine.
// Training is left to the caller.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, logger zerolog.Logger) (*RecommendComponents, error) {
	logger.Info().
		Str("loader", cfg.Data.Loader).
		Str("ratings", cfg.Data.RatingsPath()).
		Str("movies", cfg.Data.MoviesPath()).
		Int("min_item_ratings", cfg.Recommend.MinItemRatings).
		Int("min_user_ratings", cfg.Recommend.MinUserRatings).
		Dur("retrain_interval", cfg.Recommend.RetrainInterval).
		Msg("initializing recommendation engine")

	src, err := dataset.NewSource(dataset.Options{
		Loader:          cfg.Data.Loader,
		RatingsPath:     cfg.Data.RatingsPath(),
		MoviesPath:      cfg.Data.MoviesPath(),
		DuckDBMaxMemory: cfg.Data.DuckDBMaxMemory,
		DuckDBThreads:   cfg.Data.DuckDBThreads,
	})
	if err != nil {
		return nil, fmt.Errorf("create data source: %w", err)
	}

	builder := algorithms.NewCosineKNN(algorithms.KNNConfig{
		NumWorkers: cfg.Recommend.Workers,
		Precompute: cfg.Recommend.Precompute,
	})
	engine, err := recommend.NewEngine(buildEngineConfig(cfg), src, builder, logger)
	if err != nil {
		_ = src.Close()
		return nil, fmt.Errorf("create engine: %w", err)
	}
	return &RecommendComponents{Engine: engine, Source: src}, nil
}

// buildEngineConfig maps application config onto engine config.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	rc := cfg.Recommend
	return &recommend.Config{
		MinItemCount:   rc.MinItemRatings,
		MinUserCount:   rc.MinUserRatings,
		DefaultK:       rc.DefaultK,
		MaxK:           rc.MaxK,
		SearchLimit:    rc.SearchLimit,
		MaxSearchLimit: rc.MaxSearchLimit,
		TrainTimeout:   rc.TrainTimeout,
		Cache: recommend.CacheConfig{
			Enabled: rc.CacheEnabled,
			Size:    rc.CacheSize,
			TTL:     rc.CacheTTL,
		},
	}
}
