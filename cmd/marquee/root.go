// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tomtom215/marquee/internal/config"
	"github.com/tomtom215/marquee/internal/dataset"
	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/recommend/algorithms"
)

// globalFlags override values from config.Load when set.
type globalFlags struct {
	dataDir        string
	ratingsFile    string
	moviesFile     string
	loader         string
	minItemRatings int
	minUserRatings int
	workers        int
	jsonOutput     bool
	logLevel       string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "marquee",
		Short: "Marquee - item-item movie recommendations",
		Long: `Marquee builds a cosine nearest-neighbor index over a MovieLens-style
ratings table and answers "movies similar to X" queries.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.dataDir, "data-dir", "", "Directory holding ratings and movies files")
	pf.StringVar(&flags.ratingsFile, "ratings", "", "Ratings file (relative to --data-dir unless absolute)")
	pf.StringVar(&flags.moviesFile, "movies", "", "Movies file (relative to --data-dir unless absolute)")
	pf.StringVar(&flags.loader, "loader", "", "Loader: csv or duckdb")
	pf.IntVar(&flags.minItemRatings, "min-item-ratings", 0, "Minimum ratings per title")
	pf.IntVar(&flags.minUserRatings, "min-user-ratings", 0, "Minimum ratings per user")
	pf.IntVar(&flags.workers, "workers", -1, "Similarity workers (0 = all CPUs)")
	pf.BoolVar(&flags.jsonOutput, "json", false, "Output results as JSON")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "Log level written to stderr")

	root.AddCommand(newTrainCmd(flags), newSimilarCmd(flags), newSearchCmd(flags))
	return root
}

// loadConfig layers command-line flags over config.Load.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	pf := cmd.Flags()
	if pf.Changed("data-dir") {
		cfg.Data.Dir = flags.dataDir
	}
	if pf.Changed("ratings") {
		cfg.Data.RatingsFile = flags.ratingsFile
	}
	if pf.Changed("movies") {
		cfg.Data.MoviesFile = flags.moviesFile
	}
	if pf.Changed("loader") {
		cfg.Data.Loader = flags.loader
	}
	if pf.Changed("min-item-ratings") {
		cfg.Recommend.MinItemRatings = flags.minItemRatings
	}
	if pf.Changed("min-user-ratings") {
		cfg.Recommend.MinUserRatings = flags.minUserRatings
	}
	if pf.Changed("workers") {
		cfg.Recommend.Workers = flags.workers
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// trainedEngine loads the data, trains once and returns the engine.
// The caller closes the returned source.
func trainedEngine(ctx context.Context, cmd *cobra.Command, flags *globalFlags) (*recommend.Engine, dataset.Source, error) {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return nil, nil, err
	}

	logging.Init(logging.Config{
		Level:     flags.logLevel,
		Format:    "console",
		Timestamp: true,
		Output:    cmd.ErrOrStderr(),
	})

	src, err := dataset.NewSource(dataset.Options{
		Loader:          cfg.Data.Loader,
		RatingsPath:     cfg.Data.RatingsPath(),
		MoviesPath:      cfg.Data.MoviesPath(),
		DuckDBMaxMemory: cfg.Data.DuckDBMaxMemory,
		DuckDBThreads:   cfg.Data.DuckDBThreads,
	})
	if err != nil {
		return nil, nil, err
	}

	engineCfg := recommend.DefaultConfig()
	engineCfg.MinItemCount = cfg.Recommend.MinItemRatings
	engineCfg.MinUserCount = cfg.Recommend.MinUserRatings
	engineCfg.DefaultK = cfg.Recommend.DefaultK
	engineCfg.MaxK = cfg.Recommend.MaxK
	engineCfg.SearchLimit = cfg.Recommend.SearchLimit
	engineCfg.MaxSearchLimit = cfg.Recommend.MaxSearchLimit
	engineCfg.TrainTimeout = cfg.Recommend.TrainTimeout
	engineCfg.Cache.Enabled = false

	builder := algorithms.NewCosineKNN(algorithms.KNNConfig{
		NumWorkers: cfg.Recommend.Workers,
		Precompute: cfg.Recommend.Precompute,
	})
	engine, err := recommend.NewEngine(engineCfg, src, builder, logging.Logger())
	if err != nil {
		_ = src.Close()
		return nil, nil, err
	}
	if err := engine.Train(ctx); err != nil {
		_ = src.Close()
		return nil, nil, err
	}
	return engine, src, nil
}

func closeSource(src dataset.Source) {
	if err := src.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing data source: %v\n", err)
	}
}
