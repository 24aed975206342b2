// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package recommend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"
)

// Engine owns the current Snapshot and serves queries against it.
// It is safe for concurrent use; queries never block on training.
type Engine struct {
	config  *Config
	logger  zerolog.Logger
	source  DataSource
	builder IndexBuilder

	snapshot atomic.Pointer[Snapshot]
	version  atomic.Int64

	trainMu     sync.Mutex
	statusMu    sync.RWMutex
	trainStatus TrainingStatus

	cache *expirable.LRU[string, []Recommendation]

	requestCount atomic.Int64
	notFound     atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	searchCount  atomic.Int64
}

// NewEngine creates an engine that trains from source using builder.
// No model is available until Train succeeds.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, source DataSource, builder IndexBuilder, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if source == nil {
		return nil, errors.New("data source is required")
	}
	if builder == nil {
		return nil, errors.New("index builder is required")
	}

	e := &Engine{
		config:  cfg.Clone(),
		logger:  logger.With().Str("component", "recommend").Logger(),
		source:  source,
		builder: builder,
	}
	e.trainStatus.Algorithm = builder.Name()
	if cfg.Cache.Enabled {
		e.cache = expirable.NewLRU[string, []Recommendation](cfg.Cache.Size, nil, cfg.Cache.TTL)
	}
	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Train runs a full training pass and atomically replaces the current
// snapshot on success. On failure the previous snapshot, if any, keeps
// serving. Concurrent calls return ErrTrainingInProgress.
func (e *Engine) Train(ctx context.Context) error {
	if !e.trainMu.TryLock() {
		return ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()

	start := time.Now()
	e.setTraining()
	e.logger.Info().Str("algorithm", e.builder.Name()).Msg("starting model training")

	trainCtx, cancel := context.WithTimeout(ctx, e.config.TrainTimeout)
	defer cancel()

	snap, err := Train(trainCtx, e.source, e.builder, e.config.MinItemCount, e.config.MinUserCount)
	if err != nil {
		e.finishTraining(start, nil, err)
		e.logger.Error().Err(err).
			Dur("duration", time.Since(start)).
			Bool("serving_previous", e.snapshot.Load() != nil).
			Msg("model training failed")
		return err
	}

	snap.Version = e.version.Add(1)
	e.snapshot.Store(snap)
	if e.cache != nil {
		e.cache.Purge()
	}
	e.finishTraining(start, snap, nil)

	e.logger.Info().
		Int64("version", snap.Version).
		Int("joined_rows", snap.Stats.JoinedRows).
		Int("filtered_rows", snap.Stats.FilteredRows).
		Int("titles", snap.Stats.Titles).
		Int("users", snap.Stats.Users).
		Int("nnz", snap.Stats.NonZero).
		Dur("duration", time.Since(start)).
		Msg("model training complete")
	return nil
}

func (e *Engine) setTraining() {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.trainStatus.IsTraining = true
}

func (e *Engine) finishTraining(start time.Time, snap *Snapshot, err error) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()

	e.trainStatus.IsTraining = false
	e.trainStatus.LastDurationMS = time.Since(start).Milliseconds()
	if err != nil {
		e.trainStatus.LastError = err.Error()
		return
	}
	e.trainStatus.LastError = ""
	e.trainStatus.ModelVersion = snap.Version
	e.trainStatus.LastTrainedAt = snap.TrainedAt
	e.trainStatus.Stats = snap.Stats
}

// Snapshot returns the current snapshot, or nil before the first
// successful Train.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// Ready reports whether a trained snapshot is available.
func (e *Engine) Ready() bool {
	return e.snapshot.Load() != nil
}

// Status returns the current training status.
func (e *Engine) Status() TrainingStatus {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()
	return e.trainStatus
}

// Metrics returns query counters.
func (e *Engine) Metrics() EngineMetrics {
	return EngineMetrics{
		Requests:    e.requestCount.Load(),
		NotFound:    e.notFound.Load(),
		CacheHits:   e.cacheHits.Load(),
		CacheMisses: e.cacheMisses.Load(),
		Searches:    e.searchCount.Load(),
	}
}

// ResolveK applies the engine's default and cap to a requested k.
func (e *Engine) ResolveK(k int) int {
	if k <= 0 {
		return e.config.DefaultK
	}
	return min(k, e.config.MaxK)
}

// Recommend returns up to k titles similar to title, most similar first.
// found is false when title is not in the current model. k <= 0 selects
// the configured default and k above MaxK is capped. ErrModelNotTrained is
// returned before the first successful Train.
func (e *Engine) Recommend(title string, k int) (recs []Recommendation, found bool, err error) {
	e.requestCount.Add(1)

	snap := e.snapshot.Load()
	if snap == nil {
		return nil, false, ErrModelNotTrained
	}
	k = e.ResolveK(k)

	key := cacheKey(snap.Version, k, title)
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			e.cacheHits.Add(1)
			return slices.Clone(cached), true, nil
		}
		e.cacheMisses.Add(1)
	}

	recs, err = snap.Recommend(title, k)
	if errors.Is(err, ErrUnknownTitle) {
		e.notFound.Add(1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if e.cache != nil {
		e.cache.Add(key, slices.Clone(recs))
	}
	return recs, true, nil
}

// SearchTitles returns up to limit titles containing query, case-insensitively,
// in title index order. limit <= 0 selects the configured default and limit
// above MaxSearchLimit is capped.
func (e *Engine) SearchTitles(query string, limit int) ([]string, error) {
	e.searchCount.Add(1)

	snap := e.snapshot.Load()
	if snap == nil {
		return nil, ErrModelNotTrained
	}
	if limit <= 0 {
		limit = e.config.SearchLimit
	}
	return snap.SearchTitles(query, min(limit, e.config.MaxSearchLimit))
}

func cacheKey(version int64, k int, title string) string {
	return strconv.FormatInt(version, 10) + ":" + strconv.Itoa(k) + ":" + title
}
