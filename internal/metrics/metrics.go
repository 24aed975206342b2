// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeOK         = "ok"
	OutcomeNotFound   = "not_found"
	OutcomeNotTrained = "not_trained"
	OutcomeError      = "error"

	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}, // kNN queries are sub-second
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Training Metrics
	TrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_training_duration_seconds",
			Help:    "Duration of full training passes in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600, 1800}, // full MovieLens takes minutes
		},
	)

	TrainingRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_training_runs_total",
			Help: "Total number of training passes by outcome",
		},
		[]string{"outcome"},
	)

	TrainingLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_training_last_success_timestamp",
			Help: "Unix timestamp of last successful training pass",
		},
	)

	TrainingRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "recommend_training_rows",
			Help: "Rows seen by the last successful training pass per stage",
		},
		[]string{"stage"}, // "joined", "filtered"
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_version",
			Help: "Version of the snapshot currently serving queries",
		},
	)

	ModelTitles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_titles",
			Help: "Number of titles (matrix rows) in the active model",
		},
	)

	ModelUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_users",
			Help: "Number of users (matrix columns) in the active model",
		},
	)

	ModelNonZero = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_nonzero",
			Help: "Number of stored entries in the active rating matrix",
		},
	)

	ModelDensity = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "recommend_model_density",
			Help: "Fraction of matrix cells holding a rating",
		},
	)

	// Query Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation queries by outcome",
		},
		[]string{"outcome"},
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_request_duration_seconds",
			Help:    "Duration of recommendation queries in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_search_requests_total",
			Help: "Total number of title searches by outcome",
		},
		[]string{"outcome"},
	)

	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_search_results",
			Help:    "Number of titles returned per search",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)

	// Cache Metrics. Counts live in the engine; these read them at scrape time.
	cacheStats atomic.Pointer[func() (hits, misses int64)]

	CacheHits = promauto.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "recommend_cache_hits_total",
			Help: "Total number of recommendation result cache hits",
		},
		func() float64 {
			hits, _ := readCacheStats()
			return float64(hits)
		},
	)

	CacheMisses = promauto.NewCounterFunc(
		prometheus.CounterOpts{
			Name: "recommend_cache_misses_total",
			Help: "Total number of recommendation result cache misses",
		},
		func() float64 {
			_, misses := readCacheStats()
			return float64(misses)
		},
	)
)

// ModelShape describes the active snapshot for gauge updates.
type ModelShape struct {
	Version      int64
	Titles       int
	Users        int
	NonZero      int
	Density      float64
	JoinedRows   int
	FilteredRows int
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordTraining records one training pass. shape is only read on success.
func RecordTraining(duration time.Duration, shape ModelShape, err error) {
	TrainingDuration.Observe(duration.Seconds())
	if err != nil {
		TrainingRuns.WithLabelValues(OutcomeFailure).Inc()
		return
	}
	TrainingRuns.WithLabelValues(OutcomeSuccess).Inc()
	TrainingLastSuccess.Set(float64(time.Now().Unix()))
	UpdateModelGauges(shape)
}

// RecordTrainingSkipped records a pass that did not start because another
// was still running.
func RecordTrainingSkipped() {
	TrainingRuns.WithLabelValues(OutcomeSkipped).Inc()
}

// UpdateModelGauges sets the gauges describing the serving snapshot.
func UpdateModelGauges(shape ModelShape) {
	ModelVersion.Set(float64(shape.Version))
	ModelTitles.Set(float64(shape.Titles))
	ModelUsers.Set(float64(shape.Users))
	ModelNonZero.Set(float64(shape.NonZero))
	ModelDensity.Set(shape.Density)
	TrainingRows.WithLabelValues("joined").Set(float64(shape.JoinedRows))
	TrainingRows.WithLabelValues("filtered").Set(float64(shape.FilteredRows))
}

// RecordRecommendation records one recommendation query.
func RecordRecommendation(outcome string, duration time.Duration) {
	RecommendRequests.WithLabelValues(outcome).Inc()
	RecommendDuration.Observe(duration.Seconds())
}

// RecordSearch records one title search and the number of matches returned.
func RecordSearch(outcome string, results int) {
	SearchRequests.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		SearchResults.Observe(float64(results))
	}
}

// SetCacheStatsSource installs the function the cache counters read from.
// Passing nil reports zero.
func SetCacheStatsSource(fn func() (hits, misses int64)) {
	if fn == nil {
		cacheStats.Store(nil)
		return
	}
	cacheStats.Store(&fn)
}

func readCacheStats() (hits, misses int64) {
	fn := cacheStats.Load()
	if fn == nil {
		return 0, 0
	}
	return (*fn)()
}
