// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func sampleCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordAPIRequest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		endpoint   string
		statusCode string
	}{
		{name: "recommend ok", method: "POST", endpoint: "/recommend", statusCode: "200"},
		{name: "recommend unknown title", method: "POST", endpoint: "/recommend", statusCode: "404"},
		{name: "search", method: "GET", endpoint: "/search", statusCode: "200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter := APIRequestsTotal.WithLabelValues(tt.method, tt.endpoint, tt.statusCode)
			before := testutil.ToFloat64(counter)

			RecordAPIRequest(tt.method, tt.endpoint, tt.statusCode, 3*time.Millisecond)

			if got := testutil.ToFloat64(counter); got != before+1 {
				t.Errorf("api_requests_total = %v, want %v", got, before+1)
			}
		})
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			TrackActiveRequest(true)
			TrackActiveRequest(false)
		}()
	}
	wg.Wait()

	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("api_active_requests = %v, want %v", got, before)
	}
}

func TestRecordTraining(t *testing.T) {
	success := TrainingRuns.WithLabelValues(OutcomeSuccess)
	failure := TrainingRuns.WithLabelValues(OutcomeFailure)
	skipped := TrainingRuns.WithLabelValues(OutcomeSkipped)
	s0, f0, k0 := testutil.ToFloat64(success), testutil.ToFloat64(failure), testutil.ToFloat64(skipped)

	shape := ModelShape{Version: 3, Titles: 120, Users: 400, NonZero: 9000, Density: 0.1875, JoinedRows: 12000, FilteredRows: 9000}
	RecordTraining(2*time.Second, shape, nil)

	if got := testutil.ToFloat64(success); got != s0+1 {
		t.Errorf("success runs = %v, want %v", got, s0+1)
	}
	if got := testutil.ToFloat64(ModelVersion); got != 3 {
		t.Errorf("model version = %v, want 3", got)
	}
	if got := testutil.ToFloat64(ModelTitles); got != 120 {
		t.Errorf("model titles = %v, want 120", got)
	}
	if got := testutil.ToFloat64(ModelDensity); got != 0.1875 {
		t.Errorf("model density = %v, want 0.1875", got)
	}
	if got := testutil.ToFloat64(TrainingRows.WithLabelValues("filtered")); got != 9000 {
		t.Errorf("filtered rows = %v, want 9000", got)
	}
	if testutil.ToFloat64(TrainingLastSuccess) == 0 {
		t.Error("last success timestamp not set")
	}

	// A failure leaves the serving model gauges alone.
	RecordTraining(time.Second, ModelShape{Version: 99}, errors.New("load failed"))
	if got := testutil.ToFloat64(failure); got != f0+1 {
		t.Errorf("failure runs = %v, want %v", got, f0+1)
	}
	if got := testutil.ToFloat64(ModelVersion); got != 3 {
		t.Errorf("model version after failure = %v, want 3", got)
	}

	RecordTrainingSkipped()
	if got := testutil.ToFloat64(skipped); got != k0+1 {
		t.Errorf("skipped runs = %v, want %v", got, k0+1)
	}
}

func TestRecordRecommendation(t *testing.T) {
	observed := sampleCount(t, RecommendDuration)
	t.Cleanup(func() {
		if got := sampleCount(t, RecommendDuration); got != observed+4 {
			t.Errorf("recommend duration samples = %d, want %d", got, observed+4)
		}
	})

	for _, outcome := range []string{OutcomeOK, OutcomeNotFound, OutcomeNotTrained, OutcomeError} {
		t.Run(outcome, func(t *testing.T) {
			counter := RecommendRequests.WithLabelValues(outcome)
			before := testutil.ToFloat64(counter)
			RecordRecommendation(outcome, time.Millisecond)
			if got := testutil.ToFloat64(counter); got != before+1 {
				t.Errorf("recommend_requests_total{outcome=%q} = %v, want %v", outcome, got, before+1)
			}
		})
	}
}

func TestRecordSearch(t *testing.T) {
	ok := SearchRequests.WithLabelValues(OutcomeOK)
	before := testutil.ToFloat64(ok)

	observed := sampleCount(t, SearchResults)

	RecordSearch(OutcomeOK, 7)
	RecordSearch(OutcomeNotTrained, 0)

	if got := sampleCount(t, SearchResults); got != observed+1 {
		t.Errorf("search results samples = %d, want %d", got, observed+1)
	}

	if got := testutil.ToFloat64(ok); got != before+1 {
		t.Errorf("search ok = %v, want %v", got, before+1)
	}
	if n := testutil.CollectAndCount(SearchResults); n != 1 {
		t.Errorf("search results histogram series = %d, want 1", n)
	}
}

func TestCacheStatsSource(t *testing.T) {
	t.Cleanup(func() { SetCacheStatsSource(nil) })

	SetCacheStatsSource(nil)
	if got := testutil.ToFloat64(CacheHits); got != 0 {
		t.Errorf("cache hits without source = %v, want 0", got)
	}

	SetCacheStatsSource(func() (int64, int64) { return 12, 4 })
	if got := testutil.ToFloat64(CacheHits); got != 12 {
		t.Errorf("cache hits = %v, want 12", got)
	}
	if got := testutil.ToFloat64(CacheMisses); got != 4 {
		t.Errorf("cache misses = %v, want 4", got)
	}
}

func TestRecordRateLimitHit(t *testing.T) {
	counter := APIRateLimitHits.WithLabelValues("/recommend")
	before := testutil.ToFloat64(counter)
	RecordRateLimitHit("/recommend")
	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Errorf("rate limit hits = %v, want %v", got, before+1)
	}
}
