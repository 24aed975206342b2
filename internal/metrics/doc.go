// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package metrics provides Prometheus metrics for the recommendation service.

All collectors are registered with the default registry through promauto and
exposed at /metrics in Prometheus text format:

	curl http://localhost:5000/metrics

# Available Metrics

HTTP Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)
    Labels: endpoint

Training Metrics:
  - recommend_training_duration_seconds: Full training pass time (histogram)
  - recommend_training_runs_total: Training passes (counter)
    Labels: outcome (success, failure, skipped)
  - recommend_training_last_success_timestamp: Unix time of last success (gauge)
  - recommend_model_version: Active snapshot version (gauge)
  - recommend_model_titles, recommend_model_users, recommend_model_nonzero:
    Shape of the active rating matrix (gauges)
  - recommend_model_density: Fraction of stored matrix entries (gauge)
  - recommend_training_rows: Rows seen per stage (gauge)
    Labels: stage (joined, filtered)

Query Metrics:
  - recommend_requests_total: Recommendation queries (counter)
    Labels: outcome (ok, not_found, not_trained, error)
  - recommend_request_duration_seconds: Query latency (histogram)
  - recommend_search_requests_total: Title searches (counter)
    Labels: outcome
  - recommend_search_results: Matches returned per search (histogram)
  - recommend_cache_hits_total, recommend_cache_misses_total: Result cache
    lookups (counter funcs read from the engine)
*/
package metrics
