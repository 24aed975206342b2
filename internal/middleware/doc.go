// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package middleware provides HTTP middleware for the recommendation API.

All middleware has the chi signature func(http.Handler) http.Handler:

  - RequestID: propagates or generates X-Request-ID and stores it in the
    logging context
  - AccessLog: one structured log line per request
  - PrometheusMetrics: API request counters and latency histograms, labelled
    by chi route pattern so path parameters do not explode cardinality

Typical stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
*/
package middleware
