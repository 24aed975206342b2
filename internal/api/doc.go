// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package api provides the HTTP interface to the recommendation engine.

Routes:

	POST /recommend                       {"movie_name": "...", "k": 5} -> [{"title","similarity"}]
	GET  /search?q=...&limit=N            -> ["title", ...]
	GET  /api/v1/health/live              process is up
	GET  /api/v1/health/ready             a trained model is serving
	GET  /api/v1/recommendations/status   training status and model shape
	POST /api/v1/recommendations/train    trigger a background retrain
	GET  /metrics                         Prometheus exposition

/recommend and /search keep the bare JSON array bodies the browser client
expects. Errors on every route share one shape:

	{"error": "Movie not found", "code": "NOT_FOUND"}

Routing uses chi with go-chi/cors and go-chi/httprate; responses are encoded
with goccy/go-json.
*/
package api
