// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/marquee/internal/middleware"
)

// RouterConfig configures NewRouter.
type RouterConfig struct {
	Middleware *ChiMiddlewareConfig

	// RequestTimeout bounds handler execution. Zero disables the timeout.
	RequestTimeout time.Duration
}

// NewRouter configures all HTTP routes using Chi router.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	mw := NewChiMiddleware(cfg.Middleware)
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(APISecurityHeaders())
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// ========================
	// Query Endpoints
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(chimiddleware.Compress(5, "application/json"))
		r.Post("/recommend", h.Recommend)
		r.Get("/search", h.Search)
	})

	// ========================
	// Health & Status Endpoints
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health/live", h.HealthLive)
		r.Get("/health/ready", h.HealthReady)

		r.Route("/recommendations", func(r chi.Router) {
			r.Get("/status", h.TrainingStatus)
			r.With(mw.RateLimit()).Post("/train", h.TriggerTraining)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
