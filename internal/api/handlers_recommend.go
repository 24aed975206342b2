// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/recommend"
	"github.com/tomtom215/marquee/internal/validation"
)

// RecommendRequest is the body of POST /recommend.
type RecommendRequest struct {
	// MovieName must be non-empty; a whitespace-only name is looked up as is.
	MovieName string `json:"movie_name" validate:"required,max=512"`
	// K is optional; zero or negative selects the configured default.
	K int `json:"k"`
}

// Recommend handles POST /recommend.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RecommendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, CodeInvalidJSON, "Request body must be a JSON object", err)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, verr)
		return
	}

	recs, found, err := h.engine.Recommend(req.MovieName, req.K)
	switch {
	case errors.Is(err, recommend.ErrModelNotTrained):
		metrics.RecordRecommendation(metrics.OutcomeNotTrained, time.Since(start))
		respondError(w, r, http.StatusServiceUnavailable, CodeServiceUnavailable, "Recommendation model is not trained yet", nil)
		return
	case err != nil:
		metrics.RecordRecommendation(metrics.OutcomeError, time.Since(start))
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to generate recommendations", err)
		return
	case !found:
		metrics.RecordRecommendation(metrics.OutcomeNotFound, time.Since(start))
		respondError(w, r, http.StatusNotFound, CodeNotFound, "Movie not found", nil)
		return
	}

	if recs == nil {
		recs = []recommend.Recommendation{}
	}
	metrics.RecordRecommendation(metrics.OutcomeOK, time.Since(start))
	logging.Ctx(r.Context()).Debug().
		Str("title", sanitizeLogValue(req.MovieName)).
		Int("results", len(recs)).
		Dur("duration", time.Since(start)).
		Msg("recommendations served")

	respondJSON(w, http.StatusOK, recs)
}

// Search handles GET /search?q=...&limit=N.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	limit, err := getIntParam(r, "limit", 0)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, CodeInvalidParameter, err.Error(), nil)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		metrics.RecordSearch(metrics.OutcomeOK, 0)
		respondJSON(w, http.StatusOK, []string{})
		return
	}

	titles, err := h.engine.SearchTitles(query, limit)
	switch {
	case errors.Is(err, recommend.ErrModelNotTrained):
		metrics.RecordSearch(metrics.OutcomeNotTrained, 0)
		respondError(w, r, http.StatusServiceUnavailable, CodeServiceUnavailable, "Recommendation model is not trained yet", nil)
		return
	case err != nil:
		metrics.RecordSearch(metrics.OutcomeError, 0)
		respondError(w, r, http.StatusInternalServerError, CodeInternal, "Failed to search titles", err)
		return
	}

	metrics.RecordSearch(metrics.OutcomeOK, len(titles))
	respondJSON(w, http.StatusOK, titles)
}
