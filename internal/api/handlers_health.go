// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/marquee/internal/recommend"
)

// HealthResponse is returned by the liveness and readiness probes.
type HealthResponse struct {
	Status       string  `json:"status"`
	Ready        bool    `json:"ready"`
	ModelVersion int64   `json:"model_version"`
	Uptime       float64 `json:"uptime_seconds"`
}

// StatusResponse is returned by GET /api/v1/recommendations/status.
type StatusResponse struct {
	recommend.TrainingStatus
	Ready   bool                    `json:"ready"`
	Queries recommend.EngineMetrics `json:"queries"`
}

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of model state.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &HealthResponse{
		Status:       "alive",
		Ready:        h.engine.Ready(),
		ModelVersion: h.engine.Status().ModelVersion,
		Uptime:       time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style).
// Returns 200 OK only once a trained snapshot is serving.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.engine.Ready()

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &HealthResponse{
		Status:       status,
		Ready:        ready,
		ModelVersion: h.engine.Status().ModelVersion,
		Uptime:       time.Since(h.startTime).Seconds(),
	})
}

// TrainingStatus handles GET /api/v1/recommendations/status.
func (h *Handler) TrainingStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &StatusResponse{
		TrainingStatus: h.engine.Status(),
		Ready:          h.engine.Ready(),
		Queries:        h.engine.Metrics(),
	})
}

// TriggerTraining handles POST /api/v1/recommendations/train.
// The pass runs in the background; poll the status endpoint for the result.
func (h *Handler) TriggerTraining(w http.ResponseWriter, r *http.Request) {
	if h.retrain == nil {
		respondError(w, r, http.StatusServiceUnavailable, CodeServiceUnavailable, "Retraining is not enabled", nil)
		return
	}
	if h.engine.Status().IsTraining || !h.retrain.Trigger() {
		respondError(w, r, http.StatusConflict, CodeTrainingInProgress, "Training already in progress", nil)
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "training_scheduled"})
}
