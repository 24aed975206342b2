// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package api

import (
	"time"

	"github.com/tomtom215/marquee/internal/recommend"
)

// Engine is the part of *recommend.Engine the handlers use.
type Engine interface {
	Recommend(title string, k int) ([]recommend.Recommendation, bool, error)
	SearchTitles(query string, limit int) ([]string, error)
	Ready() bool
	Status() recommend.TrainingStatus
	Metrics() recommend.EngineMetrics
}

// RetrainTrigger schedules a background training pass. Trigger reports
// false when a pass is already running or queued.
type RetrainTrigger interface {
	Trigger() bool
}

// Handler serves the recommendation endpoints.
type Handler struct {
	engine    Engine
	retrain   RetrainTrigger
	startTime time.Time
}

// NewHandler creates a handler over engine. retrain may be nil, in which
// case the manual train endpoint answers 503.
func NewHandler(engine Engine, retrain RetrainTrigger) *Handler {
	return &Handler{
		engine:    engine,
		retrain:   retrain,
		startTime: time.Now(),
	}
}
