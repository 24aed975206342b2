// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package supervisor

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig controls restart backoff and shutdown for every supervisor in
// the tree. Zero fields take their DefaultTreeConfig value.
type TreeConfig struct {
	// FailureThreshold failures within the decay window trigger backoff.
	FailureThreshold float64

	// FailureDecay is the failure half-life in seconds.
	FailureDecay float64

	// FailureBackoff is how long a supervisor pauses restarts once the
	// threshold is crossed.
	FailureBackoff time.Duration

	// ShutdownTimeout bounds how long each service gets to return from Serve.
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns the values suture itself would pick.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	def := DefaultTreeConfig()
	c.FailureThreshold = cmp.Or(c.FailureThreshold, def.FailureThreshold)
	c.FailureDecay = cmp.Or(c.FailureDecay, def.FailureDecay)
	c.FailureBackoff = cmp.Or(c.FailureBackoff, def.FailureBackoff)
	c.ShutdownTimeout = cmp.Or(c.ShutdownTimeout, def.ShutdownTimeout)
	return c
}

func (c TreeConfig) spec(hook suture.EventHook) suture.Spec {
	return suture.Spec{
		EventHook:        hook,
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   c.FailureBackoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// SupervisorTree is the server's two-layer supervisor hierarchy:
//
//	marquee
//	├── model-layer   (retrain service)
//	└── api-layer     (HTTP server)
//
// A crashing HTTP server is restarted without touching the model layer.
type SupervisorTree struct {
	root   *suture.Supervisor
	model  *suture.Supervisor
	api    *suture.Supervisor
	config TreeConfig
}

// NewSupervisorTree builds the hierarchy. Supervisor events are logged to
// logger through sutureslog.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	if logger == nil {
		return nil, errors.New("supervisor: logger is required")
	}
	config = config.withDefaults()
	hook := (&sutureslog.Handler{Logger: logger}).MustHook()

	t := &SupervisorTree{
		root: suture.New("marquee", config.spec(hook)),
		// Children pick up the root's hook when added.
		model:  suture.New("model-layer", config.spec(nil)),
		api:    suture.New("api-layer", config.spec(nil)),
		config: config,
	}
	t.root.Add(t.model)
	t.root.Add(t.api)
	return t, nil
}

// Root exposes the top supervisor.
func (t *SupervisorTree) Root() *suture.Supervisor { return t.root }

// AddModelService runs svc under the model layer.
func (t *SupervisorTree) AddModelService(svc suture.Service) suture.ServiceToken {
	return t.model.Add(svc)
}

// AddAPIService runs svc under the API layer.
func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// Serve runs the tree until ctx is cancelled.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground runs the tree in a goroutine. The returned channel
// receives Serve's result once.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that outlived ShutdownTimeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
