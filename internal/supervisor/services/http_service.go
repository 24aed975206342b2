// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HTTPServer is the part of *http.Server the service drives.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

const defaultShutdownTimeout = 10 * time.Second

// HTTPServerService runs an HTTP server under the supervisor. Cancelling the
// Serve context drains in-flight requests for at most shutdownTimeout.
type HTTPServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
	logger          zerolog.Logger
}

// NewHTTPServerService wraps server. A non-positive shutdownTimeout means 10s.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHTTPServerService(server HTTPServer, shutdownTimeout time.Duration, logger zerolog.Logger) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}
	if srv, ok := server.(*http.Server); ok {
		logger = logger.With().Str("addr", srv.Addr).Logger()
	}
	return &HTTPServerService{server: server, shutdownTimeout: shutdownTimeout, logger: logger}
}

// Serve implements suture.Service. It returns ctx.Err() after a clean
// shutdown and a wrapped error when listening or draining fails.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	listenDone := make(chan error, 1)
	go func() { listenDone <- h.server.ListenAndServe() }()
	h.logger.Info().Msg("http server listening")

	select {
	case err := <-listenDone:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	// ctx is already done; draining needs a fresh deadline.
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.shutdownTimeout)
	defer cancel()

	start := time.Now()
	if err := h.server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	<-listenDone
	h.logger.Info().Dur("drained_in", time.Since(start)).Msg("http server stopped")
	return ctx.Err()
}

func (h *HTTPServerService) String() string { return "http-server" }
