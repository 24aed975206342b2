// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

/*
Package supervisor runs the long-lived services of the recommendation server
under a suture v4 supervisor tree.

The tree has two layers:

	marquee (root)
	├── model-layer   retrain service (periodic and on-demand training)
	└── api-layer     HTTP server

A crash in the retrain service restarts only that service; the HTTP server
keeps answering from the last good snapshot. Supervisor events are logged
through sutureslog, backed by the zerolog slog adapter in internal/logging.
*/
package supervisor
