// Marquee - Item-Item Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/metrics"
	"github.com/tomtom215/marquee/internal/recommend"
)

// Trainer is the part of *recommend.Engine the retrain loop drives.
type Trainer interface {
	Train(ctx context.Context) error
	Status() recommend.TrainingStatus
}

// TrainOnce runs one training pass, records its metrics and logs the result
// under a fresh train ID. It is used for the blocking startup pass as well as
// by RetrainService.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func TrainOnce(ctx context.Context, trainer Trainer, logger zerolog.Logger, reason string) error {
	trainID := logging.GenerateTrainID()
	ctx = logging.ContextWithTrainID(ctx, trainID)
	log := logger.With().Str("train_id", trainID).Str("reason", reason).Logger()

	start := time.Now()
	err := trainer.Train(ctx)
	duration := time.Since(start)

	if errors.Is(err, recommend.ErrTrainingInProgress) {
		metrics.RecordTrainingSkipped()
		log.Info().Msg("training skipped, another pass is running")
		return err
	}

	status := trainer.Status()
	metrics.RecordTraining(duration, metrics.ModelShape{
		Version:      status.ModelVersion,
		Titles:       status.Stats.Titles,
		Users:        status.Stats.Users,
		NonZero:      status.Stats.NonZero,
		Density:      status.Stats.Density,
		JoinedRows:   status.Stats.JoinedRows,
		FilteredRows: status.Stats.FilteredRows,
	}, err)

	if err != nil {
		log.Error().Err(err).Dur("duration", duration).Int64("serving_version", status.ModelVersion).Msg("training pass failed")
		return err
	}
	log.Info().Int64("version", status.ModelVersion).Dur("duration", duration).Msg("training pass complete")
	return nil
}

// RetrainService retrains the model on a fixed interval and on demand.
// A failed pass is logged and counted; the previous snapshot keeps serving
// and the service itself keeps running.
type RetrainService struct {
	trainer  Trainer
	interval time.Duration
	trigger  chan struct{}
	logger   zerolog.Logger
	name     string
}

// NewRetrainService creates a retrain loop. interval <= 0 disables periodic
// retraining; Trigger still works.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRetrainService(trainer Trainer, interval time.Duration, logger zerolog.Logger) *RetrainService {
	return &RetrainService{
		trainer:  trainer,
		interval: interval,
		trigger:  make(chan struct{}, 1),
		logger:   logger.With().Str("service", "retrain").Logger(),
		name:     "retrain-service",
	}
}

// Trigger queues an on-demand pass. It returns false when one is already
// queued.
func (s *RetrainService) Trigger() bool {
	select {
	case s.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Serve implements suture.Service.
func (s *RetrainService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("retrain service starting")

	var tick <-chan time.Time
	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("retrain service shutting down")
			return ctx.Err()

		case <-tick:
			_ = TrainOnce(ctx, s.trainer, s.logger, "scheduled")

		case <-s.trigger:
			_ = TrainOnce(ctx, s.trainer, s.logger, "manual")
		}
	}
}

// String implements fmt.Stringer for suture's log messages.
func (s *RetrainService) String() string {
	return s.name
}
