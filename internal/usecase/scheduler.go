package usecase

import (
	"context"
	"log/slog"

	"signalradar/internal/config"
	"signalradar/internal/ports"
)

// Scheduler binds the cron driver to the pipeline's daily and weekly runs.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	cfg      config.SchedulerConfig
	logger   *slog.Logger
}

func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, cfg config.SchedulerConfig, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		driver:   driver,
		pipeline: pipeline,
		cfg:      cfg,
		logger:   logger.With("component", "schedule"),
	}
}

// Start registers both recurring runs and starts the driver. Scheduled runs
// keep the duplicate-run guard active, so an operator-triggered run earlier
// in the day turns the scheduled one into a skip.
func (s *Scheduler) Start(ctx context.Context) error {
	daily := func() {
		result, err := s.pipeline.RunDaily(ctx, Options{})
		if err != nil {
			s.logger.Error("scheduled daily run failed", "error", err)
			return
		}
		s.logger.Info("scheduled daily run finished", "outcome", result.Outcome)
	}
	weekly := func() {
		result, err := s.pipeline.RunWeekly(ctx, Options{})
		if err != nil {
			s.logger.Error("scheduled weekly run failed", "error", err)
			return
		}
		s.logger.Info("scheduled weekly run finished", "outcome", result.Outcome)
	}

	if err := s.driver.AddJob(s.cfg.DailyCron, daily); err != nil {
		return err
	}
	if err := s.driver.AddJob(s.cfg.WeeklyCron, weekly); err != nil {
		return err
	}
	return s.driver.Start(ctx)
}

func (s *Scheduler) Stop(ctx context.Context) error {
	return s.driver.Stop(ctx)
}
