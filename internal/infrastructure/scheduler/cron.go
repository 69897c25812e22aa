package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"signalradar/internal/ports"
)

// CronScheduler drives recurring pipeline runs from standard five-field cron
// expressions evaluated in the configured timezone.
type CronScheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

var _ ports.Scheduler = (*CronScheduler)(nil)

func NewCronScheduler(loc *time.Location, logger *slog.Logger) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &CronScheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		logger: logger.With("component", "scheduler"),
	}
}

// AddJob registers a job under a cron spec. Registration after Start is
// honoured by the underlying runner but all jobs here are added up front.
func (c *CronScheduler) AddJob(spec string, job func()) error {
	if _, err := c.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return nil
}

func (c *CronScheduler) Start(ctx context.Context) error {
	c.cron.Start()
	c.logger.Info("scheduler started", "jobs", len(c.cron.Entries()))
	return nil
}

// Stop halts scheduling and waits for in-flight jobs, bounded by ctx.
func (c *CronScheduler) Stop(ctx context.Context) error {
	done := c.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
