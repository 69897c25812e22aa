package app

import (
	"context"
	"fmt"
	"log/slog"

	"signalradar/internal/config"
	"signalradar/internal/domain"
	"signalradar/internal/gate"
	"signalradar/internal/infrastructure/email"
	"signalradar/internal/infrastructure/scheduler"
	"signalradar/internal/infrastructure/sentiment"
	"signalradar/internal/infrastructure/sources"
	"signalradar/internal/infrastructure/storage"
	"signalradar/internal/ladder"
	"signalradar/internal/logging"
	"signalradar/internal/ports"
	"signalradar/internal/score"
	"signalradar/internal/usecase"
)

// Application wires configuration into the pipeline and its adapters and
// owns their lifecycle.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	catalog  *storage.Catalog
	source   ports.PostSource
	pipeline *usecase.Pipeline
	schedule *usecase.Scheduler
}

// New validates cfg, opens the catalog and builds the full pipeline.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.NewWithFormat(cfg.Logging.Level, cfg.Logging.JSON)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	catalog, err := storage.Open(cfg.Database.Path, baseLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	sentimentGate := gate.NewSentimentGate(
		primaryEstimator(cfg, baseLogger),
		sentiment.NewPolarityEstimator(),
		cfg.Sentiment.PrimaryWeight,
		cfg.Sentiment.SecondaryWeight,
		cfg.Sentiment.Threshold,
	)
	gates := gate.NewChain(sentimentGate, baseLogger)

	scorer, err := score.New(cfg.Scoring.InfluenceWeight, cfg.Scoring.EngagementWeight)
	if err != nil {
		catalog.Close()
		return nil, fmt.Errorf("invalid scoring weights: %w", err)
	}

	registry := sources.NewRegistry(cfg.Sources, nil, baseLogger)
	source := sources.NewFanout(registry, cfg.Sources.CollectTimeout(), baseLogger)

	var notifier ports.Notifier
	if cfg.Notifications.Email.Enabled {
		notifier = email.NewSender(cfg.Notifications.Email, baseLogger)
	}

	lad := ladder.New(catalog, scorer, cfg.Report.Size, cfg.Report.QueryTimeout(), baseLogger)
	pipeline := usecase.NewPipeline(source, gates, scorer, lad, catalog, notifier, cfg.Report, baseLogger)

	driver := scheduler.NewCronScheduler(cfg.Scheduler.Location(), baseLogger)
	schedule := usecase.NewScheduler(driver, pipeline, cfg.Scheduler, baseLogger)

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		catalog:  catalog,
		source:   source,
		pipeline: pipeline,
		schedule: schedule,
	}, nil
}

func primaryEstimator(cfg config.Config, logger *slog.Logger) ports.SentimentEstimator {
	local := sentiment.NewValenceEstimator()
	if cfg.Sentiment.InferenceURL == "" {
		return local
	}
	return sentiment.NewRemoteEstimator(cfg.Sentiment.InferenceURL, local, logger)
}

// RunDaily executes one daily pipeline invocation.
func (a *Application) RunDaily(ctx context.Context, opts usecase.Options) (usecase.RunResult, error) {
	return a.pipeline.RunDaily(ctx, opts)
}

// RunWeekly executes one weekly digest invocation.
func (a *Application) RunWeekly(ctx context.Context, opts usecase.Options) (usecase.RunResult, error) {
	return a.pipeline.RunWeekly(ctx, opts)
}

// Schedule starts the cron driver and blocks until ctx is cancelled.
func (a *Application) Schedule(ctx context.Context) error {
	if err := a.schedule.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	a.logger.Info("schedule active",
		"daily", a.cfg.Scheduler.DailyCron,
		"weekly", a.cfg.Scheduler.WeeklyCron,
		"timezone", a.cfg.Scheduler.Timezone)

	<-ctx.Done()
	return a.schedule.Stop(context.Background())
}

// Stats summarizes catalog contents.
func (a *Application) Stats(ctx context.Context) (storage.Stats, error) {
	return a.catalog.Stats(ctx)
}

// Collect runs only the source fan-out, for inspection from the CLI.
func (a *Application) Collect(ctx context.Context) ([]domain.RawPost, map[string]domain.SourceStatus) {
	return a.source.Collect(ctx)
}

// Close releases the catalog.
func (a *Application) Close() error {
	return a.catalog.Close()
}
