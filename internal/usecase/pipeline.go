package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"signalradar/internal/config"
	"signalradar/internal/domain"
	"signalradar/internal/gate"
	"signalradar/internal/ladder"
	"signalradar/internal/ports"
	"signalradar/internal/score"
)

// Outcome classifies a finished pipeline invocation for the CLI layer.
type Outcome string

const (
	OutcomeFull    Outcome = "full"
	OutcomePartial Outcome = "partial"
	OutcomeSkipped Outcome = "skipped"
)

// Options tune one pipeline invocation.
type Options struct {
	// Force bypasses the duplicate-run guard.
	Force bool
	// DryRun executes collection, gating, scoring and the ladder reads but
	// claims no run, writes nothing and sends nothing.
	DryRun bool
	// NoEmail suppresses delivery while still recording the run.
	NoEmail bool
}

// RunResult is the outcome of an invocation. A non-nil error from the run
// methods means a fatal condition; recoverable problems surface only inside
// the report's status metadata.
type RunResult struct {
	Outcome Outcome
	Report  domain.Report
}

// Pipeline sequences collection, the gate chain, scoring, the backfill
// ladder and catalog bookkeeping for one run.
type Pipeline struct {
	source   ports.PostSource
	gates    *gate.Chain
	scorer   *score.Scorer
	ladder   *ladder.Ladder
	catalog  ports.Catalog
	notifier ports.Notifier
	report   config.ReportConfig
	logger   *slog.Logger
	now      func() time.Time
}

func NewPipeline(
	source ports.PostSource,
	gates *gate.Chain,
	scorer *score.Scorer,
	ladder *ladder.Ladder,
	catalog ports.Catalog,
	notifier ports.Notifier,
	report config.ReportConfig,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		source:   source,
		gates:    gates,
		scorer:   scorer,
		ladder:   ladder,
		catalog:  catalog,
		notifier: notifier,
		report:   report,
		logger:   logger.With("component", "pipeline"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// RunDaily executes the daily pipeline.
func (p *Pipeline) RunDaily(ctx context.Context, opts Options) (RunResult, error) {
	if !opts.Force {
		recent, err := p.catalog.RecentSuccessfulRun(ctx, domain.RunDaily, p.report.GuardWindow())
		if err != nil {
			return RunResult{}, fmt.Errorf("duplicate-run guard check failed: %w", err)
		}
		if recent {
			p.logger.Info("recent successful run found, skipping", "window", p.report.GuardWindow())
			return RunResult{Outcome: OutcomeSkipped}, nil
		}
	}

	if opts.DryRun {
		return p.dryRun(ctx)
	}

	runID, err := p.catalog.StartRun(ctx, domain.RunDaily)
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to claim daily run: %w", err)
	}

	result, runErr := p.executeDaily(ctx, runID, opts)
	if runErr != nil {
		p.releaseClaim(ctx, runID)
		return RunResult{}, runErr
	}
	return result, nil
}

// releaseClaim marks a failed run on a context detached from the caller's, so
// a cancelled run cannot leave its claim stuck in running and block every
// later run of the same kind.
func (p *Pipeline) releaseClaim(ctx context.Context, runID int64) {
	finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := p.catalog.FinishRun(finishCtx, runID, domain.RunFailed, 0); err != nil {
		p.logger.Error("failed to mark run failed", "run_id", runID, "error", err)
	}
}

func (p *Pipeline) executeDaily(ctx context.Context, runID int64, opts Options) (RunResult, error) {
	posts, statuses := p.source.Collect(ctx)
	if allFailed(statuses) {
		return RunResult{}, fmt.Errorf("every source failed, nothing to process")
	}

	gated := p.gates.Apply(posts)
	scored := p.scorer.ScoreBatch(gated)

	for _, post := range scored {
		if _, err := p.catalog.InsertIfAbsent(ctx, post, runID); err != nil {
			return RunResult{}, fmt.Errorf("failed to archive post %s: %w", post.URL, err)
		}
	}

	top, err := p.ladder.Assemble(ctx, scored)
	if err != nil {
		return RunResult{}, fmt.Errorf("ladder aborted: %w", err)
	}

	report := p.buildReport(domain.RunDaily, runID, top, statuses, len(posts), len(gated))
	if err := p.catalog.RecordReportEntries(ctx, runID, report.Entries); err != nil {
		return RunResult{}, fmt.Errorf("failed to record report entries: %w", err)
	}
	if err := p.catalog.FinishRun(ctx, runID, domain.RunSuccess, len(report.Entries)); err != nil {
		return RunResult{}, fmt.Errorf("failed to finish run: %w", err)
	}

	p.deliver(ctx, report, opts)

	outcome := OutcomeFull
	if report.Partial {
		outcome = OutcomePartial
	}
	p.logger.Info("daily run finished", "run_id", runID, "outcome", outcome, "entries", len(report.Entries))
	return RunResult{Outcome: outcome, Report: report}, nil
}

// dryRun walks the read side of the pipeline and reports what a real run
// would have produced.
func (p *Pipeline) dryRun(ctx context.Context) (RunResult, error) {
	posts, statuses := p.source.Collect(ctx)
	if allFailed(statuses) {
		return RunResult{}, fmt.Errorf("every source failed, nothing to process")
	}

	gated := p.gates.Apply(posts)
	scored := p.scorer.ScoreBatch(gated)
	top, err := p.ladder.Assemble(ctx, scored)
	if err != nil {
		return RunResult{}, fmt.Errorf("ladder aborted: %w", err)
	}

	report := p.buildReport(domain.RunDaily, 0, top, statuses, len(posts), len(gated))
	outcome := OutcomeFull
	if report.Partial {
		outcome = OutcomePartial
	}
	p.logger.Info("dry run finished", "outcome", outcome, "entries", len(report.Entries))
	return RunResult{Outcome: outcome, Report: report}, nil
}

// RunWeekly assembles the weekly digest from posts surfaced by daily runs in
// the last seven days. It writes no report entries; the digest is a readout,
// not a ranking run.
func (p *Pipeline) RunWeekly(ctx context.Context, opts Options) (RunResult, error) {
	runID, err := p.catalog.StartRun(ctx, domain.RunWeekly)
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to claim weekly run: %w", err)
	}

	since := p.now().Add(-7 * 24 * time.Hour)
	posts, err := p.catalog.ReportedSince(ctx, since, p.report.WeeklySize)
	if err != nil {
		p.releaseClaim(ctx, runID)
		return RunResult{}, fmt.Errorf("failed to load reported posts: %w", err)
	}

	report := domain.Report{
		RunID:             runID,
		Kind:              domain.RunWeekly,
		GeneratedAt:       p.now(),
		PlatformBreakdown: map[string]int{},
		CategoryBreakdown: map[domain.PainCategory]int{},
	}
	for i, post := range posts {
		report.Entries = append(report.Entries, domain.NewReportEntry(i+1, post))
		report.PlatformBreakdown[post.Platform]++
		for _, cat := range post.PainCategories {
			report.CategoryBreakdown[cat]++
		}
	}

	if err := p.catalog.FinishRun(ctx, runID, domain.RunSuccess, len(report.Entries)); err != nil {
		return RunResult{}, fmt.Errorf("failed to finish run: %w", err)
	}

	p.deliver(ctx, report, opts)

	p.logger.Info("weekly digest finished", "run_id", runID, "entries", len(report.Entries))
	return RunResult{Outcome: OutcomeFull, Report: report}, nil
}

func (p *Pipeline) buildReport(
	kind domain.RunKind,
	runID int64,
	top []domain.ScoredPost,
	statuses map[string]domain.SourceStatus,
	collected, gated int,
) domain.Report {
	report := domain.Report{
		RunID:          runID,
		Kind:           kind,
		GeneratedAt:    p.now(),
		SourceStatuses: statuses,
		Partial:        len(top) < p.report.Size,
		TotalCollected: collected,
		TotalGated:     gated,
	}
	for i, post := range top {
		report.Entries = append(report.Entries, domain.NewReportEntry(i+1, post))
	}
	return report
}

// deliver hands the report to the notifier. Delivery failure never fails the
// run; the catalog already holds the truth.
func (p *Pipeline) deliver(ctx context.Context, report domain.Report, opts Options) {
	if opts.NoEmail || p.notifier == nil {
		return
	}
	if err := p.notifier.Deliver(ctx, report); err != nil {
		p.logger.Warn("report delivery failed", "error", err)
	}
}

func allFailed(statuses map[string]domain.SourceStatus) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s != domain.SourceFailed {
			return false
		}
	}
	return true
}
