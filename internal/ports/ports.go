package ports

import (
	"context"
	"time"

	"signalradar/internal/domain"
)

// PostSource collects raw posts from every configured platform and reports
// per-platform status. Collection must not fail as a whole: a dead platform
// shows up as SourceFailed, never as an error.
type PostSource interface {
	Collect(ctx context.Context) ([]domain.RawPost, map[string]domain.SourceStatus)
}

// SentimentEstimator scores a text in [-1, 1]; negative values indicate pain.
type SentimentEstimator interface {
	Name() string
	Score(text string) float64
}

// Catalog is the persistent store shared by repeated pipeline invocations.
// All methods are bounded, synchronous reads/writes honouring ctx deadlines.
type Catalog interface {
	// InsertIfAbsent archives a scored post keyed by its dedup key. A
	// pre-existing key is a no-op reported as inserted=false, never an error.
	InsertIfAbsent(ctx context.Context, post domain.ScoredPost, runID int64) (bool, error)

	// QueryArchive returns unreported posts whose archived_at lies within
	// [now-maxAge, now-minAge], ordered by signal score descending. A zero
	// maxAge means unbounded age.
	QueryArchive(ctx context.Context, minAge, maxAge time.Duration, excludeReported bool, limit int) ([]domain.ScoredPost, error)

	// StartRun claims a new RunRecord. At most one running record per kind
	// may exist; a lost claim returns storage.ErrRunActive.
	StartRun(ctx context.Context, kind domain.RunKind) (int64, error)

	FinishRun(ctx context.Context, runID int64, status domain.RunStatus, resultCount int) error

	// RecordReportEntries links ranked entries to a run and marks the
	// underlying posts reported, atomically with respect to other runs.
	RecordReportEntries(ctx context.Context, runID int64, entries []domain.ReportEntry) error

	// RecentSuccessfulRun is the duplicate-run guard precondition check.
	RecentSuccessfulRun(ctx context.Context, kind domain.RunKind, within time.Duration) (bool, error)

	// ReportedSince returns posts surfaced in reports since the cutoff,
	// best first, for the weekly digest.
	ReportedSince(ctx context.Context, since time.Time, limit int) ([]domain.ScoredPost, error)
}

// Notifier delivers a finished report to its outbound channel.
type Notifier interface {
	Deliver(ctx context.Context, report domain.Report) error
}

// Scheduler controls when pipelines execute. Jobs are registered before
// Start and fire per their cron spec until Stop.
type Scheduler interface {
	AddJob(spec string, job func()) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
