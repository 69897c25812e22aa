package domain

import "time"

// RunKind distinguishes the two pipeline schedules.
type RunKind string

const (
	RunDaily  RunKind = "daily"
	RunWeekly RunKind = "weekly"
)

// RunStatus is the lifecycle state of a RunRecord.
type RunStatus string

const (
	RunRunning RunStatus = "running"
	RunSuccess RunStatus = "success"
	RunFailed  RunStatus = "failed"
)

// RunRecord is the bookkeeping row for one pipeline invocation.
type RunRecord struct {
	ID          int64
	Kind        RunKind
	StartedAt   time.Time
	FinishedAt  time.Time
	Status      RunStatus
	ResultCount int
}

// SourceStatus reports how a single platform scraper fared during collection.
type SourceStatus string

const (
	SourceOK     SourceStatus = "ok"
	SourceFailed SourceStatus = "failed"
	SourceEmpty  SourceStatus = "empty"
)
