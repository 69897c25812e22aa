package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"signalradar/internal/domain"
)

func setupTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open(":memory:", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func scoredPost(url string, score float64) domain.ScoredPost {
	return domain.ScoredPost{
		GatedPost: domain.GatedPost{
			RawPost: domain.RawPost{
				URL:       url,
				Title:     "title",
				Body:      "body",
				Author:    "alice",
				Platform:  "hackernews",
				CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			},
			PainCategories:    []domain.PainCategory{domain.PainBurnout, domain.PainFunding},
			MaintainerSignals: 2,
			SentimentScore:    -0.4,
		},
		SignalScore: score,
		SourceTier:  domain.TierLive,
	}
}

func mustStartRun(t *testing.T, c *Catalog, kind domain.RunKind) int64 {
	t.Helper()
	id, err := c.StartRun(context.Background(), kind)
	if err != nil {
		t.Fatalf("StartRun() error = %v", err)
	}
	return id
}

func TestInsertIfAbsentDeduplicates(t *testing.T) {
	c := setupTestCatalog(t)
	ctx := context.Background()
	runID := mustStartRun(t, c, domain.RunDaily)

	inserted, err := c.InsertIfAbsent(ctx, scoredPost("https://Example.com/post/", 1.0), runID)
	if err != nil {
		t.Fatalf("InsertIfAbsent() error = %v", err)
	}
	if !inserted {
		t.Error("first insert should report inserted")
	}

	// Same post modulo URL canonicalization.
	inserted, err = c.InsertIfAbsent(ctx, scoredPost("https://example.com/post", 2.0), runID)
	if err != nil {
		t.Fatalf("InsertIfAbsent() error = %v", err)
	}
	if inserted {
		t.Error("duplicate insert should report not inserted")
	}

	stats, err := c.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.TotalPosts != 1 {
		t.Errorf("TotalPosts = %d, want 1", stats.TotalPosts)
	}
}

func TestInsertIfAbsentRoundTripsCategories(t *testing.T) {
	c := setupTestCatalog(t)
	ctx := context.Background()
	runID := mustStartRun(t, c, domain.RunDaily)

	if _, err := c.InsertIfAbsent(ctx, scoredPost("https://example.com/a", 1.5), runID); err != nil {
		t.Fatalf("InsertIfAbsent() error = %v", err)
	}

	got, err := c.QueryArchive(ctx, 0, 0, false, 10)
	if err != nil {
		t.Fatalf("QueryArchive() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("QueryArchive() returned %d posts, want 1", len(got))
	}
	p := got[0]
	if len(p.PainCategories) != 2 || p.PainCategories[0] != domain.PainBurnout || p.PainCategories[1] != domain.PainFunding {
		t.Errorf("PainCategories = %v", p.PainCategories)
	}
	if p.MaintainerSignals != 2 {
		t.Errorf("MaintainerSignals = %d, want 2", p.MaintainerSignals)
	}
	if p.SentimentScore != -0.4 {
		t.Errorf("SentimentScore = %f, want -0.4", p.SentimentScore)
	}
	if p.SignalScore != 1.5 {
		t.Errorf("SignalScore = %f, want 1.5", p.SignalScore)
	}
}

func TestStartRunExclusivePerKind(t *testing.T) {
	c := setupTestCatalog(t)
	ctx := context.Background()

	runID := mustStartRun(t, c, domain.RunDaily)

	if _, err := c.StartRun(ctx, domain.RunDaily); !errors.Is(err, ErrRunActive) {
		t.Errorf("second daily StartRun error = %v, want ErrRunActive", err)
	}

	// A different kind is not blocked.
	if _, err := c.StartRun(ctx, domain.RunWeekly); err != nil {
		t.Errorf("weekly StartRun error = %v", err)
	}

	if err := c.FinishRun(ctx, runID, domain.RunFailed, 0); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}
	if _, err := c.StartRun(ctx, domain.RunDaily); err != nil {
		t.Errorf("StartRun after finish error = %v", err)
	}
}

func TestRecentSuccessfulRunGuardWindow(t *testing.T) {
	c := setupTestCatalog(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	runID := mustStartRun(t, c, domain.RunDaily)
	if err := c.FinishRun(ctx, runID, domain.RunSuccess, 5); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	c.now = func() time.Time { return base.Add(19 * time.Hour) }
	recent, err := c.RecentSuccessfulRun(ctx, domain.RunDaily, 20*time.Hour)
	if err != nil {
		t.Fatalf("RecentSuccessfulRun() error = %v", err)
	}
	if !recent {
		t.Error("run 19h ago should be inside a 20h window")
	}

	c.now = func() time.Time { return base.Add(21 * time.Hour) }
	recent, err = c.RecentSuccessfulRun(ctx, domain.RunDaily, 20*time.Hour)
	if err != nil {
		t.Fatalf("RecentSuccessfulRun() error = %v", err)
	}
	if recent {
		t.Error("run 21h ago should be outside a 20h window")
	}

	// Failed runs never arm the guard.
	failedID := mustStartRun(t, c, domain.RunWeekly)
	if err := c.FinishRun(ctx, failedID, domain.RunFailed, 0); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}
	recent, err = c.RecentSuccessfulRun(ctx, domain.RunWeekly, 20*time.Hour)
	if err != nil {
		t.Fatalf("RecentSuccessfulRun() error = %v", err)
	}
	if recent {
		t.Error("failed run should not count as recent success")
	}
}

func TestQueryArchiveAgeWindows(t *testing.T) {
	c := setupTestCatalog(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	runID := mustStartRun(t, c, domain.RunDaily)

	archiveAt := func(age time.Duration, url string, score float64) {
		c.now = func() time.Time { return base.Add(-age) }
		if _, err := c.InsertIfAbsent(ctx, scoredPost(url, score), runID); err != nil {
			t.Fatalf("InsertIfAbsent(%s) error = %v", url, err)
		}
	}
	archiveAt(2*24*time.Hour, "https://example.com/fresh", 3.0)
	archiveAt(10*24*time.Hour, "https://example.com/week-old", 2.0)
	archiveAt(40*24*time.Hour, "https://example.com/ancient", 1.0)

	c.now = func() time.Time { return base }

	// Rung two: older than 7 days, younger than 30.
	got, err := c.QueryArchive(ctx, 7*24*time.Hour, 30*24*time.Hour, true, 10)
	if err != nil {
		t.Fatalf("QueryArchive() error = %v", err)
	}
	if len(got) != 1 || got[0].URL != "https://example.com/week-old" {
		t.Fatalf("7d-30d window returned %v", urls(got))
	}

	// Rung three: anything older than 30 days.
	got, err = c.QueryArchive(ctx, 30*24*time.Hour, 0, true, 10)
	if err != nil {
		t.Fatalf("QueryArchive() error = %v", err)
	}
	if len(got) != 1 || got[0].URL != "https://example.com/ancient" {
		t.Fatalf("30d+ window returned %v", urls(got))
	}

	// No minimum age and no cap: everything, best first.
	got, err = c.QueryArchive(ctx, 0, 0, true, 10)
	if err != nil {
		t.Fatalf("QueryArchive() error = %v", err)
	}
	if len(got) != 3 || got[0].URL != "https://example.com/fresh" {
		t.Fatalf("unbounded window returned %v", urls(got))
	}
}

func TestRecordReportEntriesMarksReported(t *testing.T) {
	c := setupTestCatalog(t)
	ctx := context.Background()
	runID := mustStartRun(t, c, domain.RunDaily)

	post := scoredPost("https://example.com/reported", 2.5)
	if _, err := c.InsertIfAbsent(ctx, post, runID); err != nil {
		t.Fatalf("InsertIfAbsent() error = %v", err)
	}

	entry := domain.NewReportEntry(1, post)
	if err := c.RecordReportEntries(ctx, runID, []domain.ReportEntry{entry}); err != nil {
		t.Fatalf("RecordReportEntries() error = %v", err)
	}

	// Reported posts disappear from the eligible archive.
	got, err := c.QueryArchive(ctx, 0, 0, true, 10)
	if err != nil {
		t.Fatalf("QueryArchive() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("reported post still eligible: %v", urls(got))
	}

	reported, err := c.ReportedSince(ctx, time.Time{}, 10)
	if err != nil {
		t.Fatalf("ReportedSince() error = %v", err)
	}
	if len(reported) != 1 || reported[0].URL != "https://example.com/reported" {
		t.Fatalf("ReportedSince() returned %v", urls(reported))
	}
}

func urls(posts []domain.ScoredPost) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.URL)
	}
	return out
}
