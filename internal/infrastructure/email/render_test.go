package email

import (
	"strings"
	"testing"
	"time"

	"signalradar/internal/domain"
)

func sampleReport(kind domain.RunKind) domain.Report {
	post := domain.ScoredPost{
		GatedPost: domain.GatedPost{
			RawPost: domain.RawPost{
				URL:      "https://example.com/post",
				Title:    "I can't keep maintaining this",
				Body:     "the backlog never shrinks",
				Platform: "hackernews",
			},
			PainCategories: []domain.PainCategory{domain.PainBurnout},
			SentimentScore: -0.6,
		},
		SignalScore: 1.2345,
		SourceTier:  domain.TierLive,
	}
	return domain.Report{
		Kind:              kind,
		GeneratedAt:       time.Date(2026, 8, 31, 14, 0, 0, 0, time.UTC),
		Entries:           []domain.ReportEntry{domain.NewReportEntry(1, post)},
		PlatformBreakdown: map[string]int{"hackernews": 3, "reddit": 1},
		CategoryBreakdown: map[domain.PainCategory]int{domain.PainBurnout: 2},
	}
}

func TestSubjectLines(t *testing.T) {
	daily := Subject(sampleReport(domain.RunDaily))
	if daily != "[Signal Radar] Daily Intel — 2026-08-31" {
		t.Errorf("daily subject = %q", daily)
	}
	weekly := Subject(sampleReport(domain.RunWeekly))
	if weekly != "[Signal Radar] Weekly Digest — Week of 2026-08-31" {
		t.Errorf("weekly subject = %q", weekly)
	}
}

func TestRenderDaily(t *testing.T) {
	html := Render(sampleReport(domain.RunDaily))

	for _, want := range []string{
		"https://example.com/post",
		"I can&#39;t keep maintaining this",
		"hackernews",
		"1.23",
		"live",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
	if strings.Contains(html, "This week by platform") {
		t.Error("daily report should not carry weekly breakdowns")
	}
}

func TestRenderWeeklyIncludesBreakdowns(t *testing.T) {
	html := Render(sampleReport(domain.RunWeekly))

	for _, want := range []string{
		"This week by platform",
		"hackernews: 3",
		"reddit: 1",
		"burnout: 2",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
}

func TestRenderMarksPartial(t *testing.T) {
	report := sampleReport(domain.RunDaily)
	report.Partial = true
	if !strings.Contains(Render(report), "partial result") {
		t.Error("partial report not flagged in HTML")
	}
}
