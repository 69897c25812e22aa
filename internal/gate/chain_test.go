package gate

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"signalradar/internal/domain"
)

type fixedEstimator struct {
	score float64
}

func (f fixedEstimator) Name() string              { return "fixed" }
func (f fixedEstimator) Score(text string) float64 { return f.score }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSentimentGate(score float64) *SentimentGate {
	return NewSentimentGate(fixedEstimator{score}, fixedEstimator{score}, 0.6, 0.4, -0.05)
}

func TestKeywordGateCategories(t *testing.T) {
	g := NewKeywordGate()

	tests := []struct {
		name string
		text string
		want []domain.PainCategory
	}{
		{
			name: "single category",
			text: "I am completely burned out on this project",
			want: []domain.PainCategory{domain.PainBurnout},
		},
		{
			name: "multiple categories in registry order",
			text: "burnout plus a CVE-2024 report and broken CI/CD pipelines",
			want: []domain.PainCategory{domain.PainBurnout, domain.PainSecurityPressure, domain.PainCICD},
		},
		{
			name: "case insensitive",
			text: "DEPENDENCY HELL strikes again",
			want: []domain.PainCategory{domain.PainDependencyHell},
		},
		{
			name: "no match",
			text: "just shipped a fun weekend game",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Categories(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Categories() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Categories()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMaintainerGateSignals(t *testing.T) {
	g := NewMaintainerGate()

	tests := []struct {
		name string
		post domain.RawPost
		want int
	}{
		{
			name: "no signals",
			post: domain.RawPost{URL: "https://example.com/1", Title: "a user complaint", Body: "this library is slow"},
			want: 0,
		},
		{
			name: "single phrase",
			post: domain.RawPost{URL: "https://example.com/2", Title: "help", Body: "I maintain a parser library"},
			want: 1,
		},
		{
			name: "multiple phrases",
			post: domain.RawPost{URL: "https://example.com/3", Title: "update", Body: "I maintain this and just released v2 of my package"},
			want: 3,
		},
		{
			name: "author owned repo link",
			post: domain.RawPost{
				URL:    "https://example.com/4",
				Title:  "feedback wanted",
				Body:   "check out github.com/alice/parser",
				Author: "alice",
			},
			want: 1,
		},
		{
			name: "repo link owned by someone else",
			post: domain.RawPost{
				URL:    "https://example.com/5",
				Title:  "feedback wanted",
				Body:   "check out github.com/bob/parser",
				Author: "alice",
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.Signals(tt.post); got != tt.want {
				t.Errorf("Signals() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSentimentGateThresholdIsStrict(t *testing.T) {
	g := testSentimentGate(0)

	if g.Pass(-0.05) {
		t.Error("score exactly at threshold should be rejected")
	}
	if !g.Pass(-0.051) {
		t.Error("score below threshold should pass")
	}
	if g.Pass(0.2) {
		t.Error("positive score should be rejected")
	}
}

func TestSentimentGateBlendsEstimators(t *testing.T) {
	g := NewSentimentGate(fixedEstimator{-1}, fixedEstimator{1}, 0.6, 0.4, -0.05)

	got := g.Score("anything")
	want := 0.6*(-1) + 0.4*1
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Score() = %f, want %f", got, want)
	}
}

func TestChainApply(t *testing.T) {
	now := time.Now()
	chain := NewChain(testSentimentGate(-0.8), testLogger())

	posts := []domain.RawPost{
		{URL: "", Title: "malformed", Body: "burnout, I maintain this", CreatedAt: now},
		{URL: "https://example.com/no-pain", Title: "happy release", Body: "I released a thing, life is great", CreatedAt: now},
		{URL: "https://example.com/no-maintainer", Title: "user rant", Body: "this app has dependency hell", CreatedAt: now},
		{URL: "https://example.com/keeper", Title: "maintainer despair", Body: "I maintain this and the dependency hell is endless", CreatedAt: now},
	}

	got := chain.Apply(posts)
	if len(got) != 1 {
		t.Fatalf("Apply() kept %d posts, want 1", len(got))
	}
	keeper := got[0]
	if keeper.URL != "https://example.com/keeper" {
		t.Errorf("kept post URL = %q", keeper.URL)
	}
	if len(keeper.PainCategories) == 0 {
		t.Error("kept post has no pain categories")
	}
	if keeper.MaintainerSignals == 0 {
		t.Error("kept post has no maintainer signals")
	}
	if keeper.SentimentScore >= -0.05 {
		t.Errorf("kept post sentiment = %f, want below threshold", keeper.SentimentScore)
	}
}

func TestChainRejectsNeutralSentiment(t *testing.T) {
	chain := NewChain(testSentimentGate(0), testLogger())

	posts := []domain.RawPost{
		{URL: "https://example.com/neutral", Title: "t", Body: "I maintain this and the dependency hell is endless"},
	}
	if got := chain.Apply(posts); len(got) != 0 {
		t.Fatalf("Apply() kept %d posts, want 0", len(got))
	}
}
