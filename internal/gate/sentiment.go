package gate

import (
	"signalradar/internal/ports"
)

// SentimentGate blends two estimators into one score and admits only posts
// whose blended score falls strictly below the negativity threshold.
type SentimentGate struct {
	primary   ports.SentimentEstimator
	secondary ports.SentimentEstimator

	primaryWeight   float64
	secondaryWeight float64
	threshold       float64
}

func NewSentimentGate(primary, secondary ports.SentimentEstimator, primaryWeight, secondaryWeight, threshold float64) *SentimentGate {
	return &SentimentGate{
		primary:         primary,
		secondary:       secondary,
		primaryWeight:   primaryWeight,
		secondaryWeight: secondaryWeight,
		threshold:       threshold,
	}
}

// Score returns the weighted blend of both estimators for text, in [-1, 1].
func (g *SentimentGate) Score(text string) float64 {
	return g.primaryWeight*g.primary.Score(text) + g.secondaryWeight*g.secondary.Score(text)
}

// Pass reports whether score clears the gate. The comparison is strict, so a
// score exactly at the threshold is rejected.
func (g *SentimentGate) Pass(score float64) bool {
	return score < g.threshold
}
