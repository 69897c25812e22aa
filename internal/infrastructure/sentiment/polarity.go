package sentiment

// PolarityEstimator averages per-token polarity over the tokens it
// recognizes. It reacts differently from the valence estimator: a short rant
// scores as strongly as a long one, which is why the two are blended rather
// than either used alone.
type PolarityEstimator struct{}

func NewPolarityEstimator() *PolarityEstimator { return &PolarityEstimator{} }

func (e *PolarityEstimator) Name() string { return "polarity" }

func (e *PolarityEstimator) Score(text string) float64 {
	tokens := tokenize(text)
	sum := 0.0
	matched := 0
	for i, tok := range tokens {
		valence, ok := valenceLexicon[tok]
		if !ok {
			continue
		}
		polarity := valence / 4
		if i > 0 {
			if _, negated := negations[tokens[i-1]]; negated {
				polarity = -polarity
			}
		}
		sum += polarity
		matched++
	}
	if matched == 0 {
		return 0
	}
	mean := sum / float64(matched)
	if mean > 1 {
		return 1
	}
	if mean < -1 {
		return -1
	}
	return mean
}
