package score

import (
	"fmt"
	"math"
	"sort"

	"signalradar/internal/domain"
)

const weightTolerance = 1e-3

// Scorer turns gated posts into ranked scored posts. Influence is normalized
// against the maximum within the batch being scored, so scores are only
// comparable inside one batch.
type Scorer struct {
	influenceWeight  float64
	engagementWeight float64
}

// New returns a Scorer with the given component weights. The weights must sum
// to 1 within a small tolerance.
func New(influenceWeight, engagementWeight float64) (*Scorer, error) {
	if math.Abs(influenceWeight+engagementWeight-1) > weightTolerance {
		return nil, fmt.Errorf("influence and engagement weights must sum to 1, got %f", influenceWeight+engagementWeight)
	}
	return &Scorer{
		influenceWeight:  influenceWeight,
		engagementWeight: engagementWeight,
	}, nil
}

// ScoreBatch scores every post against the batch maxima and returns them
// sorted by signal score descending. Ties break toward the more negative
// sentiment, then toward the older post.
func (s *Scorer) ScoreBatch(posts []domain.GatedPost) []domain.ScoredPost {
	if len(posts) == 0 {
		return nil
	}

	maxInfluence := 0
	maxEngagement := 0
	for _, p := range posts {
		if p.AuthorInfluence > maxInfluence {
			maxInfluence = p.AuthorInfluence
		}
		if e := p.PlatformScore + p.CommentCount; e > maxEngagement {
			maxEngagement = e
		}
	}

	scored := make([]domain.ScoredPost, 0, len(posts))
	for _, p := range posts {
		influence := logNorm(p.AuthorInfluence, maxInfluence)
		engagement := logNorm(p.PlatformScore+p.CommentCount, maxEngagement)
		painFactor := painFactor(len(p.PainCategories))
		boost := maintainerBoost(p.MaintainerSignals)

		base := s.influenceWeight*influence + s.engagementWeight*engagement
		signal := base * painFactor * (1 + math.Abs(p.SentimentScore)) * boost

		scored = append(scored, domain.ScoredPost{
			GatedPost:       p,
			InfluenceNorm:   influence,
			EngagementNorm:  engagement,
			PainFactor:      painFactor,
			MaintainerBoost: boost,
			SignalScore:     signal,
		})
	}

	Sort(scored)
	return scored
}

// Sort orders posts by signal score descending, breaking ties by more
// negative sentiment and then by earlier creation time.
func Sort(posts []domain.ScoredPost) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].SignalScore != posts[j].SignalScore {
			return posts[i].SignalScore > posts[j].SignalScore
		}
		if posts[i].SentimentScore != posts[j].SentimentScore {
			return posts[i].SentimentScore < posts[j].SentimentScore
		}
		return posts[i].CreatedAt.Before(posts[j].CreatedAt)
	})
}

// logNorm compresses value into [0, 1] on a log10 scale relative to the batch
// maximum. A batch whose maximum is zero yields zero for everyone.
func logNorm(value, max int) float64 {
	if max <= 0 {
		return 0
	}
	if value < 0 {
		value = 0
	}
	n := math.Log10(float64(value)+1) / math.Log10(float64(max)+1)
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

func painFactor(categories int) float64 {
	switch {
	case categories >= 4:
		return 1.5
	case categories >= 2:
		return 1.2
	default:
		return 1.0
	}
}

func maintainerBoost(signals int) float64 {
	if signals >= 2 {
		return 1.25
	}
	return 1.0
}
