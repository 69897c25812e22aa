package gate

import (
	"log/slog"

	"signalradar/internal/domain"
)

// Chain runs the three admission gates in order: pain keywords, maintainer
// context, sentiment. Gates short-circuit, so a post rejected by an earlier
// gate never reaches the later, more expensive ones. Malformed posts are
// dropped before any gate runs.
type Chain struct {
	keyword    *KeywordGate
	maintainer *MaintainerGate
	sentiment  *SentimentGate
	logger     *slog.Logger
}

func NewChain(sentiment *SentimentGate, logger *slog.Logger) *Chain {
	return &Chain{
		keyword:    NewKeywordGate(),
		maintainer: NewMaintainerGate(),
		sentiment:  sentiment,
		logger:     logger.With("component", "gate"),
	}
}

// Apply filters posts through all three gates and annotates survivors with
// the evidence each gate produced. Input order is preserved.
func (c *Chain) Apply(posts []domain.RawPost) []domain.GatedPost {
	gated := make([]domain.GatedPost, 0, len(posts))
	for _, post := range posts {
		if post.Malformed() {
			c.logger.Debug("dropping malformed post", "url", post.URL, "platform", post.Platform)
			continue
		}
		text := post.Text()

		categories := c.keyword.Categories(text)
		if len(categories) == 0 {
			continue
		}
		signals := c.maintainer.Signals(post)
		if signals == 0 {
			continue
		}
		score := c.sentiment.Score(text)
		if !c.sentiment.Pass(score) {
			continue
		}

		gated = append(gated, domain.GatedPost{
			RawPost:           post,
			PainCategories:    categories,
			MaintainerSignals: signals,
			SentimentScore:    score,
		})
	}
	c.logger.Info("gate chain applied", "in", len(posts), "out", len(gated))
	return gated
}
