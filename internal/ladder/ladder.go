package ladder

import (
	"context"
	"log/slog"
	"time"

	"signalradar/internal/domain"
	"signalradar/internal/ports"
	"signalradar/internal/score"
)

// rung describes one archive fallback step.
type rung struct {
	tier   domain.SourceTier
	minAge time.Duration
	maxAge time.Duration
}

var archiveRungs = []rung{
	{tier: domain.TierArchive7d, maxAge: 7 * 24 * time.Hour},
	{tier: domain.TierArchive30, maxAge: 30 * 24 * time.Hour},
	{tier: domain.TierPartial},
}

// Ladder assembles the report candidate list. It takes the live batch first
// and widens into progressively older catalog entries only while the
// accumulator is short of the target. A rung whose query fails or times out
// contributes nothing and the ladder moves on; only caller cancellation
// aborts the whole climb.
type Ladder struct {
	catalog      ports.Catalog
	scorer       *score.Scorer
	target       int
	queryTimeout time.Duration
	logger       *slog.Logger
}

func New(catalog ports.Catalog, scorer *score.Scorer, target int, queryTimeout time.Duration, logger *slog.Logger) *Ladder {
	return &Ladder{
		catalog:      catalog,
		scorer:       scorer,
		target:       target,
		queryTimeout: queryTimeout,
		logger:       logger.With("component", "ladder"),
	}
}

// Assemble returns up to the target number of posts, each tagged with the
// rung that supplied it, re-sorted by signal score across rungs. Fewer than
// target means every rung was exhausted.
func (l *Ladder) Assemble(ctx context.Context, live []domain.ScoredPost) ([]domain.ScoredPost, error) {
	seen := make(map[string]struct{}, len(live))
	acc := make([]domain.ScoredPost, 0, l.target)

	sorted := make([]domain.ScoredPost, len(live))
	copy(sorted, live)
	score.Sort(sorted)
	for _, p := range sorted {
		if len(acc) >= l.target {
			break
		}
		key := p.DedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		p.SourceTier = domain.TierLive
		acc = append(acc, p)
	}

	for _, r := range archiveRungs {
		if len(acc) >= l.target {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidates := l.queryRung(ctx, r, len(seen))
		for _, p := range candidates {
			if len(acc) >= l.target {
				break
			}
			key := p.DedupKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			p.SourceTier = r.tier
			acc = append(acc, p)
		}
		l.logger.Debug("rung climbed", "tier", r.tier, "candidates", len(candidates), "accumulated", len(acc))
	}

	score.Sort(acc)
	if len(acc) > l.target {
		acc = acc[:l.target]
	}
	return acc, nil
}

// queryRung fetches and rescores one archive rung. Scores from previous runs
// are batch-relative and stale, so the retrieved sub-batch is rescored
// against itself before ranking.
func (l *Ladder) queryRung(ctx context.Context, r rung, alreadyHeld int) []domain.ScoredPost {
	rctx, cancel := context.WithTimeout(ctx, l.queryTimeout)
	defer cancel()

	limit := l.target + alreadyHeld
	posts, err := l.catalog.QueryArchive(rctx, r.minAge, r.maxAge, true, limit)
	if err != nil {
		l.logger.Warn("rung query failed, proceeding", "tier", r.tier, "error", err)
		return nil
	}
	if len(posts) == 0 {
		return nil
	}

	gated := make([]domain.GatedPost, 0, len(posts))
	for _, p := range posts {
		gated = append(gated, p.GatedPost)
	}
	return l.scorer.ScoreBatch(gated)
}
