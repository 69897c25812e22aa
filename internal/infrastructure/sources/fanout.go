package sources

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"signalradar/internal/config"
	"signalradar/internal/domain"
	"signalradar/internal/ports"
	"signalradar/internal/scraper"
)

// Fanout runs every registered scraper concurrently and joins their results
// into one batch. Each platform is failure-isolated: a dead one shows up in
// the status map as failed while the rest of the batch survives.
type Fanout struct {
	registry *scraper.Registry
	timeout  time.Duration
	logger   *slog.Logger
}

var _ ports.PostSource = (*Fanout)(nil)

func NewFanout(registry *scraper.Registry, timeout time.Duration, logger *slog.Logger) *Fanout {
	return &Fanout{
		registry: registry,
		timeout:  timeout,
		logger:   logger.With("component", "sources"),
	}
}

// NewRegistry builds a scraper registry from the enabled source
// configuration.
func NewRegistry(cfg config.SourcesConfig, client *http.Client, logger *slog.Logger) *scraper.Registry {
	registry := scraper.NewRegistry()
	if cfg.HackerNews.Enabled {
		registry.Register(NewHackerNews(cfg.HackerNews, client, logger))
	}
	if cfg.DevTo.Enabled {
		registry.Register(NewDevTo(cfg.DevTo, client, logger))
	}
	if cfg.Lobsters.Enabled {
		registry.Register(NewLobsters(cfg.Lobsters, client, logger))
	}
	if cfg.Reddit.Enabled {
		registry.Register(NewReddit(cfg.Reddit, client, logger))
	}
	return registry
}

type fetchResult struct {
	platform string
	posts    []domain.RawPost
	err      error
}

// Collect fans out to every platform, waits for all of them to report, and
// returns the merged batch with per-platform statuses.
func (f *Fanout) Collect(ctx context.Context) ([]domain.RawPost, map[string]domain.SourceStatus) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	platforms := f.registry.Platforms()
	results := make(chan fetchResult, len(platforms))

	var wg sync.WaitGroup
	for _, platform := range platforms {
		s, err := f.registry.Resolve(platform)
		if err != nil {
			results <- fetchResult{platform: platform, err: err}
			continue
		}
		wg.Add(1)
		go func(s scraper.Scraper) {
			defer wg.Done()
			posts, err := s.Fetch(ctx)
			results <- fetchResult{platform: s.Platform(), posts: posts, err: err}
		}(s)
	}
	wg.Wait()
	close(results)

	var merged []domain.RawPost
	statuses := make(map[string]domain.SourceStatus, len(platforms))
	for res := range results {
		switch {
		case res.err != nil:
			f.logger.Warn("platform collection failed", "platform", res.platform, "error", res.err)
			statuses[res.platform] = domain.SourceFailed
		case len(res.posts) == 0:
			statuses[res.platform] = domain.SourceEmpty
		default:
			statuses[res.platform] = domain.SourceOK
			merged = append(merged, res.posts...)
		}
	}

	f.logger.Info("collection finished", "platforms", len(platforms), "posts", len(merged))
	return merged, statuses
}
