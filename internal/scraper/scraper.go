package scraper

import (
	"context"
	"fmt"

	"signalradar/internal/domain"
)

// Scraper captures a single platform strategy (Hacker News, Dev.to, etc.).
// Implementations own their retry and allow-listing policy and return
// normalised RawPosts; no platform-specific fields leak out.
type Scraper interface {
	Platform() string
	Fetch(ctx context.Context) ([]domain.RawPost, error)
}

// Registry keeps a mapping from platform names to their implementations.
type Registry struct {
	scrapers map[string]Scraper
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scrapers: map[string]Scraper{}}
}

// Register adds or replaces a scraper implementation.
func (r *Registry) Register(s Scraper) {
	if r.scrapers == nil {
		r.scrapers = map[string]Scraper{}
	}
	r.scrapers[s.Platform()] = s
}

// Resolve returns a scraper by platform name or an error if it is absent.
func (r *Registry) Resolve(platform string) (Scraper, error) {
	if s, ok := r.scrapers[platform]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("scraper %s is not registered", platform)
}

// Platforms lists the registered platform names.
func (r *Registry) Platforms() []string {
	names := make([]string, 0, len(r.scrapers))
	for name := range r.scrapers {
		names = append(names, name)
	}
	return names
}
