package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"signalradar/internal/config"
	"signalradar/internal/domain"
	"signalradar/internal/scraper"
)

const hackerNewsPlatform = "hackernews"

// HackerNews fetches Ask HN and Show HN posts through the Algolia search
// API, one request per configured tag.
type HackerNews struct {
	client  *http.Client
	baseURL string
	tags    []string
	logger  *slog.Logger
}

var _ scraper.Scraper = (*HackerNews)(nil)

func NewHackerNews(cfg config.SourceConfig, client *http.Client, logger *slog.Logger) *HackerNews {
	return &HackerNews{
		client:  defaultClient(client),
		baseURL: cfg.BaseURL,
		tags:    cfg.Feeds,
		logger:  logger.With("component", "scraper", "platform", hackerNewsPlatform),
	}
}

func (h *HackerNews) Platform() string { return hackerNewsPlatform }

func (h *HackerNews) Fetch(ctx context.Context) ([]domain.RawPost, error) {
	var posts []domain.RawPost
	var lastErr error
	for _, tag := range h.tags {
		batch, err := h.fetchTag(ctx, tag)
		if err != nil {
			h.logger.Warn("tag fetch failed", "tag", tag, "error", err)
			lastErr = err
			continue
		}
		posts = append(posts, batch...)
	}
	if len(posts) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return posts, nil
}

type algoliaHit struct {
	ObjectID    string `json:"objectID"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	StoryTitle  string `json:"story_title"`
	StoryText   string `json:"story_text"`
	CommentText string `json:"comment_text"`
	Author      string `json:"author"`
	Points      int    `json:"points"`
	NumComments int    `json:"num_comments"`
	CreatedAt   string `json:"created_at"`
}

func (h *HackerNews) fetchTag(ctx context.Context, tag string) ([]domain.RawPost, error) {
	params := url.Values{}
	params.Set("tags", tag)
	params.Set("hitsPerPage", "25")

	var out struct {
		Hits []algoliaHit `json:"hits"`
	}
	endpoint := fmt.Sprintf("%s/search_by_date?%s", h.baseURL, params.Encode())
	if err := fetchJSON(ctx, h.client, endpoint, nil, &out); err != nil {
		return nil, fmt.Errorf("tag %s: %w", tag, err)
	}

	posts := make([]domain.RawPost, 0, len(out.Hits))
	for _, hit := range out.Hits {
		posts = append(posts, h.hitToPost(hit))
	}
	return posts, nil
}

func (h *HackerNews) hitToPost(hit algoliaHit) domain.RawPost {
	postURL := hit.URL
	if postURL == "" {
		postURL = "https://news.ycombinator.com/item?id=" + hit.ObjectID
	}
	title := hit.Title
	if title == "" {
		title = hit.StoryTitle
	}
	body := hit.StoryText
	if body == "" {
		body = hit.CommentText
	}

	created, _ := time.Parse(time.RFC3339, hit.CreatedAt)
	return domain.RawPost{
		URL:           postURL,
		Title:         title,
		Body:          stripHTML(body),
		Author:        hit.Author,
		Platform:      hackerNewsPlatform,
		PlatformScore: hit.Points,
		CommentCount:  hit.NumComments,
		CreatedAt:     created,
	}
}
