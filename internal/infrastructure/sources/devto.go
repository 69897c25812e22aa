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

const devtoPlatform = "devto"

// DevTo fetches recent top articles per configured tag from the public
// Dev.to REST API.
type DevTo struct {
	client  *http.Client
	baseURL string
	tags    []string
	logger  *slog.Logger
}

var _ scraper.Scraper = (*DevTo)(nil)

func NewDevTo(cfg config.SourceConfig, client *http.Client, logger *slog.Logger) *DevTo {
	return &DevTo{
		client:  defaultClient(client),
		baseURL: cfg.BaseURL,
		tags:    cfg.Feeds,
		logger:  logger.With("component", "scraper", "platform", devtoPlatform),
	}
}

func (d *DevTo) Platform() string { return devtoPlatform }

func (d *DevTo) Fetch(ctx context.Context) ([]domain.RawPost, error) {
	var posts []domain.RawPost
	var lastErr error
	seen := map[string]struct{}{}
	for _, tag := range d.tags {
		batch, err := d.fetchTag(ctx, tag)
		if err != nil {
			d.logger.Warn("tag fetch failed", "tag", tag, "error", err)
			lastErr = err
			continue
		}
		for _, p := range batch {
			key := p.DedupKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			posts = append(posts, p)
		}
	}
	if len(posts) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return posts, nil
}

type devtoArticle struct {
	URL          string `json:"url"`
	CanonicalURL string `json:"canonical_url"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	User         struct {
		Username string `json:"username"`
		Name     string `json:"name"`
	} `json:"user"`
	Reactions   int    `json:"public_reactions_count"`
	Comments    int    `json:"comments_count"`
	PublishedAt string `json:"published_at"`
}

func (d *DevTo) fetchTag(ctx context.Context, tag string) ([]domain.RawPost, error) {
	params := url.Values{}
	params.Set("tag", tag)
	params.Set("per_page", "20")
	params.Set("top", "1")

	var articles []devtoArticle
	endpoint := fmt.Sprintf("%s/articles?%s", d.baseURL, params.Encode())
	if err := fetchJSON(ctx, d.client, endpoint, nil, &articles); err != nil {
		return nil, fmt.Errorf("tag %s: %w", tag, err)
	}

	posts := make([]domain.RawPost, 0, len(articles))
	for _, a := range articles {
		posts = append(posts, d.articleToPost(a))
	}
	return posts, nil
}

func (d *DevTo) articleToPost(a devtoArticle) domain.RawPost {
	postURL := a.URL
	if postURL == "" {
		postURL = a.CanonicalURL
	}
	author := a.User.Username
	if author == "" {
		author = a.User.Name
	}

	created, _ := time.Parse(time.RFC3339, a.PublishedAt)
	return domain.RawPost{
		URL:           postURL,
		Title:         a.Title,
		Body:          stripHTML(a.Description),
		Author:        author,
		Platform:      devtoPlatform,
		PlatformScore: a.Reactions,
		CommentCount:  a.Comments,
		CreatedAt:     created,
	}
}
