package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"signalradar/internal/config"
	"signalradar/internal/domain"
	"signalradar/internal/scraper"
)

const lobstersPlatform = "lobsters"

// Lobsters fetches stories from the public JSON feeds, one request per
// configured feed path.
type Lobsters struct {
	client  *http.Client
	baseURL string
	feeds   []string
	logger  *slog.Logger
}

var _ scraper.Scraper = (*Lobsters)(nil)

func NewLobsters(cfg config.SourceConfig, client *http.Client, logger *slog.Logger) *Lobsters {
	return &Lobsters{
		client:  defaultClient(client),
		baseURL: cfg.BaseURL,
		feeds:   cfg.Feeds,
		logger:  logger.With("component", "scraper", "platform", lobstersPlatform),
	}
}

func (l *Lobsters) Platform() string { return lobstersPlatform }

func (l *Lobsters) Fetch(ctx context.Context) ([]domain.RawPost, error) {
	var posts []domain.RawPost
	var lastErr error
	seen := map[string]struct{}{}
	for _, feed := range l.feeds {
		batch, err := l.fetchFeed(ctx, feed)
		if err != nil {
			l.logger.Warn("feed fetch failed", "feed", feed, "error", err)
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

// lobstersSubmitter tolerates both feed generations: older feeds embed a
// user object, newer ones inline the username as a string.
type lobstersSubmitter struct {
	Username string
}

func (s *lobstersSubmitter) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		s.Username = name
		return nil
	}
	var user struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(data, &user); err != nil {
		return err
	}
	s.Username = user.Username
	return nil
}

type lobstersStory struct {
	URL           string            `json:"url"`
	ShortIDURL    string            `json:"short_id_url"`
	CommentsURL   string            `json:"comments_url"`
	Title         string            `json:"title"`
	Description   string            `json:"description"`
	SubmitterUser lobstersSubmitter `json:"submitter_user"`
	Score         int               `json:"score"`
	CommentsCount int               `json:"comment_count"`
	CreatedAt     string            `json:"created_at"`
}

func (l *Lobsters) fetchFeed(ctx context.Context, feed string) ([]domain.RawPost, error) {
	endpoint := l.baseURL + "/" + strings.TrimPrefix(feed, "/")

	var stories []lobstersStory
	if err := fetchJSON(ctx, l.client, endpoint, nil, &stories); err != nil {
		return nil, fmt.Errorf("feed %s: %w", feed, err)
	}

	posts := make([]domain.RawPost, 0, len(stories))
	for _, s := range stories {
		posts = append(posts, l.storyToPost(s))
	}
	return posts, nil
}

func (l *Lobsters) storyToPost(s lobstersStory) domain.RawPost {
	postURL := s.URL
	if postURL == "" {
		postURL = s.ShortIDURL
	}
	if postURL == "" {
		postURL = s.CommentsURL
	}

	created, _ := time.Parse(time.RFC3339, s.CreatedAt)
	return domain.RawPost{
		URL:           postURL,
		Title:         s.Title,
		Body:          stripHTML(s.Description),
		Author:        s.SubmitterUser.Username,
		Platform:      lobstersPlatform,
		PlatformScore: s.Score,
		CommentCount:  s.CommentsCount,
		CreatedAt:     created,
	}
}
