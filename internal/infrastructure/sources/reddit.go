package sources

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"signalradar/internal/config"
	"signalradar/internal/domain"
	"signalradar/internal/scraper"
)

const redditPlatform = "reddit"

// Reddit fetches new submissions per configured subreddit through the public
// JSON listing endpoints. Reddit rejects anonymous default user agents, so
// the configured one is sent on every request.
type Reddit struct {
	client     *http.Client
	baseURL    string
	userAgent  string
	subreddits []string
	logger     *slog.Logger
}

var _ scraper.Scraper = (*Reddit)(nil)

func NewReddit(cfg config.RedditConfig, client *http.Client, logger *slog.Logger) *Reddit {
	return &Reddit{
		client:     defaultClient(client),
		baseURL:    cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		subreddits: cfg.Subreddits,
		logger:     logger.With("component", "scraper", "platform", redditPlatform),
	}
}

func (r *Reddit) Platform() string { return redditPlatform }

func (r *Reddit) Fetch(ctx context.Context) ([]domain.RawPost, error) {
	var posts []domain.RawPost
	var lastErr error
	for _, sub := range r.subreddits {
		batch, err := r.fetchSubreddit(ctx, sub)
		if err != nil {
			r.logger.Warn("subreddit fetch failed", "subreddit", sub, "error", err)
			lastErr = err
			continue
		}
		posts = append(posts, batch...)
	}
	if len(posts) == 0 && lastErr != nil {
		return nil, lastErr
	}

	karma := map[string]int{}
	for i := range posts {
		author := posts[i].Author
		if author == "" || author == "[deleted]" {
			continue
		}
		if _, cached := karma[author]; !cached {
			karma[author] = r.fetchKarma(ctx, author)
		}
		posts[i].AuthorInfluence = karma[author]
	}
	return posts, nil
}

// fetchKarma resolves an author's link karma. A failed lookup degrades to
// zero influence rather than failing the whole batch.
func (r *Reddit) fetchKarma(ctx context.Context, author string) int {
	var out struct {
		Data struct {
			LinkKarma int `json:"link_karma"`
		} `json:"data"`
	}
	endpoint := fmt.Sprintf("%s/user/%s/about.json?raw_json=1", r.baseURL, author)
	headers := map[string]string{"User-Agent": r.userAgent}
	if err := fetchJSON(ctx, r.client, endpoint, headers, &out); err != nil {
		r.logger.Debug("karma lookup failed", "author", author, "error", err)
		return 0
	}
	return out.Data.LinkKarma
}

type redditSubmission struct {
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	Permalink   string  `json:"permalink"`
	Author      string  `json:"author"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
}

func (r *Reddit) fetchSubreddit(ctx context.Context, sub string) ([]domain.RawPost, error) {
	endpoint := fmt.Sprintf("%s/r/%s/new.json?limit=25&raw_json=1", r.baseURL, sub)

	var out struct {
		Data struct {
			Children []struct {
				Data redditSubmission `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	headers := map[string]string{"User-Agent": r.userAgent}
	if err := fetchJSON(ctx, r.client, endpoint, headers, &out); err != nil {
		return nil, fmt.Errorf("subreddit %s: %w", sub, err)
	}

	posts := make([]domain.RawPost, 0, len(out.Data.Children))
	for _, child := range out.Data.Children {
		posts = append(posts, r.submissionToPost(child.Data))
	}
	return posts, nil
}

func (r *Reddit) submissionToPost(s redditSubmission) domain.RawPost {
	return domain.RawPost{
		URL:           "https://www.reddit.com" + s.Permalink,
		Title:         s.Title,
		Body:          stripHTML(s.SelfText),
		Author:        s.Author,
		Platform:      redditPlatform,
		PlatformScore: s.Score,
		CommentCount:  s.NumComments,
		CreatedAt:     time.Unix(int64(s.CreatedUTC), 0).UTC(),
	}
}
