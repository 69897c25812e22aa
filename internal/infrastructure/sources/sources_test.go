package sources

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"signalradar/internal/config"
	"signalradar/internal/domain"
	"signalradar/internal/scraper"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHackerNewsFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search_by_date" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		switch r.URL.Query().Get("tags") {
		case "ask_hn":
			io.WriteString(w, `{"hits":[{
				"objectID":"1001","title":"Ask HN: burned out?","story_text":"<p>I maintain a large project &amp; I am tired</p>",
				"author":"alice","points":42,"num_comments":17,"created_at":"2026-08-30T10:00:00Z"}]}`)
		case "show_hn":
			io.WriteString(w, `{"hits":[{
				"objectID":"1002","url":"https://example.com/tool","title":"Show HN: a tool",
				"author":"bob","points":5,"num_comments":1,"created_at":"2026-08-30T11:00:00Z"}]}`)
		default:
			t.Errorf("unexpected tag %q", r.URL.Query().Get("tags"))
		}
	}))
	defer srv.Close()

	hn := NewHackerNews(config.SourceConfig{BaseURL: srv.URL, Feeds: []string{"ask_hn", "show_hn"}}, srv.Client(), testLogger())
	posts, err := hn.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("Fetch() returned %d posts, want 2", len(posts))
	}

	ask := posts[0]
	if ask.URL != "https://news.ycombinator.com/item?id=1001" {
		t.Errorf("text post URL = %q", ask.URL)
	}
	if ask.Body != "I maintain a large project & I am tired" {
		t.Errorf("body not stripped: %q", ask.Body)
	}
	if ask.PlatformScore != 42 || ask.CommentCount != 17 {
		t.Errorf("engagement fields = %d/%d", ask.PlatformScore, ask.CommentCount)
	}
	if ask.CreatedAt.IsZero() {
		t.Error("created_at not parsed")
	}
	if posts[1].URL != "https://example.com/tool" {
		t.Errorf("link post URL = %q", posts[1].URL)
	}
}

func TestHackerNewsFetchPartialTagFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("tags") == "ask_hn" {
			http.Error(w, "nope", http.StatusBadGateway)
			return
		}
		io.WriteString(w, `{"hits":[{"objectID":"1","title":"t","author":"a","created_at":"2026-08-30T10:00:00Z"}]}`)
	}))
	defer srv.Close()

	hn := NewHackerNews(config.SourceConfig{BaseURL: srv.URL, Feeds: []string{"ask_hn", "show_hn"}}, srv.Client(), testLogger())
	posts, err := hn.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v, want partial success", err)
	}
	if len(posts) != 1 {
		t.Errorf("Fetch() returned %d posts, want 1", len(posts))
	}
}

func TestHackerNewsFetchAllTagsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	hn := NewHackerNews(config.SourceConfig{BaseURL: srv.URL, Feeds: []string{"ask_hn"}}, srv.Client(), testLogger())
	if _, err := hn.Fetch(context.Background()); err == nil {
		t.Error("Fetch() expected error when every tag fails")
	}
}

func TestDevToFetchDeduplicatesAcrossTags(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{
			"url":"https://dev.to/alice/post","title":"maintainer life","description":"short take",
			"user":{"username":"alice"},"public_reactions_count":10,"comments_count":3,
			"published_at":"2026-08-29T08:00:00Z"}]`)
	}))
	defer srv.Close()

	d := NewDevTo(config.SourceConfig{BaseURL: srv.URL, Feeds: []string{"opensource", "devops"}}, srv.Client(), testLogger())
	posts, err := d.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("Fetch() returned %d posts, want 1 after dedup", len(posts))
	}
	if posts[0].Author != "alice" || posts[0].PlatformScore != 10 {
		t.Errorf("post = %+v", posts[0])
	}
}

func TestLobstersFetchHandlesBothSubmitterShapes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/newest.json":
			io.WriteString(w, `[{
				"short_id_url":"https://lobste.rs/s/abc","comments_url":"https://lobste.rs/s/abc/x",
				"title":"text post","description":"<em>markup</em> body","submitter_user":"carol",
				"score":7,"comment_count":2,"created_at":"2026-08-28T09:00:00Z"}]`)
		case "/hottest.json":
			io.WriteString(w, `[{
				"url":"https://example.com/story","title":"link post","description":"",
				"submitter_user":{"username":"dave"},"score":3,"comment_count":0,
				"created_at":"2026-08-28T10:00:00Z"}]`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	l := NewLobsters(config.SourceConfig{BaseURL: srv.URL, Feeds: []string{"newest.json", "hottest.json"}}, srv.Client(), testLogger())
	posts, err := l.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("Fetch() returned %d posts, want 2", len(posts))
	}
	if posts[0].Author != "carol" || posts[0].Body != "markup body" {
		t.Errorf("string submitter post = %+v", posts[0])
	}
	if posts[0].URL != "https://lobste.rs/s/abc" {
		t.Errorf("text post URL = %q", posts[0].URL)
	}
	if posts[1].Author != "dave" {
		t.Errorf("object submitter author = %q", posts[1].Author)
	}
}

func TestRedditFetchResolvesKarma(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "signalradar-test/1.0" {
			t.Errorf("missing user agent, got %q", r.Header.Get("User-Agent"))
		}
		switch r.URL.Path {
		case "/r/golang/new.json":
			io.WriteString(w, `{"data":{"children":[{"data":{
				"title":"my library is dying","selftext":"I maintain this alone","permalink":"/r/golang/comments/1/x/",
				"author":"erin","score":12,"num_comments":4,"created_utc":1756500000}}]}}`)
		case "/user/erin/about.json":
			io.WriteString(w, `{"data":{"link_karma":3400}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	cfg := config.RedditConfig{
		SourceConfig: config.SourceConfig{Enabled: true, BaseURL: srv.URL},
		UserAgent:    "signalradar-test/1.0",
		Subreddits:   []string{"golang"},
	}
	rd := NewReddit(cfg, srv.Client(), testLogger())
	posts, err := rd.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("Fetch() returned %d posts, want 1", len(posts))
	}
	p := posts[0]
	if p.URL != "https://www.reddit.com/r/golang/comments/1/x/" {
		t.Errorf("URL = %q", p.URL)
	}
	if p.AuthorInfluence != 3400 {
		t.Errorf("AuthorInfluence = %d, want 3400", p.AuthorInfluence)
	}
	if p.CreatedAt.IsZero() {
		t.Error("created_utc not converted")
	}
}

type stubScraper struct {
	platform string
	posts    []domain.RawPost
	err      error
}

func (s stubScraper) Platform() string { return s.platform }
func (s stubScraper) Fetch(ctx context.Context) ([]domain.RawPost, error) {
	return s.posts, s.err
}

func TestFanoutCollectStatuses(t *testing.T) {
	registry := scraper.NewRegistry()
	registry.Register(stubScraper{platform: "alpha", posts: []domain.RawPost{{URL: "https://a", Title: "t"}}})
	registry.Register(stubScraper{platform: "beta"})
	registry.Register(stubScraper{platform: "gamma", err: errors.New("connection refused")})

	f := NewFanout(registry, time.Second, testLogger())
	posts, statuses := f.Collect(context.Background())

	if len(posts) != 1 {
		t.Errorf("Collect() merged %d posts, want 1", len(posts))
	}
	want := map[string]domain.SourceStatus{
		"alpha": domain.SourceOK,
		"beta":  domain.SourceEmpty,
		"gamma": domain.SourceFailed,
	}
	for platform, status := range want {
		if statuses[platform] != status {
			t.Errorf("status[%s] = %s, want %s", platform, statuses[platform], status)
		}
	}
}
