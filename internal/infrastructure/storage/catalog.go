package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"signalradar/internal/domain"
)

// ErrRunActive is returned by StartRun when another run of the same kind is
// still marked running.
var ErrRunActive = errors.New("a run of this kind is already active")

var postColumns = []string{
	"url", "title", "body", "author", "platform",
	"platform_score", "comment_count", "author_influence", "created_at",
	"pain_categories", "maintainer_signals", "sentiment_score",
	"signal_score", "source_tier",
}

var insertColumns = append(append([]string{"dedup_key"}, postColumns...), "archived_at", "run_id")

// Catalog is the SQLite-backed post and run store. A single Catalog is safe
// for concurrent use; SQLite serializes the writes underneath.
type Catalog struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the catalog database at path and applies
// the schema.
func Open(path string, logger *slog.Logger) (*Catalog, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply catalog schema: %w", err)
	}

	return &Catalog{
		db:     db,
		logger: logger.With("component", "catalog"),
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// InsertIfAbsent archives post under its dedup key. Returns false when the
// key already exists.
func (c *Catalog) InsertIfAbsent(ctx context.Context, post domain.ScoredPost, runID int64) (bool, error) {
	query, args, err := sq.Insert("posts").
		Options("OR IGNORE").
		Columns(insertColumns...).
		Values(
			post.DedupKey(),
			post.URL, post.Title, post.Body, post.Author, post.Platform,
			post.PlatformScore, post.CommentCount, post.AuthorInfluence, post.CreatedAt.UTC(),
			encodeCategories(post.PainCategories), post.MaintainerSignals, post.SentimentScore,
			post.SignalScore, string(domain.TierLive),
			c.now(), runID,
		).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build insert query: %w", err)
	}

	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to archive post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// QueryArchive returns posts whose archive age is within [minAge, maxAge],
// best score first. maxAge zero means no upper bound on age.
func (c *Catalog) QueryArchive(ctx context.Context, minAge, maxAge time.Duration, excludeReported bool, limit int) ([]domain.ScoredPost, error) {
	now := c.now()
	builder := sq.Select(postColumns...).
		From("posts").
		Where(sq.LtOrEq{"archived_at": now.Add(-minAge)}).
		OrderBy("signal_score DESC", "sentiment_score ASC", "created_at ASC").
		Limit(uint64(limit))
	if maxAge > 0 {
		builder = builder.Where(sq.GtOrEq{"archived_at": now.Add(-maxAge)})
	}
	if excludeReported {
		builder = builder.Where(sq.Eq{"reported_at": nil})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build archive query: %w", err)
	}
	return c.queryPosts(ctx, query, args)
}

// StartRun claims a run of the given kind. The claim is a single conditional
// insert so two concurrent callers can never both win.
func (c *Catalog) StartRun(ctx context.Context, kind domain.RunKind) (int64, error) {
	res, err := c.db.ExecContext(ctx, `
		INSERT INTO runs (kind, started_at, status)
		SELECT ?, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM runs WHERE kind = ? AND status = ?
		)`,
		string(kind), c.now(), string(domain.RunRunning),
		string(kind), string(domain.RunRunning),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to claim run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return 0, ErrRunActive
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}
	c.logger.Info("run claimed", "run_id", id, "kind", kind)
	return id, nil
}

func (c *Catalog) FinishRun(ctx context.Context, runID int64, status domain.RunStatus, resultCount int) error {
	query, args, err := sq.Update("runs").
		Set("finished_at", c.now()).
		Set("status", string(status)).
		Set("result_count", resultCount).
		Where(sq.Eq{"id": runID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build run update: %w", err)
	}
	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// RecordReportEntries writes the ranked entries and marks the underlying
// posts reported, in one transaction.
func (c *Catalog) RecordReportEntries(ctx context.Context, runID int64, entries []domain.ReportEntry) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := c.now()
	for _, e := range entries {
		var postID int64
		if err := tx.QueryRowContext(ctx,
			"SELECT id FROM posts WHERE dedup_key = ?", e.Post.DedupKey(),
		).Scan(&postID); err != nil {
			return fmt.Errorf("failed to resolve post for rank %d: %w", e.Rank, err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO report_entries (run_id, post_id, rank, excerpt, top_categories, signal_score)
			VALUES (?, ?, ?, ?, ?, ?)`,
			runID, postID, e.Rank, e.Excerpt, encodeCategories(e.TopCategories), e.Post.SignalScore,
		); err != nil {
			return fmt.Errorf("failed to record report entry %d: %w", e.Rank, err)
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE posts SET reported_at = ?, source_tier = ?, signal_score = ?
			WHERE id = ?`,
			now, string(e.Post.SourceTier), e.Post.SignalScore, postID,
		); err != nil {
			return fmt.Errorf("failed to mark post %d reported: %w", postID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report entries: %w", err)
	}
	return nil
}

// RecentSuccessfulRun reports whether a run of kind finished successfully
// within the window.
func (c *Catalog) RecentSuccessfulRun(ctx context.Context, kind domain.RunKind, within time.Duration) (bool, error) {
	query, args, err := sq.Select("COUNT(1)").
		From("runs").
		Where(sq.Eq{"kind": string(kind), "status": string(domain.RunSuccess)}).
		Where(sq.GtOrEq{"finished_at": c.now().Add(-within)}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build guard query: %w", err)
	}
	var count int
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check recent runs: %w", err)
	}
	return count > 0, nil
}

// ReportedSince returns posts that appeared in reports after the cutoff,
// best score first.
func (c *Catalog) ReportedSince(ctx context.Context, since time.Time, limit int) ([]domain.ScoredPost, error) {
	query, args, err := sq.Select(postColumns...).
		From("posts").
		Where(sq.NotEq{"reported_at": nil}).
		Where(sq.GtOrEq{"reported_at": since.UTC()}).
		OrderBy("signal_score DESC", "sentiment_score ASC", "created_at ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build reported query: %w", err)
	}
	return c.queryPosts(ctx, query, args)
}

// Stats summarizes catalog contents for operational inspection.
type Stats struct {
	TotalPosts    int
	ReportedPosts int
	RunsByStatus  map[domain.RunStatus]int
	PostsByTier   map[domain.SourceTier]int
}

func (c *Catalog) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{
		RunsByStatus: make(map[domain.RunStatus]int),
		PostsByTier:  make(map[domain.SourceTier]int),
	}

	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM posts").Scan(&stats.TotalPosts); err != nil {
		return stats, fmt.Errorf("failed to count posts: %w", err)
	}
	if err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM posts WHERE reported_at IS NOT NULL",
	).Scan(&stats.ReportedPosts); err != nil {
		return stats, fmt.Errorf("failed to count reported posts: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, "SELECT status, COUNT(1) FROM runs GROUP BY status")
	if err != nil {
		return stats, fmt.Errorf("failed to count runs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return stats, fmt.Errorf("failed to scan run count: %w", err)
		}
		stats.RunsByStatus[domain.RunStatus(status)] = count
	}
	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("failed to iterate run counts: %w", err)
	}

	tierRows, err := c.db.QueryContext(ctx, "SELECT source_tier, COUNT(1) FROM posts GROUP BY source_tier")
	if err != nil {
		return stats, fmt.Errorf("failed to count posts by tier: %w", err)
	}
	defer tierRows.Close()
	for tierRows.Next() {
		var tier string
		var count int
		if err := tierRows.Scan(&tier, &count); err != nil {
			return stats, fmt.Errorf("failed to scan tier count: %w", err)
		}
		stats.PostsByTier[domain.SourceTier(tier)] = count
	}
	if err := tierRows.Err(); err != nil {
		return stats, fmt.Errorf("failed to iterate tier counts: %w", err)
	}

	return stats, nil
}

func (c *Catalog) queryPosts(ctx context.Context, query string, args []interface{}) ([]domain.ScoredPost, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.ScoredPost
	for rows.Next() {
		var p domain.ScoredPost
		var categories, tier string
		if err := rows.Scan(
			&p.URL, &p.Title, &p.Body, &p.Author, &p.Platform,
			&p.PlatformScore, &p.CommentCount, &p.AuthorInfluence, &p.CreatedAt,
			&categories, &p.MaintainerSignals, &p.SentimentScore,
			&p.SignalScore, &tier,
		); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		p.PainCategories, err = decodeCategories(categories)
		if err != nil {
			return nil, err
		}
		p.SourceTier = domain.SourceTier(tier)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate posts: %w", err)
	}
	return posts, nil
}

func encodeCategories(categories []domain.PainCategory) string {
	if len(categories) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(categories)
	return string(b)
}

func decodeCategories(s string) ([]domain.PainCategory, error) {
	if s == "" {
		return nil, nil
	}
	var categories []domain.PainCategory
	if err := json.Unmarshal([]byte(s), &categories); err != nil {
		return nil, fmt.Errorf("failed to decode pain categories: %w", err)
	}
	return categories, nil
}
