package storage

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	kind         TEXT NOT NULL,
	started_at   TIMESTAMP NOT NULL,
	finished_at  TIMESTAMP,
	status       TEXT NOT NULL,
	result_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS posts (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	dedup_key          TEXT NOT NULL UNIQUE,
	url                TEXT NOT NULL,
	title              TEXT NOT NULL,
	body               TEXT NOT NULL,
	author             TEXT NOT NULL,
	platform           TEXT NOT NULL,
	platform_score     INTEGER NOT NULL DEFAULT 0,
	comment_count      INTEGER NOT NULL DEFAULT 0,
	author_influence   INTEGER NOT NULL DEFAULT 0,
	created_at         TIMESTAMP NOT NULL,
	archived_at        TIMESTAMP NOT NULL,
	pain_categories    TEXT NOT NULL,
	maintainer_signals INTEGER NOT NULL DEFAULT 0,
	sentiment_score    REAL NOT NULL DEFAULT 0,
	signal_score       REAL NOT NULL DEFAULT 0,
	source_tier        TEXT NOT NULL DEFAULT 'live',
	reported_at        TIMESTAMP,
	run_id             INTEGER NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(id)
);

CREATE TABLE IF NOT EXISTS report_entries (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id         INTEGER NOT NULL,
	post_id        INTEGER NOT NULL,
	rank           INTEGER NOT NULL,
	excerpt        TEXT NOT NULL,
	top_categories TEXT NOT NULL,
	signal_score   REAL NOT NULL,
	FOREIGN KEY (run_id) REFERENCES runs(id),
	FOREIGN KEY (post_id) REFERENCES posts(id)
);

CREATE INDEX IF NOT EXISTS idx_posts_archived_at ON posts(archived_at);
CREATE INDEX IF NOT EXISTS idx_posts_reported_at ON posts(reported_at);
CREATE INDEX IF NOT EXISTS idx_runs_kind_status ON runs(kind, status);
`
