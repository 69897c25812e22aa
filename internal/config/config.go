package config

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "UTC"
	configPathEnv   = "SIGNALRADAR_CONFIG"
	dbPathEnv       = "SIGNALRADAR_DB_PATH"
	smtpHostEnv     = "SIGNALRADAR_SMTP_HOST"
	smtpUserEnv     = "SIGNALRADAR_SMTP_USER"
	smtpPasswordEnv = "SIGNALRADAR_SMTP_PASSWORD"
	emailToEnv      = "SIGNALRADAR_EMAIL_TO"
	redditIDEnv     = "SIGNALRADAR_REDDIT_CLIENT_ID"
	redditSecretEnv = "SIGNALRADAR_REDDIT_CLIENT_SECRET"
)

// Config holds every tunable the pipeline components receive. It is built
// once at process start, validated, and then passed by reference; nothing
// mutates it afterwards.
type Config struct {
	Database      DatabaseConfig     `yaml:"database"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Scoring       ScoringConfig      `yaml:"scoring"`
	Sentiment     SentimentConfig    `yaml:"sentiment"`
	Report        ReportConfig       `yaml:"report"`
	Sources       SourcesConfig      `yaml:"sources"`
	Notifications NotificationConfig `yaml:"notifications"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// DatabaseConfig locates the sqlite catalog file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SchedulerConfig defines when the daily and weekly pipelines run.
type SchedulerConfig struct {
	DailyCron  string         `yaml:"dailyCron"`
	WeeklyCron string         `yaml:"weeklyCron"`
	Timezone   string         `yaml:"timezone"`
	location   *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// ScoringConfig carries the scorer weights; they must sum to 1.0.
type ScoringConfig struct {
	InfluenceWeight  float64 `yaml:"influenceWeight"`
	EngagementWeight float64 `yaml:"engagementWeight"`
}

// SentimentConfig blends two estimators and sets the strict pass threshold.
type SentimentConfig struct {
	PrimaryWeight   float64 `yaml:"primaryWeight"`
	SecondaryWeight float64 `yaml:"secondaryWeight"`
	Threshold       float64 `yaml:"threshold"`
	InferenceURL    string  `yaml:"inferenceUrl"`
}

// ReportConfig sizes the daily/weekly outputs and the duplicate-run guard.
type ReportConfig struct {
	Size             int `yaml:"size"`
	WeeklySize       int `yaml:"weeklySize"`
	GuardWindowHours int `yaml:"guardWindowHours"`
	QueryTimeoutSecs int `yaml:"queryTimeoutSecs"`
}

// GuardWindow returns the duplicate-run guard window as a duration.
func (r ReportConfig) GuardWindow() time.Duration {
	return time.Duration(r.GuardWindowHours) * time.Hour
}

// QueryTimeout bounds each catalog query issued by the backfill ladder.
func (r ReportConfig) QueryTimeout() time.Duration {
	return time.Duration(r.QueryTimeoutSecs) * time.Second
}

// SourcesConfig enables and parameterises the platform scrapers.
type SourcesConfig struct {
	CollectTimeoutSecs int          `yaml:"collectTimeoutSecs"`
	HackerNews         SourceConfig `yaml:"hackerNews"`
	DevTo              SourceConfig `yaml:"devto"`
	Lobsters           SourceConfig `yaml:"lobsters"`
	Reddit             RedditConfig `yaml:"reddit"`
}

// CollectTimeout bounds the join on the concurrent scraper fan-out.
func (s SourcesConfig) CollectTimeout() time.Duration {
	return time.Duration(s.CollectTimeoutSecs) * time.Second
}

// SourceConfig describes a single platform endpoint and its feed selectors.
type SourceConfig struct {
	Enabled bool     `yaml:"enabled"`
	BaseURL string   `yaml:"baseUrl"`
	Feeds   []string `yaml:"feeds"`
}

// RedditConfig extends SourceConfig with the credential pair Reddit requires.
type RedditConfig struct {
	SourceConfig `yaml:",inline"`
	ClientID     string   `yaml:"clientId"`
	ClientSecret string   `yaml:"clientSecret"`
	UserAgent    string   `yaml:"userAgent"`
	Subreddits   []string `yaml:"subreddits"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Email EmailConfig `yaml:"email"`
}

// EmailConfig wires the SMTP digest sender.
type EmailConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	User     string   `yaml:"user"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
	UseTLS   bool     `yaml:"useTls"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

// Validate enforces the configuration invariants that are fatal at startup.
func (c Config) Validate() error {
	if sum := c.Scoring.InfluenceWeight + c.Scoring.EngagementWeight; math.Abs(sum-1.0) > 1e-3 {
		return fmt.Errorf("scoring weights must sum to 1.0, got %.4f", sum)
	}
	if sum := c.Sentiment.PrimaryWeight + c.Sentiment.SecondaryWeight; math.Abs(sum-1.0) > 1e-3 {
		return fmt.Errorf("sentiment weights must sum to 1.0, got %.4f", sum)
	}
	if c.Sentiment.Threshold >= 0 {
		return fmt.Errorf("sentiment threshold must be negative, got %.4f", c.Sentiment.Threshold)
	}
	if c.Report.Size <= 0 {
		return fmt.Errorf("report size must be positive, got %d", c.Report.Size)
	}
	if c.Report.GuardWindowHours <= 0 {
		return fmt.Errorf("guard window must be positive, got %dh", c.Report.GuardWindowHours)
	}
	if c.Notifications.Email.Enabled {
		if len(c.Notifications.Email.To) == 0 {
			return fmt.Errorf("email enabled but no recipients configured")
		}
		if c.Notifications.Email.Host == "" {
			return fmt.Errorf("email enabled but no SMTP host configured")
		}
	}
	if c.Sources.Reddit.Enabled && (c.Sources.Reddit.ClientID == "" || c.Sources.Reddit.ClientSecret == "") {
		return fmt.Errorf("reddit enabled but client credentials missing")
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(dbPathEnv); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(smtpHostEnv); v != "" {
		c.Notifications.Email.Host = v
	}
	if v := os.Getenv(smtpUserEnv); v != "" {
		c.Notifications.Email.User = v
	}
	if v := os.Getenv(smtpPasswordEnv); v != "" {
		c.Notifications.Email.Password = v
	}
	if v := os.Getenv(emailToEnv); v != "" {
		c.Notifications.Email.To = splitList(v)
	}

	if v := os.Getenv(redditIDEnv); v != "" {
		c.Sources.Reddit.ClientID = v
	}
	if v := os.Getenv(redditSecretEnv); v != "" {
		c.Sources.Reddit.ClientSecret = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func mergeConfig(base, override Config) Config {
	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if override.Scheduler.DailyCron != "" {
		base.Scheduler.DailyCron = override.Scheduler.DailyCron
	}
	if override.Scheduler.WeeklyCron != "" {
		base.Scheduler.WeeklyCron = override.Scheduler.WeeklyCron
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Scoring.InfluenceWeight != 0 || override.Scoring.EngagementWeight != 0 {
		base.Scoring = override.Scoring
	}
	if override.Sentiment.PrimaryWeight != 0 || override.Sentiment.SecondaryWeight != 0 {
		base.Sentiment.PrimaryWeight = override.Sentiment.PrimaryWeight
		base.Sentiment.SecondaryWeight = override.Sentiment.SecondaryWeight
	}
	if override.Sentiment.Threshold != 0 {
		base.Sentiment.Threshold = override.Sentiment.Threshold
	}
	if override.Sentiment.InferenceURL != "" {
		base.Sentiment.InferenceURL = override.Sentiment.InferenceURL
	}

	if override.Report.Size != 0 {
		base.Report.Size = override.Report.Size
	}
	if override.Report.WeeklySize != 0 {
		base.Report.WeeklySize = override.Report.WeeklySize
	}
	if override.Report.GuardWindowHours != 0 {
		base.Report.GuardWindowHours = override.Report.GuardWindowHours
	}
	if override.Report.QueryTimeoutSecs != 0 {
		base.Report.QueryTimeoutSecs = override.Report.QueryTimeoutSecs
	}

	if override.Sources.CollectTimeoutSecs != 0 {
		base.Sources.CollectTimeoutSecs = override.Sources.CollectTimeoutSecs
	}
	base.Sources.HackerNews = mergeSource(base.Sources.HackerNews, override.Sources.HackerNews)
	base.Sources.DevTo = mergeSource(base.Sources.DevTo, override.Sources.DevTo)
	base.Sources.Lobsters = mergeSource(base.Sources.Lobsters, override.Sources.Lobsters)
	base.Sources.Reddit.SourceConfig = mergeSource(base.Sources.Reddit.SourceConfig, override.Sources.Reddit.SourceConfig)
	if override.Sources.Reddit.ClientID != "" {
		base.Sources.Reddit.ClientID = override.Sources.Reddit.ClientID
	}
	if override.Sources.Reddit.ClientSecret != "" {
		base.Sources.Reddit.ClientSecret = override.Sources.Reddit.ClientSecret
	}
	if override.Sources.Reddit.UserAgent != "" {
		base.Sources.Reddit.UserAgent = override.Sources.Reddit.UserAgent
	}
	if len(override.Sources.Reddit.Subreddits) > 0 {
		base.Sources.Reddit.Subreddits = override.Sources.Reddit.Subreddits
	}

	if override.Notifications.Email.Host != "" || override.Notifications.Email.Enabled {
		base.Notifications.Email = override.Notifications.Email
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.JSON {
		base.Logging.JSON = true
	}

	return base
}

func mergeSource(base, override SourceConfig) SourceConfig {
	if override.Enabled {
		base.Enabled = true
	}
	if override.BaseURL != "" {
		base.BaseURL = override.BaseURL
	}
	if len(override.Feeds) > 0 {
		base.Feeds = override.Feeds
	}
	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		Database: DatabaseConfig{Path: filepath.Join(home, ".signalradar", "catalog.db")},
		Scheduler: SchedulerConfig{
			DailyCron:  "0 14 * * *",
			WeeklyCron: "0 20 * * 5",
			Timezone:   defaultTimezone,
			location:   tz,
		},
		Scoring: ScoringConfig{InfluenceWeight: 0.4, EngagementWeight: 0.6},
		Sentiment: SentimentConfig{
			PrimaryWeight:   0.6,
			SecondaryWeight: 0.4,
			Threshold:       -0.05,
		},
		Report: ReportConfig{
			Size:             5,
			WeeklySize:       10,
			GuardWindowHours: 20,
			QueryTimeoutSecs: 10,
		},
		Sources: SourcesConfig{
			CollectTimeoutSecs: 60,
			HackerNews: SourceConfig{
				Enabled: true,
				BaseURL: "https://hn.algolia.com/api/v1",
				Feeds:   []string{"ask_hn", "show_hn"},
			},
			DevTo: SourceConfig{
				Enabled: true,
				BaseURL: "https://dev.to/api",
				Feeds:   []string{"opensource", "devops", "python", "github"},
			},
			Lobsters: SourceConfig{
				Enabled: true,
				BaseURL: "https://lobste.rs",
				Feeds:   []string{"t/programming.json", "t/security.json", "newest.json", "hottest.json"},
			},
			Reddit: RedditConfig{
				SourceConfig: SourceConfig{BaseURL: "https://www.reddit.com"},
				UserAgent:    "signalradar/1.0",
				Subreddits:   []string{"opensource", "programming", "devops", "golang", "rust", "netsec"},
			},
		},
		Notifications: NotificationConfig{
			Email: EmailConfig{Port: 587, UseTLS: true},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
