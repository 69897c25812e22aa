package domain

import (
	"strings"
	"time"
)

// ExcerptLimit caps the plain-text excerpt attached to each report entry.
const ExcerptLimit = 120

// TopCategoryLimit caps how many matched categories a report entry shows.
const TopCategoryLimit = 3

// ReportEntry links a catalogued post to its 1-based rank in a run's output.
type ReportEntry struct {
	Rank          int
	Post          ScoredPost
	Excerpt       string
	TopCategories []PainCategory
}

// Report is the finished value handed to the notification layer.
type Report struct {
	RunID             int64
	Kind              RunKind
	GeneratedAt       time.Time
	Entries           []ReportEntry
	SourceStatuses    map[string]SourceStatus
	Partial           bool
	TotalCollected    int
	TotalGated        int
	PlatformBreakdown map[string]int
	CategoryBreakdown map[PainCategory]int
}

// NewReportEntry builds an entry for a ranked post, deriving the excerpt and
// the top matched categories.
func NewReportEntry(rank int, post ScoredPost) ReportEntry {
	cats := post.PainCategories
	if len(cats) > TopCategoryLimit {
		cats = cats[:TopCategoryLimit]
	}
	return ReportEntry{
		Rank:          rank,
		Post:          post,
		Excerpt:       Excerpt(post.Body, ExcerptLimit),
		TopCategories: cats,
	}
}

// Excerpt collapses whitespace and truncates text to at most limit
// characters, preferring a word boundary and appending an ellipsis when
// trimmed. The limit counts runes, so multi-byte text is never cut mid-rune.
func Excerpt(text string, limit int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= limit {
		return flat
	}
	cut := string(runes[:limit-3])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "..."
}
