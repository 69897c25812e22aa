package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// PainCategory is one of the 15 closed maintainer-pain topics tracked by the radar.
type PainCategory string

const (
	PainBurnout               PainCategory = "burnout"
	PainFunding               PainCategory = "funding"
	PainToxicUsers            PainCategory = "toxic_users"
	PainMaintenanceBurden     PainCategory = "maintenance_burden"
	PainDependencyHell        PainCategory = "dependency_hell"
	PainSecurityPressure      PainCategory = "security_pressure"
	PainBreakingChanges       PainCategory = "breaking_changes"
	PainDocumentation         PainCategory = "documentation"
	PainContributorFriction   PainCategory = "contributor_friction"
	PainCorporateExploitation PainCategory = "corporate_exploitation"
	PainScopeCreep            PainCategory = "scope_creep"
	PainToolingFatigue        PainCategory = "tooling_fatigue"
	PainGovernance            PainCategory = "governance"
	PainAbuse                 PainCategory = "abuse"
	PainCICD                  PainCategory = "ci_cd"
)

// AllPainCategories lists the closed enumeration in registry order.
var AllPainCategories = []PainCategory{
	PainBurnout,
	PainFunding,
	PainToxicUsers,
	PainMaintenanceBurden,
	PainDependencyHell,
	PainSecurityPressure,
	PainBreakingChanges,
	PainDocumentation,
	PainContributorFriction,
	PainCorporateExploitation,
	PainScopeCreep,
	PainToolingFatigue,
	PainGovernance,
	PainAbuse,
	PainCICD,
}

// SourceTier records which backfill-ladder rung supplied a report item.
type SourceTier string

const (
	TierLive      SourceTier = "live"
	TierArchive7d SourceTier = "archive_7d"
	TierArchive30 SourceTier = "archive_30d"
	TierPartial   SourceTier = "partial"
)

// RawPost is a platform-origin record produced by a scraper. Immutable once
// collected; platform-specific fields never leak past ingestion.
type RawPost struct {
	URL             string
	Title           string
	Body            string
	Author          string
	Platform        string
	PlatformScore   int
	CommentCount    int
	AuthorInfluence int
	CreatedAt       time.Time
}

// Malformed reports whether the post lacks the text the gate chain needs.
func (p RawPost) Malformed() bool {
	return p.URL == "" || (p.Title == "" && p.Body == "")
}

// Text returns the title+body string every gate inspects.
func (p RawPost) Text() string {
	return p.Title + " " + p.Body
}

// DedupKey returns the SHA-256 digest of the canonicalised URL. It is the
// sole catalog identity: two posts with the same key are the same entity.
func (p RawPost) DedupKey() string {
	return DedupKey(p.URL)
}

// DedupKey hashes a canonicalised URL string.
func DedupKey(url string) string {
	sum := sha256.Sum256([]byte(CanonicalURL(url)))
	return hex.EncodeToString(sum[:])
}

// CanonicalURL normalises a URL for identity purposes: trimmed, lowercased,
// trailing slashes stripped.
func CanonicalURL(url string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(url)), "/")
}

// GatedPost is a RawPost that survived the full gate chain, carrying the
// evidence each gate collected.
type GatedPost struct {
	RawPost
	PainCategories    []PainCategory
	MaintainerSignals int
	SentimentScore    float64
}

// ScoredPost adds the batch-relative scoring fields. The normalised values
// are only meaningful inside the batch that produced them; just SignalScore
// and SourceTier survive into the catalog.
type ScoredPost struct {
	GatedPost
	InfluenceNorm   float64
	EngagementNorm  float64
	PainFactor      float64
	MaintainerBoost float64
	SignalScore     float64
	SourceTier      SourceTier
}
