package model

import (
	"regexp"
	"time"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug reports whether s is a lowercase, hyphen separated identifier.
func ValidSlug(s string) bool {
	return len(s) <= 100 && slugPattern.MatchString(s)
}

// Trade is a professional domain such as plumbing. Slug is the stable external id.
type Trade struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

// Tool is reference vocabulary, optionally scoped to a trade.
type Tool struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	TradeID   *int64    `json:"trade_id,omitempty"`
	Aliases   []string  `json:"aliases,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Material is reference vocabulary, optionally scoped to a trade.
type Material struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	TradeID   *int64    `json:"trade_id,omitempty"`
	Aliases   []string  `json:"aliases,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Tag labels lessons, e.g. category "fixture_type".
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  *string   `json:"category,omitempty"`
	TradeID   *int64    `json:"trade_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// VocabularyKind distinguishes the catalog tables holding named entities.
type VocabularyKind string

const (
	VocabularyTools     VocabularyKind = "tools"
	VocabularyMaterials VocabularyKind = "materials"
	VocabularyTags      VocabularyKind = "tags"
)

// Term is a vocabulary entry with the names it can be recognised by.
type Term struct {
	ID      int64
	Name    string
	Aliases []string
}
