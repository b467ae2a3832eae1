// Package domain provides domain models used across the application.
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ArticleRecord is the dataset record produced once per article page.
// Absent fields serialize as explicit JSON nulls so every record carries
// the same shape regardless of what extraction found.
type ArticleRecord struct {
	// Title is the extracted article headline, nil when the title
	// element was not found.
	Title *string `json:"title" mapstructure:"title"`
	// Content is the extracted article body text, nil when the content
	// container was not found.
	Content *string `json:"content" mapstructure:"content"`
	// URL is the article page URL. Identity for the record.
	URL string `json:"url" mapstructure:"url"`
	// Summary is the model-generated summary, nil when no content was
	// available or summarization failed.
	Summary *string `json:"summary" mapstructure:"summary"`
}

// DocID returns the stable document identifier for the record, derived
// from the article URL. Idempotent sinks use it to dedupe re-crawls.
func (r *ArticleRecord) DocID() string {
	sum := sha256.Sum256([]byte(r.URL))
	return hex.EncodeToString(sum[:])
}

// HasContent reports whether a non-empty content body was extracted.
func (r *ArticleRecord) HasContent() bool {
	return r.Content != nil && *r.Content != ""
}

// HasSummary reports whether a non-empty summary was produced.
func (r *ArticleRecord) HasSummary() bool {
	return r.Summary != nil && *r.Summary != ""
}

// OptionalText trims the given text and returns a pointer to it, or nil
// when nothing remains after trimming. Used to turn extracted fields
// into nullable record fields.
func OptionalText(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
