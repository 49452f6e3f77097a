// Package domain contains core business entities and rules.
package domain

import "time"

// Provenance values for Quote.Source.
const (
	// SourceLocal marks quotes created by user input on this node.
	SourceLocal = "local"

	// SourceServer marks quotes received from the remote endpoint.
	SourceServer = "server"
)

// DefaultCategory is the sentinel assigned when a quote is added
// without a category.
const DefaultCategory = "General"

// CategoryAll is the synthetic filter value matching every category.
const CategoryAll = "all"

// Quote is the sole entity: a text/category pair, optionally tagged
// with a remote identifier and provenance.
type Quote struct {
	// ID is the remote identifier. Empty until the quote has been
	// accepted by the remote system; the merge key once assigned.
	ID string `json:"id,omitempty"`

	// Text is the quote body. Never empty after validation.
	Text string `json:"text"`

	// Category groups quotes for filtering. Never empty after
	// validation; defaults to DefaultCategory.
	Category string `json:"category"`

	// UpdatedAt is the timestamp of the last local modification.
	UpdatedAt time.Time `json:"updatedAt"`

	// Source records provenance, SourceLocal or SourceServer.
	Source string `json:"source,omitempty"`
}

// Synced reports whether the quote has a remote identifier.
func (q Quote) Synced() bool {
	return q.ID != ""
}

// ContentEquals reports whether two quotes carry the same text and
// category. Identifier, timestamps, and provenance are ignored: this is
// the comparison the merge uses to decide whether records diverge.
func (q Quote) ContentEquals(other Quote) bool {
	return q.Text == other.Text && q.Category == other.Category
}

// SeedQuotes returns the fixed fallback collection used when no
// persisted state exists or the persisted bytes cannot be parsed.
func SeedQuotes(now time.Time) []Quote {
	return []Quote{
		{Text: "The best way to get started is to quit talking and begin doing.", Category: "Motivation", UpdatedAt: now, Source: SourceLocal},
		{Text: "Don't let yesterday take up too much of today.", Category: "Wisdom", UpdatedAt: now, Source: SourceLocal},
		{Text: "It's not whether you get knocked down, it's whether you get up.", Category: "Perseverance", UpdatedAt: now, Source: SourceLocal},
	}
}
