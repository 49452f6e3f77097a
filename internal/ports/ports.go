// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application
// layer to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrStorage, etc.)
package ports

import (
	"context"

	"quotevault/internal/domain"
)

// QuoteStore is the persistence contract for the quote collection and
// the small preference state around it. It mirrors the storage model of
// the original widget: the whole collection is one value, written in
// full on every save.
type QuoteStore interface {
	// LoadQuotes reads the persisted collection. Absent or unparsable
	// state fails soft: implementations return the seed collection and
	// no error. Only infrastructure-level read failures are returned.
	LoadQuotes(ctx context.Context) ([]domain.Quote, error)

	// SaveQuotes overwrites the persisted collection with quotes.
	// Returns domain.ErrStorage on write failure.
	SaveQuotes(ctx context.Context, quotes []domain.Quote) error

	// SelectedCategory reads the persisted filter preference.
	// Returns domain.CategoryAll when none is stored.
	SelectedCategory(ctx context.Context) (string, error)

	// SaveSelectedCategory persists the filter preference.
	SaveSelectedCategory(ctx context.Context, category string) error
}

// RemoteQuotes is the contract for the remote collection resource the
// reconciler pushes to and fetches from.
type RemoteQuotes interface {
	// Push submits a local quote as a create request and returns the
	// identifier the remote assigned. Returns domain.ErrUnavailable on
	// transport failure.
	Push(ctx context.Context, quote domain.Quote) (string, error)

	// Fetch retrieves a bounded snapshot of remote quotes, already
	// translated to the domain shape.
	Fetch(ctx context.Context, limit int) ([]domain.Quote, error)
}
