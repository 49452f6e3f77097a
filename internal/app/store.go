// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"quotevault/internal/domain"
	"quotevault/internal/ports"
)

// Store holds the in-memory quote collection and writes every mutation
// through to persistence. The collection is small by design, so all
// operations work on the full slice under a single mutex.
type Store struct {
	persistence ports.QuoteStore
	logger      *slog.Logger

	mu        sync.Mutex
	quotes    []domain.Quote
	lastShown *domain.Quote
}

// StoreConfig contains configuration for the store service.
type StoreConfig struct {
	Persistence ports.QuoteStore
	Logger      *slog.Logger
}

// NewStore creates a new store service with the provided dependencies.
func NewStore(cfg StoreConfig) *Store {
	return &Store{
		persistence: cfg.Persistence,
		logger:      cfg.Logger,
	}
}

// Load hydrates the in-memory collection from persistence. Called once
// at startup before the store is handed to anything else.
func (s *Store) Load(ctx context.Context) error {
	quotes, err := s.persistence.LoadQuotes(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load quote collection",
			slog.Any("error", err),
		)

		return err
	}

	s.mu.Lock()
	s.quotes = quotes
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "quote collection loaded",
		slog.Int("count", len(quotes)),
	)

	return nil
}

// List returns a copy of the current collection.
func (s *Store) List(_ context.Context) []domain.Quote {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshotLocked()
}

// Add validates and appends a new local quote, persisting the updated
// collection. The quote is only committed to memory once persistence
// succeeds, so memory and disk cannot drift apart.
func (s *Store) Add(ctx context.Context, text, category string) (domain.Quote, error) {
	text = strings.TrimSpace(text)
	category = strings.TrimSpace(category)

	if text == "" {
		return domain.Quote{}, domain.NewValidationError("text", "must not be empty")
	}

	if category == "" {
		return domain.Quote{}, domain.NewValidationError("category", "must not be empty")
	}

	quote := domain.Quote{
		Text:      text,
		Category:  category,
		UpdatedAt: time.Now().UTC(),
		Source:    domain.SourceLocal,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(s.snapshotLocked(), quote)

	if err := s.persistence.SaveQuotes(ctx, next); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist new quote",
			slog.Any("error", err),
		)

		return domain.Quote{}, err
	}

	s.quotes = next

	s.logger.InfoContext(ctx, "quote added",
		slog.String("category", quote.Category),
		slog.Int("count", len(next)),
	)

	return quote, nil
}

// Mutate applies fn to the current collection under the store lock,
// persisting the result before committing it. fn receives a copy it may
// modify and return; returning nil leaves the collection untouched.
// Callers that compute changes outside the lock (the reconciler, whose
// network calls must not block other writers) use this to re-read and
// apply them without clobbering quotes added in the meantime.
func (s *Store) Mutate(ctx context.Context, fn func(quotes []domain.Quote) []domain.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fn(s.snapshotLocked())
	if next == nil {
		return nil
	}

	if err := s.persistence.SaveQuotes(ctx, next); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist mutated collection",
			slog.Any("error", err),
		)

		return err
	}

	s.quotes = next

	return nil
}

// Replace swaps the whole collection, persisting before committing.
func (s *Store) Replace(ctx context.Context, quotes []domain.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persistence.SaveQuotes(ctx, quotes); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist replaced collection",
			slog.Any("error", err),
		)

		return err
	}

	s.quotes = make([]domain.Quote, len(quotes))
	copy(s.quotes, quotes)

	return nil
}

// RecordShown remembers the most recently displayed quote. This is
// session state only and intentionally not persisted.
func (s *Store) RecordShown(quote domain.Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shown := quote
	s.lastShown = &shown
}

// LastShown returns the most recently displayed quote, or ErrNotFound
// when nothing has been shown yet this session.
func (s *Store) LastShown() (domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastShown == nil {
		return domain.Quote{}, domain.NewNotFoundError("last shown quote", "")
	}

	return *s.lastShown, nil
}

func (s *Store) snapshotLocked() []domain.Quote {
	snapshot := make([]domain.Quote, len(s.quotes))
	copy(snapshot, s.quotes)

	return snapshot
}
