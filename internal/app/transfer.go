package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"quotevault/internal/domain"
)

// Transfer handles JSON export and import of the whole collection.
type Transfer struct {
	store  *Store
	logger *slog.Logger
}

// TransferConfig contains configuration for the transfer service.
type TransferConfig struct {
	Store  *Store
	Logger *slog.Logger
}

// NewTransfer creates a new transfer service with the provided dependencies.
func NewTransfer(cfg TransferConfig) *Transfer {
	return &Transfer{
		store:  cfg.Store,
		logger: cfg.Logger,
	}
}

// ExportAll serializes the current collection as indented JSON, the
// human-readable shape a user would expect in a downloaded file.
func (t *Transfer) ExportAll(ctx context.Context) ([]byte, error) {
	quotes := t.store.List(ctx)

	data, err := json.MarshalIndent(quotes, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode quotes: %w", err)
	}

	t.logger.InfoContext(ctx, "collection exported",
		slog.Int("count", len(quotes)),
	)

	return data, nil
}

// ImportAll merges a JSON array of quotes into the collection.
// Validation runs over the whole payload before anything is mutated:
// a bad entry rejects the import and leaves the collection untouched.
// Entries already present are skipped, so re-importing an export is
// idempotent. Returns the number of quotes actually added.
func (t *Transfer) ImportAll(ctx context.Context, data []byte) (int, error) {
	var incoming []domain.Quote
	if err := json.Unmarshal(data, &incoming); err != nil {
		return 0, domain.NewValidationError("payload", "must be a JSON array of quotes")
	}

	for i := range incoming {
		incoming[i].Text = strings.TrimSpace(incoming[i].Text)
		incoming[i].Category = strings.TrimSpace(incoming[i].Category)

		if incoming[i].Text == "" {
			return 0, domain.NewValidationError("text", fmt.Sprintf("entry %d: must not be empty", i))
		}

		if incoming[i].Category == "" {
			incoming[i].Category = domain.DefaultCategory
		}
	}

	now := time.Now().UTC()
	added := 0

	err := t.store.Mutate(ctx, func(merged []domain.Quote) []domain.Quote {
		for _, q := range incoming {
			if containsQuote(merged, q) {
				continue
			}

			// A timestamp the document carries is part of the record;
			// only stamp entries that arrive without one.
			if q.UpdatedAt.IsZero() {
				q.UpdatedAt = now
			}

			if q.Source == "" {
				q.Source = domain.SourceLocal
			}

			merged = append(merged, q)
			added++
		}

		if added == 0 {
			return nil
		}

		return merged
	})
	if err != nil {
		return 0, err
	}

	if added == 0 {
		t.logger.InfoContext(ctx, "import contained no new quotes",
			slog.Int("received", len(incoming)),
		)

		return 0, nil
	}

	t.logger.InfoContext(ctx, "collection imported",
		slog.Int("received", len(incoming)),
		slog.Int("added", added),
	)

	return added, nil
}

// containsQuote reports whether the collection already holds q, keyed
// by ID when both sides have one, otherwise by content.
func containsQuote(quotes []domain.Quote, q domain.Quote) bool {
	for _, existing := range quotes {
		if q.ID != "" && existing.ID != "" {
			if existing.ID == q.ID {
				return true
			}

			continue
		}

		if existing.ContentEquals(q) {
			return true
		}
	}

	return false
}
