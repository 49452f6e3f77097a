package app

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"

	"quotevault/internal/domain"
	"quotevault/internal/ports"
)

// Catalog derives the category list from the collection, picks random
// quotes within a filter, and remembers the selected filter across
// restarts.
type Catalog struct {
	store       *Store
	persistence ports.QuoteStore
	logger      *slog.Logger

	// intN allows deterministic picks in tests. Defaults to rand.IntN.
	intN func(n int) int
}

// CatalogConfig contains configuration for the catalog service.
type CatalogConfig struct {
	Store       *Store
	Persistence ports.QuoteStore
	Logger      *slog.Logger
}

// NewCatalog creates a new catalog service with the provided dependencies.
func NewCatalog(cfg CatalogConfig) *Catalog {
	return &Catalog{
		store:       cfg.Store,
		persistence: cfg.Persistence,
		logger:      cfg.Logger,
		intN:        rand.IntN,
	}
}

// Categories returns the synthetic all-selector followed by the
// distinct categories present in the collection, sorted alphabetically.
// Categories exist only through their quotes; one that loses its last
// quote disappears from the list.
func (c *Catalog) Categories(ctx context.Context) []string {
	quotes := c.store.List(ctx)

	seen := make(map[string]struct{}, len(quotes))
	categories := make([]string, 1, len(quotes)+1)
	categories[0] = domain.CategoryAll

	for _, q := range quotes {
		if _, ok := seen[q.Category]; ok {
			continue
		}

		seen[q.Category] = struct{}{}
		categories = append(categories, q.Category)
	}

	slices.Sort(categories[1:])

	return categories
}

// Pick returns a uniformly random quote matching category. An empty
// category falls back to the persisted filter. Matching is
// case-insensitive; CategoryAll matches everything. The picked quote
// is recorded as the last shown.
func (c *Catalog) Pick(ctx context.Context, category string) (domain.Quote, error) {
	if category == "" {
		selected, err := c.Selected(ctx)
		if err != nil {
			return domain.Quote{}, err
		}

		category = selected
	}

	candidates := c.filter(ctx, category)
	if len(candidates) == 0 {
		c.logger.InfoContext(ctx, "no quotes available for category",
			slog.String("category", category),
		)

		return domain.Quote{}, domain.ErrNoQuotes
	}

	quote := candidates[c.intN(len(candidates))]
	c.store.RecordShown(quote)

	return quote, nil
}

// Selected returns the persisted category filter. A filter that no
// longer matches any quote degrades to the all-categories filter so a
// stale preference cannot leave the widget permanently empty.
func (c *Catalog) Selected(ctx context.Context) (string, error) {
	selected, err := c.persistence.SelectedCategory(ctx)
	if err != nil {
		return "", err
	}

	if selected == domain.CategoryAll {
		return selected, nil
	}

	if len(c.filter(ctx, selected)) == 0 {
		c.logger.InfoContext(ctx, "selected category no longer present, degrading to all",
			slog.String("category", selected),
		)

		return domain.CategoryAll, nil
	}

	return selected, nil
}

// SetSelected persists the category filter. The filter is stored
// as-is, even when no quote currently matches: a quote in that
// category may arrive later.
func (c *Catalog) SetSelected(ctx context.Context, category string) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return domain.NewValidationError("category", "must not be empty")
	}

	return c.persistence.SaveSelectedCategory(ctx, category)
}

func (c *Catalog) filter(ctx context.Context, category string) []domain.Quote {
	quotes := c.store.List(ctx)

	if strings.EqualFold(category, domain.CategoryAll) {
		return quotes
	}

	var filtered []domain.Quote

	for _, q := range quotes {
		if strings.EqualFold(q.Category, category) {
			filtered = append(filtered, q)
		}
	}

	return filtered
}
