package app

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotevault/internal/domain"
)

func newTestTransfer(t *testing.T, persistence *fakePersistence) (*Transfer, *Store) {
	t.Helper()

	store := newLoadedStore(t, persistence)
	transfer := NewTransfer(TransferConfig{
		Store:  store,
		Logger: testLogger(),
	})

	return transfer, store
}

func TestTransfer_ExportAll(t *testing.T) {
	transfer, _ := newTestTransfer(t, &fakePersistence{quotes: []domain.Quote{
		{ID: "1", Text: "a", Category: "Wisdom"},
		{Text: "b", Category: "Motivation"},
	}})

	data, err := transfer.ExportAll(context.Background())
	require.NoError(t, err)

	// Indented output, one object per entry.
	assert.Contains(t, string(data), "\n  {")

	var exported []domain.Quote
	require.NoError(t, json.Unmarshal(data, &exported))
	assert.Len(t, exported, 2)
}

func TestTransfer_ImportAll(t *testing.T) {
	transfer, store := newTestTransfer(t, &fakePersistence{quotes: []domain.Quote{
		{Text: "existing", Category: "Wisdom"},
	}})
	ctx := context.Background()

	payload := `[
		{"text": "new one", "category": "Motivation"},
		{"text": "new two", "category": "Life"}
	]`

	added, err := transfer.ImportAll(ctx, []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	quotes := store.List(ctx)
	require.Len(t, quotes, 3)

	for _, q := range quotes[1:] {
		assert.False(t, q.UpdatedAt.IsZero())
		assert.Equal(t, domain.SourceLocal, q.Source)
	}
}

func TestTransfer_ImportAll_MalformedPayload(t *testing.T) {
	transfer, store := newTestTransfer(t, &fakePersistence{})
	ctx := context.Background()

	_, err := transfer.ImportAll(ctx, []byte(`{"not": "an array"}`))
	assert.True(t, domain.IsValidation(err))
	assert.Empty(t, store.List(ctx))
}

func TestTransfer_ImportAll_InvalidEntryRejectsWholePayload(t *testing.T) {
	transfer, store := newTestTransfer(t, &fakePersistence{})
	ctx := context.Background()

	payload := `[
		{"text": "fine", "category": "Wisdom"},
		{"text": "", "category": "Motivation"}
	]`

	_, err := transfer.ImportAll(ctx, []byte(payload))
	assert.True(t, domain.IsValidation(err))

	// Nothing from the payload landed, not even the valid entry.
	assert.Empty(t, store.List(ctx))
}

func TestTransfer_ImportAll_KeepsProvidedTimestamp(t *testing.T) {
	transfer, store := newTestTransfer(t, &fakePersistence{})
	ctx := context.Background()

	payload := `[
		{"text": "dated", "category": "Wisdom", "updatedAt": "2024-03-01T12:00:00Z"},
		{"text": "undated", "category": "Wisdom"}
	]`

	added, err := transfer.ImportAll(ctx, []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	for _, q := range store.List(ctx) {
		switch q.Text {
		case "dated":
			// A timestamp the document carries survives the import.
			assert.Equal(t, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), q.UpdatedAt)
		case "undated":
			assert.False(t, q.UpdatedAt.IsZero())
		}
	}
}

func TestTransfer_ImportAll_BlankCategoryGetsDefault(t *testing.T) {
	transfer, store := newTestTransfer(t, &fakePersistence{})
	ctx := context.Background()

	payload := `[{"text": "uncategorized", "category": "  "}]`

	added, err := transfer.ImportAll(ctx, []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	quotes := store.List(ctx)
	require.Len(t, quotes, 1)
	assert.Equal(t, domain.DefaultCategory, quotes[0].Category)
}

func TestTransfer_ImportAll_DeduplicatesByID(t *testing.T) {
	transfer, store := newTestTransfer(t, &fakePersistence{quotes: []domain.Quote{
		{ID: "7", Text: "original", Category: "Wisdom"},
	}})
	ctx := context.Background()

	payload := `[{"id": "7", "text": "edited elsewhere", "category": "Wisdom"}]`

	added, err := transfer.ImportAll(ctx, []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 0, added)
	assert.Len(t, store.List(ctx), 1)
}

func TestTransfer_ImportAll_DeduplicatesByContent(t *testing.T) {
	transfer, store := newTestTransfer(t, &fakePersistence{quotes: []domain.Quote{
		{Text: "stay hungry", Category: "Motivation"},
	}})
	ctx := context.Background()

	payload := `[
		{"text": "stay hungry", "category": "Motivation"},
		{"text": "stay foolish", "category": "Motivation"}
	]`

	added, err := transfer.ImportAll(ctx, []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Len(t, store.List(ctx), 2)
}

func TestTransfer_RoundTripIsIdempotent(t *testing.T) {
	transfer, store := newTestTransfer(t, &fakePersistence{quotes: []domain.Quote{
		{ID: "1", Text: "a", Category: "Wisdom"},
		{Text: "b", Category: "Motivation"},
	}})
	ctx := context.Background()

	data, err := transfer.ExportAll(ctx)
	require.NoError(t, err)

	added, err := transfer.ImportAll(ctx, data)
	require.NoError(t, err)

	assert.Equal(t, 0, added)
	assert.Len(t, store.List(ctx), 2)
}
