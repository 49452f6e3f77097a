package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQuote_Synced(t *testing.T) {
	assert.False(t, Quote{Text: "a", Category: "b"}.Synced())
	assert.True(t, Quote{ID: "7", Text: "a", Category: "b"}.Synced())
}

func TestQuote_ContentEquals(t *testing.T) {
	base := Quote{ID: "1", Text: "stay hungry", Category: "Motivation"}

	tests := []struct {
		name  string
		other Quote
		want  bool
	}{
		{"identical content different id", Quote{ID: "2", Text: "stay hungry", Category: "Motivation"}, true},
		{"different timestamps ignored", Quote{Text: "stay hungry", Category: "Motivation", UpdatedAt: time.Now()}, true},
		{"text differs", Quote{Text: "stay foolish", Category: "Motivation"}, false},
		{"category differs", Quote{Text: "stay hungry", Category: "Wisdom"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, base.ContentEquals(tt.other))
		})
	}
}

func TestSeedQuotes(t *testing.T) {
	now := time.Now()
	seed := SeedQuotes(now)

	assert.Len(t, seed, 3)

	for _, q := range seed {
		assert.NotEmpty(t, q.Text)
		assert.NotEmpty(t, q.Category)
		assert.Equal(t, SourceLocal, q.Source)
		assert.Equal(t, now, q.UpdatedAt)
		assert.False(t, q.Synced())
	}
}

func TestValidResolution(t *testing.T) {
	assert.True(t, ValidResolution(KeepLocal))
	assert.True(t, ValidResolution(KeepServer))
	assert.False(t, ValidResolution("merge"))
	assert.False(t, ValidResolution(""))
}
