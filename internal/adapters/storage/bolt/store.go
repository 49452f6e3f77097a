// Package bolt persists the quote collection in an embedded bbolt
// database. The storage model is deliberately simple: one bucket, the
// whole collection serialized as a single JSON value, plus a key for
// the selected-category preference. Every save rewrites the full
// collection.
package bolt

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"go.etcd.io/bbolt"

	"quotevault/internal/domain"
)

const (
	bucketState = "state"

	keyQuotes           = "quotes"
	keySelectedCategory = "selectedCategory"
)

// StoreConfig contains configuration for the bolt store.
type StoreConfig struct {
	// Path is the filesystem location of the database file.
	Path string

	// OpenTimeout bounds how long Open waits for the file lock.
	OpenTimeout time.Duration

	// Logger for storage events. Falls back to slog.Default() if nil.
	Logger *slog.Logger
}

// Store implements ports.QuoteStore on top of bbolt. It also
// implements ports.HealthChecker so readiness reflects the database.
type Store struct {
	db     *bbolt.DB
	logger *slog.Logger
}

// NewStore opens (or creates) the database at cfg.Path and ensures the
// state bucket exists.
func NewStore(cfg StoreConfig) (*Store, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.OpenTimeout
	if timeout <= 0 {
		timeout = time.Second
	}

	db, err := bbolt.Open(cfg.Path, 0o600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, domain.NewStorageError("open", err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketState))

		return err
	}); err != nil {
		_ = db.Close()

		return nil, domain.NewStorageError("init", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadQuotes reads the persisted collection. Missing or unparsable
// state degrades to the seed collection rather than failing: a corrupt
// value should not brick the whole service.
func (s *Store) LoadQuotes(ctx context.Context) ([]domain.Quote, error) {
	var raw []byte

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketState))

		if v := bucket.Get([]byte(keyQuotes)); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}

		return nil
	})
	if err != nil {
		return nil, domain.NewStorageError("load quotes", err)
	}

	if raw == nil {
		s.logger.InfoContext(ctx, "no persisted quotes, using seed collection")

		return domain.SeedQuotes(time.Now().UTC()), nil
	}

	var quotes []domain.Quote
	if err := json.Unmarshal(raw, &quotes); err != nil {
		s.logger.WarnContext(ctx, "persisted quotes unparsable, using seed collection",
			slog.String("error", err.Error()),
		)

		return domain.SeedQuotes(time.Now().UTC()), nil
	}

	return quotes, nil
}

// SaveQuotes overwrites the persisted collection.
func (s *Store) SaveQuotes(ctx context.Context, quotes []domain.Quote) error {
	data, err := json.Marshal(quotes)
	if err != nil {
		return domain.NewStorageError("encode quotes", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketState))

		return bucket.Put([]byte(keyQuotes), data)
	})
	if err != nil {
		return domain.NewStorageError("save quotes", err)
	}

	s.logger.DebugContext(ctx, "quotes persisted", slog.Int("count", len(quotes)))

	return nil
}

// SelectedCategory reads the persisted filter preference, defaulting
// to the all-categories filter when none is stored.
func (s *Store) SelectedCategory(ctx context.Context) (string, error) {
	category := domain.CategoryAll

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketState))

		if v := bucket.Get([]byte(keySelectedCategory)); len(v) > 0 {
			category = string(v)
		}

		return nil
	})
	if err != nil {
		return "", domain.NewStorageError("load selected category", err)
	}

	return category, nil
}

// SaveSelectedCategory persists the filter preference.
func (s *Store) SaveSelectedCategory(ctx context.Context, category string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(bucketState))

		return bucket.Put([]byte(keySelectedCategory), []byte(category))
	})
	if err != nil {
		return domain.NewStorageError("save selected category", err)
	}

	s.logger.DebugContext(ctx, "selected category persisted", slog.String("category", category))

	return nil
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string {
	return "quote-store"
}

// Check implements ports.HealthChecker by opening a read transaction.
func (s *Store) Check(_ context.Context) error {
	return s.db.View(func(*bbolt.Tx) error { return nil })
}
