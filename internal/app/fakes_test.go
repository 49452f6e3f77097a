package app

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"quotevault/internal/domain"
)

// fakePersistence is an in-memory ports.QuoteStore for tests.
type fakePersistence struct {
	mu        sync.Mutex
	quotes    []domain.Quote
	selected  string
	loadErr   error
	saveErr   error
	saveCalls int
}

func (f *fakePersistence) LoadQuotes(_ context.Context) ([]domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loadErr != nil {
		return nil, f.loadErr
	}

	quotes := make([]domain.Quote, len(f.quotes))
	copy(quotes, f.quotes)

	return quotes, nil
}

func (f *fakePersistence) SaveQuotes(_ context.Context, quotes []domain.Quote) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.saveErr != nil {
		return f.saveErr
	}

	f.quotes = make([]domain.Quote, len(quotes))
	copy(f.quotes, quotes)
	f.saveCalls++

	return nil
}

func (f *fakePersistence) SelectedCategory(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.selected == "" {
		return domain.CategoryAll, nil
	}

	return f.selected, nil
}

func (f *fakePersistence) SaveSelectedCategory(_ context.Context, category string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.selected = category

	return nil
}

// fakeRemote is an in-memory ports.RemoteQuotes for tests.
type fakeRemote struct {
	mu          sync.Mutex
	pushed      []domain.Quote
	pushErr     error
	fetchQuotes []domain.Quote
	fetchErr    error

	// fetchStarted/fetchRelease, when set, let a test hold a cycle
	// open inside the fetch phase. pushStarted/pushRelease do the same
	// for the push phase.
	fetchStarted chan struct{}
	fetchRelease chan struct{}
	pushStarted  chan struct{}
	pushRelease  chan struct{}
}

func (f *fakeRemote) Push(_ context.Context, quote domain.Quote) (string, error) {
	if f.pushStarted != nil {
		f.pushStarted <- struct{}{}
		<-f.pushRelease
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.pushErr != nil {
		return "", f.pushErr
	}

	f.pushed = append(f.pushed, quote)

	return strconv.Itoa(100 + len(f.pushed)), nil
}

func (f *fakeRemote) Fetch(_ context.Context, _ int) ([]domain.Quote, error) {
	if f.fetchStarted != nil {
		f.fetchStarted <- struct{}{}
		<-f.fetchRelease
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fetchErr != nil {
		return nil, f.fetchErr
	}

	quotes := make([]domain.Quote, len(f.fetchQuotes))
	copy(quotes, f.fetchQuotes)

	return quotes, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newLoadedStore(t *testing.T, persistence *fakePersistence) *Store {
	t.Helper()

	store := NewStore(StoreConfig{
		Persistence: persistence,
		Logger:      testLogger(),
	})

	require.NoError(t, store.Load(context.Background()))

	return store
}
