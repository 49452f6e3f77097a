package handlers

import (
	"context"
	"log/slog"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"quotevault/internal/app"
	"quotevault/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakePersistence is an in-memory ports.QuoteStore for handler tests.
type fakePersistence struct {
	quotes   []domain.Quote
	selected string
	saveErr  error
}

func (f *fakePersistence) LoadQuotes(_ context.Context) ([]domain.Quote, error) {
	if f.quotes == nil {
		return domain.SeedQuotes(time.Now().UTC()), nil
	}

	return f.quotes, nil
}

func (f *fakePersistence) SaveQuotes(_ context.Context, quotes []domain.Quote) error {
	if f.saveErr != nil {
		return f.saveErr
	}

	f.quotes = quotes

	return nil
}

func (f *fakePersistence) SelectedCategory(_ context.Context) (string, error) {
	if f.selected == "" {
		return domain.CategoryAll, nil
	}

	return f.selected, nil
}

func (f *fakePersistence) SaveSelectedCategory(_ context.Context, category string) error {
	f.selected = category
	return nil
}

// fakeRemote is a canned ports.RemoteQuotes for sync handler tests.
type fakeRemote struct {
	pushErr     error
	fetchQuotes []domain.Quote
	fetchErr    error
	nextID      int
}

func (f *fakeRemote) Push(_ context.Context, _ domain.Quote) (string, error) {
	if f.pushErr != nil {
		return "", f.pushErr
	}

	f.nextID++

	return strconv.Itoa(100 + f.nextID), nil
}

func (f *fakeRemote) Fetch(_ context.Context, _ int) ([]domain.Quote, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}

	return f.fetchQuotes, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fixture bundles the app services and a router for handler tests.
type fixture struct {
	persistence *fakePersistence
	remote      *fakeRemote
	store       *app.Store
	catalog     *app.Catalog
	transfer    *app.Transfer
	reconciler  *app.Reconciler
	router      *gin.Engine
}

func newFixture(t *testing.T, quotes []domain.Quote) *fixture {
	t.Helper()

	persistence := &fakePersistence{quotes: quotes}
	remote := &fakeRemote{}

	store := app.NewStore(app.StoreConfig{
		Persistence: persistence,
		Logger:      testLogger(),
	})
	require.NoError(t, store.Load(context.Background()))

	catalog := app.NewCatalog(app.CatalogConfig{
		Store:       store,
		Persistence: persistence,
		Logger:      testLogger(),
	})

	transfer := app.NewTransfer(app.TransferConfig{
		Store:  store,
		Logger: testLogger(),
	})

	reconciler := app.NewReconciler(app.ReconcilerConfig{
		Store:      store,
		Remote:     remote,
		Logger:     testLogger(),
		FetchLimit: 10,
	})

	router := gin.New()
	api := router.Group("/api/v1")

	NewQuoteHandler(store, catalog).RegisterRoutes(api)
	NewCatalogHandler(catalog).RegisterRoutes(api)
	NewTransferHandler(transfer).RegisterRoutes(api)
	NewSyncHandler(reconciler).RegisterRoutes(api)

	return &fixture{
		persistence: persistence,
		remote:      remote,
		store:       store,
		catalog:     catalog,
		transfer:    transfer,
		reconciler:  reconciler,
		router:      router,
	}
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	return w
}

// quote builds a test quote.
func quote(id, text, category, source string) domain.Quote {
	return domain.Quote{
		ID:        id,
		Text:      text,
		Category:  category,
		UpdatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Source:    source,
	}
}
