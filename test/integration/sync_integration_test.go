//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotevault/internal/adapters/clients"
	"quotevault/internal/adapters/clients/acl"
	"quotevault/internal/adapters/storage/bolt"
	"quotevault/internal/app"
	"quotevault/internal/domain"
	"quotevault/internal/platform/config"
)

// testClientConfig returns a client config suitable for integration tests.
func testClientConfig(baseURL string) *clients.Config {
	return &clients.Config{
		ServiceName: "quotevault",
		BaseURL:     baseURL,
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     2,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   3,
			Timeout:       100 * time.Millisecond,
			HalfOpenLimit: 2,
		},
		Logger: slog.New(slog.DiscardHandler),
	}
}

// recordingRemote is a stateful mock of the remote /posts resource.
type recordingRemote struct {
	mu     sync.Mutex
	posts  []map[string]any
	nextID int
}

func (r *recordingRemote) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /posts", func(w http.ResponseWriter, _ *http.Request) {
		r.mu.Lock()
		defer r.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(r.posts)
	})

	mux.HandleFunc("POST /posts", func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)

		var created map[string]any
		_ = json.Unmarshal(body, &created)

		r.mu.Lock()
		r.nextID++
		created["id"] = r.nextID
		r.posts = append(r.posts, created)
		r.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(created)
	})

	return mux
}

func newSyncFixture(t *testing.T, remote *recordingRemote) (*app.Store, *app.Reconciler) {
	t.Helper()

	server := httptest.NewServer(remote.handler())
	t.Cleanup(server.Close)

	logger := slog.New(slog.DiscardHandler)

	persistence, err := bolt.NewStore(bolt.StoreConfig{
		Path:   t.TempDir() + "/quotes.db",
		Logger: logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = persistence.Close() })

	httpClient, err := clients.New(testClientConfig(server.URL))
	require.NoError(t, err)

	syncClient := acl.NewSyncClient(acl.SyncClientConfig{
		Client: httpClient,
		UserID: 1,
		Logger: logger,
	})

	store := app.NewStore(app.StoreConfig{Persistence: persistence, Logger: logger})
	require.NoError(t, store.Load(context.Background()))

	reconciler := app.NewReconciler(app.ReconcilerConfig{
		Store:      store,
		Remote:     syncClient,
		Logger:     logger,
		FetchLimit: 10,
	})

	return store, reconciler
}

// TestSyncCycle_Integration drives a full push/fetch/merge cycle through
// the real client, ACL, and bolt persistence against a mock remote.
func TestSyncCycle_Integration(t *testing.T) {
	remote := &recordingRemote{
		posts: []map[string]any{
			{"id": 1, "title": "Server", "body": "Remote truth.", "userId": 1},
		},
		nextID: 100,
	}

	store, reconciler := newSyncFixture(t, remote)

	// The seed collection starts local-only.
	before := store.List(context.Background())
	for _, q := range before {
		require.False(t, q.Synced())
	}

	status, err := reconciler.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, app.SyncStateDone, status.State)
	assert.Equal(t, len(before), status.Pushed)
	assert.Equal(t, 1, status.Added, "the remote post joined the collection")

	// Every local quote now carries a remote-assigned ID.
	after := store.List(context.Background())
	assert.Len(t, after, len(before)+1)

	for _, q := range after {
		assert.True(t, q.Synced(), "quote %q should be synced", q.Text)
	}

	// The remote received one post per pushed quote.
	remote.mu.Lock()
	assert.Len(t, remote.posts, 1+len(before))
	remote.mu.Unlock()
}

// TestSyncConflict_Integration verifies server-wins merging plus manual
// resolution end to end.
func TestSyncConflict_Integration(t *testing.T) {
	remote := &recordingRemote{nextID: 100}
	store, reconciler := newSyncFixture(t, remote)

	// First cycle assigns IDs to the seed quotes.
	_, err := reconciler.Sync(context.Background())
	require.NoError(t, err)

	synced := store.List(context.Background())
	target := synced[0]

	// The server copy of that quote diverges.
	id, err := strconv.Atoi(target.ID)
	require.NoError(t, err)

	remote.mu.Lock()
	remote.posts = []map[string]any{
		{"id": id, "title": target.Category, "body": "Rewritten upstream.", "userId": 1},
	}
	remote.mu.Unlock()

	status, err := reconciler.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, status.Overwritten)
	assert.Equal(t, 1, status.Conflicts)

	conflicts := reconciler.Conflicts()
	require.Len(t, conflicts, 1)
	assert.Equal(t, target.Text, conflicts[0].Local.Text)
	assert.Equal(t, "Rewritten upstream.", conflicts[0].Server.Text)

	// Server-wins already applied.
	current := findQuote(t, store, target.ID)
	assert.Equal(t, "Rewritten upstream.", current.Text)

	// Restoring the local copy brings the old text back.
	require.NoError(t, reconciler.Resolve(context.Background(), target.ID, domain.KeepLocal))

	restored := findQuote(t, store, target.ID)
	assert.Equal(t, target.Text, restored.Text)
	assert.Empty(t, reconciler.Conflicts())
}

func findQuote(t *testing.T, store *app.Store, id string) domain.Quote {
	t.Helper()

	for _, q := range store.List(context.Background()) {
		if q.ID == id {
			return q
		}
	}

	t.Fatalf("quote %s not found", id)

	return domain.Quote{}
}
