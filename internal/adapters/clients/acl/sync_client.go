// Package acl implements the Anti-Corruption Layer for the remote
// quote resource. The remote speaks a generic post shape (title, body,
// userId); translation to and from the domain quote happens here and
// nowhere else, so a change to the remote API stays contained in this
// package.
package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"quotevault/internal/adapters/clients"
	"quotevault/internal/domain"
	"quotevault/internal/platform/logging"
)

const serviceName = "quote-sync"

// SyncClientConfig contains configuration for the sync client.
type SyncClientConfig struct {
	// Client is the HTTP client to use for requests. Its BaseURL should
	// point at the remote API root.
	Client *clients.Client

	// UserID is the author identifier stamped on pushed posts.
	UserID int

	// Logger is the structured logger.
	Logger *slog.Logger
}

// SyncClient implements ports.RemoteQuotes against a posts-style REST
// endpoint. It also implements ports.HealthChecker.
type SyncClient struct {
	client *clients.Client
	userID int
	logger *slog.Logger
}

// NewSyncClient creates a new sync client adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewSyncClient(cfg SyncClientConfig) *SyncClient {
	if cfg.Client == nil {
		panic("SyncClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SyncClient{
		client: cfg.Client,
		userID: cfg.UserID,
		logger: logger,
	}
}

// post is the external DTO for the remote resource.
// Internal to the ACL; never exposed outside this package.
type post struct {
	ID     int    `json:"id,omitempty"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	UserID int    `json:"userId"`
}

// Push submits a local quote as a create request and returns the
// identifier the remote assigned. Implements ports.RemoteQuotes.
func (c *SyncClient) Push(ctx context.Context, quote domain.Quote) (string, error) {
	const path = "/posts"

	c.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", path))

	payload, err := json.Marshal(post{
		Title:  quote.Category,
		Body:   quote.Text,
		UserID: c.userID,
	})
	if err != nil {
		return "", fmt.Errorf("encoding push payload: %w", err)
	}

	resp, err := c.client.Post(ctx, path, bytes.NewReader(payload))
	if err != nil {
		return "", MapHTTPError(nil, err, serviceName, "push quote")
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Log(ctx, logging.LevelTrace, "request complete",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", MapHTTPError(resp, nil, serviceName, "push quote")
	}

	var created post
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", domain.NewUnavailableError(serviceName, fmt.Sprintf("decoding push response: %v", err))
	}

	if created.ID <= 0 {
		return "", domain.NewUnavailableError(serviceName, "push response carried no identifier")
	}

	return strconv.Itoa(created.ID), nil
}

// Fetch retrieves a bounded snapshot of remote quotes, translated to
// the domain shape. Implements ports.RemoteQuotes.
func (c *SyncClient) Fetch(ctx context.Context, limit int) ([]domain.Quote, error) {
	path := fmt.Sprintf("/posts?_limit=%d", limit)

	c.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", path))

	resp, err := c.client.Get(ctx, path)
	if err != nil {
		return nil, MapHTTPError(nil, err, serviceName, "fetch quotes")
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Log(ctx, logging.LevelTrace, "request complete",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		return nil, MapHTTPError(resp, nil, serviceName, "fetch quotes")
	}

	var external []post
	if err := json.NewDecoder(resp.Body).Decode(&external); err != nil {
		return nil, domain.NewUnavailableError(serviceName, fmt.Sprintf("decoding fetch response: %v", err))
	}

	now := time.Now().UTC()
	quotes := make([]domain.Quote, 0, len(external))

	for _, ext := range external {
		quote, ok := translateToDomain(ext, now)
		if !ok {
			c.logger.DebugContext(ctx, "skipping unusable remote entry",
				slog.Int("remote_id", ext.ID),
			)

			continue
		}

		quotes = append(quotes, quote)
	}

	return quotes, nil
}

// translateToDomain converts the external post to a domain quote. An
// entry without an identifier or body cannot participate in the merge
// and is dropped. A missing title degrades to the default category.
func translateToDomain(ext post, now time.Time) (domain.Quote, bool) {
	text := strings.TrimSpace(ext.Body)
	if ext.ID <= 0 || text == "" {
		return domain.Quote{}, false
	}

	category := strings.TrimSpace(ext.Title)
	if category == "" {
		category = domain.DefaultCategory
	}

	return domain.Quote{
		ID:        strconv.Itoa(ext.ID),
		Text:      text,
		Category:  category,
		UpdatedAt: now,
		Source:    domain.SourceServer,
	}, true
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *SyncClient) Name() string {
	return serviceName
}

// Check verifies connectivity with a minimal fetch.
// Implements ports.HealthChecker.
func (c *SyncClient) Check(ctx context.Context) error {
	resp, err := c.client.Get(ctx, "/posts?_limit=1")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("remote returned status %d", resp.StatusCode)
	}

	return nil
}
