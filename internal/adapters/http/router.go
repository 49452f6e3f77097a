package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"quotevault/internal/adapters/http/handlers"
	"quotevault/internal/adapters/http/middleware"
	"quotevault/internal/platform/config"
	"quotevault/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default deadline for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains the handlers and settings the router wires up.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AppConfig names the service for tracing and metrics.
	AppConfig *config.AppConfig

	// HealthHandler serves the /-/ internal endpoints.
	HealthHandler *handlers.HealthHandler

	// QuoteHandler serves the quote collection endpoints.
	QuoteHandler *handlers.QuoteHandler

	// CatalogHandler serves the category endpoints.
	CatalogHandler *handlers.CatalogHandler

	// TransferHandler serves export and import.
	TransferHandler *handlers.TransferHandler

	// SyncHandler serves the reconciler endpoints.
	SyncHandler *handlers.SyncHandler

	// Timeout is the per-request deadline for /api routes.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware order, first to last:
//  1. Recovery - catch panics before anything else
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - propagate the transaction ID
//  4. Tracing and metrics
//  5. Logging - request logging (skips /-/ endpoints)
//
// Route groups:
//   - /-/ internal: probes, build info, metrics; no request timeout
//   - /api/v1/ public API with a per-request deadline
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.AppConfig.Name),
		telemetry.Middleware(cfg.AppConfig.Name),
		middleware.Logging(cfg.Logger),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutesOnEngine(engine)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	apiV1 := engine.Group("/api/v1")
	apiV1.Use(middleware.Timeout(timeout))

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterRoutes(apiV1)
	}

	if cfg.CatalogHandler != nil {
		cfg.CatalogHandler.RegisterRoutes(apiV1)
	}

	if cfg.TransferHandler != nil {
		cfg.TransferHandler.RegisterRoutes(apiV1)
	}

	if cfg.SyncHandler != nil {
		cfg.SyncHandler.RegisterRoutes(apiV1)
	}
}
