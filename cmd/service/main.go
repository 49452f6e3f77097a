// Package main is the entry point for the service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quotevault/internal/adapters/clients"
	"quotevault/internal/adapters/clients/acl"
	"quotevault/internal/adapters/http"
	"quotevault/internal/adapters/http/handlers"
	"quotevault/internal/adapters/storage/bolt"
	"quotevault/internal/app"
	"quotevault/internal/platform/config"
	"quotevault/internal/platform/logging"
	"quotevault/internal/platform/telemetry"
	"quotevault/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// Load and validate configuration first; fail fast on bad config.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	slog.SetDefault(logger)
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	healthRegistry := ports.NewHealthRegistry()

	// Embedded store for the quote collection and selected category.
	quoteStore, err := bolt.NewStore(bolt.StoreConfig{
		Path:        cfg.Storage.Path,
		OpenTimeout: cfg.Storage.OpenTimeout,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("opening quote store: %w", err)
	}

	defer func() {
		if closeErr := quoteStore.Close(); closeErr != nil {
			logger.Error("closing quote store", slog.Any("error", closeErr))
		}
	}()

	if err := healthRegistry.Register(quoteStore); err != nil {
		return fmt.Errorf("registering store health check: %w", err)
	}

	// HTTP client for the remote collection, with retries and a breaker.
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Sync.BaseURL,
		ServiceName: cfg.App.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	syncClient := acl.NewSyncClient(acl.SyncClientConfig{
		Client: httpClient,
		UserID: cfg.Sync.UserID,
		Logger: logger,
	})

	if err := healthRegistry.Register(syncClient); err != nil {
		return fmt.Errorf("registering sync client health check: %w", err)
	}

	// Application services.
	store := app.NewStore(app.StoreConfig{
		Persistence: quoteStore,
		Logger:      logger,
	})

	if err := store.Load(ctx); err != nil {
		return fmt.Errorf("loading quote collection: %w", err)
	}

	catalog := app.NewCatalog(app.CatalogConfig{
		Store:       store,
		Persistence: quoteStore,
		Logger:      logger,
	})

	transfer := app.NewTransfer(app.TransferConfig{
		Store:  store,
		Logger: logger,
	})

	reconciler := app.NewReconciler(app.ReconcilerConfig{
		Store:           store,
		Remote:          syncClient,
		Logger:          logger,
		FetchLimit:      cfg.Sync.FetchLimit,
		PushConcurrency: cfg.Sync.PushConcurrency,
		Interval:        cfg.Sync.Interval,
		StartupDelay:    cfg.Sync.StartupDelay,
		CycleTimeout:    cfg.Sync.CycleTimeout,
	})

	// Background reconciliation runs until shutdown.
	reconcilerCtx, stopReconciler := context.WithCancel(ctx)
	defer stopReconciler()

	go reconciler.Run(reconcilerCtx)

	// HTTP server and routes.
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)

	server := http.New(&cfg.Server, logger)
	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:          logger,
		AppConfig:       &cfg.App,
		HealthHandler:   handlers.NewHealthHandler(healthRegistry, buildInfo),
		QuoteHandler:    handlers.NewQuoteHandler(store, catalog),
		CatalogHandler:  handlers.NewCatalogHandler(catalog),
		TransferHandler: handlers.NewTransferHandler(transfer),
		SyncHandler:     handlers.NewSyncHandler(reconciler),
		Timeout:         http.DefaultRequestTimeout,
	})

	serverErr := server.Start()

	return waitForShutdown(ctx, logger, server, serverErr, stopReconciler, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal arrives or the server
// fails, then drains in-flight requests and stops the reconciler.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	stopReconciler context.CancelFunc,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// No new sync cycles once shutdown begins.
	stopReconciler()

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
