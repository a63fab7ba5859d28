package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ecs-refurb/shoptrack/config"
	"github.com/ecs-refurb/shoptrack/internal/core"
	httpx "github.com/ecs-refurb/shoptrack/internal/http"
)

// NewHTTPServer builds the HTTP server around the API router.
func NewHTTPServer(
	cfg config.HTTPConfig,
	services *ServiceContainer,
	cache core.CacheRepository,
	logger *slog.Logger,
) *http.Server {
	handler := httpx.NewRouter(httpx.RouterServices{
		Lifecycle:     services.Lifecycle,
		Reconciler:    services.Reconciler,
		Ingest:        services.Ingest,
		Poller:        services.Poller,
		Cache:         cache,
		WebhookSecret: cfg.WebhookSecret,
		Logger:        logger,
	})

	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}

	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}
	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
