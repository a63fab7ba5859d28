package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ecs-refurb/shoptrack/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger = bootstrap.ConfigureLogger(&cfg)

	logger.InfoContext(ctx, "starting shoptrack service",
		"db_host", cfg.Postgres.Host,
		"db_port", cfg.Postgres.Port,
		"db_name", cfg.Postgres.Name,
		"poller_enabled", cfg.Poller.Enabled,
	)

	db, err := bootstrap.ConnectDB(cfg.Postgres, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close database failed", "error", cerr)
		}
	}()

	cache, cacheCloser, err := bootstrap.ConnectCache(cfg.Redis, logger)
	if err != nil {
		return err
	}
	if cacheCloser != nil {
		defer func() {
			if cerr := cacheCloser.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close cache failed", "error", cerr)
			}
		}()
	}

	if cfg.Postgres.RunMigrationsOnStart {
		if err = bootstrap.RunMigrations(ctx, db, logger); err != nil {
			return err
		}
	} else {
		logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
	}

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config: &cfg,
		DB:     db,
		Cache:  cache,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer closeServices(services, logger)

	server := bootstrap.NewHTTPServer(cfg.HTTP, services, cache, logger)

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(runCtx)

	group.Go(func() error {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if serveErr := server.ListenAndServe(); serveErr != nil &&
			!errors.Is(serveErr, http.ErrServerClosed) {
			return serveErr
		}
		return nil
	})

	if cfg.Poller.Enabled {
		group.Go(func() error {
			if pollErr := services.Poller.Run(groupCtx); pollErr != nil &&
				!errors.Is(pollErr, context.Canceled) {
				return pollErr
			}
			return nil
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		return bootstrap.ShutdownHTTPServer(context.WithoutCancel(groupCtx), server, logger)
	})

	if err = group.Wait(); err != nil {
		return err
	}

	logger.Info("shoptrack service stopped")
	return nil
}

func closeServices(services *bootstrap.ServiceContainer, logger *slog.Logger) {
	if services.Notifier != nil {
		if err := services.Notifier.Close(); err != nil {
			logger.Error("close dispatch notifier failed", "error", err)
		}
	}
	if services.Metrics != nil {
		if err := services.Metrics.Close(); err != nil {
			logger.Error("close metrics client failed", "error", err)
		}
	}
}
