package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/ecs-refurb/shoptrack/config"
	"github.com/ecs-refurb/shoptrack/internal/core"
	"github.com/ecs-refurb/shoptrack/internal/data"
	"github.com/ecs-refurb/shoptrack/internal/fieldforms"
	"github.com/ecs-refurb/shoptrack/internal/notify"
	"github.com/ecs-refurb/shoptrack/internal/observability/statsd"
	"github.com/ecs-refurb/shoptrack/internal/service"
)

// ServiceDeps holds the infrastructure dependencies for service construction.
type ServiceDeps struct {
	Config *config.AppConfig
	DB     *sql.DB
	Cache  core.CacheRepository
	Logger *slog.Logger
}

// ServiceContainer holds all constructed services.
type ServiceContainer struct {
	Lifecycle  *service.LifecycleService
	Reconciler *service.ReconcileService
	Ingest     *service.IngestService
	Poller     *service.PollerService

	// Notifier is retained for shutdown. Nil when notifications are disabled.
	Notifier *notify.AMQPNotifier
	// Metrics is retained for shutdown. Nil when metrics are disabled.
	Metrics *statsd.Client
}

// NewServices wires repositories, the vendor client, and services.
func NewServices(deps *ServiceDeps) (*ServiceContainer, error) {
	cfg := deps.Config
	logger := deps.Logger

	registry := fieldforms.DefaultRegistry()
	dict := fieldforms.NewDictionary(registry)

	vendor, err := fieldforms.NewClient(fieldforms.ClientConfig{
		BaseURL:         cfg.Vendor.BaseURL,
		APIKey:          cfg.Vendor.APIKey,
		Timeout:         cfg.Vendor.Timeout,
		DispatchIDPath:  cfg.Vendor.DispatchIDPath,
		DisplayNamePath: cfg.Vendor.DisplayNamePath,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build vendor client: %w", err)
	}

	container := &ServiceContainer{}

	sink, metricsClient, err := buildSink(cfg, logger)
	if err != nil {
		return nil, err
	}
	container.Metrics = metricsClient

	notifier, amqpNotifier, err := buildNotifier(cfg, logger)
	if err != nil {
		return nil, err
	}
	container.Notifier = amqpNotifier

	jobRepo := data.NewJobRepo(deps.DB)
	eventRepo := data.NewJobEventRepo(deps.DB)
	partRepo := data.NewJobPartRepo(deps.DB)
	commentRepo := data.NewJobCommentRepo(deps.DB)

	container.Lifecycle = service.NewLifecycleService(service.LifecycleServiceOptions{
		Repos: service.LifecycleRepos{
			Jobs:     jobRepo,
			Events:   eventRepo,
			Comments: commentRepo,
		},
		Deps: service.LifecycleDeps{
			Vendor:   vendor,
			Forms:    registry,
			Dict:     dict,
			Notifier: notifier,
			Sink:     sink,
		},
		Logger: logger,
	})

	container.Reconciler = service.NewReconcileService(service.ReconcileServiceOptions{
		Parts:  partRepo,
		Dict:   dict,
		Forms:  registry,
		Logger: logger,
	})

	container.Ingest = service.NewIngestService(service.IngestServiceOptions{
		Lifecycle:  container.Lifecycle,
		Reconciler: container.Reconciler,
		Deps: service.IngestDeps{
			Cache: deps.Cache,
			Forms: registry,
			Dict:  dict,
			Names: data.NewCachedNameResolver(vendor, deps.Cache),
			Sink:  sink,
		},
		Logger: logger,
	})

	container.Poller = service.NewPollerService(service.PollerServiceOptions{
		Ingest: container.Ingest,
		Vendor: vendor,
		Forms:  registry,
		Config: service.PollerConfig{
			Interval:      cfg.Poller.Interval,
			Window:        cfg.Poller.Window,
			StartupWindow: cfg.Poller.StartupWindow,
		},
		Logger: logger,
	})

	return container, nil
}

func buildSink(cfg *config.AppConfig, logger *slog.Logger) (statsd.Sink, *statsd.Client, error) {
	if !cfg.Observability.Metrics.IsEnabled() {
		return nil, nil, nil
	}
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.Observability.Metrics.StatsdAddress,
		Prefix:  cfg.Observability.Metrics.StatsdPrefix,
		Logger:  logger,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("build statsd client: %w", err)
	}
	logger.Info("metrics enabled", "statsd_address", cfg.Observability.Metrics.StatsdAddress)
	return client, client, nil
}

func buildNotifier(
	cfg *config.AppConfig,
	logger *slog.Logger,
) (core.DispatchNotifier, *notify.AMQPNotifier, error) {
	if !cfg.Notify.Enabled {
		return notify.NoopNotifier{}, nil, nil
	}
	amqpCfg := notify.DefaultConfig(cfg.Notify.AMQPURL)
	amqpCfg.Exchange = cfg.Notify.Exchange
	notifier, err := notify.NewAMQPNotifier(amqpCfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("build dispatch notifier: %w", err)
	}
	logger.Info("dispatch notifications enabled", "exchange", cfg.Notify.Exchange)
	return notifier, notifier, nil
}
