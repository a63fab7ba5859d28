package service

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ecs-refurb/shoptrack/internal/core"
	"github.com/ecs-refurb/shoptrack/internal/domain/model"
	"github.com/ecs-refurb/shoptrack/internal/fieldforms"
)

// PollerConfig tunes the background submission sweep.
type PollerConfig struct {
	// Interval between sweep cycles.
	Interval time.Duration
	// Window is the sliding listing window of every cycle. It must exceed
	// the dedup ledger TTL so a submission whose processing failed becomes
	// retryable once its claim expires.
	Window time.Duration
	// StartupWindow widens the first cycle to cover submissions that
	// arrived while the service was down.
	StartupWindow time.Duration
}

// DefaultPollerConfig returns the production polling cadence.
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		Interval:      30 * time.Second,
		Window:        2 * dedupTTL,
		StartupWindow: 24 * time.Hour,
	}
}

// PollerServiceOptions groups dependencies for PollerService.
type PollerServiceOptions struct {
	Ingest *IngestService
	Vendor core.VendorClient
	Forms  *fieldforms.Registry
	Config PollerConfig
	Logger *slog.Logger
}

// PollerService is the safety net behind the webhook: it sweeps every known
// form build for recent submissions on a fixed interval and feeds them
// through the same ingestion path. The window slides rather than advancing a
// cursor, so already processed submissions are re-listed every cycle and
// bounce off the dedup ledger, while a submission whose processing failed is
// retried once its claim expires. Cycles never overlap; a sweep still in
// flight when the ticker fires causes that cycle to be skipped.
type PollerService struct {
	ingest *IngestService
	vendor core.VendorClient
	forms  *fieldforms.Registry
	config PollerConfig
	logger *slog.Logger

	running atomic.Bool
	swept   atomic.Bool
}

// NewPollerService constructs a new PollerService.
func NewPollerService(opts PollerServiceOptions) *PollerService {
	if opts.Ingest == nil {
		panic("IngestService is required")
	}
	if opts.Vendor == nil {
		panic("VendorClient is required")
	}
	if opts.Forms == nil {
		panic("Registry is required")
	}

	cfg := opts.Config
	def := DefaultPollerConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.StartupWindow <= 0 {
		cfg.StartupWindow = def.StartupWindow
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &PollerService{
		ingest: opts.Ingest,
		vendor: opts.Vendor,
		forms:  opts.Forms,
		config: cfg,
		logger: logger,
	}
}

// Run starts the polling loop and blocks until the context is cancelled.
func (s *PollerService) Run(ctx context.Context) error {
	s.logger.Info("submission poller starting",
		"interval", s.config.Interval, "forms", len(s.forms.AllFormIDs()))

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	if err := s.Sweep(ctx); err != nil {
		s.logger.Error("initial sweep failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("submission poller stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
				s.logger.Error("sweep failed", "error", err)
			}
		}
	}
}

// Sweep runs one poll cycle across every registered form build. Returns
// immediately without work if a previous cycle is still running.
func (s *PollerService) Sweep(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("previous sweep still running, skipping cycle")
		return nil
	}
	defer s.running.Store(false)

	window := s.config.Window
	if s.swept.CompareAndSwap(false, true) {
		window = s.config.StartupWindow
	}
	since := time.Now().UTC().Add(-window)

	var firstErr error
	for _, formID := range s.forms.AllFormIDs() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.sweepForm(ctx, formID, since); err != nil {
			s.logger.Error("form sweep failed", "form_id", formID, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// sweepForm pulls one form's submissions within the window and ingests each.
func (s *PollerService) sweepForm(ctx context.Context, formID string, since time.Time) error {
	subs, err := s.vendor.ListRecentSubmissions(ctx, formID, since)
	if err != nil {
		return err
	}

	for i := range subs {
		sub := subs[i]
		if err := s.ingest.Ingest(ctx, &sub, model.SourcePoll); err != nil {
			// Ingest already logged and counted; duplicates return nil, so
			// anything here is a real processing failure that retries once
			// its claim expires.
			continue
		}
	}
	return nil
}
