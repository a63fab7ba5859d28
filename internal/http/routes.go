package httpx

import (
	"log/slog"
	"net/http"

	"github.com/ecs-refurb/shoptrack/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Lifecycle  *service.LifecycleService
	Reconciler *service.ReconcileService
	Ingest     *service.IngestService
	Poller     *service.PollerService
	// Cache backs the readiness probe. Optional.
	Cache HealthChecker
	// WebhookSecret guards the vendor webhook endpoint. Empty disables the check.
	WebhookSecret string
	Logger        *slog.Logger
}

// NewRouter creates and configures the HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	jobHandlers := &JobHandlers{
		Lifecycle:  services.Lifecycle,
		Reconciler: services.Reconciler,
	}
	submissionHandlers := &SubmissionHandlers{
		Ingest: services.Ingest,
		Poller: services.Poller,
		Logger: services.Logger,
	}

	registerJobRoutes(mux, jobHandlers)
	registerSubmissionRoutes(mux, submissionHandlers, services.WebhookSecret)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /readyz", readyHandler(services.Cache))

	return Logging(services.Logger)(Recover(services.Logger)(mux))
}

func registerJobRoutes(mux *http.ServeMux, h *JobHandlers) {
	mux.HandleFunc("POST /api/jobs", h.CreateJob)
	mux.HandleFunc("GET /api/jobs", h.ListJobs)
	mux.HandleFunc("GET /api/jobs/{id}", h.GetJob)
	mux.HandleFunc("GET /api/jobs/{id}/events", h.ListEvents)
	mux.HandleFunc("GET /api/jobs/{id}/parts", h.ListParts)
	mux.HandleFunc("POST /api/jobs/{id}/parts", h.RegisterPart)
	mux.HandleFunc("GET /api/jobs/{id}/comments", h.ListComments)
	mux.HandleFunc("POST /api/jobs/{id}/comments", h.AddComment)

	mux.HandleFunc("POST /api/jobs/{id}/dispatch/pickup", h.DispatchPickup)
	mux.HandleFunc("POST /api/jobs/{id}/dispatch/delivery", h.DispatchDelivery)

	mux.HandleFunc("POST /api/jobs/{id}/picked-up", h.MarkPickedUp)
	mux.HandleFunc("POST /api/jobs/{id}/check-in", h.CheckInAtShop)
	mux.HandleFunc("POST /api/jobs/{id}/start-service", h.StartService)
	mux.HandleFunc("POST /api/jobs/{id}/complete-service", h.CompleteService)
	mux.HandleFunc("POST /api/jobs/{id}/ready", h.MarkReady)
	mux.HandleFunc("POST /api/jobs/{id}/picked-up-from-shop", h.MarkPickedUpFromShop)
	mux.HandleFunc("POST /api/jobs/{id}/delivered", h.MarkDelivered)
	mux.HandleFunc("POST /api/jobs/{id}/cancel", h.CancelJob)
}

func registerSubmissionRoutes(mux *http.ServeMux, h *SubmissionHandlers, webhookSecret string) {
	mux.Handle("POST /api/webhooks/fieldforms",
		WebhookAuth(webhookSecret)(http.HandlerFunc(h.Webhook)))
	mux.HandleFunc("POST /api/submissions", h.Manual)
	mux.HandleFunc("POST /api/refresh", h.Refresh)
}
