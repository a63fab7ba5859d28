package httpx

import (
	"log/slog"
	"net/http"

	"github.com/ecs-refurb/shoptrack/internal/domain/model"
	apperrors "github.com/ecs-refurb/shoptrack/internal/errors"
	"github.com/ecs-refurb/shoptrack/internal/service"
)

// SubmissionHandlers provides HTTP handlers for completed-form ingestion.
type SubmissionHandlers struct {
	Ingest *service.IngestService
	Poller *service.PollerService
	Logger *slog.Logger
}

// Webhook receives vendor push notifications for completed forms. The vendor
// retries on non-2xx, so submissions that can never succeed are acknowledged
// and discarded rather than bounced.
func (h *SubmissionHandlers) Webhook(w http.ResponseWriter, r *http.Request) {
	h.ingestPayload(w, r, model.SourceWebhook)
}

// Manual accepts a submission payload pasted or replayed by an operator.
func (h *SubmissionHandlers) Manual(w http.ResponseWriter, r *http.Request) {
	h.ingestPayload(w, r, model.SourceManual)
}

func (h *SubmissionHandlers) ingestPayload(
	w http.ResponseWriter,
	r *http.Request,
	source model.SubmissionSource,
) {
	var sub model.Submission
	if !DecodeJSON(w, r, &sub) {
		return
	}

	if err := h.Ingest.Ingest(r.Context(), &sub, source); err != nil {
		if apperrors.IsUnknownForm(err) || apperrors.IsNotFound(err) {
			h.Logger.Warn("submission discarded",
				"submission_id", sub.SubmissionID, "source", source, "error", err)
			WriteJSON(w, http.StatusAccepted, map[string]string{"status": "discarded"})
			return
		}
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// Refresh triggers an immediate poll sweep across all known forms.
func (h *SubmissionHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.Poller.Sweep(r.Context()); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "swept"})
}
