package httpx

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ecs-refurb/shoptrack/internal/domain/model"
	"github.com/ecs-refurb/shoptrack/internal/service"
)

// JobHandlers provides HTTP handlers for job lifecycle operations.
type JobHandlers struct {
	Lifecycle  *service.LifecycleService
	Reconciler *service.ReconcileService
}

// CreateJob handles HTTP requests to create a new job.
func (h *JobHandlers) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req model.CreateJobRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	job, err := h.Lifecycle.CreateJob(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, job)
}

// GetJob handles HTTP requests to fetch a job by id.
func (h *JobHandlers) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.Lifecycle.GetJob(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// ListJobs handles HTTP requests to list jobs with optional filters.
func (h *JobHandlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	opts := model.JobListOptions{
		ShopName: strings.TrimSpace(r.URL.Query().Get("shop")),
		Limit:    parseIntQuery(r, "limit", 50),
		Offset:   parseIntQuery(r, "offset", 0),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("state")); raw != "" {
		state := model.JobState(raw)
		if !state.Valid() {
			WriteError(w, ErrorParams{
				Code:    http.StatusBadRequest,
				ErrCode: "invalid_state_filter",
				Err:     fmt.Errorf("unknown job state %q", raw),
			})
			return
		}
		opts.State = &state
	}

	jobs, err := h.Lifecycle.ListJobs(r.Context(), opts)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, jobs)
}

// ListEvents handles HTTP requests for a job's event log.
func (h *JobHandlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Lifecycle.JobEvents(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, events)
}

// ListParts handles HTTP requests for a job's parts.
func (h *JobHandlers) ListParts(w http.ResponseWriter, r *http.Request) {
	jobParts, err := h.Reconciler.PartsForJob(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, jobParts)
}

// registerPartRequest is the body of POST /api/jobs/{id}/parts.
type registerPartRequest struct {
	SerialNumber     string  `json:"serial_number"`
	PartName         *string `json:"part_name,omitempty"`
	Process          *string `json:"process,omitempty"`
	FilterPartNumber *string `json:"filter_part_number,omitempty"`
	PONumber         *string `json:"po_number,omitempty"`
	Mileage          *string `json:"mileage,omitempty"`
	VIN              *string `json:"vin,omitempty"`
	HasGasket        *bool   `json:"has_gasket,omitempty"`
	HasClamps        *bool   `json:"has_clamps,omitempty"`
}

// RegisterPart handles CSR pre-registration of a part.
func (h *JobHandlers) RegisterPart(w http.ResponseWriter, r *http.Request) {
	var req registerPartRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	part, err := h.Reconciler.RegisterPart(r.Context(), &model.CreateJobPartRequest{
		JobID:        r.PathValue("id"),
		SerialNumber: req.SerialNumber,
		Fields: model.JobPartFields{
			PartName:         req.PartName,
			Process:          req.Process,
			FilterPartNumber: req.FilterPartNumber,
			PONumber:         req.PONumber,
			Mileage:          req.Mileage,
			VIN:              req.VIN,
			HasGasket:        req.HasGasket,
			HasClamps:        req.HasClamps,
		},
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, part)
}

// ListComments handles HTTP requests for a job's comments.
func (h *JobHandlers) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.Lifecycle.JobComments(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, comments)
}

// addCommentRequest is the body of POST /api/jobs/{id}/comments.
type addCommentRequest struct {
	Body       string `json:"body"`
	AuthorName string `json:"author_name,omitempty"`
}

// AddComment attaches a CSR comment to a job.
func (h *JobHandlers) AddComment(w http.ResponseWriter, r *http.Request) {
	var req addCommentRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	comment, err := h.Lifecycle.AddComment(r.Context(), &model.CreateJobCommentRequest{
		JobID:      r.PathValue("id"),
		Body:       req.Body,
		AuthorName: req.AuthorName,
		AuthorRole: model.ActorCSR,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, comment)
}

// dispatchRequest is the body of the dispatch endpoints.
type dispatchRequest struct {
	DriverEmail  string   `json:"driver_email"`
	Address      string   `json:"address,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	OrderNumbers []string `json:"order_numbers,omitempty"`
}

// DispatchPickup assigns the pickup form to a driver.
func (h *JobHandlers) DispatchPickup(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	job, err := h.Lifecycle.DispatchPickup(
		r.Context(), r.PathValue("id"), req.DriverEmail, req.Notes,
	)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// DispatchDelivery assigns the delivery form to a driver.
func (h *JobHandlers) DispatchDelivery(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	job, err := h.Lifecycle.DispatchDelivery(
		r.Context(), r.PathValue("id"),
		req.DriverEmail, req.Address, req.Notes, req.OrderNumbers,
	)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// actionRequest is the shared body of the lifecycle action endpoints.
type actionRequest struct {
	ItemCount      *int    `json:"item_count,omitempty"`
	TechnicianName *string `json:"technician_name,omitempty"`
	DeliveryMethod *string `json:"delivery_method,omitempty"`
	Reason         string  `json:"reason,omitempty"`
}

func decodeAction(w http.ResponseWriter, r *http.Request) (*actionRequest, bool) {
	var req actionRequest
	if r.ContentLength == 0 {
		return &req, true
	}
	if !DecodeJSON(w, r, &req) {
		return nil, false
	}
	return &req, true
}

// MarkPickedUp records the driver pickup.
func (h *JobHandlers) MarkPickedUp(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAction(w, r)
	if !ok {
		return
	}
	job, err := h.Lifecycle.MarkPickedUp(
		r.Context(), r.PathValue("id"), req.ItemCount,
		service.TransitionOptions{Actor: model.ActorCSR},
	)
	h.writeJobResult(w, job, err)
}

// CheckInAtShop records the shop check-in.
func (h *JobHandlers) CheckInAtShop(w http.ResponseWriter, r *http.Request) {
	if _, ok := decodeAction(w, r); !ok {
		return
	}
	job, err := h.Lifecycle.CheckInAtShop(
		r.Context(), r.PathValue("id"),
		service.TransitionOptions{Actor: model.ActorCSR},
	)
	h.writeJobResult(w, job, err)
}

// StartService records the technician starting work.
func (h *JobHandlers) StartService(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAction(w, r)
	if !ok {
		return
	}
	job, err := h.Lifecycle.StartService(
		r.Context(), r.PathValue("id"), req.TechnicianName,
		service.TransitionOptions{Actor: model.ActorCSR},
	)
	h.writeJobResult(w, job, err)
}

// CompleteService records shop work finishing.
func (h *JobHandlers) CompleteService(w http.ResponseWriter, r *http.Request) {
	if _, ok := decodeAction(w, r); !ok {
		return
	}
	job, err := h.Lifecycle.CompleteService(
		r.Context(), r.PathValue("id"),
		service.TransitionOptions{Actor: model.ActorCSR},
	)
	h.writeJobResult(w, job, err)
}

// MarkReady stages the unit for customer pickup at the shop.
func (h *JobHandlers) MarkReady(w http.ResponseWriter, r *http.Request) {
	if _, ok := decodeAction(w, r); !ok {
		return
	}
	job, err := h.Lifecycle.MarkReady(
		r.Context(), r.PathValue("id"),
		service.TransitionOptions{Actor: model.ActorCSR},
	)
	h.writeJobResult(w, job, err)
}

// MarkPickedUpFromShop records the customer collecting the unit.
func (h *JobHandlers) MarkPickedUpFromShop(w http.ResponseWriter, r *http.Request) {
	if _, ok := decodeAction(w, r); !ok {
		return
	}
	job, err := h.Lifecycle.MarkPickedUpFromShop(
		r.Context(), r.PathValue("id"),
		service.TransitionOptions{Actor: model.ActorCSR},
	)
	h.writeJobResult(w, job, err)
}

// MarkDelivered records the unit delivered back to the customer.
func (h *JobHandlers) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAction(w, r)
	if !ok {
		return
	}
	job, err := h.Lifecycle.MarkDelivered(
		r.Context(), r.PathValue("id"), req.DeliveryMethod,
		service.TransitionOptions{Actor: model.ActorCSR},
	)
	h.writeJobResult(w, job, err)
}

// CancelJob cancels a job, recording the reason.
func (h *JobHandlers) CancelJob(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeAction(w, r)
	if !ok {
		return
	}
	job, err := h.Lifecycle.CancelJob(
		r.Context(), r.PathValue("id"), req.Reason,
		service.TransitionOptions{Actor: model.ActorCSR},
	)
	h.writeJobResult(w, job, err)
}

func (h *JobHandlers) writeJobResult(w http.ResponseWriter, job *model.Job, err error) {
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, job)
}

// parseIntQuery parses an integer query parameter, falling back to def.
func parseIntQuery(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
