// Package service contains the business logic orchestrating jobs, vendor
// dispatches, submission ingestion, and parts reconciliation. Services depend
// on the port interfaces in internal/core, never on concrete repositories.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	apperrors "github.com/ecs-refurb/shoptrack/internal/errors"

	"github.com/ecs-refurb/shoptrack/internal/core"
	"github.com/ecs-refurb/shoptrack/internal/domain/model"
	"github.com/ecs-refurb/shoptrack/internal/fieldforms"
	"github.com/ecs-refurb/shoptrack/internal/observability/metrics"
	"github.com/ecs-refurb/shoptrack/internal/observability/statsd"
)

// LifecycleRepos groups the repositories LifecycleService writes through.
type LifecycleRepos struct {
	Jobs     core.JobRepository
	Events   core.JobEventRepository
	Comments core.JobCommentRepository
}

// LifecycleDeps groups the outbound collaborators of LifecycleService.
// Vendor and Forms are required for dispatch operations; Notifier and Sink
// are optional.
type LifecycleDeps struct {
	Vendor   core.VendorClient
	Forms    *fieldforms.Registry
	Dict     *fieldforms.Dictionary
	Notifier core.DispatchNotifier
	Sink     statsd.Sink
	// Now overrides the wall clock, useful for tests. Nil means time.Now.
	Now func() time.Time
}

// LifecycleServiceOptions groups dependencies for LifecycleService.
type LifecycleServiceOptions struct {
	Repos  LifecycleRepos
	Deps   LifecycleDeps
	Logger *slog.Logger
}

// LifecycleService owns the job state machine. All state mutations flow
// through Transition, which serializes updates per job, enforces the allowed
// transition set, stamps per-state timestamps exactly once, and appends
// exactly one state_change event per transition.
type LifecycleService struct {
	jobs     core.JobRepository
	events   core.JobEventRepository
	comments core.JobCommentRepository
	vendor   core.VendorClient
	forms    *fieldforms.Registry
	dict     *fieldforms.Dictionary
	notifier core.DispatchNotifier
	sink     statsd.Sink
	logger   *slog.Logger
	now      func() time.Time

	// locks serializes transitions per job id.
	locks sync.Map
}

// NewLifecycleService constructs a new LifecycleService.
func NewLifecycleService(opts LifecycleServiceOptions) *LifecycleService {
	if opts.Repos.Jobs == nil {
		panic("JobRepository is required")
	}
	if opts.Repos.Events == nil {
		panic("JobEventRepository is required")
	}

	now := opts.Deps.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &LifecycleService{
		jobs:     opts.Repos.Jobs,
		events:   opts.Repos.Events,
		comments: opts.Repos.Comments,
		vendor:   opts.Deps.Vendor,
		forms:    opts.Deps.Forms,
		dict:     opts.Deps.Dict,
		notifier: opts.Deps.Notifier,
		sink:     opts.Deps.Sink,
		logger:   logger,
		now:      now,
	}
}

// lockJob acquires the per-job mutex and returns its unlock func.
func (s *LifecycleService) lockJob(jobID string) func() {
	v, _ := s.locks.LoadOrStore(jobID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// TransitionOptions carries the optional inputs of a state transition.
type TransitionOptions struct {
	// OccurredAt backdates the transition to the vendor-reported event
	// time. Zero means "now". A value earlier than the previous state's
	// stamped timestamp is clamped to that timestamp with a warning.
	OccurredAt time.Time
	Actor      model.ActorRole
	ActorID    *string
	// Description overrides the default event description.
	Description string
	// Fields folds descriptive field updates into the same write as the
	// state change.
	Fields *model.JobUpdate
}

// Transition moves a job to target, enforcing the allowed-transition set.
// Returns the updated job; fails with NotFound when the id does not resolve
// and InvalidTransition, naming the allowed set, when the move is illegal.
func (s *LifecycleService) Transition(
	ctx context.Context,
	jobID string,
	target model.JobState,
	opts TransitionOptions,
) (*model.Job, error) {
	unlock := s.lockJob(jobID)
	defer unlock()

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return s.transitionLocked(ctx, job, target, opts)
}

// transitionLocked performs the transition with the per-job lock already
// held. Callers chaining transitions (direct check-in) reuse the lock across
// both steps.
func (s *LifecycleService) transitionLocked(
	ctx context.Context,
	job *model.Job,
	target model.JobState,
	opts TransitionOptions,
) (*model.Job, error) {
	from := job.State
	if !from.CanTransitionTo(target) {
		err := apperrors.InvalidTransition(string(from), string(target), from.AllowedNextNames())
		metrics.EmitTransition(s.sink, metrics.TransitionMetric{
			From: string(from), To: string(target),
			Result: metrics.ResultError, Err: err,
		})
		return nil, err
	}

	occurred := opts.OccurredAt.UTC()
	if opts.OccurredAt.IsZero() {
		occurred = s.now().UTC()
	} else if prev := job.StateTimestamp(from); prev != nil && occurred.Before(*prev) {
		// A vendor-reported time may legitimately predate our observation
		// of it, but never the previous state's stamp.
		s.logger.Warn("backdated transition precedes previous state, clamping",
			"job_id", job.ID,
			"from", from,
			"to", target,
			"supplied", occurred,
			"previous", *prev,
		)
		occurred = *prev
	}

	upd := &model.JobUpdate{
		ExpectedState: &from,
		State:         &target,
	}
	// Per-state timestamps are first-write-wins; re-entry via an
	// equivalent path must not move an already-stamped time.
	if job.StateTimestamp(target) == nil {
		upd.StateTimestamps = map[model.JobState]time.Time{target: occurred}
	}
	if target.CompletionDefining() && job.CompletionMode == nil {
		mode := model.CompletionModeShopPickup
		if target == model.StateDelivered {
			mode = model.CompletionModeDelivered
		}
		ts := occurred
		upd.CompletionMode = &mode
		upd.CompletedAt = &ts
	}
	foldFieldUpdates(upd, opts.Fields)

	updated, err := s.jobs.Update(ctx, job.ID, upd)
	if err != nil {
		metrics.EmitTransition(s.sink, metrics.TransitionMetric{
			From: string(from), To: string(target),
			Result: metrics.ResultError, Err: err,
		})
		return nil, err
	}

	actor := opts.Actor
	if actor == "" {
		actor = model.ActorSystem
	}
	description := opts.Description
	if description == "" {
		description = fmt.Sprintf("state changed from %s to %s", from, target)
	}
	meta, _ := json.Marshal(map[string]string{
		"from": string(from),
		"to":   string(target),
	})
	if _, err := s.events.Append(ctx, &model.CreateJobEventRequest{
		JobID:       job.ID,
		Type:        model.EventStateChange,
		Description: description,
		ActorRole:   actor,
		ActorID:     opts.ActorID,
		Metadata:    meta,
		OccurredAt:  occurred,
	}); err != nil {
		return nil, fmt.Errorf("append state change event: %w", err)
	}

	metrics.EmitTransition(s.sink, metrics.TransitionMetric{
		From: string(from), To: string(target), Result: metrics.ResultSuccess,
	})
	s.logger.Info("job transitioned",
		"job_id", job.ID, "from", from, "to", target, "occurred_at", occurred)
	return updated, nil
}

// foldFieldUpdates copies descriptive field updates from extra into upd.
// State control fields on extra are ignored; the transition owns those.
func foldFieldUpdates(upd, extra *model.JobUpdate) {
	if extra == nil {
		return
	}
	upd.ItemCount = extra.ItemCount
	upd.TechnicianName = extra.TechnicianName
	upd.DeliveryMethod = extra.DeliveryMethod
	upd.OrderNumbers = extra.OrderNumbers
	upd.CancelReason = extra.CancelReason
	upd.CustomerName = extra.CustomerName
	upd.ContactName = extra.ContactName
	upd.ContactPhone = extra.ContactPhone
	upd.Instructions = extra.Instructions
	upd.DeliveryAddress = extra.DeliveryAddress
}

// CreateJob creates a job at one of the two workflow entry points, stamping
// the start mode and entry timestamp. When the job starts queued_for_pickup
// with a driver email, a pickup dispatch is attempted immediately; dispatch
// failure deletes the just-created row and surfaces the underlying error, so
// a job never exists without the dispatch its creation promised.
func (s *LifecycleService) CreateJob(
	ctx context.Context,
	req *model.CreateJobRequest,
) (*model.Job, error) {
	if req == nil {
		return nil, apperrors.Validation("create job request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := s.now().UTC()
	startMode := model.StartModePickup
	if req.InitialState == model.StateAtShop {
		startMode = model.StartModeDropOff
	}

	job := &model.Job{
		ID:              model.NewJobID(),
		State:           req.InitialState,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		ShopName:        strings.TrimSpace(req.ShopName),
		ContactName:     req.ContactName,
		ContactPhone:    req.ContactPhone,
		Instructions:    req.Instructions,
		PickupAddress:   req.PickupAddress,
		DeliveryAddress: req.DeliveryAddress,
		StartMode:       &startMode,
		StartedAt:       &now,
	}
	switch req.InitialState {
	case model.StateQueuedForPickup:
		job.QueuedForPickupAt = &now
	case model.StateAtShop:
		job.AtShopAt = &now
	}

	created, err := s.jobs.Create(ctx, job)
	if err != nil {
		return nil, err
	}

	if _, err := s.events.Append(ctx, &model.CreateJobEventRequest{
		JobID:       created.ID,
		Type:        model.EventCreated,
		Description: fmt.Sprintf("job created in %s", created.State),
		ActorRole:   model.ActorCSR,
		OccurredAt:  now,
	}); err != nil {
		return nil, fmt.Errorf("append created event: %w", err)
	}

	if req.InitialState == model.StateQueuedForPickup && strings.TrimSpace(req.DriverEmail) != "" {
		dispatched, dispErr := s.DispatchPickup(ctx, created.ID, req.DriverEmail, req.Notes)
		if dispErr != nil {
			// Compensating action: purge the job rather than leave a
			// created-but-undispatched row behind.
			if delErr := s.jobs.Delete(ctx, created.ID); delErr != nil {
				s.logger.Error("rollback of job after failed creation dispatch failed",
					"job_id", created.ID, "error", delErr)
			}
			return nil, dispErr
		}
		created = dispatched
	}

	s.logger.Info("job created",
		"job_id", created.ID, "state", created.State, "shop", created.ShopName)
	return created, nil
}

// GetJob retrieves a job by id.
func (s *LifecycleService) GetJob(ctx context.Context, jobID string) (*model.Job, error) {
	return s.jobs.GetByID(ctx, jobID)
}

// ListJobs returns a filtered page of jobs.
func (s *LifecycleService) ListJobs(
	ctx context.Context,
	opts model.JobListOptions,
) ([]*model.Job, error) {
	return s.jobs.List(ctx, opts)
}

// JobEvents returns the event log of a job in workflow order.
func (s *LifecycleService) JobEvents(ctx context.Context, jobID string) ([]*model.JobEvent, error) {
	return s.events.ListByJob(ctx, jobID)
}

// AddComment attaches a free-text comment to a job.
func (s *LifecycleService) AddComment(
	ctx context.Context,
	req *model.CreateJobCommentRequest,
) (*model.JobComment, error) {
	if s.comments == nil {
		return nil, apperrors.Internal("comment repository not configured")
	}
	return s.comments.Create(ctx, req)
}

// JobComments returns a job's comments, oldest first.
func (s *LifecycleService) JobComments(
	ctx context.Context,
	jobID string,
) ([]*model.JobComment, error) {
	if s.comments == nil {
		return nil, apperrors.Internal("comment repository not configured")
	}
	return s.comments.ListByJob(ctx, jobID)
}

// DispatchPickup assigns the pickup form to a driver. The vendor call runs
// before any local write: if it fails or returns no usable identifier, the
// job is left entirely untouched. Only a confirmed assignment persists the
// dispatch id and appends the pickup_dispatched event.
func (s *LifecycleService) DispatchPickup(
	ctx context.Context,
	jobID, driverEmail, notes string,
) (*model.Job, error) {
	unlock := s.lockJob(jobID)
	defer unlock()

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.State != model.StateQueuedForPickup {
		return nil, apperrors.InvalidStatef(
			"job %s is %s; pickup dispatch requires %s",
			jobID, job.State, model.StateQueuedForPickup,
		)
	}
	driverEmail = strings.TrimSpace(driverEmail)
	if driverEmail == "" {
		return nil, apperrors.ValidationField("driver_email", "driver email is required")
	}

	form, prefill := s.dispatchForm(model.FormPickup, job, notes)
	dispatchID, err := s.callVendor(ctx, "pickup", form, driverEmail, prefill)
	if err != nil {
		return nil, err
	}

	updated, err := s.jobs.Update(ctx, jobID, &model.JobUpdate{
		ExpectedState:     &job.State,
		PickupDispatchID:  &dispatchID,
		PickupDriverEmail: &driverEmail,
	})
	if err != nil {
		return nil, err
	}

	if err := s.appendDispatchEvent(
		ctx, jobID, model.EventPickupDispatched, dispatchID, driverEmail,
	); err != nil {
		return nil, err
	}
	s.notifyDispatch(ctx, driverEmail, jobID, model.FormPickup)

	s.logger.Info("pickup dispatched",
		"job_id", jobID, "driver", driverEmail, "dispatch_id", dispatchID)
	return updated, nil
}

// DispatchDelivery assigns the delivery form to a driver and moves the job
// from service_complete to queued_for_delivery. Same ordering as pickup: the
// vendor call is attempted first and any failure leaves the job unchanged.
func (s *LifecycleService) DispatchDelivery(
	ctx context.Context,
	jobID, driverEmail, address, notes string,
	orderNumbers []string,
) (*model.Job, error) {
	unlock := s.lockJob(jobID)
	defer unlock()

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.State != model.StateServiceComplete {
		return nil, apperrors.InvalidStatef(
			"job %s is %s; delivery dispatch requires %s",
			jobID, job.State, model.StateServiceComplete,
		)
	}
	driverEmail = strings.TrimSpace(driverEmail)
	if driverEmail == "" {
		return nil, apperrors.ValidationField("driver_email", "driver email is required")
	}

	deliverTo := strings.TrimSpace(address)
	if deliverTo == "" {
		deliverTo = job.DeliveryAddress
	}

	form, prefill := s.dispatchForm(model.FormDelivery, job, notes)
	dispatchID, err := s.callVendor(ctx, "delivery", form, driverEmail, prefill)
	if err != nil {
		return nil, err
	}

	fields := &model.JobUpdate{
		DeliveryDispatchID:  &dispatchID,
		DeliveryDriverEmail: &driverEmail,
	}
	if deliverTo != "" {
		fields.DeliveryAddress = &deliverTo
	}
	if len(orderNumbers) > 0 {
		fields.OrderNumbers = orderNumbers
	}
	updated, err := s.transitionLocked(ctx, job, model.StateQueuedForDelivery, TransitionOptions{
		Actor:       model.ActorCSR,
		Description: fmt.Sprintf("delivery dispatched to %s", driverEmail),
		Fields:      fields,
	})
	if err != nil {
		return nil, err
	}

	if err := s.appendDispatchEvent(
		ctx, jobID, model.EventDeliveryDispatched, dispatchID, driverEmail,
	); err != nil {
		return nil, err
	}
	s.notifyDispatch(ctx, driverEmail, jobID, model.FormDelivery)

	s.logger.Info("delivery dispatched",
		"job_id", jobID, "driver", driverEmail, "dispatch_id", dispatchID)
	return updated, nil
}

// dispatchForm resolves the current build of the logical form and assembles
// its prefill map from the job.
func (s *LifecycleService) dispatchForm(
	formType model.FormType,
	job *model.Job,
	notes string,
) (string, map[string]string) {
	prefill := map[string]string{}
	formID := ""
	if s.forms != nil {
		if v, ok := s.forms.Current(formType); ok {
			formID = v.FormID
		}
	}
	if s.dict != nil && formID != "" {
		if id, ok := s.dict.EntryID(formID, fieldforms.FieldJobID); ok {
			prefill[strconv.Itoa(id)] = job.ID
		}
		if notes = strings.TrimSpace(notes); notes != "" {
			if id, ok := s.dict.EntryID(formID, fieldforms.FieldDriverNotes); ok {
				prefill[strconv.Itoa(id)] = notes
			}
		}
	}
	return formID, prefill
}

// callVendor performs the outbound dispatch and emits the attempt metric.
func (s *LifecycleService) callVendor(
	ctx context.Context,
	leg, formID, recipient string,
	prefill map[string]string,
) (string, error) {
	if s.vendor == nil {
		return "", apperrors.Internal("vendor client not configured")
	}
	if formID == "" {
		return "", apperrors.Internalf("no registered %s form build", leg)
	}

	start := s.now()
	dispatchID, err := s.vendor.Dispatch(ctx, fieldforms.DispatchRequest{
		FormID:    formID,
		Recipient: recipient,
		Prefill:   prefill,
	})
	elapsed := s.now().Sub(start)
	if err != nil {
		metrics.EmitDispatch(s.sink, leg, metrics.ResultError, elapsed)
		return "", err
	}
	if strings.TrimSpace(dispatchID) == "" {
		metrics.EmitDispatch(s.sink, leg, metrics.ResultError, elapsed)
		return "", apperrors.DispatchFailed("vendor returned empty dispatch identifier", nil)
	}
	metrics.EmitDispatch(s.sink, leg, metrics.ResultSuccess, elapsed)
	return dispatchID, nil
}

func (s *LifecycleService) appendDispatchEvent(
	ctx context.Context,
	jobID string,
	eventType model.EventType,
	dispatchID, driverEmail string,
) error {
	meta, _ := json.Marshal(map[string]string{
		"dispatch_id": dispatchID,
		"driver":      driverEmail,
	})
	if _, err := s.events.Append(ctx, &model.CreateJobEventRequest{
		JobID:       jobID,
		Type:        eventType,
		Description: fmt.Sprintf("form assigned to %s", driverEmail),
		ActorRole:   model.ActorCSR,
		Metadata:    meta,
	}); err != nil {
		return fmt.Errorf("append dispatch event: %w", err)
	}
	return nil
}

// notifyDispatch fans out a best-effort dispatch notification. Failures log
// and move on; notification delivery never gates a dispatch.
func (s *LifecycleService) notifyDispatch(
	ctx context.Context,
	recipient, jobID string,
	form model.FormType,
) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyDispatch(ctx, recipient, jobID, form); err != nil {
		s.logger.Warn("dispatch notification failed",
			"job_id", jobID, "recipient", recipient, "form", form, "error", err)
	}
}

// MarkPickedUp records the driver pickup, optionally with the item count
// from the pickup form. Re-entry on a job already picked up is a no-op.
func (s *LifecycleService) MarkPickedUp(
	ctx context.Context,
	jobID string,
	itemCount *int,
	opts TransitionOptions,
) (*model.Job, error) {
	if job, done, err := s.alreadyAt(ctx, jobID, model.StatePickedUp); done || err != nil {
		return job, err
	}
	if itemCount != nil {
		if opts.Fields == nil {
			opts.Fields = &model.JobUpdate{}
		}
		opts.Fields.ItemCount = itemCount
	}
	if opts.Actor == "" {
		opts.Actor = model.ActorDriver
	}
	return s.Transition(ctx, jobID, model.StatePickedUp, opts)
}

// CheckInAtShop records the unit arriving at the shop. A job still in
// queued_for_pickup (the customer brought it in before any driver pickup)
// passes through picked_up automatically, annotated as a direct check-in,
// keeping at_shop reachable only via picked_up.
func (s *LifecycleService) CheckInAtShop(
	ctx context.Context,
	jobID string,
	opts TransitionOptions,
) (*model.Job, error) {
	if job, done, err := s.alreadyAt(ctx, jobID, model.StateAtShop); done || err != nil {
		return job, err
	}

	unlock := s.lockJob(jobID)
	defer unlock()

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if job.State == model.StateQueuedForPickup {
		passOpts := opts
		passOpts.Fields = nil
		passOpts.Description = "direct check-in, pickup leg skipped"
		job, err = s.transitionLocked(ctx, job, model.StatePickedUp, passOpts)
		if err != nil {
			return nil, err
		}
	}
	return s.transitionLocked(ctx, job, model.StateAtShop, opts)
}

// StartService records the technician starting work.
func (s *LifecycleService) StartService(
	ctx context.Context,
	jobID string,
	technicianName *string,
	opts TransitionOptions,
) (*model.Job, error) {
	if job, done, err := s.alreadyAt(ctx, jobID, model.StateInService); done || err != nil {
		return job, err
	}
	if technicianName != nil {
		if opts.Fields == nil {
			opts.Fields = &model.JobUpdate{}
		}
		opts.Fields.TechnicianName = technicianName
	}
	if opts.Actor == "" {
		opts.Actor = model.ActorTechnician
	}
	return s.Transition(ctx, jobID, model.StateInService, opts)
}

// CompleteService records shop work finishing.
func (s *LifecycleService) CompleteService(
	ctx context.Context,
	jobID string,
	opts TransitionOptions,
) (*model.Job, error) {
	if job, done, err := s.alreadyAt(ctx, jobID, model.StateServiceComplete); done || err != nil {
		return job, err
	}
	if opts.Actor == "" {
		opts.Actor = model.ActorTechnician
	}
	return s.Transition(ctx, jobID, model.StateServiceComplete, opts)
}

// MarkReady stages the unit for customer pickup at the shop. First entry
// fixes the completion mode to shop_pickup.
func (s *LifecycleService) MarkReady(
	ctx context.Context,
	jobID string,
	opts TransitionOptions,
) (*model.Job, error) {
	if job, done, err := s.alreadyAt(ctx, jobID, model.StateReadyForPickup); done || err != nil {
		return job, err
	}
	return s.Transition(ctx, jobID, model.StateReadyForPickup, opts)
}

// MarkPickedUpFromShop records the customer collecting the unit at the shop.
func (s *LifecycleService) MarkPickedUpFromShop(
	ctx context.Context,
	jobID string,
	opts TransitionOptions,
) (*model.Job, error) {
	if job, done, err := s.alreadyAt(ctx, jobID, model.StatePickedUpFromShop); done || err != nil {
		return job, err
	}
	return s.Transition(ctx, jobID, model.StatePickedUpFromShop, opts)
}

// MarkDelivered records the unit back with the customer. First entry fixes
// the completion mode to delivered.
func (s *LifecycleService) MarkDelivered(
	ctx context.Context,
	jobID string,
	deliveryMethod *string,
	opts TransitionOptions,
) (*model.Job, error) {
	if job, done, err := s.alreadyAt(ctx, jobID, model.StateDelivered); done || err != nil {
		return job, err
	}
	if deliveryMethod != nil {
		if opts.Fields == nil {
			opts.Fields = &model.JobUpdate{}
		}
		opts.Fields.DeliveryMethod = deliveryMethod
	}
	if opts.Actor == "" {
		opts.Actor = model.ActorDriver
	}
	return s.Transition(ctx, jobID, model.StateDelivered, opts)
}

// CancelJob cancels a job from any non-terminal state, recording the reason.
func (s *LifecycleService) CancelJob(
	ctx context.Context,
	jobID, reason string,
	opts TransitionOptions,
) (*model.Job, error) {
	if strings.TrimSpace(reason) != "" {
		if opts.Fields == nil {
			opts.Fields = &model.JobUpdate{}
		}
		r := strings.TrimSpace(reason)
		opts.Fields.CancelReason = &r
	}
	if opts.Actor == "" {
		opts.Actor = model.ActorCSR
	}
	return s.Transition(ctx, jobID, model.StateCancelled, opts)
}

// alreadyAt reports whether the job is already in target, making the thin
// wrapper operations tolerant of replayed submissions arriving after their
// transition already happened under another delivery.
func (s *LifecycleService) alreadyAt(
	ctx context.Context,
	jobID string,
	target model.JobState,
) (*model.Job, bool, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, false, err
	}
	if job.State == target {
		s.logger.Debug("job already in target state, skipping transition",
			"job_id", jobID, "state", target)
		return job, true, nil
	}
	return job, false, nil
}
