package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/ecs-refurb/shoptrack/internal/errors"

	"github.com/ecs-refurb/shoptrack/internal/core"
	"github.com/ecs-refurb/shoptrack/internal/domain/model"
	"github.com/ecs-refurb/shoptrack/internal/fieldforms"
	"github.com/ecs-refurb/shoptrack/internal/observability/metrics"
	"github.com/ecs-refurb/shoptrack/internal/observability/statsd"
)

// dedupTTL is the retention window of the submission idempotency ledger.
// Vendor redeliveries cluster within minutes; an hour gives slack for slow
// poll cycles without letting the ledger grow without bound.
const dedupTTL = time.Hour

// dedupKeyPrefix namespaces submission claims in the shared cache.
const dedupKeyPrefix = "shoptrack:submission:"

// IngestDeps groups the outbound collaborators of IngestService.
type IngestDeps struct {
	Cache core.CacheRepository
	Forms *fieldforms.Registry
	Dict  *fieldforms.Dictionary
	Names core.NameResolver
	Sink  statsd.Sink
	// Now overrides the wall clock, useful for tests. Nil means time.Now.
	Now func() time.Time
}

// IngestServiceOptions groups dependencies for IngestService.
type IngestServiceOptions struct {
	Lifecycle  *LifecycleService
	Reconciler *ReconcileService
	Deps       IngestDeps
	Logger     *slog.Logger
}

// IngestService accepts completed-form events from any delivery source and
// drives exactly one downstream processing pass per physical submission. The
// claim-then-process dedup ledger absorbs the push transport's at-least-once
// delivery and overlapping webhook/manual/poll deliveries of the same
// submission.
type IngestService struct {
	lifecycle  *LifecycleService
	reconciler *ReconcileService
	cache      core.CacheRepository
	forms      *fieldforms.Registry
	dict       *fieldforms.Dictionary
	names      core.NameResolver
	sink       statsd.Sink
	logger     *slog.Logger
	now        func() time.Time
}

// NewIngestService constructs a new IngestService.
func NewIngestService(opts IngestServiceOptions) *IngestService {
	if opts.Lifecycle == nil {
		panic("LifecycleService is required")
	}
	if opts.Reconciler == nil {
		panic("ReconcileService is required")
	}
	if opts.Deps.Cache == nil {
		panic("CacheRepository is required")
	}
	if opts.Deps.Forms == nil {
		panic("Registry is required")
	}
	if opts.Deps.Dict == nil {
		panic("Dictionary is required")
	}

	now := opts.Deps.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &IngestService{
		lifecycle:  opts.Lifecycle,
		reconciler: opts.Reconciler,
		cache:      opts.Deps.Cache,
		forms:      opts.Deps.Forms,
		dict:       opts.Deps.Dict,
		names:      opts.Deps.Names,
		sink:       opts.Deps.Sink,
		logger:     logger,
		now:        now,
	}
}

// Ingest normalizes one completed-form event and processes it if this is the
// first delivery of the submission. Duplicates return nil after a metric
// bump; discards (unknown form, no job correlation) return typed errors the
// source logs without retrying.
func (s *IngestService) Ingest(
	ctx context.Context,
	sub *model.Submission,
	source model.SubmissionSource,
) error {
	start := s.now()

	if sub == nil {
		return apperrors.Validation("submission is required")
	}
	if err := sub.Validate(); err != nil {
		return apperrors.Validation(err.Error())
	}

	version, err := s.forms.Resolve(sub.FormID)
	if err != nil {
		s.emit(metrics.SubmissionMetric{
			FormType: "unknown", Source: string(source),
			Result: metrics.ResultDiscarded, Err: err,
		})
		return err
	}

	jobID := sub.JobID()
	if jobID == "" {
		err := apperrors.NotFoundf(
			"submission %s carries no job identifier", sub.SubmissionID,
		)
		s.emit(metrics.SubmissionMetric{
			FormType: string(version.Type), Source: string(source),
			Result: metrics.ResultDiscarded, Err: err,
		})
		return err
	}

	// Claim before processing: the first delivery to land owns the work,
	// near-simultaneous duplicates bounce off the claim.
	claimed, err := s.cache.SetIfNotExists(
		ctx,
		dedupKeyPrefix+sub.SubmissionID,
		[]byte(s.now().UTC().Format(time.RFC3339)),
		dedupTTL,
	)
	if err != nil {
		return fmt.Errorf("claim submission %s: %w", sub.SubmissionID, err)
	}
	if !claimed {
		s.logger.Debug("duplicate submission skipped",
			"submission_id", sub.SubmissionID, "source", source)
		s.emit(metrics.SubmissionMetric{
			FormType: string(version.Type), Source: string(source),
			Result: metrics.ResultDuplicate,
		})
		return nil
	}

	switch version.Type {
	case model.FormPickup:
		err = s.handlePickup(ctx, jobID, sub)
	case model.FormService:
		err = s.handleService(ctx, jobID, sub)
	case model.FormDelivery:
		err = s.handleDelivery(ctx, jobID, sub)
	default:
		err = apperrors.UnknownForm(sub.FormID)
	}

	result := metrics.ResultSuccess
	if err != nil {
		// The claim stays: a handler failure is not a redelivery, and the
		// poll source retries naturally because the job never reached the
		// target state.
		result = metrics.ResultError
		s.logger.Error("submission processing failed",
			"submission_id", sub.SubmissionID,
			"form_id", sub.FormID,
			"job_id", jobID,
			"source", source,
			"error", err,
		)
	}
	s.emit(metrics.SubmissionMetric{
		FormType: string(version.Type),
		Source:   string(source),
		Result:   result,
		Duration: s.now().Sub(start),
		Err:      err,
	})
	return err
}

func (s *IngestService) emit(in metrics.SubmissionMetric) {
	metrics.EmitSubmission(s.sink, in)
}

// observedAt picks the vendor-reported submission time, falling back to now.
func (s *IngestService) observedAt(sub *model.Submission) time.Time {
	if sub.SubmittedAt != nil && !sub.SubmittedAt.IsZero() {
		return sub.SubmittedAt.UTC()
	}
	return s.now().UTC()
}

// handlePickup advances the job to picked_up with the driver-reported item
// count, then records any driver note as a comment.
func (s *IngestService) handlePickup(
	ctx context.Context,
	jobID string,
	sub *model.Submission,
) error {
	var itemCount *int
	if raw := s.dict.Value(sub, fieldforms.FieldItemCount); raw != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n >= 0 {
			itemCount = &n
		} else {
			s.logger.Warn("unparseable item count ignored",
				"job_id", jobID, "value", raw)
		}
	}

	if _, err := s.lifecycle.MarkPickedUp(ctx, jobID, itemCount, TransitionOptions{
		OccurredAt: s.observedAt(sub),
		Actor:      model.ActorDriver,
	}); err != nil {
		return err
	}

	return s.recordNote(ctx, jobID, sub, model.ActorDriver)
}

// handleService drives the shop leg: at_shop passes through in_service
// (stamped with the recovered handoff time) to service_complete, then parts
// are reconciled and technician comments recorded.
func (s *IngestService) handleService(
	ctx context.Context,
	jobID string,
	sub *model.Submission,
) error {
	job, err := s.lifecycle.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	completedAt := s.observedAt(sub)

	if job.State == model.StateAtShop {
		// The physical handoff to the technician happened before the form
		// came back; recover that moment instead of stamping observation
		// time. Unknown handoff degrades to the submission time.
		handoff := completedAt
		est := fieldforms.EstimateHandoff(
			s.dict.Value(sub, fieldforms.FieldHandoffGPS),
			s.dict.Value(sub, fieldforms.FieldHandoffClock),
			completedAt,
		)
		if est != nil {
			handoff = est.Time
			if !est.HighConfidence {
				s.logger.Warn("handoff time recovered with low confidence",
					"job_id", jobID, "handoff", handoff)
			}
		}
		techName := s.resolveTechnician(ctx, sub)
		if _, err := s.lifecycle.StartService(ctx, jobID, techName, TransitionOptions{
			OccurredAt: handoff,
			Actor:      model.ActorTechnician,
		}); err != nil {
			return err
		}
	}

	if _, err := s.lifecycle.CompleteService(ctx, jobID, TransitionOptions{
		OccurredAt: completedAt,
		Actor:      model.ActorTechnician,
	}); err != nil {
		return err
	}

	if _, err := s.reconciler.Reconcile(ctx, jobID, sub); err != nil {
		return fmt.Errorf("reconcile parts: %w", err)
	}

	return s.recordTechnicianComments(ctx, jobID, sub)
}

// handleDelivery advances the job to delivered and records any driver note.
func (s *IngestService) handleDelivery(
	ctx context.Context,
	jobID string,
	sub *model.Submission,
) error {
	if _, err := s.lifecycle.MarkDelivered(ctx, jobID, nil, TransitionOptions{
		OccurredAt: s.observedAt(sub),
		Actor:      model.ActorDriver,
	}); err != nil {
		return err
	}
	return s.recordNote(ctx, jobID, sub, model.ActorDriver)
}

// recordNote stores the submission's free-text driver note as a job comment.
func (s *IngestService) recordNote(
	ctx context.Context,
	jobID string,
	sub *model.Submission,
	role model.ActorRole,
) error {
	note := strings.TrimSpace(s.dict.Value(sub, fieldforms.FieldDriverNotes))
	if note == "" {
		return nil
	}
	if _, err := s.lifecycle.AddComment(ctx, &model.CreateJobCommentRequest{
		JobID:      jobID,
		Body:       note,
		AuthorName: s.displayName(ctx, sub),
		AuthorRole: role,
	}); err != nil {
		return fmt.Errorf("record note: %w", err)
	}
	return nil
}

// recordTechnicianComments stores the loop screen's additional-comments
// responses, one comment per distinct part group, tagged with the
// technician's resolved display name.
func (s *IngestService) recordTechnicianComments(
	ctx context.Context,
	jobID string,
	sub *model.Submission,
) error {
	entryID, ok := s.dict.EntryID(sub.FormID, fieldforms.FieldComments)
	if !ok {
		return nil
	}
	author := s.displayName(ctx, sub)

	seen := make(map[string]bool)
	for i := range sub.Responses {
		resp := &sub.Responses[i]
		if resp.EntryID != entryID {
			continue
		}
		text := strings.TrimSpace(resp.Value)
		if text == "" {
			continue
		}
		key := strings.TrimSpace(resp.GroupKey)
		if seen[key] {
			continue
		}
		seen[key] = true

		body := text
		if key != "" {
			body = fmt.Sprintf("[%s] %s", key, text)
		}
		if _, err := s.lifecycle.AddComment(ctx, &model.CreateJobCommentRequest{
			JobID:      jobID,
			Body:       body,
			AuthorName: author,
			AuthorRole: model.ActorTechnician,
		}); err != nil {
			return fmt.Errorf("record technician comment: %w", err)
		}
	}
	return nil
}

// resolveTechnician resolves the submitting user's display name, or nil when
// the submission carries no user or resolution fails.
func (s *IngestService) resolveTechnician(
	ctx context.Context,
	sub *model.Submission,
) *string {
	name := s.displayName(ctx, sub)
	if name == "" {
		return nil
	}
	return &name
}

// displayName resolves the submitting user id to a display name, best effort.
func (s *IngestService) displayName(ctx context.Context, sub *model.Submission) string {
	if s.names == nil || strings.TrimSpace(sub.UserID) == "" {
		return ""
	}
	name, err := s.names.ResolveDisplayName(ctx, sub.UserID)
	if err != nil {
		s.logger.Warn("display name resolution failed",
			"user_id", sub.UserID, "error", err)
		return ""
	}
	return name
}
