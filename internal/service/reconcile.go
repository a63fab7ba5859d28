package service

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/ecs-refurb/shoptrack/internal/errors"

	"github.com/ecs-refurb/shoptrack/internal/core"
	"github.com/ecs-refurb/shoptrack/internal/domain/model"
	"github.com/ecs-refurb/shoptrack/internal/domain/parts"
	"github.com/ecs-refurb/shoptrack/internal/fieldforms"
)

// ReconcileServiceOptions groups dependencies for ReconcileService.
type ReconcileServiceOptions struct {
	Parts  core.JobPartRepository
	Dict   *fieldforms.Dictionary
	Forms  *fieldforms.Registry
	Logger *slog.Logger
}

// ReconcileService merges loop-screen part records from a service-form
// submission into the relational JobPart rows. Matching is by serial number;
// name matching survives only as a logged last resort for responses that
// genuinely carry no serial.
type ReconcileService struct {
	parts  core.JobPartRepository
	dict   *fieldforms.Dictionary
	forms  *fieldforms.Registry
	logger *slog.Logger
}

// NewReconcileService constructs a new ReconcileService.
func NewReconcileService(opts ReconcileServiceOptions) *ReconcileService {
	if opts.Parts == nil {
		panic("JobPartRepository is required")
	}
	if opts.Dict == nil {
		panic("Dictionary is required")
	}
	if opts.Forms == nil {
		panic("Registry is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconcileService{
		parts:  opts.Parts,
		dict:   opts.Dict,
		forms:  opts.Forms,
		logger: logger,
	}
}

// Reconcile reconstructs part records from the submission's responses and
// merges them into the job's parts. Existing parts receive a field-level
// merge; unknown serials insert new parts, the intended path for a
// technician adding a part the CSR never pre-registered. Running the same
// submission twice is a no-op on the second pass.
func (s *ReconcileService) Reconcile(
	ctx context.Context,
	jobID string,
	sub *model.Submission,
) ([]*model.JobPart, error) {
	version, err := s.forms.Resolve(sub.FormID)
	if err != nil {
		return nil, err
	}

	grouper := parts.ForVersion(version, s.dict)
	records := grouper.Group(sub.FormID, sub.Responses)

	out := make([]*model.JobPart, 0, len(records))
	for i := range records {
		part, mergeErr := s.mergeRecord(ctx, jobID, &records[i])
		if mergeErr != nil {
			return nil, mergeErr
		}
		if part != nil {
			out = append(out, part)
		}
	}
	return out, nil
}

// mergeRecord applies one reconstructed record to the job's parts. Returns
// nil without error when a name-only record cannot be anchored to any part.
func (s *ReconcileService) mergeRecord(
	ctx context.Context,
	jobID string,
	rec *parts.Record,
) (*model.JobPart, error) {
	serial := strings.TrimSpace(rec.SerialNumber)
	if serial != "" {
		existing, err := s.parts.GetBySerial(ctx, jobID, serial)
		switch {
		case err == nil:
			if rec.Fields.Empty() {
				return existing, nil
			}
			return s.parts.UpdateFields(ctx, existing.ID, &rec.Fields)
		case apperrors.IsNotFound(err):
			return s.parts.Create(ctx, &model.CreateJobPartRequest{
				JobID:        jobID,
				SerialNumber: serial,
				Fields:       rec.Fields,
			})
		default:
			return nil, err
		}
	}

	// Last-resort name matching for a record with no serial at all. Never
	// preferred when a serial exists, because same-named parts are common.
	name := strings.TrimSpace(rec.PartName)
	if name == "" {
		s.logger.Warn("discarding part record with no serial and no name",
			"job_id", jobID)
		return nil, nil
	}
	s.logger.Warn("part record carries no serial, falling back to name match",
		"job_id", jobID, "part_name", name)

	matches, err := s.parts.FindByName(ctx, jobID, name)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		s.logger.Warn("no part matches name, record discarded",
			"job_id", jobID, "part_name", name)
		return nil, nil
	case 1:
	default:
		s.logger.Warn("part name is ambiguous, merging into oldest match",
			"job_id", jobID, "part_name", name, "matches", len(matches))
	}
	if rec.Fields.Empty() {
		return matches[0], nil
	}
	return s.parts.UpdateFields(ctx, matches[0].ID, &rec.Fields)
}

// PartsForJob lists a job's reconciled parts.
func (s *ReconcileService) PartsForJob(
	ctx context.Context,
	jobID string,
) ([]*model.JobPart, error) {
	return s.parts.ListByJob(ctx, jobID)
}

// RegisterPart records a CSR-entered part ahead of shop work.
func (s *ReconcileService) RegisterPart(
	ctx context.Context,
	req *model.CreateJobPartRequest,
) (*model.JobPart, error) {
	return s.parts.Create(ctx, req)
}
