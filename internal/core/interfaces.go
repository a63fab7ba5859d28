// Package core defines the port interfaces between the service layer and the
// data/vendor layers. Services depend on these contracts, never on concrete
// implementations.
package core

import (
	"context"
	"time"

	"github.com/ecs-refurb/shoptrack/internal/domain/model"
	"github.com/ecs-refurb/shoptrack/internal/fieldforms"
)

// JobRepository defines relational access to jobs.
type JobRepository interface {
	Create(ctx context.Context, job *model.Job) (*model.Job, error)
	GetByID(ctx context.Context, id string) (*model.Job, error)
	// Update applies a partial update; nil fields in upd are untouched.
	Update(ctx context.Context, id string, upd *model.JobUpdate) (*model.Job, error)
	// Delete removes a job row. Used only for the compensating deletion of a
	// just-created job whose creation-time pickup dispatch failed.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts model.JobListOptions) ([]*model.Job, error)
}

// JobEventRepository appends and reads the immutable job event log.
type JobEventRepository interface {
	Append(ctx context.Context, req *model.CreateJobEventRequest) (*model.JobEvent, error)
	// ListByJob returns events ordered by timestamp ascending, ties broken
	// by insertion order.
	ListByJob(ctx context.Context, jobID string) ([]*model.JobEvent, error)
}

// JobPartRepository defines relational access to job parts.
type JobPartRepository interface {
	Create(ctx context.Context, req *model.CreateJobPartRequest) (*model.JobPart, error)
	GetBySerial(ctx context.Context, jobID, serialNumber string) (*model.JobPart, error)
	// FindByName supports the last-resort name-matching fallback; multiple
	// parts may legitimately share a name.
	FindByName(ctx context.Context, jobID, partName string) ([]*model.JobPart, error)
	// UpdateFields merges non-nil fields onto the stored part.
	UpdateFields(ctx context.Context, id string, fields *model.JobPartFields) (*model.JobPart, error)
	ListByJob(ctx context.Context, jobID string) ([]*model.JobPart, error)
}

// JobCommentRepository creates and reads free-text job comments.
type JobCommentRepository interface {
	Create(ctx context.Context, req *model.CreateJobCommentRequest) (*model.JobComment, error)
	ListByJob(ctx context.Context, jobID string) ([]*model.JobComment, error)
}

// VendorClient is the outbound boundary to the mobile-forms vendor.
type VendorClient interface {
	// Dispatch assigns a form to a recipient and returns the vendor's
	// opaque dispatch identifier. Implementations must never fabricate an
	// identifier on failure.
	Dispatch(ctx context.Context, req fieldforms.DispatchRequest) (string, error)
	ListRecentSubmissions(
		ctx context.Context,
		formID string,
		since time.Time,
	) ([]model.Submission, error)
}

// NameResolver resolves a vendor user identifier to a display name.
type NameResolver interface {
	ResolveDisplayName(ctx context.Context, userID string) (string, error)
}

// DispatchNotifier fans out a dispatch-assignment message to a connected
// actor. Delivery is best effort; failures are logged, never fatal.
type DispatchNotifier interface {
	NotifyDispatch(ctx context.Context, recipient, jobID string, form model.FormType) error
}
