package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/ecs-refurb/shoptrack/internal/errors"

	"github.com/ecs-refurb/shoptrack/internal/data/pgxutil"
	"github.com/ecs-refurb/shoptrack/internal/domain/model"
)

// JobEventRepo provides append-only database operations for job events.
// Events are never updated or deleted; ordering reads sort by created_at with
// the insertion sequence breaking ties between backdated rows.
type JobEventRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewJobEventRepo creates a new JobEventRepo with real time provider.
func NewJobEventRepo(db *sql.DB) *JobEventRepo {
	return &JobEventRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewJobEventRepoWithTimeProvider creates a new JobEventRepo with a custom
// time provider (useful for tests).
func NewJobEventRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *JobEventRepo {
	return &JobEventRepo{DB: db, timeProvider: tp}
}

// Append inserts a new job event. A zero OccurredAt stamps the event with the
// current time; a non-zero OccurredAt backdates it, which keeps delayed
// vendor submissions in workflow order.
func (r *JobEventRepo) Append(
	ctx context.Context,
	req *model.CreateJobEventRequest,
) (*model.JobEvent, error) {
	if req == nil {
		return nil, errors.New("create job event request is required")
	}
	if strings.TrimSpace(req.JobID) == "" {
		return nil, apperrors.Validation("job id is required")
	}
	if req.Type == "" {
		return nil, apperrors.Validation("event type is required")
	}
	if req.ActorRole == "" {
		return nil, apperrors.Validation("actor role is required")
	}

	createdAt := req.OccurredAt
	if createdAt.IsZero() {
		createdAt = r.timeProvider.Now()
	}
	metadata := req.Metadata
	if len(metadata) == 0 {
		metadata = json.RawMessage(`{}`)
	}

	var out model.JobEvent
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO job_events (
				job_id, type, description, actor_role, actor_id, metadata, created_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7
			) RETURNING `+jobEventColumns,
			req.JobID,
			req.Type,
			req.Description,
			req.ActorRole,
			req.ActorID,
			metadata,
			createdAt.UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.JobEvent])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// ListByJob retrieves all events for a job ordered by timestamp ascending.
func (r *JobEventRepo) ListByJob(
	ctx context.Context,
	jobID string,
) ([]*model.JobEvent, error) {
	var rowsOut []model.JobEvent
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+jobEventColumns+`
			FROM job_events
			WHERE job_id = $1
			ORDER BY created_at ASC, seq ASC`, jobID)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.JobEvent])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list job events: %w", err)
	}

	res := make([]*model.JobEvent, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

const jobEventColumns = `
		id, job_id, type, description, actor_role, actor_id, metadata, created_at`
