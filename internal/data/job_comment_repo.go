package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/ecs-refurb/shoptrack/internal/errors"

	"github.com/ecs-refurb/shoptrack/internal/data/pgxutil"
	"github.com/ecs-refurb/shoptrack/internal/domain/model"
)

// JobCommentRepo provides database operations for job comments.
type JobCommentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewJobCommentRepo creates a new JobCommentRepo with real time provider.
func NewJobCommentRepo(db *sql.DB) *JobCommentRepo {
	return &JobCommentRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewJobCommentRepoWithTimeProvider creates a new JobCommentRepo with a
// custom time provider (useful for tests).
func NewJobCommentRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *JobCommentRepo {
	return &JobCommentRepo{DB: db, timeProvider: tp}
}

// Create inserts a new comment on a job.
func (r *JobCommentRepo) Create(
	ctx context.Context,
	req *model.CreateJobCommentRequest,
) (*model.JobComment, error) {
	if req == nil {
		return nil, errors.New("create job comment request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	role := req.AuthorRole
	if role == "" {
		role = model.ActorSystem
	}

	var out model.JobComment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO job_comments (
				job_id, body, author_name, author_role, created_at
			) VALUES (
				$1, $2, $3, $4, $5
			) RETURNING id, job_id, body, author_name, author_role, created_at`,
			req.JobID,
			strings.TrimSpace(req.Body),
			req.AuthorName,
			role,
			r.timeProvider.Now().UTC(),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.JobComment])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// ListByJob retrieves all comments for a job, oldest first.
func (r *JobCommentRepo) ListByJob(
	ctx context.Context,
	jobID string,
) ([]*model.JobComment, error) {
	var rowsOut []model.JobComment
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, job_id, body, author_name, author_role, created_at
			FROM job_comments
			WHERE job_id = $1
			ORDER BY created_at ASC`, jobID)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.JobComment])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list job comments: %w", err)
	}

	res := make([]*model.JobComment, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}
