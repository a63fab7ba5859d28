package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/ecs-refurb/shoptrack/internal/errors"

	"github.com/ecs-refurb/shoptrack/internal/data/pgxutil"
	"github.com/ecs-refurb/shoptrack/internal/domain/model"
)

// JobPartRepo provides database operations for job parts. The unique
// (job_id, serial_number) constraint makes the serial number the
// authoritative part key within a job.
type JobPartRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewJobPartRepo creates a new JobPartRepo with real time provider.
func NewJobPartRepo(db *sql.DB) *JobPartRepo {
	return &JobPartRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewJobPartRepoWithTimeProvider creates a new JobPartRepo with a custom
// time provider (useful for tests).
func NewJobPartRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *JobPartRepo {
	return &JobPartRepo{DB: db, timeProvider: tp}
}

// Create inserts a new part for a job.
func (r *JobPartRepo) Create(
	ctx context.Context,
	req *model.CreateJobPartRequest,
) (*model.JobPart, error) {
	if req == nil {
		return nil, errors.New("create job part request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now().UTC()
	f := req.Fields
	var out model.JobPart
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO job_parts (
				job_id, serial_number, part_name, process, filter_part_number,
				po_number, mileage, vin, has_gasket, has_clamps,
				ecs_part_number, pass_fail, repaired, failure_reason, repairs,
				created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
				$11, $12, $13, $14, $15, $16, $16
			) RETURNING `+jobPartColumns,
			req.JobID,
			strings.TrimSpace(req.SerialNumber),
			f.PartName,
			f.Process,
			f.FilterPartNumber,
			f.PONumber,
			f.Mileage,
			f.VIN,
			f.HasGasket,
			f.HasClamps,
			f.ECSPartNumber,
			f.PassFail,
			f.Repaired,
			f.FailureReason,
			f.Repairs,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.JobPart])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetBySerial retrieves a part by its job and serial number.
func (r *JobPartRepo) GetBySerial(
	ctx context.Context,
	jobID, serialNumber string,
) (*model.JobPart, error) {
	var out model.JobPart
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+jobPartColumns+`
			FROM job_parts
			WHERE job_id = $1 AND serial_number = $2`,
			jobID, strings.TrimSpace(serialNumber))
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.JobPart])
		return err
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf(
				"part %s not found on job %s", serialNumber, jobID,
			)
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// FindByName retrieves parts on a job matching a part name, oldest first.
// Multiple parts may legitimately share a name; callers decide whether an
// ambiguous match is usable.
func (r *JobPartRepo) FindByName(
	ctx context.Context,
	jobID, partName string,
) ([]*model.JobPart, error) {
	var rowsOut []model.JobPart
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+jobPartColumns+`
			FROM job_parts
			WHERE job_id = $1 AND lower(part_name) = lower($2)
			ORDER BY created_at ASC`,
			jobID, strings.TrimSpace(partName))
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.JobPart])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to find parts by name: %w", err)
	}

	res := make([]*model.JobPart, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// UpdateFields merges the non-nil fields onto the stored part. Absent fields
// keep their stored values, so repeated reconciliation passes never erase
// data an earlier pass recorded.
func (r *JobPartRepo) UpdateFields(
	ctx context.Context,
	id string,
	fields *model.JobPartFields,
) (*model.JobPart, error) {
	if fields == nil {
		return nil, errors.New("job part fields are required")
	}

	setParts := make([]string, 0, 8)
	args := make([]any, 0, 8)
	add := func(column string, value any) {
		args = append(args, value)
		setParts = append(setParts, column+" = $"+strconv.Itoa(len(args)))
	}

	if fields.PartName != nil {
		add("part_name", *fields.PartName)
	}
	if fields.Process != nil {
		add("process", *fields.Process)
	}
	if fields.FilterPartNumber != nil {
		add("filter_part_number", *fields.FilterPartNumber)
	}
	if fields.PONumber != nil {
		add("po_number", *fields.PONumber)
	}
	if fields.Mileage != nil {
		add("mileage", *fields.Mileage)
	}
	if fields.VIN != nil {
		add("vin", *fields.VIN)
	}
	if fields.HasGasket != nil {
		add("has_gasket", *fields.HasGasket)
	}
	if fields.HasClamps != nil {
		add("has_clamps", *fields.HasClamps)
	}
	if fields.ECSPartNumber != nil {
		add("ecs_part_number", *fields.ECSPartNumber)
	}
	if fields.PassFail != nil {
		add("pass_fail", *fields.PassFail)
	}
	if fields.Repaired != nil {
		add("repaired", *fields.Repaired)
	}
	if fields.FailureReason != nil {
		add("failure_reason", *fields.FailureReason)
	}
	if fields.Repairs != nil {
		add("repairs", *fields.Repairs)
	}

	var out model.JobPart
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		if len(setParts) == 0 {
			rows, qErr := conn.Query(ctx, `
				SELECT `+jobPartColumns+` FROM job_parts WHERE id = $1`, id)
			if qErr != nil {
				return qErr
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.JobPart])
			return e
		}

		add("updated_at", r.timeProvider.Now().UTC())
		args = append(args, id)
		query := "UPDATE job_parts SET " + strings.Join(setParts, ", ") +
			" WHERE id = $" + strconv.Itoa(len(args)) +
			" RETURNING " + jobPartColumns
		rows, qErr := conn.Query(ctx, query, args...)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.JobPart])
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("part %s not found", id)
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// ListByJob retrieves all parts for a job, oldest first.
func (r *JobPartRepo) ListByJob(
	ctx context.Context,
	jobID string,
) ([]*model.JobPart, error) {
	var rowsOut []model.JobPart
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+jobPartColumns+`
			FROM job_parts
			WHERE job_id = $1
			ORDER BY created_at ASC, serial_number ASC`, jobID)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.JobPart])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list job parts: %w", err)
	}

	res := make([]*model.JobPart, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

const jobPartColumns = `
		id, job_id, serial_number, part_name, process, filter_part_number,
		po_number, mileage, vin, has_gasket, has_clamps,
		ecs_part_number, pass_fail, repaired, failure_reason, repairs,
		created_at, updated_at`
