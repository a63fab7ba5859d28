// Package data provides PostgreSQL and Redis backed repositories for the
// shoptrack domain. Relational access rides the database/sql pool with native
// pgx queries via the pgxutil bridge.
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

// JobRepo provides database operations for jobs.
type JobRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewJobRepo creates a new JobRepo with real time provider.
func NewJobRepo(db *sql.DB) *JobRepo {
	return &JobRepo{DB: db, timeProvider: &RealTimeProvider{}}
}

// NewJobRepoWithTimeProvider creates a new JobRepo with a custom time
// provider (useful for tests).
func NewJobRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *JobRepo {
	return &JobRepo{DB: db, timeProvider: tp}
}

// Create inserts a new job. The job's ID must be set by the caller; state
// timestamps present on the struct are persisted as given.
func (r *JobRepo) Create(ctx context.Context, job *model.Job) (*model.Job, error) {
	if job == nil {
		return nil, errors.New("job is required")
	}
	if job.ID == "" {
		return nil, errors.New("job id is required")
	}
	if !job.State.Valid() {
		return nil, apperrors.Validationf("invalid job state: %q", job.State)
	}

	now := r.timeProvider.Now().UTC()
	var out model.Job
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO jobs (
				id, state, customer_name, shop_name, contact_name, contact_phone,
				instructions, pickup_address, delivery_address, item_count,
				technician_name, delivery_method, order_numbers, cancel_reason,
				start_mode, started_at, completion_mode, completed_at,
				queued_for_pickup_at, picked_up_at, at_shop_at, in_service_at,
				service_complete_at, ready_for_pickup_at, picked_up_from_shop_at,
				queued_for_delivery_at, delivered_at, cancelled_at,
				pickup_dispatch_id, pickup_driver_email,
				delivery_dispatch_id, delivery_driver_email,
				created_at, updated_at
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
				$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26,
				$27, $28, $29, $30, $31, $32, $33, $33
			) RETURNING `+jobColumns,
			job.ID,
			job.State,
			strings.TrimSpace(job.CustomerName),
			strings.TrimSpace(job.ShopName),
			job.ContactName,
			job.ContactPhone,
			job.Instructions,
			job.PickupAddress,
			job.DeliveryAddress,
			job.ItemCount,
			job.TechnicianName,
			job.DeliveryMethod,
			job.OrderNumbers,
			job.CancelReason,
			job.StartMode,
			job.StartedAt,
			job.CompletionMode,
			job.CompletedAt,
			job.QueuedForPickupAt,
			job.PickedUpAt,
			job.AtShopAt,
			job.InServiceAt,
			job.ServiceCompleteAt,
			job.ReadyForPickupAt,
			job.PickedUpFromShopAt,
			job.QueuedForDeliveryAt,
			job.DeliveredAt,
			job.CancelledAt,
			job.PickupDispatchID,
			job.PickupDriverEmail,
			job.DeliveryDispatchID,
			job.DeliveryDriverEmail,
			now,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	}); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a job by ID.
func (r *JobRepo) GetByID(ctx context.Context, id string) (*model.Job, error) {
	var out model.Job
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, jobGetByIDQuery, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return err
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("job %s not found", id)
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Update applies a partial update. Nil fields on upd are untouched. When
// upd.ExpectedState is set the update only applies while the stored state
// still matches; a state that moved underneath the caller surfaces as a
// conflict error carrying the current row state.
func (r *JobRepo) Update(
	ctx context.Context,
	id string,
	upd *model.JobUpdate,
) (*model.Job, error) {
	if upd == nil {
		return nil, errors.New("job update is required")
	}
	if upd.State != nil && !upd.State.Valid() {
		return nil, apperrors.Validationf("invalid job state: %q", *upd.State)
	}

	setClause, args := r.buildUpdateClause(upd)

	var out model.Job
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		if setClause == "" {
			rows, qErr := conn.Query(ctx, jobGetByIDQuery, id)
			if qErr != nil {
				return qErr
			}
			defer rows.Close()
			var e error
			out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
			return e
		}

		args = append(args, id)
		query := "UPDATE jobs SET " + setClause +
			" WHERE id = $" + strconv.Itoa(len(args))
		if upd.ExpectedState != nil {
			args = append(args, *upd.ExpectedState)
			query += " AND state = $" + strconv.Itoa(len(args))
		}
		query += " RETURNING " + jobColumns

		rows, qErr := conn.Query(ctx, query, args...)
		if qErr != nil {
			return qErr
		}
		defer rows.Close()
		var e error
		out, e = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Job])
		return e
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if upd.ExpectedState != nil {
				return nil, r.explainGuardMiss(ctx, id, *upd.ExpectedState)
			}
			return nil, apperrors.NotFoundf("job %s not found", id)
		}
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// explainGuardMiss distinguishes "job gone" from "state moved" after a
// guarded update matched zero rows.
func (r *JobRepo) explainGuardMiss(
	ctx context.Context,
	id string,
	expected model.JobState,
) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return apperrors.Conflict(fmt.Sprintf(
		"job %s state is %s, expected %s", id, current.State, expected,
	))
}

// Delete removes a job row and, via cascade, its events, parts, and
// comments. Reserved for rolling back a creation whose pickup dispatch
// failed.
func (r *JobRepo) Delete(ctx context.Context, id string) error {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, execErr := conn.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
		if execErr != nil {
			return execErr
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if affected == 0 {
		return apperrors.NotFoundf("job %s not found", id)
	}
	return nil
}

// List retrieves jobs with optional state and shop filters, newest first.
func (r *JobRepo) List(
	ctx context.Context,
	opts model.JobListOptions,
) ([]*model.Job, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	where := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if opts.State != nil {
		args = append(args, *opts.State)
		where = append(where, "state = $"+strconv.Itoa(len(args)))
	}
	if strings.TrimSpace(opts.ShopName) != "" {
		args = append(args, strings.TrimSpace(opts.ShopName))
		where = append(where, "shop_name = $"+strconv.Itoa(len(args)))
	}

	query := "SELECT " + jobColumns + " FROM jobs"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit)
	query += " ORDER BY created_at DESC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	var rowsOut []model.Job
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Job])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	res := make([]*model.Job, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// buildUpdateClause builds the SQL SET clause and args from the non-nil
// fields of upd. updated_at is always stamped.
func (r *JobRepo) buildUpdateClause(upd *model.JobUpdate) (string, []any) {
	setParts := make([]string, 0, 12)
	args := make([]any, 0, 12)
	add := func(column string, value any) {
		args = append(args, value)
		setParts = append(setParts, column+" = $"+strconv.Itoa(len(args)))
	}

	if upd.State != nil {
		add("state", *upd.State)
	}
	if upd.ItemCount != nil {
		add("item_count", *upd.ItemCount)
	}
	if upd.TechnicianName != nil {
		add("technician_name", *upd.TechnicianName)
	}
	if upd.DeliveryMethod != nil {
		add("delivery_method", *upd.DeliveryMethod)
	}
	if upd.OrderNumbers != nil {
		add("order_numbers", upd.OrderNumbers)
	}
	if upd.CancelReason != nil {
		add("cancel_reason", *upd.CancelReason)
	}
	if upd.StartMode != nil {
		add("start_mode", *upd.StartMode)
	}
	if upd.StartedAt != nil {
		add("started_at", upd.StartedAt.UTC())
	}
	if upd.CompletionMode != nil {
		add("completion_mode", *upd.CompletionMode)
	}
	if upd.CompletedAt != nil {
		add("completed_at", upd.CompletedAt.UTC())
	}
	for state, ts := range upd.StateTimestamps {
		if col, ok := stateTimestampColumns[state]; ok {
			add(col, ts.UTC())
		}
	}
	if upd.PickupDispatchID != nil {
		add("pickup_dispatch_id", *upd.PickupDispatchID)
	}
	if upd.PickupDriverEmail != nil {
		add("pickup_driver_email", *upd.PickupDriverEmail)
	}
	if upd.DeliveryDispatchID != nil {
		add("delivery_dispatch_id", *upd.DeliveryDispatchID)
	}
	if upd.DeliveryDriverEmail != nil {
		add("delivery_driver_email", *upd.DeliveryDriverEmail)
	}
	if upd.CustomerName != nil {
		add("customer_name", strings.TrimSpace(*upd.CustomerName))
	}
	if upd.ContactName != nil {
		add("contact_name", *upd.ContactName)
	}
	if upd.ContactPhone != nil {
		add("contact_phone", *upd.ContactPhone)
	}
	if upd.Instructions != nil {
		add("instructions", *upd.Instructions)
	}
	if upd.DeliveryAddress != nil {
		add("delivery_address", *upd.DeliveryAddress)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	add("updated_at", r.timeProvider.Now().UTC())
	return strings.Join(setParts, ", "), args
}

// stateTimestampColumns maps each state to its per-state timestamp column.
var stateTimestampColumns = map[model.JobState]string{
	model.StateQueuedForPickup:   "queued_for_pickup_at",
	model.StatePickedUp:          "picked_up_at",
	model.StateAtShop:            "at_shop_at",
	model.StateInService:         "in_service_at",
	model.StateServiceComplete:   "service_complete_at",
	model.StateReadyForPickup:    "ready_for_pickup_at",
	model.StatePickedUpFromShop:  "picked_up_from_shop_at",
	model.StateQueuedForDelivery: "queued_for_delivery_at",
	model.StateDelivered:         "delivered_at",
	model.StateCancelled:         "cancelled_at",
}

const jobColumns = `
		id, state, customer_name, shop_name, contact_name, contact_phone,
		instructions, pickup_address, delivery_address, item_count,
		technician_name, delivery_method, order_numbers, cancel_reason,
		start_mode, started_at, completion_mode, completed_at,
		queued_for_pickup_at, picked_up_at, at_shop_at, in_service_at,
		service_complete_at, ready_for_pickup_at, picked_up_from_shop_at,
		queued_for_delivery_at, delivered_at, cancelled_at,
		pickup_dispatch_id, pickup_driver_email,
		delivery_dispatch_id, delivery_driver_email,
		created_at, updated_at`

const jobGetByIDQuery = `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
