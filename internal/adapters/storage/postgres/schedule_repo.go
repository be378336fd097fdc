package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"pest-field-service/internal/domain/schedule"
)

type ScheduleRepo struct {
	db *sql.DB
}

func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{db: db}
}

const eventColumns = `
	id, title, notes,
	employee_id, store_id,
	start_at, end_at, status,
	planned_by_id, planned_by_role, planned_by_name, planned_at,
	created_at, updated_at
`

// Create toma un advisory lock transaccional por técnico antes de re-chequear
// el solape e insertar. El check del service es check-then-act; el lock
// serializa las escrituras del mismo técnico y cierra la ventana.
func (r *ScheduleRepo) Create(ctx context.Context, e schedule.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := lockEmployee(ctx, tx, e.EmployeeID); err != nil {
		return err
	}

	conflict, err := hasOverlap(ctx, tx, e.EmployeeID, e.Start, e.End, "")
	if err != nil {
		return err
	}
	if conflict {
		return schedule.ErrConflict
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO schedule_events (`+eventColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		e.ID,
		e.Title,
		e.Notes,
		e.EmployeeID,
		e.StoreID,
		e.Start,
		e.End,
		string(e.Status),
		e.PlannedByID,
		e.PlannedByRole,
		e.PlannedByName,
		e.PlannedAt,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *ScheduleRepo) Update(ctx context.Context, e schedule.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := lockEmployee(ctx, tx, e.EmployeeID); err != nil {
		return err
	}

	conflict, err := hasOverlap(ctx, tx, e.EmployeeID, e.Start, e.End, e.ID)
	if err != nil {
		return err
	}
	if conflict {
		return schedule.ErrConflict
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE schedule_events
		SET
			title = $2,
			notes = $3,
			employee_id = $4,
			store_id = $5,
			start_at = $6,
			end_at = $7,
			status = $8,
			updated_at = $9
		WHERE id = $1
	`,
		e.ID,
		e.Title,
		e.Notes,
		e.EmployeeID,
		e.StoreID,
		e.Start,
		e.End,
		string(e.Status),
		e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return schedule.ErrNotFound
	}

	return tx.Commit()
}

func (r *ScheduleRepo) GetByID(ctx context.Context, id string) (schedule.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return schedule.Event{}, schedule.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM schedule_events
		WHERE id = $1
	`, id)

	e, err := scanEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return schedule.Event{}, schedule.ErrNotFound
		}
		return schedule.Event{}, err
	}
	return e, nil
}

func (r *ScheduleRepo) Query(ctx context.Context, f schedule.QueryFilter) ([]schedule.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM schedule_events
		WHERE start_at < $1 AND end_at > $2
	`
	args := []any{f.To, f.From}

	if f.EmployeeID != "" {
		args = append(args, f.EmployeeID)
		query += ` AND employee_id = $3`
	}
	if f.StoreID != "" {
		args = append(args, f.StoreID)
		if f.EmployeeID != "" {
			query += ` AND store_id = $4`
		} else {
			query += ` AND store_id = $3`
		}
	}
	query += ` ORDER BY start_at ASC`

	return r.list(ctx, query, args...)
}

func (r *ScheduleRepo) ListOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID string) ([]schedule.Event, error) {
	return r.list(ctx, `
		SELECT `+eventColumns+`
		FROM schedule_events
		WHERE employee_id = $1
		  AND start_at < $2
		  AND end_at > $3
		  AND id <> $4
		ORDER BY start_at ASC
	`, employeeID, end, start, excludeID)
}

func (r *ScheduleRepo) list(ctx context.Context, query string, args ...any) ([]schedule.Event, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]schedule.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func lockEmployee(ctx context.Context, tx *sql.Tx, employeeID string) error {
	_, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtext('schedule_employee:' || $1))`,
		employeeID,
	)
	return err
}

func hasOverlap(ctx context.Context, tx *sql.Tx, employeeID string, start, end time.Time, excludeID string) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM schedule_events
			WHERE employee_id = $1
			  AND start_at < $2
			  AND end_at > $3
			  AND id <> $4
		)
	`, employeeID, end, start, excludeID).Scan(&exists)
	return exists, err
}

func scanEvent(row rowScanner) (schedule.Event, error) {
	var e schedule.Event
	var status string

	if err := row.Scan(
		&e.ID,
		&e.Title,
		&e.Notes,
		&e.EmployeeID,
		&e.StoreID,
		&e.Start,
		&e.End,
		&status,
		&e.PlannedByID,
		&e.PlannedByRole,
		&e.PlannedByName,
		&e.PlannedAt,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return schedule.Event{}, err
	}

	e.Status = schedule.Status(status)
	return e, nil
}
