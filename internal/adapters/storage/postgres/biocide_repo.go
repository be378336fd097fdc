package postgres

import (
	"context"
	"database/sql"

	"pest-field-service/internal/domain/biocide"
)

type BiocideRepo struct {
	db *sql.DB
}

func NewBiocideRepo(db *sql.DB) *BiocideRepo {
	return &BiocideRepo{db: db}
}

func (r *BiocideRepo) Create(ctx context.Context, a biocide.Application) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO biocide_applications (
			id, event_id, store_id, employee_id,
			product, active_ingredient, dose, dose_unit, target_pest,
			applied_at, notes, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		a.ID,
		a.EventID,
		a.StoreID,
		a.EmployeeID,
		a.Product,
		a.ActiveIngredient,
		a.Dose,
		a.DoseUnit,
		a.TargetPest,
		a.AppliedAt,
		a.Notes,
		a.CreatedAt,
	)
	return err
}

func (r *BiocideRepo) ListByEvent(ctx context.Context, eventID string) ([]biocide.Application, error) {
	return r.list(ctx, `WHERE event_id = $1`, eventID)
}

func (r *BiocideRepo) ListByStore(ctx context.Context, storeID string) ([]biocide.Application, error) {
	return r.list(ctx, `WHERE store_id = $1`, storeID)
}

func (r *BiocideRepo) list(ctx context.Context, where, arg string) ([]biocide.Application, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, event_id, store_id, employee_id,
			product, active_ingredient, dose, dose_unit, target_pest,
			applied_at, notes, created_at
		FROM biocide_applications
	`+where+` ORDER BY applied_at ASC, id ASC`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]biocide.Application, 0)
	for rows.Next() {
		var a biocide.Application
		if err := rows.Scan(
			&a.ID,
			&a.EventID,
			&a.StoreID,
			&a.EmployeeID,
			&a.Product,
			&a.ActiveIngredient,
			&a.Dose,
			&a.DoseUnit,
			&a.TargetPest,
			&a.AppliedAt,
			&a.Notes,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
