package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pest-field-service/internal/domain/feedback"
)

type FeedbackRepo struct {
	db *sql.DB
}

func NewFeedbackRepo(db *sql.DB) *FeedbackRepo {
	return &FeedbackRepo{db: db}
}

func (r *FeedbackRepo) Create(ctx context.Context, e feedback.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO feedback_entries (
			id, store_id, owner_id,
			kind, subject, message, status,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		e.ID,
		e.StoreID,
		e.OwnerID,
		string(e.Kind),
		e.Subject,
		e.Message,
		string(e.Status),
		e.CreatedAt,
		e.UpdatedAt,
	)
	return err
}

func (r *FeedbackRepo) GetByID(ctx context.Context, id string) (feedback.Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return feedback.Entry{}, feedback.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, store_id, owner_id,
			kind, subject, message, status,
			created_at, updated_at
		FROM feedback_entries
		WHERE id = $1
	`, id)

	e, err := scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return feedback.Entry{}, feedback.ErrNotFound
		}
		return feedback.Entry{}, err
	}
	return e, nil
}

func (r *FeedbackRepo) Update(ctx context.Context, e feedback.Entry) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE feedback_entries
		SET status = $2, updated_at = $3
		WHERE id = $1
	`, e.ID, string(e.Status), e.UpdatedAt)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return feedback.ErrNotFound
	}
	return nil
}

func (r *FeedbackRepo) ListByStore(ctx context.Context, storeID string) ([]feedback.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, store_id, owner_id,
			kind, subject, message, status,
			created_at, updated_at
		FROM feedback_entries
		WHERE store_id = $1
		ORDER BY created_at ASC, id ASC
	`, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]feedback.Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEntry(row rowScanner) (feedback.Entry, error) {
	var e feedback.Entry
	var kind, status string

	if err := row.Scan(
		&e.ID,
		&e.StoreID,
		&e.OwnerID,
		&kind,
		&e.Subject,
		&e.Message,
		&status,
		&e.CreatedAt,
		&e.UpdatedAt,
	); err != nil {
		return feedback.Entry{}, err
	}

	e.Kind = feedback.Kind(kind)
	e.Status = feedback.Status(status)
	return e, nil
}
