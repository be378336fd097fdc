package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"pest-field-service/internal/domain/access"
)

type AccessRepo struct {
	db *sql.DB
}

func NewAccessRepo(db *sql.DB) *AccessRepo {
	return &AccessRepo{db: db}
}

// Create se apoya en el índice único sobre (principal_type, principal_id,
// scope_type, customer_id, store_id): la violación 23505 se traduce a
// access.ErrConflict. El índice debe declararse NULLS NOT DISTINCT (o como
// índice de expresión con COALESCE): customer_id o store_id siempre viene
// NULL según el scope, y con NULLs distintos el índice nunca dispararía.
func (r *AccessRepo) Create(ctx context.Context, g access.Grant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO access_grants (
			id, principal_type, principal_id,
			scope_type, customer_id, store_id, owner_id,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		g.ID,
		string(g.PrincipalType),
		g.PrincipalID,
		string(g.ScopeType),
		toNullString(g.CustomerID),
		toNullString(g.StoreID),
		toNullString(g.OwnerID),
		g.CreatedAt,
		g.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return access.ErrConflict
		}
		return err
	}
	return nil
}

func (r *AccessRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM access_grants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return access.ErrNotFound
	}
	return nil
}

func (r *AccessRepo) GetByID(ctx context.Context, id string) (access.Grant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return access.Grant{}, access.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, principal_type, principal_id,
			scope_type, customer_id, store_id, owner_id,
			created_at, updated_at
		FROM access_grants
		WHERE id = $1
	`, id)

	g, err := scanGrant(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return access.Grant{}, access.ErrNotFound
		}
		return access.Grant{}, err
	}
	return g, nil
}

func (r *AccessRepo) ListByStore(ctx context.Context, storeID string) ([]access.Grant, error) {
	return r.list(ctx, `
		SELECT
			id, principal_type, principal_id,
			scope_type, customer_id, store_id, owner_id,
			created_at, updated_at
		FROM access_grants
		WHERE scope_type = 'STORE' AND store_id = $1
		ORDER BY created_at ASC, id ASC
	`, storeID)
}

func (r *AccessRepo) ListByCustomer(ctx context.Context, customerID string) ([]access.Grant, error) {
	return r.list(ctx, `
		SELECT
			id, principal_type, principal_id,
			scope_type, customer_id, store_id, owner_id,
			created_at, updated_at
		FROM access_grants
		WHERE scope_type = 'CUSTOMER' AND customer_id = $1
		ORDER BY created_at ASC, id ASC
	`, customerID)
}

func (r *AccessRepo) ListByPrincipal(ctx context.Context, ptype access.PrincipalType, principalID string) ([]access.Grant, error) {
	return r.list(ctx, `
		SELECT
			id, principal_type, principal_id,
			scope_type, customer_id, store_id, owner_id,
			created_at, updated_at
		FROM access_grants
		WHERE principal_type = $1 AND principal_id = $2
		ORDER BY created_at ASC, id ASC
	`, string(ptype), principalID)
}

func (r *AccessRepo) ListByOwner(ctx context.Context, ownerID string) ([]access.Grant, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, nil
	}
	return r.list(ctx, `
		SELECT
			id, principal_type, principal_id,
			scope_type, customer_id, store_id, owner_id,
			created_at, updated_at
		FROM access_grants
		WHERE owner_id = $1
		ORDER BY created_at ASC, id ASC
	`, ownerID)
}

func (r *AccessRepo) list(ctx context.Context, query string, args ...any) ([]access.Grant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]access.Grant, 0)
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGrant(row rowScanner) (access.Grant, error) {
	var g access.Grant
	var ptype, stype string
	var customerID, storeID, ownerID sql.NullString

	if err := row.Scan(
		&g.ID,
		&ptype,
		&g.PrincipalID,
		&stype,
		&customerID,
		&storeID,
		&ownerID,
		&g.CreatedAt,
		&g.UpdatedAt,
	); err != nil {
		return access.Grant{}, err
	}

	g.PrincipalType = access.PrincipalType(ptype)
	g.ScopeType = access.ScopeType(stype)
	g.CustomerID = customerID.String
	g.StoreID = storeID.String
	g.OwnerID = ownerID.String

	return g, nil
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
