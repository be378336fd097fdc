package postgres

import (
	"context"
	"database/sql"
	"strings"

	"pest-field-service/internal/domain/directory"
)

type DirectoryRepo struct {
	db *sql.DB
}

func NewDirectoryRepo(db *sql.DB) *DirectoryRepo {
	return &DirectoryRepo{db: db}
}

// customers

func (r *DirectoryRepo) CreateCustomer(ctx context.Context, c directory.Customer) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, title, email, phone, address, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, c.ID, c.Title, c.Email, c.Phone, c.Address, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *DirectoryRepo) UpdateCustomer(ctx context.Context, c directory.Customer) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE customers
		SET title = $2, email = $3, phone = $4, address = $5, updated_at = $6
		WHERE id = $1
	`, c.ID, c.Title, c.Email, c.Phone, c.Address, c.UpdatedAt)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return directory.ErrNotFound
	}
	return nil
}

func (r *DirectoryRepo) CustomerByID(ctx context.Context, id string) (directory.Customer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return directory.Customer{}, directory.ErrNotFound
	}

	var c directory.Customer
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, email, phone, address, created_at, updated_at
		FROM customers
		WHERE id = $1
	`, id).Scan(&c.ID, &c.Title, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return directory.Customer{}, directory.ErrNotFound
		}
		return directory.Customer{}, err
	}
	return c, nil
}

func (r *DirectoryRepo) ListCustomers(ctx context.Context) ([]directory.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, email, phone, address, created_at, updated_at
		FROM customers
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]directory.Customer, 0)
	for rows.Next() {
		var c directory.Customer
		if err := rows.Scan(&c.ID, &c.Title, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// stores

func (r *DirectoryRepo) CreateStore(ctx context.Context, s directory.Store) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO stores (id, customer_id, name, address, city, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, s.ID, s.CustomerID, s.Name, s.Address, s.City, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *DirectoryRepo) UpdateStore(ctx context.Context, s directory.Store) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE stores
		SET name = $2, address = $3, city = $4, updated_at = $5
		WHERE id = $1
	`, s.ID, s.Name, s.Address, s.City, s.UpdatedAt)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return directory.ErrNotFound
	}
	return nil
}

func (r *DirectoryRepo) StoreByID(ctx context.Context, id string) (directory.Store, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return directory.Store{}, directory.ErrNotFound
	}

	var s directory.Store
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, name, address, city, created_at, updated_at
		FROM stores
		WHERE id = $1
	`, id).Scan(&s.ID, &s.CustomerID, &s.Name, &s.Address, &s.City, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return directory.Store{}, directory.ErrNotFound
		}
		return directory.Store{}, err
	}
	return s, nil
}

func (r *DirectoryRepo) StoresByCustomer(ctx context.Context, customerID string) ([]directory.Store, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, name, address, city, created_at, updated_at
		FROM stores
		WHERE customer_id = $1
		ORDER BY created_at ASC
	`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]directory.Store, 0)
	for rows.Next() {
		var s directory.Store
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.Name, &s.Address, &s.City, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// employees

func (r *DirectoryRepo) CreateEmployee(ctx context.Context, e directory.Employee) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO employees (id, name, email, phone, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, e.ID, e.Name, e.Email, e.Phone, e.PasswordHash, e.CreatedAt, e.UpdatedAt)
	return err
}

func (r *DirectoryRepo) EmployeeByID(ctx context.Context, id string) (directory.Employee, error) {
	return r.employeeBy(ctx, `WHERE id = $1`, strings.TrimSpace(id))
}

func (r *DirectoryRepo) EmployeeByEmail(ctx context.Context, email string) (directory.Employee, error) {
	return r.employeeBy(ctx, `WHERE lower(email) = lower($1)`, strings.TrimSpace(email))
}

func (r *DirectoryRepo) employeeBy(ctx context.Context, where, arg string) (directory.Employee, error) {
	if arg == "" {
		return directory.Employee{}, directory.ErrNotFound
	}

	var e directory.Employee
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, password_hash, created_at, updated_at
		FROM employees
	`+where, arg).Scan(&e.ID, &e.Name, &e.Email, &e.Phone, &e.PasswordHash, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return directory.Employee{}, directory.ErrNotFound
		}
		return directory.Employee{}, err
	}
	return e, nil
}

func (r *DirectoryRepo) ListEmployees(ctx context.Context) ([]directory.Employee, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, phone, password_hash, created_at, updated_at
		FROM employees
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]directory.Employee, 0)
	for rows.Next() {
		var e directory.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Email, &e.Phone, &e.PasswordHash, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// admins

func (r *DirectoryRepo) CreateAdmin(ctx context.Context, a directory.Admin) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admins (id, name, email, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, a.ID, a.Name, a.Email, a.PasswordHash, a.CreatedAt, a.UpdatedAt)
	return err
}

func (r *DirectoryRepo) AdminByID(ctx context.Context, id string) (directory.Admin, error) {
	return r.adminBy(ctx, `WHERE id = $1`, strings.TrimSpace(id))
}

func (r *DirectoryRepo) AdminByEmail(ctx context.Context, email string) (directory.Admin, error) {
	return r.adminBy(ctx, `WHERE lower(email) = lower($1)`, strings.TrimSpace(email))
}

func (r *DirectoryRepo) adminBy(ctx context.Context, where, arg string) (directory.Admin, error) {
	if arg == "" {
		return directory.Admin{}, directory.ErrNotFound
	}

	var a directory.Admin
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM admins
	`+where, arg).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return directory.Admin{}, directory.ErrNotFound
		}
		return directory.Admin{}, err
	}
	return a, nil
}

// access owners (cuentas externas del lado cliente)

func (r *DirectoryRepo) CreateOwner(ctx context.Context, o directory.AccessOwner) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO access_owners (id, customer_id, name, email, password_hash, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, o.ID, toNullString(o.CustomerID), o.Name, o.Email, o.PasswordHash, o.CreatedAt, o.UpdatedAt)
	return err
}

func (r *DirectoryRepo) OwnerByID(ctx context.Context, id string) (directory.AccessOwner, error) {
	return r.ownerBy(ctx, `WHERE id = $1`, strings.TrimSpace(id))
}

func (r *DirectoryRepo) OwnerByEmail(ctx context.Context, email string) (directory.AccessOwner, error) {
	return r.ownerBy(ctx, `WHERE lower(email) = lower($1)`, strings.TrimSpace(email))
}

func (r *DirectoryRepo) ownerBy(ctx context.Context, where, arg string) (directory.AccessOwner, error) {
	if arg == "" {
		return directory.AccessOwner{}, directory.ErrNotFound
	}

	var o directory.AccessOwner
	var customerID sql.NullString
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, name, email, password_hash, created_at, updated_at
		FROM access_owners
	`+where, arg).Scan(&o.ID, &customerID, &o.Name, &o.Email, &o.PasswordHash, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return directory.AccessOwner{}, directory.ErrNotFound
		}
		return directory.AccessOwner{}, err
	}
	o.CustomerID = customerID.String
	return o, nil
}
