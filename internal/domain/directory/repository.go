package directory

import "context"

// Repository agrupa la persistencia del directorio completo. Son entidades
// chicas y CRUD plano; no amerita un repo por entidad todavía.
type Repository interface {
	CreateCustomer(ctx context.Context, c Customer) error
	UpdateCustomer(ctx context.Context, c Customer) error
	CustomerByID(ctx context.Context, id string) (Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)

	CreateStore(ctx context.Context, s Store) error
	UpdateStore(ctx context.Context, s Store) error
	StoreByID(ctx context.Context, id string) (Store, error)
	StoresByCustomer(ctx context.Context, customerID string) ([]Store, error)

	CreateEmployee(ctx context.Context, e Employee) error
	EmployeeByID(ctx context.Context, id string) (Employee, error)
	EmployeeByEmail(ctx context.Context, email string) (Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)

	CreateAdmin(ctx context.Context, a Admin) error
	AdminByID(ctx context.Context, id string) (Admin, error)
	AdminByEmail(ctx context.Context, email string) (Admin, error)

	CreateOwner(ctx context.Context, o AccessOwner) error
	OwnerByID(ctx context.Context, id string) (AccessOwner, error)
	OwnerByEmail(ctx context.Context, email string) (AccessOwner, error)
}
