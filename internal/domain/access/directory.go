package access

import (
	"context"

	"pest-field-service/internal/domain/directory"
)

// Directory es lo mínimo que el resolver necesita del directorio.
// Interface del lado consumidor para no acoplar el módulo entero
// (mismo criterio que los lookups chicos entre módulos).
type Directory interface {
	StoreByID(ctx context.Context, id string) (directory.Store, error)
	StoresByCustomer(ctx context.Context, customerID string) ([]directory.Store, error)
	CustomerByID(ctx context.Context, id string) (directory.Customer, error)

	EmployeeByID(ctx context.Context, id string) (directory.Employee, error)
	AdminByID(ctx context.Context, id string) (directory.Admin, error)
}
