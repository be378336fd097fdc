package schedule

import (
	"context"

	"pest-field-service/internal/domain/directory"
)

// Directory es lo que el motor de agenda necesita del directorio: existencia
// y nombres para enriquecer. Interface chica del lado consumidor.
type Directory interface {
	EmployeeByID(ctx context.Context, id string) (directory.Employee, error)
	StoreByID(ctx context.Context, id string) (directory.Store, error)
	AdminByID(ctx context.Context, id string) (directory.Admin, error)
	OwnerByID(ctx context.Context, id string) (directory.AccessOwner, error)
}
