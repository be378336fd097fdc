package access

import "context"

// Repository persiste los grants. Create debe devolver ErrConflict si ya
// existe un grant con la misma tupla (principalType, principalId, scopeType,
// customerId, storeId); Delete y GetByID devuelven ErrNotFound si no existe.
type Repository interface {
	Create(ctx context.Context, g Grant) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Grant, error)

	// ListByStore devuelve solo grants con scope STORE sobre esa tienda.
	ListByStore(ctx context.Context, storeID string) ([]Grant, error)
	// ListByCustomer devuelve solo grants con scope CUSTOMER sobre ese cliente.
	ListByCustomer(ctx context.Context, customerID string) ([]Grant, error)

	ListByPrincipal(ctx context.Context, ptype PrincipalType, principalID string) ([]Grant, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Grant, error)
}
