package biocide

import "context"

type Repository interface {
	Create(ctx context.Context, a Application) error
	ListByEvent(ctx context.Context, eventID string) ([]Application, error)
	ListByStore(ctx context.Context, storeID string) ([]Application, error)
}
