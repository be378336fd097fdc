package feedback

import "context"

type Repository interface {
	Create(ctx context.Context, e Entry) error
	GetByID(ctx context.Context, id string) (Entry, error)
	Update(ctx context.Context, e Entry) error
	ListByStore(ctx context.Context, storeID string) ([]Entry, error)
}
