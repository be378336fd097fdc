package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pest-field-service/internal/domain/access"
)

type accessRepo struct {
	mu   sync.RWMutex
	byID map[string]access.Grant
}

func NewAccessRepo() access.Repository {
	return &accessRepo{
		byID: make(map[string]access.Grant),
	}
}

func (r *accessRepo) Create(ctx context.Context, g access.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if g.ID == "" {
		return errors.New("grant id required")
	}
	if _, exists := r.byID[g.ID]; exists {
		return errors.New("grant already exists")
	}

	// Unicidad de la tupla, equivalente al índice único de Postgres.
	for _, other := range r.byID {
		if other.PrincipalType == g.PrincipalType &&
			other.PrincipalID == g.PrincipalID &&
			other.ScopeType == g.ScopeType &&
			other.CustomerID == g.CustomerID &&
			other.StoreID == g.StoreID {
			return access.ErrConflict
		}
	}

	r.byID[g.ID] = g
	return nil
}

func (r *accessRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return access.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *accessRepo) GetByID(ctx context.Context, id string) (access.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.byID[id]
	if !ok {
		return access.Grant{}, access.ErrNotFound
	}
	return g, nil
}

func (r *accessRepo) ListByStore(ctx context.Context, storeID string) ([]access.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]access.Grant, 0)
	for _, g := range r.byID {
		if g.ScopeType == access.ScopeStore && g.StoreID == storeID {
			out = append(out, g)
		}
	}
	sortGrants(out)
	return out, nil
}

func (r *accessRepo) ListByCustomer(ctx context.Context, customerID string) ([]access.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]access.Grant, 0)
	for _, g := range r.byID {
		if g.ScopeType == access.ScopeCustomer && g.CustomerID == customerID {
			out = append(out, g)
		}
	}
	sortGrants(out)
	return out, nil
}

func (r *accessRepo) ListByPrincipal(ctx context.Context, ptype access.PrincipalType, principalID string) ([]access.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]access.Grant, 0)
	for _, g := range r.byID {
		if g.PrincipalType == ptype && g.PrincipalID == principalID {
			out = append(out, g)
		}
	}
	sortGrants(out)
	return out, nil
}

func (r *accessRepo) ListByOwner(ctx context.Context, ownerID string) ([]access.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]access.Grant, 0)
	for _, g := range r.byID {
		if g.OwnerID != "" && g.OwnerID == ownerID {
			out = append(out, g)
		}
	}
	sortGrants(out)
	return out, nil
}

func sortGrants(items []access.Grant) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
