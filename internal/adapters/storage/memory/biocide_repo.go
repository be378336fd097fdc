package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pest-field-service/internal/domain/biocide"
)

type biocideRepo struct {
	mu   sync.RWMutex
	byID map[string]biocide.Application
}

func NewBiocideRepo() biocide.Repository {
	return &biocideRepo{
		byID: make(map[string]biocide.Application),
	}
}

func (r *biocideRepo) Create(ctx context.Context, a biocide.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		return errors.New("application id required")
	}
	if _, exists := r.byID[a.ID]; exists {
		return errors.New("application already exists")
	}

	r.byID[a.ID] = a
	return nil
}

func (r *biocideRepo) ListByEvent(ctx context.Context, eventID string) ([]biocide.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]biocide.Application, 0)
	for _, a := range r.byID {
		if a.EventID == eventID {
			out = append(out, a)
		}
	}
	sortApplications(out)
	return out, nil
}

func (r *biocideRepo) ListByStore(ctx context.Context, storeID string) ([]biocide.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]biocide.Application, 0)
	for _, a := range r.byID {
		if a.StoreID == storeID {
			out = append(out, a)
		}
	}
	sortApplications(out)
	return out, nil
}

func sortApplications(apps []biocide.Application) {
	sort.Slice(apps, func(i, j int) bool {
		if apps[i].AppliedAt.Equal(apps[j].AppliedAt) {
			return apps[i].ID < apps[j].ID
		}
		return apps[i].AppliedAt.Before(apps[j].AppliedAt)
	})
}
