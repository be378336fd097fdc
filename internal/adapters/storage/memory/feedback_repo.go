package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pest-field-service/internal/domain/feedback"
)

type feedbackRepo struct {
	mu   sync.RWMutex
	byID map[string]feedback.Entry
}

func NewFeedbackRepo() feedback.Repository {
	return &feedbackRepo{
		byID: make(map[string]feedback.Entry),
	}
}

func (r *feedbackRepo) Create(ctx context.Context, e feedback.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("feedback id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("feedback already exists")
	}

	r.byID[e.ID] = e
	return nil
}

func (r *feedbackRepo) GetByID(ctx context.Context, id string) (feedback.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return feedback.Entry{}, feedback.ErrNotFound
	}
	return e, nil
}

func (r *feedbackRepo) Update(ctx context.Context, e feedback.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[e.ID]; !exists {
		return feedback.ErrNotFound
	}

	r.byID[e.ID] = e
	return nil
}

func (r *feedbackRepo) ListByStore(ctx context.Context, storeID string) ([]feedback.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]feedback.Entry, 0)
	for _, e := range r.byID {
		if e.StoreID == storeID {
			out = append(out, e)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
