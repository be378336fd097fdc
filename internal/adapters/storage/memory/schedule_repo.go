package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"pest-field-service/internal/domain/schedule"
)

type scheduleRepo struct {
	mu   sync.RWMutex
	byID map[string]schedule.Event
}

func NewScheduleRepo() schedule.Repository {
	return &scheduleRepo{
		byID: make(map[string]schedule.Event),
	}
}

// Create re-chequea el solape bajo el mismo lock que la escritura: el check
// previo del service más el insert es check-then-act, y dos requests
// concurrentes podrían pasar ambos el check. Acá se cierra esa ventana.
func (r *scheduleRepo) Create(ctx context.Context, e schedule.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("event id required")
	}
	if _, exists := r.byID[e.ID]; exists {
		return errors.New("event already exists")
	}
	if r.hasOverlapLocked(e.EmployeeID, e.Start, e.End, "") {
		return schedule.ErrConflict
	}

	r.byID[e.ID] = e
	return nil
}

func (r *scheduleRepo) Update(ctx context.Context, e schedule.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[e.ID]; !exists {
		return schedule.ErrNotFound
	}
	if r.hasOverlapLocked(e.EmployeeID, e.Start, e.End, e.ID) {
		return schedule.ErrConflict
	}

	r.byID[e.ID] = e
	return nil
}

func (r *scheduleRepo) GetByID(ctx context.Context, id string) (schedule.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byID[id]
	if !ok {
		return schedule.Event{}, schedule.ErrNotFound
	}
	return e, nil
}

func (r *scheduleRepo) Query(ctx context.Context, f schedule.QueryFilter) ([]schedule.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]schedule.Event, 0)
	for _, e := range r.byID {
		if !e.Overlaps(f.From, f.To) {
			continue
		}
		if f.EmployeeID != "" && e.EmployeeID != f.EmployeeID {
			continue
		}
		if f.StoreID != "" && e.StoreID != f.StoreID {
			continue
		}
		out = append(out, e)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (r *scheduleRepo) ListOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID string) ([]schedule.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]schedule.Event, 0)
	for _, e := range r.byID {
		if e.EmployeeID != employeeID {
			continue
		}
		if excludeID != "" && e.ID == excludeID {
			continue
		}
		if e.Overlaps(start, end) {
			out = append(out, e)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (r *scheduleRepo) hasOverlapLocked(employeeID string, start, end time.Time, excludeID string) bool {
	for _, e := range r.byID {
		if e.EmployeeID != employeeID {
			continue
		}
		if excludeID != "" && e.ID == excludeID {
			continue
		}
		if e.Overlaps(start, end) {
			return true
		}
	}
	return false
}
