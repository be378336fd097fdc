package schedule

import (
	"context"
	"errors"
	"strings"
	"time"

	"pest-field-service/internal/ports/notify"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("employee already booked")
	ErrForbidden    = errors.New("forbidden")
)

type Service struct {
	repo     Repository
	dir      Directory
	notifier notify.Notifier // opcional; best-effort
	now      func() time.Time
}

func NewService(repo Repository, dir Directory, notifier notify.Notifier) *Service {
	return &Service{
		repo:     repo,
		dir:      dir,
		notifier: notifier,
		now:      time.Now,
	}
}

// Query devuelve los eventos que intersectan [from, to), con filtros
// opcionales por técnico y tienda, orden Start asc.
func (s *Service) Query(ctx context.Context, from, to time.Time, employeeID, storeID string) ([]Event, error) {
	if from.IsZero() || to.IsZero() {
		return nil, ErrInvalidInput
	}
	if !to.After(from) {
		return nil, ErrInvalidInput
	}

	return s.repo.Query(ctx, QueryFilter{
		From:       from,
		To:         to,
		EmployeeID: strings.TrimSpace(employeeID),
		StoreID:    strings.TrimSpace(storeID),
	})
}

type CreateInput struct {
	Title      string
	Notes      string
	EmployeeID string
	StoreID    string
	Start      time.Time
	End        time.Time
	Status     Status // opcional; default PLANNED
}

// Create valida todo y recién después consulta conflictos y escribe.
// Solo admins crean visitas en este motor.
func (s *Service) Create(ctx context.Context, in CreateInput, actor Actor) (Event, error) {
	if actor.Role != RoleAdmin {
		return Event{}, ErrForbidden
	}

	employeeID := strings.TrimSpace(in.EmployeeID)
	storeID := strings.TrimSpace(in.StoreID)
	if employeeID == "" || storeID == "" {
		return Event{}, ErrInvalidInput
	}

	if _, err := s.dir.EmployeeByID(ctx, employeeID); err != nil {
		return Event{}, ErrNotFound
	}
	if _, err := s.dir.StoreByID(ctx, storeID); err != nil {
		return Event{}, ErrNotFound
	}

	if err := validateInterval(in.Start, in.End); err != nil {
		return Event{}, err
	}

	// Default explícito acá, no en el schema: el comportamiento no debe
	// depender de defaults de la base.
	status := in.Status
	if status == "" {
		status = StatusPlanned
	}
	if !status.Valid() {
		return Event{}, ErrInvalidInput
	}

	overlapping, err := s.repo.ListOverlapping(ctx, employeeID, in.Start, in.End, "")
	if err != nil {
		return Event{}, err
	}
	if len(overlapping) > 0 {
		return Event{}, ErrConflict
	}

	now := s.now()
	e := Event{
		ID:            uuid.NewString(),
		Title:         strings.TrimSpace(in.Title),
		Notes:         strings.TrimSpace(in.Notes),
		EmployeeID:    employeeID,
		StoreID:       storeID,
		Start:         in.Start,
		End:           in.End,
		Status:        status,
		PlannedByID:   actor.ID,
		PlannedByRole: actor.Role,
		PlannedByName: s.resolvePlannerName(ctx, actor),
		PlannedAt:     now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Event{}, err
	}

	s.notifyEvent(ctx, "schedule.event_created", e)
	return e, nil
}

// UpdateInput es un PATCH real: nil = no tocar.
type UpdateInput struct {
	Title      *string
	Notes      *string
	EmployeeID *string
	StoreID    *string
	Start      *time.Time
	End        *time.Time
	Status     *Status
}

// Update aplica un patch con permisos por rol: un técnico solo puede cambiar
// status (cualquier otro campo presente => Forbidden); un admin puede tocar
// cualquier subconjunto. La validación corre sobre los valores efectivos
// post-merge, nunca campo por campo.
func (s *Service) Update(ctx context.Context, id string, patch UpdateInput, actor Actor) (Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Event{}, ErrInvalidInput
	}

	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Event{}, ErrNotFound
	}

	switch actor.Role {
	case RoleEmployee:
		return s.updateStatusOnly(ctx, cur, patch)
	case RoleAdmin:
		return s.updateAsAdmin(ctx, cur, patch)
	default:
		return Event{}, ErrForbidden
	}
}

func (s *Service) updateStatusOnly(ctx context.Context, cur Event, patch UpdateInput) (Event, error) {
	if patch.Title != nil || patch.Notes != nil || patch.EmployeeID != nil ||
		patch.StoreID != nil || patch.Start != nil || patch.End != nil {
		return Event{}, ErrForbidden
	}
	if patch.Status == nil {
		return Event{}, ErrInvalidInput
	}
	if !patch.Status.Valid() {
		return Event{}, ErrInvalidInput
	}

	cur.Status = *patch.Status
	cur.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, cur); err != nil {
		return Event{}, err
	}

	s.notifyEvent(ctx, "schedule.event_status_changed", cur)
	return cur, nil
}

func (s *Service) updateAsAdmin(ctx context.Context, cur Event, patch UpdateInput) (Event, error) {
	next := cur

	if patch.Title != nil {
		next.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Notes != nil {
		next.Notes = strings.TrimSpace(*patch.Notes)
	}
	if patch.EmployeeID != nil {
		employeeID := strings.TrimSpace(*patch.EmployeeID)
		if employeeID == "" {
			return Event{}, ErrInvalidInput
		}
		if _, err := s.dir.EmployeeByID(ctx, employeeID); err != nil {
			return Event{}, ErrNotFound
		}
		next.EmployeeID = employeeID
	}
	if patch.StoreID != nil {
		storeID := strings.TrimSpace(*patch.StoreID)
		if storeID == "" {
			return Event{}, ErrInvalidInput
		}
		if _, err := s.dir.StoreByID(ctx, storeID); err != nil {
			return Event{}, ErrNotFound
		}
		next.StoreID = storeID
	}
	if patch.Start != nil {
		next.Start = *patch.Start
	}
	if patch.End != nil {
		next.End = *patch.End
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return Event{}, ErrInvalidInput
		}
		// El grafo de transiciones no restringe nada a este nivel:
		// un admin puede mover cualquier estado a cualquier otro.
		next.Status = *patch.Status
	}

	// Intervalo efectivo post-merge.
	if err := validateInterval(next.Start, next.End); err != nil {
		return Event{}, err
	}

	overlapping, err := s.repo.ListOverlapping(ctx, next.EmployeeID, next.Start, next.End, next.ID)
	if err != nil {
		return Event{}, err
	}
	if len(overlapping) > 0 {
		return Event{}, ErrConflict
	}

	next.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, next); err != nil {
		return Event{}, err
	}

	s.notifyEvent(ctx, "schedule.event_updated", next)
	return next, nil
}

// Get enriquece el evento con nombres denormalizados. Los lookups rotos
// degradan a vacío; el fallback del planificador es "Rol #id".
func (s *Service) Get(ctx context.Context, id string) (Detail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Detail{}, ErrInvalidInput
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Detail{}, ErrNotFound
	}

	d := Detail{Event: e}

	if emp, err := s.dir.EmployeeByID(ctx, e.EmployeeID); err == nil {
		d.EmployeeName = emp.Name
	}
	if st, err := s.dir.StoreByID(ctx, e.StoreID); err == nil {
		d.StoreName = st.Name
		d.CustomerID = st.CustomerID
	}

	d.PlannerName = e.PlannedByName
	if strings.TrimSpace(d.PlannerName) == "" {
		d.PlannerName = plannerLabel(e.PlannedByRole, e.PlannedByID)
	}

	return d, nil
}

// validateInterval exige end > start y ambos instantes sobre la grilla de
// 15 minutos. Solo mira el componente de minutos; segundos quedan sin
// restringir, igual que el resto del sistema.
func validateInterval(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrInvalidInput
	}
	if !end.After(start) {
		return ErrInvalidInput
	}
	if start.Minute()%GridMinutes != 0 || end.Minute()%GridMinutes != 0 {
		return ErrInvalidInput
	}
	return nil
}

// resolvePlannerName intenta en orden: nombre que trae el actor, ficha de
// técnico, ficha de admin, cuenta externa. Gana el primero no vacío.
func (s *Service) resolvePlannerName(ctx context.Context, actor Actor) string {
	if name := strings.TrimSpace(actor.DisplayName); name != "" {
		return name
	}
	if e, err := s.dir.EmployeeByID(ctx, actor.ID); err == nil && strings.TrimSpace(e.Name) != "" {
		return e.Name
	}
	if a, err := s.dir.AdminByID(ctx, actor.ID); err == nil && strings.TrimSpace(a.Name) != "" {
		return a.Name
	}
	if o, err := s.dir.OwnerByID(ctx, actor.ID); err == nil && strings.TrimSpace(o.Name) != "" {
		return o.Name
	}
	return ""
}

func plannerLabel(role, id string) string {
	switch role {
	case RoleAdmin:
		return "Admin #" + id
	case RoleEmployee:
		return "Employee #" + id
	case RoleCustomer:
		return "Customer #" + id
	default:
		return "User #" + id
	}
}

func (s *Service) notifyEvent(ctx context.Context, kind string, e Event) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, notify.Notification{
		Kind:       kind,
		OccurredAt: s.now(),
		Data: map[string]any{
			"event_id":    e.ID,
			"employee_id": e.EmployeeID,
			"store_id":    e.StoreID,
			"start":       e.Start,
			"end":         e.End,
			"status":      string(e.Status),
		},
	})
}
