package biocide

import (
	"context"
	"errors"
	"strings"
	"time"

	"pest-field-service/internal/domain/schedule"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// EventLookup resuelve la visita a la que se adjunta el registro.
type EventLookup interface {
	Get(ctx context.Context, id string) (schedule.Detail, error)
}

type Service struct {
	repo   Repository
	events EventLookup
	now    func() time.Time
}

func NewService(repo Repository, events EventLookup) *Service {
	return &Service{
		repo:   repo,
		events: events,
		now:    time.Now,
	}
}

type CreateInput struct {
	EventID          string
	Product          string
	ActiveIngredient string
	Dose             string
	DoseUnit         string
	TargetPest       string
	AppliedAt        time.Time
	Notes            string
}

// Create adjunta un registro EK-1 a una visita existente. StoreID y
// EmployeeID se copian de la visita para que el registro quede completo
// aunque la visita cambie después.
func (s *Service) Create(ctx context.Context, in CreateInput) (Application, error) {
	eventID := strings.TrimSpace(in.EventID)
	if eventID == "" {
		return Application{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Product) == "" {
		return Application{}, ErrInvalidInput
	}

	ev, err := s.events.Get(ctx, eventID)
	if err != nil {
		return Application{}, ErrNotFound
	}

	appliedAt := in.AppliedAt
	if appliedAt.IsZero() {
		appliedAt = s.now()
	}

	a := Application{
		ID:               uuid.NewString(),
		EventID:          ev.ID,
		StoreID:          ev.StoreID,
		EmployeeID:       ev.EmployeeID,
		Product:          strings.TrimSpace(in.Product),
		ActiveIngredient: strings.TrimSpace(in.ActiveIngredient),
		Dose:             strings.TrimSpace(in.Dose),
		DoseUnit:         strings.TrimSpace(in.DoseUnit),
		TargetPest:       strings.TrimSpace(in.TargetPest),
		AppliedAt:        appliedAt,
		Notes:            strings.TrimSpace(in.Notes),
		CreatedAt:        s.now(),
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Application{}, err
	}
	return a, nil
}

func (s *Service) ListByEvent(ctx context.Context, eventID string) ([]Application, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByEvent(ctx, eventID)
}

func (s *Service) ListByStore(ctx context.Context, storeID string) ([]Application, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByStore(ctx, storeID)
}
