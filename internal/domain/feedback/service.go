package feedback

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// StoreAccess es el gate del resolver de grants: antes de aceptar feedback
// de una cuenta externa se verifica que tenga acceso a la tienda.
type StoreAccess interface {
	OwnerCanAccessStore(ctx context.Context, ownerID, storeID string) (bool, error)
}

type Service struct {
	repo   Repository
	access StoreAccess
	now    func() time.Time
}

func NewService(repo Repository, access StoreAccess) *Service {
	return &Service{
		repo:   repo,
		access: access,
		now:    time.Now,
	}
}

type CreateInput struct {
	StoreID string
	OwnerID string
	Kind    Kind
	Subject string
	Message string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Entry, error) {
	storeID := strings.TrimSpace(in.StoreID)
	ownerID := strings.TrimSpace(in.OwnerID)

	if storeID == "" || ownerID == "" {
		return Entry{}, ErrInvalidInput
	}
	if !in.Kind.Valid() {
		return Entry{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Message) == "" {
		return Entry{}, ErrInvalidInput
	}

	allowed, err := s.access.OwnerCanAccessStore(ctx, ownerID, storeID)
	if err != nil {
		return Entry{}, err
	}
	if !allowed {
		return Entry{}, ErrForbidden
	}

	now := s.now()
	e := Entry{
		ID:        uuid.NewString(),
		StoreID:   storeID,
		OwnerID:   ownerID,
		Kind:      in.Kind,
		Subject:   strings.TrimSpace(in.Subject),
		Message:   strings.TrimSpace(in.Message),
		Status:    StatusOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (s *Service) ListByStore(ctx context.Context, storeID string) ([]Entry, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByStore(ctx, storeID)
}

// ListByStoreForOwner aplica el mismo gate que Create: una cuenta externa
// solo ve el feedback de tiendas accesibles.
func (s *Service) ListByStoreForOwner(ctx context.Context, ownerID, storeID string) ([]Entry, error) {
	allowed, err := s.access.OwnerCanAccessStore(ctx, ownerID, storeID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}
	return s.ListByStore(ctx, storeID)
}

func (s *Service) Resolve(ctx context.Context, id string) (Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Entry{}, ErrInvalidInput
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Entry{}, ErrNotFound
	}

	// Idempotente
	if e.Status == StatusResolved {
		return e, nil
	}

	e.Status = StatusResolved
	e.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}
