package access

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

type Service struct {
	repo Repository
	dir  Directory
	now  func() time.Time
}

func NewService(repo Repository, dir Directory) *Service {
	return &Service{
		repo: repo,
		dir:  dir,
		now:  time.Now,
	}
}

// Expand enriquece un grant con el resumen del principal (best-effort), la
// etiqueta de scope y el contexto de cliente. Solo lecturas; nunca falla:
// los lookups rotos degradan a nil / fallback por id.
func (s *Service) Expand(ctx context.Context, g Grant) EnrichedGrant {
	out := EnrichedGrant{Grant: g}

	out.Principal = s.principalSummary(ctx, g.PrincipalType, g.PrincipalID)

	switch g.ScopeType {
	case ScopeCustomer:
		label := g.CustomerID
		if c, err := s.dir.CustomerByID(ctx, g.CustomerID); err == nil {
			if strings.TrimSpace(c.Title) != "" {
				label = c.Title
			}
			out.Customer = &CustomerRef{ID: c.ID, Title: c.Title}
		} else {
			out.Customer = &CustomerRef{ID: g.CustomerID}
		}
		out.ScopeLabel = "Müşteri: " + label

	case ScopeStore:
		label := g.StoreID
		if st, err := s.dir.StoreByID(ctx, g.StoreID); err == nil {
			if strings.TrimSpace(st.Name) != "" {
				label = st.Name
			}
			// Aunque el grant sea a nivel tienda, el resultado enriquecido
			// siempre lleva el cliente dueño.
			ref := &CustomerRef{ID: st.CustomerID}
			if c, err := s.dir.CustomerByID(ctx, st.CustomerID); err == nil {
				ref.Title = c.Title
			}
			out.Customer = ref
		}
		out.ScopeLabel = "Mağaza: " + label
	}

	return out
}

// principalSummary es el único punto de despacho polimórfico sobre los tres
// tipos de principal. Devuelve nil si el lookup falla (principal huérfano).
func (s *Service) principalSummary(ctx context.Context, ptype PrincipalType, id string) *PrincipalSummary {
	switch ptype {
	case PrincipalEmployee:
		e, err := s.dir.EmployeeByID(ctx, id)
		if err != nil {
			return nil
		}
		return &PrincipalSummary{Name: e.Name, Email: e.Email, Role: "employee"}
	case PrincipalCustomer:
		c, err := s.dir.CustomerByID(ctx, id)
		if err != nil {
			return nil
		}
		return &PrincipalSummary{Name: c.Title, Email: c.Email, Role: "customer"}
	case PrincipalAdmin:
		a, err := s.dir.AdminByID(ctx, id)
		if err != nil {
			return nil
		}
		return &PrincipalSummary{Name: a.Name, Email: a.Email, Role: "admin"}
	default:
		return nil
	}
}

// ListForStore devuelve los grants efectivos sobre una tienda: los directos
// con scope STORE más los grants CUSTOMER del cliente dueño. Esta es la regla
// de herencia central: un grant a nivel cliente equivale a un grant por cada
// tienda de ese cliente.
func (s *Service) ListForStore(ctx context.Context, storeID string) ([]EnrichedGrant, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return nil, ErrInvalidInput
	}

	st, err := s.dir.StoreByID(ctx, storeID)
	if err != nil {
		return nil, ErrNotFound
	}

	direct, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	inherited, err := s.repo.ListByCustomer(ctx, st.CustomerID)
	if err != nil {
		return nil, err
	}

	out := make([]EnrichedGrant, 0, len(direct)+len(inherited))
	for _, g := range direct {
		out = append(out, s.Expand(ctx, g))
	}
	for _, g := range inherited {
		out = append(out, s.Expand(ctx, g))
	}
	return out, nil
}

// ListForCustomer es el recorrido inverso: grants CUSTOMER del cliente más
// los grants STORE de cada una de sus tiendas.
func (s *Service) ListForCustomer(ctx context.Context, customerID string) ([]EnrichedGrant, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, ErrInvalidInput
	}

	if _, err := s.dir.CustomerByID(ctx, customerID); err != nil {
		return nil, ErrNotFound
	}

	grants, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	stores, err := s.dir.StoresByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(grants))
	out := make([]EnrichedGrant, 0, len(grants))
	for _, g := range grants {
		seen[g.ID] = struct{}{}
		out = append(out, s.Expand(ctx, g))
	}
	for _, st := range stores {
		storeGrants, err := s.repo.ListByStore(ctx, st.ID)
		if err != nil {
			return nil, err
		}
		for _, g := range storeGrants {
			if _, ok := seen[g.ID]; ok {
				continue
			}
			seen[g.ID] = struct{}{}
			out = append(out, s.Expand(ctx, g))
		}
	}
	return out, nil
}

func (s *Service) ListForPrincipal(ctx context.Context, ptype PrincipalType, principalID string) (PrincipalGrants, error) {
	principalID = strings.TrimSpace(principalID)
	if !ptype.Valid() || principalID == "" {
		return PrincipalGrants{}, ErrInvalidInput
	}

	grants, err := s.repo.ListByPrincipal(ctx, ptype, principalID)
	if err != nil {
		return PrincipalGrants{}, err
	}

	out := PrincipalGrants{
		PrincipalType: ptype,
		PrincipalID:   principalID,
		Principal:     s.principalSummary(ctx, ptype, principalID),
		Grants:        make([]EnrichedGrant, 0, len(grants)),
	}
	for _, g := range grants {
		out.Grants = append(out.Grants, s.Expand(ctx, g))
	}
	return out, nil
}

type CreateInput struct {
	PrincipalType PrincipalType
	PrincipalID   string
	ScopeType     ScopeType
	CustomerID    string
	StoreID       string
	OwnerID       string
}

// Create valida todo antes de escribir: enums, que venga exactamente la FK
// del scope, y que la entidad referenciada exista. El repo garantiza la
// unicidad de la tupla y devuelve ErrConflict ante duplicado.
func (s *Service) Create(ctx context.Context, in CreateInput) (EnrichedGrant, error) {
	principalID := strings.TrimSpace(in.PrincipalID)
	customerID := strings.TrimSpace(in.CustomerID)
	storeID := strings.TrimSpace(in.StoreID)

	if !in.PrincipalType.Valid() || !in.ScopeType.Valid() || principalID == "" {
		return EnrichedGrant{}, ErrInvalidInput
	}

	switch in.ScopeType {
	case ScopeCustomer:
		if customerID == "" || storeID != "" {
			return EnrichedGrant{}, ErrInvalidInput
		}
		if _, err := s.dir.CustomerByID(ctx, customerID); err != nil {
			return EnrichedGrant{}, ErrNotFound
		}
	case ScopeStore:
		if storeID == "" || customerID != "" {
			return EnrichedGrant{}, ErrInvalidInput
		}
		if _, err := s.dir.StoreByID(ctx, storeID); err != nil {
			return EnrichedGrant{}, ErrNotFound
		}
	}

	now := s.now()
	g := Grant{
		ID:            uuid.NewString(),
		PrincipalType: in.PrincipalType,
		PrincipalID:   principalID,
		ScopeType:     in.ScopeType,
		CustomerID:    customerID,
		StoreID:       storeID,
		OwnerID:       strings.TrimSpace(in.OwnerID),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, g); err != nil {
		return EnrichedGrant{}, err
	}
	return s.Expand(ctx, g), nil
}

func (s *Service) Revoke(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

// AccessibleStoreIDs resuelve el set completo de tiendas sobre las que una
// cuenta externa puede actuar: storeIds de sus grants STORE, más la expansión
// de cada grant CUSTOMER a todas las tiendas de ese cliente. El resultado es
// un set: idempotente e independiente del orden. Owner desconocido => vacío.
func (s *Service) AccessibleStoreIDs(ctx context.Context, ownerID string) (map[string]struct{}, error) {
	out := make(map[string]struct{})

	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return out, nil
	}

	grants, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	for _, g := range grants {
		switch g.ScopeType {
		case ScopeStore:
			if g.StoreID != "" {
				out[g.StoreID] = struct{}{}
			}
		case ScopeCustomer:
			stores, err := s.dir.StoresByCustomer(ctx, g.CustomerID)
			if err != nil {
				// Cliente borrado con grants colgando: se ignora, igual que
				// los lookups de principal.
				continue
			}
			for _, st := range stores {
				out[st.ID] = struct{}{}
			}
		}
	}
	return out, nil
}

// OwnerCanAccessStore es el gate de autorización que usan los flujos de
// feedback y reportes antes de dejar actuar a una cuenta externa sobre una
// tienda.
func (s *Service) OwnerCanAccessStore(ctx context.Context, ownerID, storeID string) (bool, error) {
	storeID = strings.TrimSpace(storeID)
	if storeID == "" {
		return false, nil
	}
	ids, err := s.AccessibleStoreIDs(ctx, ownerID)
	if err != nil {
		return false, err
	}
	_, ok := ids[storeID]
	return ok, nil
}
