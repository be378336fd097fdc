package directory

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
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CustomerInput struct {
	Title   string
	Email   string
	Phone   string
	Address string
}

func (s *Service) CreateCustomer(ctx context.Context, in CustomerInput) (Customer, error) {
	if strings.TrimSpace(in.Title) == "" {
		return Customer{}, ErrInvalidInput
	}

	now := s.now()
	c := Customer{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(in.Title),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (s *Service) CustomerByID(ctx context.Context, id string) (Customer, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Customer{}, ErrNotFound
	}
	return s.repo.CustomerByID(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context) ([]Customer, error) {
	return s.repo.ListCustomers(ctx)
}

type StoreInput struct {
	CustomerID string
	Name       string
	Address    string
	City       string
}

func (s *Service) CreateStore(ctx context.Context, in StoreInput) (Store, error) {
	customerID := strings.TrimSpace(in.CustomerID)
	if customerID == "" || strings.TrimSpace(in.Name) == "" {
		return Store{}, ErrInvalidInput
	}

	// La tienda siempre cuelga de un cliente existente.
	if _, err := s.repo.CustomerByID(ctx, customerID); err != nil {
		return Store{}, ErrNotFound
	}

	now := s.now()
	st := Store{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Name:       strings.TrimSpace(in.Name),
		Address:    strings.TrimSpace(in.Address),
		City:       strings.TrimSpace(in.City),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.CreateStore(ctx, st); err != nil {
		return Store{}, err
	}
	return st, nil
}

func (s *Service) StoreByID(ctx context.Context, id string) (Store, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Store{}, ErrNotFound
	}
	return s.repo.StoreByID(ctx, id)
}

func (s *Service) StoresByCustomer(ctx context.Context, customerID string) ([]Store, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.StoresByCustomer(ctx, customerID)
}

type EmployeeInput struct {
	Name  string
	Email string
	Phone string
}

func (s *Service) CreateEmployee(ctx context.Context, in EmployeeInput) (Employee, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Employee{}, ErrInvalidInput
	}

	now := s.now()
	e := Employee{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateEmployee(ctx, e); err != nil {
		return Employee{}, err
	}
	return e, nil
}

func (s *Service) EmployeeByID(ctx context.Context, id string) (Employee, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Employee{}, ErrNotFound
	}
	return s.repo.EmployeeByID(ctx, id)
}

func (s *Service) ListEmployees(ctx context.Context) ([]Employee, error) {
	return s.repo.ListEmployees(ctx)
}

func (s *Service) AdminByID(ctx context.Context, id string) (Admin, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Admin{}, ErrNotFound
	}
	return s.repo.AdminByID(ctx, id)
}

func (s *Service) OwnerByID(ctx context.Context, id string) (AccessOwner, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return AccessOwner{}, ErrNotFound
	}
	return s.repo.OwnerByID(ctx, id)
}

// Lookups por email para el login. Se exponen desde el service para que
// identity no toque el repo directo.
func (s *Service) AdminByEmail(ctx context.Context, email string) (Admin, error) {
	return s.repo.AdminByEmail(ctx, strings.TrimSpace(email))
}

func (s *Service) EmployeeByEmail(ctx context.Context, email string) (Employee, error) {
	return s.repo.EmployeeByEmail(ctx, strings.TrimSpace(email))
}

func (s *Service) OwnerByEmail(ctx context.Context, email string) (AccessOwner, error) {
	return s.repo.OwnerByEmail(ctx, strings.TrimSpace(email))
}
