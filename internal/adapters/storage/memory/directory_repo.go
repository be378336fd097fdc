package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"pest-field-service/internal/domain/directory"
)

type directoryRepo struct {
	mu sync.RWMutex

	customers map[string]directory.Customer
	stores    map[string]directory.Store
	employees map[string]directory.Employee
	admins    map[string]directory.Admin
	owners    map[string]directory.AccessOwner
}

func NewDirectoryRepo() directory.Repository {
	return &directoryRepo{
		customers: make(map[string]directory.Customer),
		stores:    make(map[string]directory.Store),
		employees: make(map[string]directory.Employee),
		admins:    make(map[string]directory.Admin),
		owners:    make(map[string]directory.AccessOwner),
	}
}

func (r *directoryRepo) CreateCustomer(ctx context.Context, c directory.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.ID == "" {
		return errors.New("customer id required")
	}
	if _, exists := r.customers[c.ID]; exists {
		return errors.New("customer already exists")
	}
	r.customers[c.ID] = c
	return nil
}

func (r *directoryRepo) UpdateCustomer(ctx context.Context, c directory.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.customers[c.ID]; !exists {
		return directory.ErrNotFound
	}
	r.customers[c.ID] = c
	return nil
}

func (r *directoryRepo) CustomerByID(ctx context.Context, id string) (directory.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.customers[id]
	if !ok {
		return directory.Customer{}, directory.ErrNotFound
	}
	return c, nil
}

func (r *directoryRepo) ListCustomers(ctx context.Context) ([]directory.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]directory.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *directoryRepo) CreateStore(ctx context.Context, s directory.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		return errors.New("store id required")
	}
	if _, exists := r.stores[s.ID]; exists {
		return errors.New("store already exists")
	}
	r.stores[s.ID] = s
	return nil
}

func (r *directoryRepo) UpdateStore(ctx context.Context, s directory.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.stores[s.ID]; !exists {
		return directory.ErrNotFound
	}
	r.stores[s.ID] = s
	return nil
}

func (r *directoryRepo) StoreByID(ctx context.Context, id string) (directory.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.stores[id]
	if !ok {
		return directory.Store{}, directory.ErrNotFound
	}
	return s, nil
}

func (r *directoryRepo) StoresByCustomer(ctx context.Context, customerID string) ([]directory.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]directory.Store, 0)
	for _, s := range r.stores {
		if s.CustomerID == customerID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *directoryRepo) CreateEmployee(ctx context.Context, e directory.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" {
		return errors.New("employee id required")
	}
	if _, exists := r.employees[e.ID]; exists {
		return errors.New("employee already exists")
	}
	r.employees[e.ID] = e
	return nil
}

func (r *directoryRepo) EmployeeByID(ctx context.Context, id string) (directory.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.employees[id]
	if !ok {
		return directory.Employee{}, directory.ErrNotFound
	}
	return e, nil
}

func (r *directoryRepo) EmployeeByEmail(ctx context.Context, email string) (directory.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.employees {
		if strings.EqualFold(e.Email, email) && email != "" {
			return e, nil
		}
	}
	return directory.Employee{}, directory.ErrNotFound
}

func (r *directoryRepo) ListEmployees(ctx context.Context) ([]directory.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]directory.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *directoryRepo) CreateAdmin(ctx context.Context, a directory.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a.ID == "" {
		return errors.New("admin id required")
	}
	if _, exists := r.admins[a.ID]; exists {
		return errors.New("admin already exists")
	}
	r.admins[a.ID] = a
	return nil
}

func (r *directoryRepo) AdminByID(ctx context.Context, id string) (directory.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.admins[id]
	if !ok {
		return directory.Admin{}, directory.ErrNotFound
	}
	return a, nil
}

func (r *directoryRepo) AdminByEmail(ctx context.Context, email string) (directory.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.admins {
		if strings.EqualFold(a.Email, email) && email != "" {
			return a, nil
		}
	}
	return directory.Admin{}, directory.ErrNotFound
}

func (r *directoryRepo) CreateOwner(ctx context.Context, o directory.AccessOwner) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if o.ID == "" {
		return errors.New("owner id required")
	}
	if _, exists := r.owners[o.ID]; exists {
		return errors.New("owner already exists")
	}
	r.owners[o.ID] = o
	return nil
}

func (r *directoryRepo) OwnerByID(ctx context.Context, id string) (directory.AccessOwner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.owners[id]
	if !ok {
		return directory.AccessOwner{}, directory.ErrNotFound
	}
	return o, nil
}

func (r *directoryRepo) OwnerByEmail(ctx context.Context, email string) (directory.AccessOwner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.owners {
		if strings.EqualFold(o.Email, email) && email != "" {
			return o, nil
		}
	}
	return directory.AccessOwner{}, directory.ErrNotFound
}
