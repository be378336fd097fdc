package access

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"pest-field-service/internal/domain/directory"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Grant
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Grant{}}
}

func (r *testRepo) Create(ctx context.Context, g Grant) error {
	if g.ID == "" {
		return errors.New("repo: id required")
	}
	for _, ex := range r.byID {
		if ex.PrincipalType == g.PrincipalType &&
			ex.PrincipalID == g.PrincipalID &&
			ex.ScopeType == g.ScopeType &&
			ex.CustomerID == g.CustomerID &&
			ex.StoreID == g.StoreID {
			return ErrConflict
		}
	}
	r.byID[g.ID] = g
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Grant, error) {
	g, ok := r.byID[id]
	if !ok {
		return Grant{}, ErrNotFound
	}
	return g, nil
}

func (r *testRepo) ListByStore(ctx context.Context, storeID string) ([]Grant, error) {
	out := make([]Grant, 0)
	for _, g := range r.byID {
		if g.ScopeType == ScopeStore && g.StoreID == storeID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *testRepo) ListByCustomer(ctx context.Context, customerID string) ([]Grant, error) {
	out := make([]Grant, 0)
	for _, g := range r.byID {
		if g.ScopeType == ScopeCustomer && g.CustomerID == customerID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *testRepo) ListByPrincipal(ctx context.Context, ptype PrincipalType, principalID string) ([]Grant, error) {
	out := make([]Grant, 0)
	for _, g := range r.byID {
		if g.PrincipalType == ptype && g.PrincipalID == principalID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerID string) ([]Grant, error) {
	out := make([]Grant, 0)
	for _, g := range r.byID {
		if g.OwnerID != "" && g.OwnerID == ownerID {
			out = append(out, g)
		}
	}
	return out, nil
}

// -------------------------
// Test directory
// -------------------------

type testDirectory struct {
	customers map[string]directory.Customer
	stores    map[string]directory.Store
	employees map[string]directory.Employee
	admins    map[string]directory.Admin
}

func newTestDirectory() *testDirectory {
	return &testDirectory{
		customers: map[string]directory.Customer{},
		stores:    map[string]directory.Store{},
		employees: map[string]directory.Employee{},
		admins:    map[string]directory.Admin{},
	}
}

func (d *testDirectory) CustomerByID(ctx context.Context, id string) (directory.Customer, error) {
	c, ok := d.customers[id]
	if !ok {
		return directory.Customer{}, directory.ErrNotFound
	}
	return c, nil
}

func (d *testDirectory) StoreByID(ctx context.Context, id string) (directory.Store, error) {
	s, ok := d.stores[id]
	if !ok {
		return directory.Store{}, directory.ErrNotFound
	}
	return s, nil
}

func (d *testDirectory) StoresByCustomer(ctx context.Context, customerID string) ([]directory.Store, error) {
	out := make([]directory.Store, 0)
	for _, s := range d.stores {
		if s.CustomerID == customerID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (d *testDirectory) EmployeeByID(ctx context.Context, id string) (directory.Employee, error) {
	e, ok := d.employees[id]
	if !ok {
		return directory.Employee{}, directory.ErrNotFound
	}
	return e, nil
}

func (d *testDirectory) AdminByID(ctx context.Context, id string) (directory.Admin, error) {
	a, ok := d.admins[id]
	if !ok {
		return directory.Admin{}, directory.ErrNotFound
	}
	return a, nil
}

func seedDirectory(dir *testDirectory) {
	dir.customers["cust-1"] = directory.Customer{ID: "cust-1", Title: "Anadolu Market", Email: "info@anadolu.example"}
	dir.stores["store-1"] = directory.Store{ID: "store-1", CustomerID: "cust-1", Name: "Kadıköy Şube"}
	dir.stores["store-2"] = directory.Store{ID: "store-2", CustomerID: "cust-1", Name: "Beşiktaş Şube"}
	dir.employees["emp-1"] = directory.Employee{ID: "emp-1", Name: "Carlos Técnico", Email: "carlos@pest.example"}
}

// -------------------------
// Tests
// -------------------------

func TestService_ListForStore_InheritsCustomerGrants(t *testing.T) {
	repo := newTestRepo()
	dir := newTestDirectory()
	seedDirectory(dir)

	svc := NewService(repo, dir)
	ctx := context.Background()

	// grant directo sobre la tienda
	direct, err := svc.Create(ctx, CreateInput{
		PrincipalType: PrincipalEmployee,
		PrincipalID:   "emp-1",
		ScopeType:     ScopeStore,
		StoreID:       "store-1",
	})
	if err != nil {
		t.Fatalf("create store grant: %v", err)
	}

	// grant a nivel cliente: debe aparecer también en la tienda
	inherited, err := svc.Create(ctx, CreateInput{
		PrincipalType: PrincipalCustomer,
		PrincipalID:   "cust-1",
		ScopeType:     ScopeCustomer,
		CustomerID:    "cust-1",
	})
	if err != nil {
		t.Fatalf("create customer grant: %v", err)
	}

	got, err := svc.ListForStore(ctx, "store-1")
	if err != nil {
		t.Fatalf("ListForStore: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 effective grants, got %d", len(got))
	}

	ids := map[string]bool{}
	for _, g := range got {
		ids[g.ID] = true
	}
	if !ids[direct.ID] || !ids[inherited.ID] {
		t.Fatalf("expected both direct and inherited grants, got %v", ids)
	}

	// store-2 solo recibe el heredado
	got2, err := svc.ListForStore(ctx, "store-2")
	if err != nil {
		t.Fatalf("ListForStore store-2: %v", err)
	}
	if len(got2) != 1 || got2[0].ID != inherited.ID {
		t.Fatalf("expected only inherited grant on store-2, got %+v", got2)
	}
}

func TestService_ListForStore_UnknownStore(t *testing.T) {
	svc := NewService(newTestRepo(), newTestDirectory())

	if _, err := svc.ListForStore(context.Background(), "nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_Create_DuplicateTuple_Conflict(t *testing.T) {
	repo := newTestRepo()
	dir := newTestDirectory()
	seedDirectory(dir)

	svc := NewService(repo, dir)
	ctx := context.Background()

	in := CreateInput{
		PrincipalType: PrincipalEmployee,
		PrincipalID:   "emp-1",
		ScopeType:     ScopeStore,
		StoreID:       "store-1",
	}

	if _, err := svc.Create(ctx, in); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(ctx, in); err != ErrConflict {
		t.Fatalf("expected ErrConflict on duplicate, got %v", err)
	}
}

func TestService_Create_ScopeFKValidation(t *testing.T) {
	repo := newTestRepo()
	dir := newTestDirectory()
	seedDirectory(dir)

	svc := NewService(repo, dir)
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateInput
		want error
	}{
		{
			name: "customer scope sin customer_id",
			in:   CreateInput{PrincipalType: PrincipalEmployee, PrincipalID: "emp-1", ScopeType: ScopeCustomer},
			want: ErrInvalidInput,
		},
		{
			name: "customer scope con store_id de más",
			in:   CreateInput{PrincipalType: PrincipalEmployee, PrincipalID: "emp-1", ScopeType: ScopeCustomer, CustomerID: "cust-1", StoreID: "store-1"},
			want: ErrInvalidInput,
		},
		{
			name: "store scope con customer_id de más",
			in:   CreateInput{PrincipalType: PrincipalEmployee, PrincipalID: "emp-1", ScopeType: ScopeStore, StoreID: "store-1", CustomerID: "cust-1"},
			want: ErrInvalidInput,
		},
		{
			name: "store inexistente",
			in:   CreateInput{PrincipalType: PrincipalEmployee, PrincipalID: "emp-1", ScopeType: ScopeStore, StoreID: "ghost"},
			want: ErrNotFound,
		},
		{
			name: "enum inválido",
			in:   CreateInput{PrincipalType: "ROBOT", PrincipalID: "x", ScopeType: ScopeStore, StoreID: "store-1"},
			want: ErrInvalidInput,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.in); err != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestService_Expand_ScopeLabels(t *testing.T) {
	repo := newTestRepo()
	dir := newTestDirectory()
	seedDirectory(dir)

	svc := NewService(repo, dir)
	ctx := context.Background()

	g := svc.Expand(ctx, Grant{ID: "g1", ScopeType: ScopeCustomer, CustomerID: "cust-1"})
	if g.ScopeLabel != "Müşteri: Anadolu Market" {
		t.Fatalf("customer label: got %q", g.ScopeLabel)
	}
	if g.Customer == nil || g.Customer.ID != "cust-1" {
		t.Fatalf("expected customer ref, got %+v", g.Customer)
	}

	g = svc.Expand(ctx, Grant{ID: "g2", ScopeType: ScopeStore, StoreID: "store-1"})
	if g.ScopeLabel != "Mağaza: Kadıköy Şube" {
		t.Fatalf("store label: got %q", g.ScopeLabel)
	}
	// el contexto de cliente acompaña aun en scope de tienda
	if g.Customer == nil || g.Customer.ID != "cust-1" || g.Customer.Title != "Anadolu Market" {
		t.Fatalf("expected back-filled customer, got %+v", g.Customer)
	}

	// lookup roto: cae al id
	g = svc.Expand(ctx, Grant{ID: "g3", ScopeType: ScopeStore, StoreID: "ghost"})
	if !strings.HasPrefix(g.ScopeLabel, "Mağaza: ghost") {
		t.Fatalf("fallback label: got %q", g.ScopeLabel)
	}
}

func TestService_Expand_OrphanPrincipal(t *testing.T) {
	svc := NewService(newTestRepo(), newTestDirectory())

	g := svc.Expand(context.Background(), Grant{
		ID:            "g1",
		PrincipalType: PrincipalEmployee,
		PrincipalID:   "gone",
		ScopeType:     ScopeStore,
		StoreID:       "also-gone",
	})
	if g.Principal != nil {
		t.Fatalf("expected nil principal for orphan, got %+v", g.Principal)
	}
}

func TestService_AccessibleStoreIDs_SetSemantics(t *testing.T) {
	repo := newTestRepo()
	dir := newTestDirectory()
	seedDirectory(dir)

	svc := NewService(repo, dir)
	ctx := context.Background()

	// grant STORE y grant CUSTOMER para el mismo owner: store-1 queda
	// cubierta dos veces, el set la devuelve una sola.
	if _, err := svc.Create(ctx, CreateInput{
		PrincipalType: PrincipalCustomer,
		PrincipalID:   "cust-1",
		ScopeType:     ScopeStore,
		StoreID:       "store-1",
		OwnerID:       "owner-1",
	}); err != nil {
		t.Fatalf("create store grant: %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{
		PrincipalType: PrincipalCustomer,
		PrincipalID:   "cust-1",
		ScopeType:     ScopeCustomer,
		CustomerID:    "cust-1",
		OwnerID:       "owner-1",
	}); err != nil {
		t.Fatalf("create customer grant: %v", err)
	}

	ids, err := svc.AccessibleStoreIDs(ctx, "owner-1")
	if err != nil {
		t.Fatalf("AccessibleStoreIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected {store-1, store-2}, got %v", ids)
	}
	if _, ok := ids["store-1"]; !ok {
		t.Fatalf("missing store-1 in %v", ids)
	}
	if _, ok := ids["store-2"]; !ok {
		t.Fatalf("missing store-2 in %v", ids)
	}

	// idempotente
	again, err := svc.AccessibleStoreIDs(ctx, "owner-1")
	if err != nil {
		t.Fatalf("second AccessibleStoreIDs: %v", err)
	}
	if len(again) != len(ids) {
		t.Fatalf("expected stable result, got %v then %v", ids, again)
	}
}

func TestService_AccessibleStoreIDs_UnknownOwnerEmpty(t *testing.T) {
	svc := NewService(newTestRepo(), newTestDirectory())

	ids, err := svc.AccessibleStoreIDs(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("AccessibleStoreIDs: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected empty set, got %v", ids)
	}
}

func TestService_OwnerCanAccessStore(t *testing.T) {
	repo := newTestRepo()
	dir := newTestDirectory()
	seedDirectory(dir)

	svc := NewService(repo, dir)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{
		PrincipalType: PrincipalCustomer,
		PrincipalID:   "cust-1",
		ScopeType:     ScopeCustomer,
		CustomerID:    "cust-1",
		OwnerID:       "owner-1",
	}); err != nil {
		t.Fatalf("create grant: %v", err)
	}

	ok, err := svc.OwnerCanAccessStore(ctx, "owner-1", "store-2")
	if err != nil || !ok {
		t.Fatalf("expected access to store-2 via customer grant, ok=%v err=%v", ok, err)
	}

	ok, err = svc.OwnerCanAccessStore(ctx, "owner-2", "store-2")
	if err != nil || ok {
		t.Fatalf("expected no access for other owner, ok=%v err=%v", ok, err)
	}
}

func TestService_Revoke(t *testing.T) {
	repo := newTestRepo()
	dir := newTestDirectory()
	seedDirectory(dir)

	svc := NewService(repo, dir)
	ctx := context.Background()

	g, err := svc.Create(ctx, CreateInput{
		PrincipalType: PrincipalEmployee,
		PrincipalID:   "emp-1",
		ScopeType:     ScopeStore,
		StoreID:       "store-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Revoke(ctx, g.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if err := svc.Revoke(ctx, g.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on second revoke, got %v", err)
	}

	got, err := svc.ListForStore(ctx, "store-1")
	if err != nil {
		t.Fatalf("ListForStore: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no grants after revoke, got %d", len(got))
	}
}

func TestService_Create_FixedNow(t *testing.T) {
	repo := newTestRepo()
	dir := newTestDirectory()
	seedDirectory(dir)

	svc := NewService(repo, dir)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	g, err := svc.Create(context.Background(), CreateInput{
		PrincipalType: PrincipalEmployee,
		PrincipalID:   "emp-1",
		ScopeType:     ScopeStore,
		StoreID:       "store-1",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !g.CreatedAt.Equal(now) || !g.UpdatedAt.Equal(now) {
		t.Fatalf("expected timestamps pinned to now, got %v / %v", g.CreatedAt, g.UpdatedAt)
	}
}
