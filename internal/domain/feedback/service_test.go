package feedback

import (
	"context"
	"errors"
	"testing"
	"time"
)

type testRepo struct {
	byID map[string]Entry
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Entry{}}
}

func (r *testRepo) Create(ctx context.Context, e Entry) error {
	if e.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[e.ID] = e
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Entry, error) {
	e, ok := r.byID[id]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (r *testRepo) Update(ctx context.Context, e Entry) error {
	if _, ok := r.byID[e.ID]; !ok {
		return ErrNotFound
	}
	r.byID[e.ID] = e
	return nil
}

func (r *testRepo) ListByStore(ctx context.Context, storeID string) ([]Entry, error) {
	out := make([]Entry, 0)
	for _, e := range r.byID {
		if e.StoreID == storeID {
			out = append(out, e)
		}
	}
	return out, nil
}

// testAccess permite tiendas por par owner/store.
type testAccess struct {
	allowed map[string]bool // key: ownerID + "|" + storeID
}

func (a *testAccess) OwnerCanAccessStore(ctx context.Context, ownerID, storeID string) (bool, error) {
	return a.allowed[ownerID+"|"+storeID], nil
}

func TestService_Create_GatedByAccess(t *testing.T) {
	repo := newTestRepo()
	access := &testAccess{allowed: map[string]bool{"owner-1|store-1": true}}
	svc := NewService(repo, access)
	ctx := context.Background()

	e, err := svc.Create(ctx, CreateInput{
		StoreID: "store-1",
		OwnerID: "owner-1",
		Kind:    KindComplaint,
		Subject: "Fareler",
		Message: "Depoda fare görüldü",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.Status != StatusOpen {
		t.Fatalf("expected open status, got %s", e.Status)
	}

	// sin grant sobre la tienda: prohibido
	_, err = svc.Create(ctx, CreateInput{
		StoreID: "store-2",
		OwnerID: "owner-1",
		Kind:    KindSuggestion,
		Message: "más visitas",
	})
	if err != ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := NewService(newTestRepo(), &testAccess{allowed: map[string]bool{"o|s": true}})
	ctx := context.Background()

	cases := []CreateInput{
		{OwnerID: "o", Kind: KindComplaint, Message: "x"},                       // sin store
		{StoreID: "s", Kind: KindComplaint, Message: "x"},                       // sin owner
		{StoreID: "s", OwnerID: "o", Kind: "rant", Message: "x"},                // kind inválido
		{StoreID: "s", OwnerID: "o", Kind: KindComplaint, Message: "   "},       // mensaje vacío
	}
	for i, in := range cases {
		if _, err := svc.Create(ctx, in); err != ErrInvalidInput {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestService_ListByStoreForOwner_Gated(t *testing.T) {
	repo := newTestRepo()
	access := &testAccess{allowed: map[string]bool{"owner-1|store-1": true}}
	svc := NewService(repo, access)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{
		StoreID: "store-1", OwnerID: "owner-1", Kind: KindComplaint, Message: "hola",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.ListByStoreForOwner(ctx, "owner-1", "store-1")
	if err != nil {
		t.Fatalf("list for owner: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}

	if _, err := svc.ListByStoreForOwner(ctx, "owner-2", "store-1"); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden for other owner, got %v", err)
	}
}

func TestService_Resolve_Idempotent(t *testing.T) {
	repo := newTestRepo()
	access := &testAccess{allowed: map[string]bool{"owner-1|store-1": true}}
	svc := NewService(repo, access)

	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	ctx := context.Background()
	e, err := svc.Create(ctx, CreateInput{
		StoreID: "store-1", OwnerID: "owner-1", Kind: KindComplaint, Message: "hola",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	r1, err := svc.Resolve(ctx, e.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if r1.Status != StatusResolved {
		t.Fatalf("expected resolved, got %s", r1.Status)
	}

	r2, err := svc.Resolve(ctx, e.ID)
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if r2.Status != StatusResolved || !r2.UpdatedAt.Equal(r1.UpdatedAt) {
		t.Fatalf("resolve should be idempotent: %+v vs %+v", r1, r2)
	}

	if _, err := svc.Resolve(ctx, "ghost"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
