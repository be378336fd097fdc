package schedule

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"pest-field-service/internal/domain/directory"
	"pest-field-service/internal/ports/notify"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID map[string]Event
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Event{}}
}

func (r *testRepo) Create(ctx context.Context, e Event) error {
	if e.ID == "" {
		return errors.New("repo: id required")
	}
	if r.hasOverlap(e.EmployeeID, e.Start, e.End, "") {
		return ErrConflict
	}
	r.byID[e.ID] = e
	return nil
}

func (r *testRepo) Update(ctx context.Context, e Event) error {
	if _, ok := r.byID[e.ID]; !ok {
		return ErrNotFound
	}
	if r.hasOverlap(e.EmployeeID, e.Start, e.End, e.ID) {
		return ErrConflict
	}
	r.byID[e.ID] = e
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Event, error) {
	e, ok := r.byID[id]
	if !ok {
		return Event{}, ErrNotFound
	}
	return e, nil
}

func (r *testRepo) Query(ctx context.Context, f QueryFilter) ([]Event, error) {
	out := make([]Event, 0)
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

func (r *testRepo) ListOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID string) ([]Event, error) {
	out := make([]Event, 0)
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
	return out, nil
}

func (r *testRepo) hasOverlap(employeeID string, start, end time.Time, excludeID string) bool {
	got, _ := r.ListOverlapping(context.Background(), employeeID, start, end, excludeID)
	return len(got) > 0
}

// -------------------------
// Test directory
// -------------------------

type testDirectory struct {
	employees map[string]directory.Employee
	stores    map[string]directory.Store
	admins    map[string]directory.Admin
	owners    map[string]directory.AccessOwner
}

func newTestDirectory() *testDirectory {
	d := &testDirectory{
		employees: map[string]directory.Employee{},
		stores:    map[string]directory.Store{},
		admins:    map[string]directory.Admin{},
		owners:    map[string]directory.AccessOwner{},
	}
	d.employees["emp-1"] = directory.Employee{ID: "emp-1", Name: "Carlos Técnico"}
	d.employees["emp-2"] = directory.Employee{ID: "emp-2", Name: "Ana Técnica"}
	d.stores["store-1"] = directory.Store{ID: "store-1", CustomerID: "cust-1", Name: "Kadıköy Şube"}
	d.admins["adm-1"] = directory.Admin{ID: "adm-1", Name: "Admin Uno"}
	return d
}

func (d *testDirectory) EmployeeByID(ctx context.Context, id string) (directory.Employee, error) {
	e, ok := d.employees[id]
	if !ok {
		return directory.Employee{}, directory.ErrNotFound
	}
	return e, nil
}

func (d *testDirectory) StoreByID(ctx context.Context, id string) (directory.Store, error) {
	s, ok := d.stores[id]
	if !ok {
		return directory.Store{}, directory.ErrNotFound
	}
	return s, nil
}

func (d *testDirectory) AdminByID(ctx context.Context, id string) (directory.Admin, error) {
	a, ok := d.admins[id]
	if !ok {
		return directory.Admin{}, directory.ErrNotFound
	}
	return a, nil
}

func (d *testDirectory) OwnerByID(ctx context.Context, id string) (directory.AccessOwner, error) {
	o, ok := d.owners[id]
	if !ok {
		return directory.AccessOwner{}, directory.ErrNotFound
	}
	return o, nil
}

type testNotifier struct {
	kinds []string
}

func (n *testNotifier) Notify(ctx context.Context, msg notify.Notification) {
	n.kinds = append(n.kinds, msg.Kind)
}

// -------------------------
// Helpers
// -------------------------

var adminActor = Actor{ID: "adm-1", Role: RoleAdmin, DisplayName: "Admin Uno"}

func at(hour, minute int) time.Time {
	return time.Date(2026, 4, 6, hour, minute, 0, 0, time.UTC)
}

func mustCreate(t *testing.T, svc *Service, start, end time.Time) Event {
	t.Helper()
	e, err := svc.Create(context.Background(), CreateInput{
		Title:      "Visita",
		EmployeeID: "emp-1",
		StoreID:    "store-1",
		Start:      start,
		End:        end,
	}, adminActor)
	if err != nil {
		t.Fatalf("create [%v, %v): %v", start, end, err)
	}
	return e
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_DefaultStatusPlanned(t *testing.T) {
	svc := NewService(newTestRepo(), newTestDirectory(), nil)

	e := mustCreate(t, svc, at(9, 0), at(10, 0))
	if e.Status != StatusPlanned {
		t.Fatalf("expected default PLANNED, got %s", e.Status)
	}
}

func TestService_Create_NonAdminForbidden(t *testing.T) {
	svc := NewService(newTestRepo(), newTestDirectory(), nil)

	for _, role := range []string{RoleEmployee, RoleCustomer, ""} {
		_, err := svc.Create(context.Background(), CreateInput{
			EmployeeID: "emp-1",
			StoreID:    "store-1",
			Start:      at(9, 0),
			End:        at(10, 0),
		}, Actor{ID: "x", Role: role})
		if err != ErrForbidden {
			t.Fatalf("role %q: expected ErrForbidden, got %v", role, err)
		}
	}
}

func TestService_Create_UnknownRefs(t *testing.T) {
	svc := NewService(newTestRepo(), newTestDirectory(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{
		EmployeeID: "ghost", StoreID: "store-1", Start: at(9, 0), End: at(10, 0),
	}, adminActor)
	if err != ErrNotFound {
		t.Fatalf("unknown employee: expected ErrNotFound, got %v", err)
	}

	_, err = svc.Create(ctx, CreateInput{
		EmployeeID: "emp-1", StoreID: "ghost", Start: at(9, 0), End: at(10, 0),
	}, adminActor)
	if err != ErrNotFound {
		t.Fatalf("unknown store: expected ErrNotFound, got %v", err)
	}
}

func TestService_Create_GridValidation(t *testing.T) {
	svc := NewService(newTestRepo(), newTestDirectory(), nil)
	ctx := context.Background()

	bad := []struct {
		start, end time.Time
	}{
		{at(9, 7), at(10, 0)},  // start fuera de grilla
		{at(9, 0), at(10, 22)}, // end fuera de grilla
		{at(9, 44), at(10, 44)},
		{at(10, 0), at(9, 0)}, // end antes de start
		{at(9, 0), at(9, 0)},  // duración cero
		{time.Time{}, at(10, 0)},
	}
	for _, tc := range bad {
		_, err := svc.Create(ctx, CreateInput{
			EmployeeID: "emp-1", StoreID: "store-1", Start: tc.start, End: tc.end,
		}, adminActor)
		if err != ErrInvalidInput {
			t.Fatalf("[%v, %v): expected ErrInvalidInput, got %v", tc.start, tc.end, err)
		}
	}

	// los cuatro slots válidos de la grilla
	good := [][2]time.Time{
		{at(8, 0), at(8, 15)},
		{at(8, 15), at(8, 30)},
		{at(8, 30), at(8, 45)},
		{at(8, 45), at(9, 0)},
	}
	for _, tc := range good {
		if _, err := svc.Create(ctx, CreateInput{
			EmployeeID: "emp-1", StoreID: "store-1", Start: tc[0], End: tc[1],
		}, adminActor); err != nil {
			t.Fatalf("[%v, %v): unexpected error %v", tc[0], tc[1], err)
		}
	}
}

func TestService_Create_SecondsUnconstrained(t *testing.T) {
	svc := NewService(newTestRepo(), newTestDirectory(), nil)

	// la grilla solo mira minutos; los segundos pasan
	start := time.Date(2026, 4, 6, 9, 0, 30, 0, time.UTC)
	end := time.Date(2026, 4, 6, 10, 0, 30, 0, time.UTC)
	if _, err := svc.Create(context.Background(), CreateInput{
		EmployeeID: "emp-1", StoreID: "store-1", Start: start, End: end,
	}, adminActor); err != nil {
		t.Fatalf("seconds should not break the grid: %v", err)
	}
}

func TestService_Create_OverlapConflict(t *testing.T) {
	svc := NewService(newTestRepo(), newTestDirectory(), nil)
	ctx := context.Background()

	mustCreate(t, svc, at(9, 0), at(10, 0))

	// solape parcial
	_, err := svc.Create(ctx, CreateInput{
		EmployeeID: "emp-1", StoreID: "store-1", Start: at(9, 30), End: at(10, 30),
	}, adminActor)
	if err != ErrConflict {
		t.Fatalf("expected ErrConflict on overlap, got %v", err)
	}

	// contenido dentro del existente
	_, err = svc.Create(ctx, CreateInput{
		EmployeeID: "emp-1", StoreID: "store-1", Start: at(9, 15), End: at(9, 45),
	}, adminActor)
	if err != ErrConflict {
		t.Fatalf("expected ErrConflict on contained interval, got %v", err)
	}

	// otro técnico, mismo horario: sin conflicto
	if _, err := svc.Create(ctx, CreateInput{
		EmployeeID: "emp-2", StoreID: "store-1", Start: at(9, 0), End: at(10, 0),
	}, adminActor); err != nil {
		t.Fatalf("different employee should not conflict: %v", err)
	}
}

func TestService_Create_BackToBackAllowed(t *testing.T) {
	svc := NewService(newTestRepo(), newTestDirectory(), nil)

	mustCreate(t, svc, at(9, 0), at(10, 0))
	// el borde se toca: end == start del siguiente, semiabierto por lo que
	// no hay conflicto
	mustCreate(t, svc, at(10, 0), at(11, 0))
	mustCreate(t, svc, at(8, 0), at(9, 0))
}

func TestService_Update_EmployeeStatusOnly(t *testing.T) {
	svc := NewService(newTestRepo(), newTestDirectory(), nil)
	ctx := context.Background()

	e := mustCreate(t, svc, at(9, 0), at(10, 0))

	tech := Actor{ID: "emp-1", Role: RoleEmployee}

	// status: permitido
	done := StatusCompleted
	got, err := svc.Update(ctx, e.ID, UpdateInput{Status: &done}, tech)
	if err != nil {
		t.Fatalf("employee status update: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s", got.Status)
	}

	// cualquier otro campo: prohibido
	title := "nuevo título"
	if _, err := svc.Update(ctx, e.ID, UpdateInput{Title: &title}, tech); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-status field, got %v", err)
	}
	newStart := at(11, 0)
	if _, err := svc.Update(ctx, e.ID, UpdateInput{Start: &newStart, Status: &done}, tech); err != ErrForbidden {
		t.Fatalf("expected ErrForbidden for mixed patch, got %v", err)
	}

	// patch vacío de un técnico: inválido
	if _, err := svc.Update(ctx, e.ID, UpdateInput{}, tech); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for empty patch, got %v", err)
	}

	// status fuera del enum
	bogus := Status("DONE")
	if _, err := svc.Update(ctx, e.ID, UpdateInput{Status: &bogus}, tech); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for bogus status, got %v", err)
	}
}

func TestService_Update_AdminMoveExcludesSelf(t *testing.T) {
	svc := NewService(newTestRepo(), newTestDirectory(), nil)
	ctx := context.Background()

	e := mustCreate(t, svc, at(9, 0), at(10, 0))

	// mover dentro de su propio intervalo: el chequeo excluye al evento
	newStart := at(9, 15)
	newEnd := at(10, 15)
	got, err := svc.Update(ctx, e.ID, UpdateInput{Start: &newStart, End: &newEnd}, adminActor)
	if err != nil {
		t.Fatalf("self-overlapping move should pass: %v", err)
	}
	if !got.Start.Equal(newStart) || !got.End.Equal(newEnd) {
		t.Fatalf("expected moved interval, got [%v, %v)", got.Start, got.End)
	}

	// pero contra otro evento sí hay conflicto
	mustCreate(t, svc, at(11, 0), at(12, 0))
	clashStart := at(11, 30)
	clashEnd := at(12, 30)
	if _, err := svc.Update(ctx, e.ID, UpdateInput{Start: &clashStart, End: &clashEnd}, adminActor); err != ErrConflict {
		t.Fatalf("expected ErrConflict moving onto other event, got %v", err)
	}
}

func TestService_Update_AdminPostMergeGrid(t *testing.T) {
	svc := NewService(newTestRepo(), newTestDirectory(), nil)
	ctx := context.Background()

	e := mustCreate(t, svc, at(9, 0), at(10, 0))

	// start fuera de grilla en el patch: inválido post-merge
	badStart := at(9, 10)
	if _, err := svc.Update(ctx, e.ID, UpdateInput{Start: &badStart}, adminActor); err != ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for off-grid patch, got %v", err)
	}

	// reasignar a técnico inexistente
	ghost := "ghost"
	if _, err := svc.Update(ctx, e.ID, UpdateInput{EmployeeID: &ghost}, adminActor); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown employee, got %v", err)
	}
}

func TestService_Query_WindowValidation(t *testing.T) {
	svc := NewService(newTestRepo(), newTestDirectory(), nil)
	ctx := context.Background()

	if _, err := svc.Query(ctx, time.Time{}, at(10, 0), "", ""); err != ErrInvalidInput {
		t.Fatalf("zero from: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Query(ctx, at(10, 0), at(10, 0), "", ""); err != ErrInvalidInput {
		t.Fatalf("empty window: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Query(ctx, at(11, 0), at(10, 0), "", ""); err != ErrInvalidInput {
		t.Fatalf("inverted window: expected ErrInvalidInput, got %v", err)
	}
}

func TestService_Query_IntersectionAndOrder(t *testing.T) {
	svc := NewService(newTestRepo(), newTestDirectory(), nil)
	ctx := context.Background()

	first := mustCreate(t, svc, at(9, 0), at(10, 0))
	second := mustCreate(t, svc, at(11, 0), at(12, 0))

	// ventana que toca solo el final del primero
	got, err := svc.Query(ctx, at(9, 45), at(10, 30), "", "")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].ID != first.ID {
		t.Fatalf("expected only first event, got %+v", got)
	}

	// ventana amplia: ambos, orden por inicio
	got, err = svc.Query(ctx, at(8, 0), at(13, 0), "", "")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 || got[0].ID != first.ID || got[1].ID != second.ID {
		t.Fatalf("expected [first, second], got %+v", got)
	}

	// ventana que termina justo donde arranca el segundo: semiabierto,
	// el segundo queda afuera
	got, err = svc.Query(ctx, at(10, 0), at(11, 0), "", "")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result for gap window, got %+v", got)
	}
}

func TestService_Get_DetailAndPlannerFallback(t *testing.T) {
	repo := newTestRepo()
	dir := newTestDirectory()
	svc := NewService(repo, dir, nil)
	ctx := context.Background()

	e := mustCreate(t, svc, at(9, 0), at(10, 0))

	d, err := svc.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if d.EmployeeName != "Carlos Técnico" || d.StoreName != "Kadıköy Şube" || d.CustomerID != "cust-1" {
		t.Fatalf("denormalized names missing: %+v", d)
	}
	if d.PlannerName != "Admin Uno" {
		t.Fatalf("expected planner name from actor, got %q", d.PlannerName)
	}

	// sin nombre resoluble: cae a la etiqueta por rol e id
	repo.byID[e.ID] = func() Event {
		ev := repo.byID[e.ID]
		ev.PlannedByName = ""
		ev.PlannedByID = "adm-9"
		return ev
	}()
	d, err = svc.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("get after blanking: %v", err)
	}
	if d.PlannerName != "Admin #adm-9" {
		t.Fatalf("expected fallback label, got %q", d.PlannerName)
	}
}

func TestService_Notifications(t *testing.T) {
	n := &testNotifier{}
	svc := NewService(newTestRepo(), newTestDirectory(), n)
	ctx := context.Background()

	e := mustCreate(t, svc, at(9, 0), at(10, 0))

	done := StatusCompleted
	if _, err := svc.Update(ctx, e.ID, UpdateInput{Status: &done}, Actor{ID: "emp-1", Role: RoleEmployee}); err != nil {
		t.Fatalf("status update: %v", err)
	}

	newEnd := at(10, 30)
	if _, err := svc.Update(ctx, e.ID, UpdateInput{End: &newEnd}, adminActor); err != nil {
		t.Fatalf("admin update: %v", err)
	}

	want := []string{"schedule.event_created", "schedule.event_status_changed", "schedule.event_updated"}
	if len(n.kinds) != len(want) {
		t.Fatalf("expected %v, got %v", want, n.kinds)
	}
	for i := range want {
		if n.kinds[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, n.kinds)
		}
	}
}
