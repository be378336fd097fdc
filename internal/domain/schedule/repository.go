package schedule

import (
	"context"
	"time"
)

// QueryFilter recorta por intersección de intervalo [From, To) y filtros
// opcionales de igualdad.
type QueryFilter struct {
	From time.Time
	To   time.Time

	EmployeeID string // opcional
	StoreID    string // opcional
}

// Repository persiste los eventos. Create/Update devuelven ErrConflict si al
// momento de escribir existe solape para el mismo técnico: es el respaldo a
// nivel storage del check del service (el check previo + insert es
// check-then-act, dos requests concurrentes podrían pasarlo a la vez).
type Repository interface {
	Create(ctx context.Context, e Event) error
	Update(ctx context.Context, e Event) error
	GetByID(ctx context.Context, id string) (Event, error)

	// Query devuelve eventos que intersectan [From, To), orden Start asc.
	Query(ctx context.Context, f QueryFilter) ([]Event, error)

	// ListOverlapping devuelve los eventos del técnico que solapan
	// [start, end), excluyendo excludeID si viene no vacío.
	ListOverlapping(ctx context.Context, employeeID string, start, end time.Time, excludeID string) ([]Event, error)
}
