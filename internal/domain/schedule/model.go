package schedule

import "time"

// Event es una visita asignada a un técnico sobre una tienda, con intervalo
// semiabierto [Start, End). Para un mismo EmployeeID nunca hay dos eventos
// con intervalos que se solapen; la regla no aplica entre técnicos distintos
// ni por tienda.
type Event struct {
	ID string

	Title string
	Notes string

	EmployeeID string
	StoreID    string

	Start time.Time
	End   time.Time

	Status Status

	PlannedByID   string
	PlannedByRole string
	PlannedByName string
	PlannedAt     time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Overlaps usa semántica de intervalos semiabiertos: tocar el borde
// (end == otro.start) no es conflicto, así se permiten visitas espalda
// con espalda.
func (e Event) Overlaps(start, end time.Time) bool {
	return e.Start.Before(end) && e.End.After(start)
}

// Detail es el evento enriquecido con nombres denormalizados para la vista.
type Detail struct {
	Event

	EmployeeName string
	StoreName    string
	CustomerID   string
	PlannerName  string
}
