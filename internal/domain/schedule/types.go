package schedule

// Status de una visita. Literales persistidos tal cual; el calendario del
// frontend depende de estos strings.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusPlanned   Status = "PLANNED"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
	StatusPostponed Status = "POSTPONED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPlanned, StatusCompleted, StatusFailed, StatusCancelled, StatusPostponed:
		return true
	default:
		return false
	}
}

// Roles del actor tal como llegan del contexto de identidad.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
	RoleCustomer = "customer"
)

// Actor es quien ejecuta la operación sobre el calendario.
type Actor struct {
	ID          string
	Role        string
	DisplayName string
}

// GridMinutes es la grilla de agendado: start y end deben caer en minuto
// múltiplo de 15. Habilita los slots fijos del calendario.
const GridMinutes = 15
