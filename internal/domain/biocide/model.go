package biocide

import "time"

// Application es el registro regulatorio (formulario EK-1) de un biocida
// aplicado durante una visita. Se escribe después de la visita y no se
// borra; es el respaldo ante inspecciones.
type Application struct {
	ID      string
	EventID string
	StoreID string

	EmployeeID string

	Product          string
	ActiveIngredient string
	Dose             string
	DoseUnit         string // "ml", "g", etc.
	TargetPest       string

	AppliedAt time.Time
	Notes     string

	CreatedAt time.Time
}
