package access

import "time"

// Grant es una arista de autorización. Exactamente uno de CustomerID/StoreID
// viene poblado, consistente con ScopeType. Los grants se crean y se revocan,
// nunca se editan.
type Grant struct {
	ID string

	PrincipalType PrincipalType
	PrincipalID   string

	ScopeType  ScopeType
	CustomerID string // seteado iff ScopeType == CUSTOMER
	StoreID    string // seteado iff ScopeType == STORE

	// OwnerID es la cuenta externa (lado cliente) a la que se emitió el
	// grant. Es la key que usan los flujos de feedback/reportes.
	OwnerID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PrincipalSummary es metadata best-effort del principal. Si el lookup falla
// (referencia huérfana), queda nil y el listado sigue funcionando.
type PrincipalSummary struct {
	Name  string
	Email string
	Role  string
}

// CustomerRef es el contexto de cliente que siempre acompaña al grant
// enriquecido, incluso cuando el grant es a nivel tienda.
type CustomerRef struct {
	ID    string
	Title string
}

type EnrichedGrant struct {
	Grant

	Principal  *PrincipalSummary
	ScopeLabel string
	Customer   *CustomerRef
}

// PrincipalGrants es la vista "todos los grants de este principal".
type PrincipalGrants struct {
	PrincipalType PrincipalType
	PrincipalID   string
	Principal     *PrincipalSummary
	Grants        []EnrichedGrant
}
