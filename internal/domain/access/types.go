package access

// PrincipalType identifica quién sostiene el grant (modelo de auditoría
// admin). Literales persistidos tal cual.
type PrincipalType string

const (
	PrincipalEmployee PrincipalType = "EMPLOYEE"
	PrincipalCustomer PrincipalType = "CUSTOMER"
	PrincipalAdmin    PrincipalType = "ADMIN"
)

func (p PrincipalType) Valid() bool {
	switch p {
	case PrincipalEmployee, PrincipalCustomer, PrincipalAdmin:
		return true
	default:
		return false
	}
}

// ScopeType es la granularidad de lo otorgado: todas las tiendas de un
// cliente, o una tienda puntual.
type ScopeType string

const (
	ScopeCustomer ScopeType = "CUSTOMER"
	ScopeStore    ScopeType = "STORE"
)

func (s ScopeType) Valid() bool {
	switch s {
	case ScopeCustomer, ScopeStore:
		return true
	default:
		return false
	}
}
