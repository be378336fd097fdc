package auth

// Role del usuario autenticado. Valores persistidos/serializados tal cual.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleCustomer Role = "customer" // access owner (cuenta del lado cliente)
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleCustomer:
		return true
	default:
		return false
	}
}

// Claims representa la información extraída del token (o de los headers de
// debug en modo dev).
type Claims struct {
	UserID      string
	Role        Role
	DisplayName string
	Email       string
}
