package directory

import "time"

// Customer es el cliente comercial (la empresa que contrata el servicio de
// control de plagas), no la cuenta de usuario del lado cliente.
type Customer struct {
	ID    string
	Title string

	Email   string
	Phone   string
	Address string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store pertenece a exactamente un Customer. CustomerID es inmutable una vez
// creada la tienda.
type Store struct {
	ID         string
	CustomerID string

	Name    string
	Address string
	City    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Employee struct {
	ID    string
	Name  string
	Email string
	Phone string

	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Admin struct {
	ID    string
	Name  string
	Email string

	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AccessOwner es la cuenta externa del lado cliente (quien entra al panel de
// cliente). Distinta del Customer comercial; los grants por ownerId apuntan
// a estas cuentas.
type AccessOwner struct {
	ID         string
	CustomerID string // opcional: a qué cliente comercial está asociada la cuenta

	Name  string
	Email string

	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}
