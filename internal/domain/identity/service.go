package identity

import (
	"context"
	"errors"
	"strings"

	"pest-field-service/internal/domain/directory"
	"pest-field-service/internal/ports/auth"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Accounts son los lookups por email que el login necesita del directorio.
type Accounts interface {
	AdminByEmail(ctx context.Context, email string) (directory.Admin, error)
	EmployeeByEmail(ctx context.Context, email string) (directory.Employee, error)
	OwnerByEmail(ctx context.Context, email string) (directory.AccessOwner, error)
}

// TokenIssuer firma los claims. Lo implementa el adapter JWT.
type TokenIssuer interface {
	Issue(claims auth.Claims) (string, error)
}

type Service struct {
	accounts Accounts
	issuer   TokenIssuer
}

func NewService(accounts Accounts, issuer TokenIssuer) *Service {
	return &Service{accounts: accounts, issuer: issuer}
}

// Login resuelve la cuenta por email probando admin, técnico y cuenta
// externa en ese orden, compara la contraseña con bcrypt y emite un token.
// Cualquier falla degrada al mismo ErrInvalidCredentials para no filtrar
// qué existe.
func (s *Service) Login(ctx context.Context, email, password string) (string, auth.Claims, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", auth.Claims{}, ErrInvalidInput
	}

	claims, hash, found := s.lookup(ctx, email)
	if !found {
		return "", auth.Claims{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return "", auth.Claims{}, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(claims)
	if err != nil {
		return "", auth.Claims{}, err
	}
	return token, claims, nil
}

func (s *Service) lookup(ctx context.Context, email string) (auth.Claims, string, bool) {
	if a, err := s.accounts.AdminByEmail(ctx, email); err == nil {
		return auth.Claims{
			UserID:      a.ID,
			Role:        auth.RoleAdmin,
			DisplayName: a.Name,
			Email:       a.Email,
		}, a.PasswordHash, true
	}
	if e, err := s.accounts.EmployeeByEmail(ctx, email); err == nil {
		return auth.Claims{
			UserID:      e.ID,
			Role:        auth.RoleEmployee,
			DisplayName: e.Name,
			Email:       e.Email,
		}, e.PasswordHash, true
	}
	if o, err := s.accounts.OwnerByEmail(ctx, email); err == nil {
		return auth.Claims{
			UserID:      o.ID,
			Role:        auth.RoleCustomer,
			DisplayName: o.Name,
			Email:       o.Email,
		}, o.PasswordHash, true
	}
	return auth.Claims{}, "", false
}
