package identity

import (
	"context"
	"testing"

	"pest-field-service/internal/domain/directory"
	"pest-field-service/internal/ports/auth"

	"golang.org/x/crypto/bcrypt"
)

type testAccounts struct {
	admins    map[string]directory.Admin
	employees map[string]directory.Employee
	owners    map[string]directory.AccessOwner
}

func (a *testAccounts) AdminByEmail(ctx context.Context, email string) (directory.Admin, error) {
	v, ok := a.admins[email]
	if !ok {
		return directory.Admin{}, directory.ErrNotFound
	}
	return v, nil
}

func (a *testAccounts) EmployeeByEmail(ctx context.Context, email string) (directory.Employee, error) {
	v, ok := a.employees[email]
	if !ok {
		return directory.Employee{}, directory.ErrNotFound
	}
	return v, nil
}

func (a *testAccounts) OwnerByEmail(ctx context.Context, email string) (directory.AccessOwner, error) {
	v, ok := a.owners[email]
	if !ok {
		return directory.AccessOwner{}, directory.ErrNotFound
	}
	return v, nil
}

type testIssuer struct {
	issued []auth.Claims
}

func (i *testIssuer) Issue(claims auth.Claims) (string, error) {
	i.issued = append(i.issued, claims)
	return "signed-token", nil
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

func TestService_Login_RolesByAccountKind(t *testing.T) {
	accounts := &testAccounts{
		admins: map[string]directory.Admin{
			"admin@pest.example": {ID: "adm-1", Name: "Admin Uno", Email: "admin@pest.example", PasswordHash: hash(t, "admin-pass")},
		},
		employees: map[string]directory.Employee{
			"carlos@pest.example": {ID: "emp-1", Name: "Carlos Técnico", Email: "carlos@pest.example", PasswordHash: hash(t, "emp-pass")},
		},
		owners: map[string]directory.AccessOwner{
			"owner@anadolu.example": {ID: "own-1", Name: "Cuenta Anadolu", Email: "owner@anadolu.example", PasswordHash: hash(t, "own-pass")},
		},
	}
	issuer := &testIssuer{}
	svc := NewService(accounts, issuer)
	ctx := context.Background()

	cases := []struct {
		email, password string
		wantID          string
		wantRole        auth.Role
	}{
		{"admin@pest.example", "admin-pass", "adm-1", auth.RoleAdmin},
		{"carlos@pest.example", "emp-pass", "emp-1", auth.RoleEmployee},
		{"owner@anadolu.example", "own-pass", "own-1", auth.RoleCustomer},
	}
	for _, tc := range cases {
		token, claims, err := svc.Login(ctx, tc.email, tc.password)
		if err != nil {
			t.Fatalf("login %s: %v", tc.email, err)
		}
		if token != "signed-token" {
			t.Fatalf("login %s: unexpected token %q", tc.email, token)
		}
		if claims.UserID != tc.wantID || claims.Role != tc.wantRole {
			t.Fatalf("login %s: got claims %+v", tc.email, claims)
		}
	}
}

func TestService_Login_BadCredentialsDoNotLeak(t *testing.T) {
	accounts := &testAccounts{
		admins: map[string]directory.Admin{
			"admin@pest.example": {ID: "adm-1", Email: "admin@pest.example", PasswordHash: hash(t, "right")},
		},
		employees: map[string]directory.Employee{},
		owners:    map[string]directory.AccessOwner{},
	}
	svc := NewService(accounts, &testIssuer{})
	ctx := context.Background()

	// contraseña incorrecta y cuenta inexistente devuelven el mismo error
	_, _, err1 := svc.Login(ctx, "admin@pest.example", "wrong")
	_, _, err2 := svc.Login(ctx, "nobody@pest.example", "whatever")
	if err1 != ErrInvalidCredentials || err2 != ErrInvalidCredentials {
		t.Fatalf("expected uniform ErrInvalidCredentials, got %v / %v", err1, err2)
	}
}

func TestService_Login_InputValidation(t *testing.T) {
	svc := NewService(&testAccounts{}, &testIssuer{})
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, "", "x"); err != ErrInvalidInput {
		t.Fatalf("empty email: expected ErrInvalidInput, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "a@b.c", ""); err != ErrInvalidInput {
		t.Fatalf("empty password: expected ErrInvalidInput, got %v", err)
	}
}
