package token

import (
	"context"
	"testing"
	"time"

	"pest-field-service/internal/ports/auth"
)

func TestManager_IssueVerifyRoundTrip(t *testing.T) {
	mgr, err := NewManager("super-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	in := auth.Claims{
		UserID:      "adm-1",
		Role:        auth.RoleAdmin,
		DisplayName: "Admin Uno",
		Email:       "admin@pest.example",
	}

	signed, err := mgr.Issue(in)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if signed == "" {
		t.Fatal("expected non-empty token")
	}

	out, err := mgr.Verify(context.Background(), signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if out != in {
		t.Fatalf("claims round trip mismatch: %+v vs %+v", in, out)
	}
}

func TestManager_RejectsWrongSecret(t *testing.T) {
	issuer, _ := NewManager("secret-a", time.Hour)
	verifier, _ := NewManager("secret-b", time.Hour)

	signed, err := issuer.Issue(auth.Claims{UserID: "u1", Role: auth.RoleEmployee})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := verifier.Verify(context.Background(), signed); err == nil {
		t.Fatal("expected verify failure with wrong secret")
	}
}

func TestManager_RejectsExpired(t *testing.T) {
	mgr, _ := NewManager("secret", time.Hour)
	mgr.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	signed, err := mgr.Issue(auth.Claims{UserID: "u1", Role: auth.RoleEmployee})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := mgr.Verify(context.Background(), signed); err == nil {
		t.Fatal("expected verify failure for expired token")
	}
}

func TestManager_RejectsGarbageAndBadRole(t *testing.T) {
	mgr, _ := NewManager("secret", time.Hour)

	if _, err := mgr.Verify(context.Background(), "not-a-jwt"); err == nil {
		t.Fatal("expected failure for garbage token")
	}

	// token firmado con rol fuera del enum
	bad, err := mgr.Issue(auth.Claims{UserID: "u1", Role: auth.Role("superuser")})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := mgr.Verify(context.Background(), bad); err == nil {
		t.Fatal("expected failure for invalid role claim")
	}
}

func TestNewManager_RequiresSecret(t *testing.T) {
	if _, err := NewManager("   ", time.Hour); err != ErrNoSecret {
		t.Fatalf("expected ErrNoSecret, got %v", err)
	}
}
