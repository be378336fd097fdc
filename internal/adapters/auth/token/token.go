package token

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pest-field-service/internal/ports/auth"

	"github.com/dgrijalva/jwt-go"
)

var (
	ErrNoSecret     = errors.New("token: secret not configured")
	ErrInvalidToken = errors.New("token: invalid token")
)

const DefaultTTL = 24 * time.Hour

// Manager firma y verifica tokens HS256. Implementa auth.AuthVerifier y el
// TokenIssuer del login.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (m *Manager) Issue(claims auth.Claims) (string, error) {
	now := m.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   claims.UserID,
		"role":  string(claims.Role),
		"name":  claims.DisplayName,
		"email": claims.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(m.ttl).Unix(),
	})
	return t.SignedString(m.secret)
}

func (m *Manager) Verify(ctx context.Context, tokenString string) (auth.Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("token: unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return auth.Claims{}, fmt.Errorf("token: verify failed: %w", err)
	}
	if !parsed.Valid {
		return auth.Claims{}, ErrInvalidToken
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return auth.Claims{}, ErrInvalidToken
	}

	claims := auth.Claims{
		UserID:      stringClaim(mc, "sub"),
		Role:        auth.Role(stringClaim(mc, "role")),
		DisplayName: stringClaim(mc, "name"),
		Email:       stringClaim(mc, "email"),
	}
	if claims.UserID == "" || !claims.Role.Valid() {
		return auth.Claims{}, ErrInvalidToken
	}
	return claims, nil
}

func stringClaim(mc jwt.MapClaims, key string) string {
	v, ok := mc[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}
