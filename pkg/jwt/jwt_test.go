package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndValidateToken(t *testing.T) {
	m := NewManager("secret", time.Hour)

	token, err := m.GenerateToken(7, "cashier", "STAFF", []string{"sale:create"}, "v1")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 7 || claims.Username != "cashier" || claims.RoleCode != "STAFF" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if len(claims.Privileges) != 1 || claims.Privileges[0] != "sale:create" {
		t.Errorf("Privileges = %v, want [sale:create]", claims.Privileges)
	}
	if claims.TokenVersion != "v1" {
		t.Errorf("TokenVersion = %q, want v1", claims.TokenVersion)
	}
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	token, err := NewManager("one", time.Hour).GenerateToken(1, "a", "OWNER", nil, "")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := NewManager("two", time.Hour).ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateTokenEmpty(t *testing.T) {
	if _, err := NewManager("x", time.Hour).ValidateToken(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	m := NewManager("secret", time.Hour)
	m.ttl = -time.Minute
	token, err := m.GenerateToken(1, "a", "OWNER", nil, "")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := m.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}
