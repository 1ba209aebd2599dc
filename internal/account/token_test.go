package account

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/alme-learn/alme/internal/apperr"
)

func TestTokens_RoundTrip(t *testing.T) {
	tokens, err := NewTokens("s3cret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	tok, err := tokens.Issue("user-1", "admin")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := tokens.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "user-1" || claims.Role != "admin" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestTokens_Rejects(t *testing.T) {
	tokens, _ := NewTokens("s3cret", time.Hour)
	other, _ := NewTokens("different", time.Hour)
	foreign, _ := other.Issue("user-1", "student")

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}

	restore := now
	now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := tokens.Issue("user-1", "student")
	now = restore

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"wrong secret", foreign},
		{"alg none", unsigned},
		{"expired", expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Parse(tt.token)
			if !errors.Is(err, apperr.ErrUnauthorized) {
				t.Errorf("expected unauthorized, got %v", err)
			}
		})
	}
}

func TestNewTokens_Validates(t *testing.T) {
	if _, err := NewTokens("", time.Hour); err == nil {
		t.Error("expected error for empty secret")
	}
	if _, err := NewTokens("x", 0); err == nil {
		t.Error("expected error for zero ttl")
	}
}
