package auth

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndValidateSessionToken(t *testing.T) {
	manager := NewJWTManager(JWTConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "dosya-test"})

	token, jti, expiresAt, err := manager.GenerateSessionToken(7, "operator", "admin", 2)
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}
	if jti == "" {
		t.Fatal("expected a jti")
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expiry %v is not in the future", expiresAt)
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.AdminID != 7 || claims.Username != "operator" || claims.TokenVersion != 2 {
		t.Errorf("unexpected claims %+v", claims)
	}
	if claims.ID != jti {
		t.Errorf("claims.ID = %q, want %q", claims.ID, jti)
	}
}

func TestValidateTokenExpired(t *testing.T) {
	manager := NewJWTManager(JWTConfig{Secret: "test-secret", Expiry: time.Minute, Issuer: "dosya-test"})
	manager.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, _, err := manager.GenerateSessionToken(1, "operator", "admin", 0)
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}

	manager.now = time.Now
	if _, err := manager.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("ValidateToken() error = %v, want ErrExpiredToken", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := NewJWTManager(JWTConfig{Secret: "one", Expiry: time.Hour, Issuer: "dosya-test"})
	verifier := NewJWTManager(JWTConfig{Secret: "two", Expiry: time.Hour, Issuer: "dosya-test"})

	token, _, _, err := issuer.GenerateSessionToken(1, "operator", "admin", 0)
	if err != nil {
		t.Fatalf("GenerateSessionToken() error = %v", err)
	}
	if _, err := verifier.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("ValidateToken() error = %v, want ErrInvalidToken", err)
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("HashPassword(short) error = %v", err)
	}

	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if err := VerifyPassword(hash, "correct horse"); err != nil {
		t.Errorf("VerifyPassword() error = %v", err)
	}
	if err := VerifyPassword(hash, "wrong horse"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("VerifyPassword(wrong) error = %v, want ErrPasswordMismatch", err)
	}
}
