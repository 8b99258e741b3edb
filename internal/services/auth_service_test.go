package services

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func mustHash(t *testing.T, pw string) string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(b)
}

func TestAuthLogin(t *testing.T) {
	var gotTTL time.Duration
	svc := NewAuthService(mustHash(t, "Secret123"), func(ttl time.Duration) (string, error) {
		gotTTL = ttl
		return "admin-token", nil
	}, time.Hour)

	res, err := svc.Login("Secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token != "admin-token" {
		t.Fatalf("unexpected token %q", res.Token)
	}
	if gotTTL != time.Hour {
		t.Fatalf("signer got ttl %s", gotTTL)
	}
	if res.ExpiresAt.Before(time.Now()) {
		t.Fatalf("expiry in the past: %s", res.ExpiresAt)
	}
}

func TestAuthLoginFailures(t *testing.T) {
	svc := NewAuthService(mustHash(t, "Secret123"), func(time.Duration) (string, error) { return "x", nil }, 0)
	if svc.TokenTTL() != 12*time.Hour {
		t.Fatalf("default ttl not applied: %s", svc.TokenTTL())
	}

	_, err := svc.Login("wrong")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	_, err = svc.Login("")
	if se, ok := AsServiceError(err); !ok || se.Code != ErrorInvalid {
		t.Fatalf("expected invalid, got %v", err)
	}

	disabled := NewAuthService("", nil, 0)
	if disabled.Enabled() {
		t.Fatal("service without hash should be disabled")
	}
	_, err = disabled.Login("anything")
	if se, ok := AsServiceError(err); !ok || se.Message != "auth.disabled" {
		t.Fatalf("expected disabled, got %v", err)
	}
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h), []byte("pw")); err != nil {
		t.Fatalf("hash does not verify: %v", err)
	}
	if _, err := HashPassword(" "); err == nil {
		t.Fatal("expected error for blank password")
	}
}
