package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAccessToken_RoundTrip(t *testing.T) {
	at, err := NewAccessToken("test-secret", 42, "RECEPTIONIST", 15)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if at.Exp.Before(time.Now().UTC()) {
		t.Error("token already expired")
	}

	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !tok.Valid {
		t.Fatalf("parse token: %v", err)
	}
	claims := tok.Claims.(jwt.MapClaims)
	if claims["role"] != "RECEPTIONIST" {
		t.Errorf("role claim lost: %v", claims["role"])
	}
	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Errorf("subject claim lost: %v", claims["sub"])
	}
}

func TestNewAccessToken_WrongSecretRejected(t *testing.T) {
	at, err := NewAccessToken("secret-a", 1, "DENTIST", 15)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	tok, err := jwt.Parse(at.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("secret-b"), nil
	})
	if err == nil && tok.Valid {
		t.Error("expected validation to fail with the wrong secret")
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	rt, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("issue refresh: %v", err)
	}
	if len(rt.Raw) != 96 {
		t.Errorf("expected 96 hex chars, got %d", len(rt.Raw))
	}
	h1 := HashRefreshRaw(rt.Raw)
	h2 := HashRefreshRaw(rt.Raw)
	if h1 != h2 {
		t.Error("hash must be deterministic")
	}
	if h1 == rt.Raw {
		t.Error("hash must differ from the raw token")
	}
}

func TestNewBookingRef(t *testing.T) {
	a, err := NewBookingRef()
	if err != nil {
		t.Fatalf("new ref: %v", err)
	}
	b, _ := NewBookingRef()
	if len(a) != 32 {
		t.Errorf("expected 32 chars, got %d", len(a))
	}
	if a == b {
		t.Error("refs must be unique")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2", 4) // low cost keeps the test fast
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword(hash, "hunter2") {
		t.Error("expected matching password to verify")
	}
	if VerifyPassword(hash, "hunter3") {
		t.Error("expected wrong password to fail")
	}
}
