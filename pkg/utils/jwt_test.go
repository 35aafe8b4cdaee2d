package utils

import (
	"errors"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", "mana-universe-api")
	token, err := m.GenerateToken("user-1", "a@example.com", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "a@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestJWTRejects(t *testing.T) {
	m := NewJWTManager("secret", "mana-universe-api")

	expired, _ := m.GenerateToken("user-1", "", -time.Minute)
	if _, err := m.ParseToken(expired); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expired: err = %v", err)
	}

	other, _ := NewJWTManager("other", "mana-universe-api").GenerateToken("user-1", "", time.Hour)
	if _, err := m.ParseToken(other); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret: err = %v", err)
	}

	wrongIssuer, _ := NewJWTManager("secret", "someone-else").GenerateToken("user-1", "", time.Hour)
	if _, err := m.ParseToken(wrongIssuer); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong issuer: err = %v", err)
	}
}
