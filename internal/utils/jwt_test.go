package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewHostToken(t *testing.T) {
	tok, err := NewHostToken("k", "manager-3", "SPONSOR_MANAGER", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := jwt.Parse(tok.Token, func(*jwt.Token) (interface{}, error) { return []byte("k"), nil })
	if err != nil || !parsed.Valid {
		t.Fatalf("parse: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if sub, _ := claims.GetSubject(); sub != "manager-3" || claims["role"] != "SPONSOR_MANAGER" {
		t.Fatalf("claims = %v", claims)
	}
	if d := time.Until(tok.Exp); d < 59*time.Minute || d > time.Hour {
		t.Fatalf("exp in %s", d)
	}
}

func TestNewHostTokenNeedsSecret(t *testing.T) {
	if _, err := NewHostToken("", "m", "r", time.Hour); err == nil {
		t.Fatal("expected an error")
	}
}
