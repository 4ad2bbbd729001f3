package utils

import (
    "testing"

    "github.com/golang-jwt/jwt/v5"
)

func TestNewAccessToken(t *testing.T) {
    at, err := NewAccessToken("s3cret", 42, "OWNER", 5)
    if err != nil {
        t.Fatal(err)
    }
    claims := jwt.MapClaims{}
    tok, err := jwt.ParseWithClaims(at.Token, claims, func(*jwt.Token) (interface{}, error) { return []byte("s3cret"), nil })
    if err != nil || !tok.Valid {
        t.Fatalf("parse: %v", err)
    }
    if claims["sub"] != float64(42) || claims["role"] != "OWNER" {
        t.Fatalf("claims = %v", claims)
    }
    if _, err := NewAccessToken("", 1, "GUEST", 5); err == nil {
        t.Fatal("empty secret accepted")
    }
    if _, err := NewAccessToken("s", 1, "GUEST", 0); err == nil {
        t.Fatal("zero ttl accepted")
    }
}
