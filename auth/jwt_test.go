package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123"

func parseBearer(t *testing.T, header string) (*gojwt.Token, *gojwt.RegisteredClaims) {
	t.Helper()
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		t.Fatalf("expected Bearer prefix, got %q", header)
	}
	claims := &gojwt.RegisteredClaims{}
	tok, err := gojwt.ParseWithClaims(raw, claims, func(*gojwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, gojwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	return tok, claims
}

func TestJWT_SignsClaims(t *testing.T) {
	p, err := JWT(JWTConfig{
		Secret:   testSecret,
		Issuer:   "billing-connector",
		Subject:  "svc-billing",
		Audience: []string{"partner-api"},
		KeyID:    "k1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	header, err := p.AuthorizationHeader(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tok, claims := parseBearer(t, header)
	if claims.Issuer != "billing-connector" || claims.Subject != "svc-billing" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if len(claims.Audience) != 1 || claims.Audience[0] != "partner-api" {
		t.Errorf("unexpected audience: %v", claims.Audience)
	}
	if claims.ID == "" {
		t.Error("expected jti to be set")
	}
	if tok.Header["kid"] != "k1" {
		t.Errorf("expected kid k1, got %v", tok.Header["kid"])
	}
	if ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time); ttl != 15*time.Minute {
		t.Errorf("expected default ttl 15m, got %v", ttl)
	}
}

func TestJWT_CachesUntilNearExpiry(t *testing.T) {
	p, err := JWT(JWTConfig{Secret: testSecret, TTL: 10 * time.Minute})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	now := time.Now()
	p.now = func() time.Time { return now }

	first, _ := p.AuthorizationHeader(context.Background())
	now = now.Add(5 * time.Minute)
	second, _ := p.AuthorizationHeader(context.Background())
	if first != second {
		t.Error("expected cached token before expiry window")
	}

	now = now.Add(4*time.Minute + 30*time.Second)
	third, _ := p.AuthorizationHeader(context.Background())
	if third == second {
		t.Error("expected a new token inside the renewal window")
	}
}

func TestJWT_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  JWTConfig
	}{
		{"missing secret", JWTConfig{}},
		{"short secret", JWTConfig{Secret: "short"}},
		{"unsupported algorithm", JWTConfig{Secret: testSecret, Algorithm: "RS256"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := JWT(tt.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
