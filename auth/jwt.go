package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTProvider mints short-lived HMAC-signed tokens and reuses each one
// until it is close to expiry.
type JWTProvider struct {
	cfg    JWTConfig
	method gojwt.SigningMethod
	now    func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// JWT creates a provider that signs its own bearer tokens.
func JWT(cfg JWTConfig) (*JWTProvider, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	method := gojwt.GetSigningMethod(cfg.Algorithm)
	if method == nil {
		return nil, fmt.Errorf("auth: unsupported signing algorithm %q", cfg.Algorithm)
	}
	return &JWTProvider{cfg: cfg, method: method, now: time.Now}, nil
}

// AuthorizationHeader implements Provider.
func (p *JWTProvider) AuthorizationHeader(_ context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	// Renew once less than a tenth of the lifetime remains.
	if p.token != "" && now.Add(p.cfg.TTL/10).Before(p.expires) {
		return "Bearer " + p.token, nil
	}

	expires := now.Add(p.cfg.TTL)
	claims := gojwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    p.cfg.Issuer,
		Subject:   p.cfg.Subject,
		Audience:  p.cfg.Audience,
		IssuedAt:  gojwt.NewNumericDate(now),
		NotBefore: gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(expires),
	}
	token := gojwt.NewWithClaims(p.method, claims)
	if p.cfg.KeyID != "" {
		token.Header["kid"] = p.cfg.KeyID
	}
	signed, err := token.SignedString([]byte(p.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}

	p.token = signed
	p.expires = expires
	return "Bearer " + signed, nil
}
