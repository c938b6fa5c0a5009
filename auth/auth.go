package auth

import (
	"context"
	"encoding/base64"
	"errors"
)

// ErrNoCredentials is returned when a provider has nothing to send.
var ErrNoCredentials = errors.New("auth: no credentials configured")

// Provider produces the Authorization header value for one request.
// Implementations must be safe for concurrent use.
type Provider interface {
	AuthorizationHeader(ctx context.Context) (string, error)
}

// ProviderFunc adapts an ordinary function to the Provider interface.
type ProviderFunc func(ctx context.Context) (string, error)

// AuthorizationHeader implements Provider.
func (f ProviderFunc) AuthorizationHeader(ctx context.Context) (string, error) {
	return f(ctx)
}

type staticProvider struct {
	value string
}

func (p staticProvider) AuthorizationHeader(_ context.Context) (string, error) {
	if p.value == "" {
		return "", ErrNoCredentials
	}
	return p.value, nil
}

// Static sends value verbatim, e.g. "Token abc" or "SSWS key".
func Static(value string) Provider {
	return staticProvider{value: value}
}

// Bearer sends "Bearer <token>".
func Bearer(token string) Provider {
	if token == "" {
		return staticProvider{}
	}
	return staticProvider{value: "Bearer " + token}
}

// Basic sends HTTP basic credentials.
func Basic(username, password string) Provider {
	if username == "" {
		return staticProvider{}
	}
	creds := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	return staticProvider{value: "Basic " + creds}
}
