package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// OAuthOption configures an OAuthProvider.
type OAuthOption func(*oauthOptions)

type oauthOptions struct {
	httpClient *http.Client
	onRefresh  func(*oauth2.Token)
}

// WithTokenHTTPClient sets the client used to call the token endpoint.
func WithTokenHTTPClient(c *http.Client) OAuthOption {
	return func(o *oauthOptions) { o.httpClient = c }
}

// WithRefreshListener registers fn to be called with every newly issued
// token, e.g. to persist a rotated refresh token.
func WithRefreshListener(fn func(*oauth2.Token)) OAuthOption {
	return func(o *oauthOptions) { o.onRefresh = fn }
}

// OAuthProvider exchanges a long-lived refresh token for access tokens and
// caches them until they expire.
type OAuthProvider struct {
	src       oauth2.TokenSource
	onRefresh func(*oauth2.Token)

	mu         sync.Mutex
	lastAccess string
}

// OAuth creates a provider for the refresh-token grant described by cfg.
// No request is made until the first AuthorizationHeader call.
func OAuth(cfg Config, opts ...OAuthOption) (*OAuthProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o oauthOptions
	for _, opt := range opts {
		opt(&o)
	}

	style := oauth2.AuthStyleInParams
	if cfg.AuthInHeader {
		style = oauth2.AuthStyleInHeader
	}
	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  cfg.TokenURL,
			AuthStyle: style,
		},
		Scopes: cfg.Scopes,
	}

	// The token source keeps this context for every refresh.
	ctx := context.Background()
	if o.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
	}

	return &OAuthProvider{
		src:       conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken}),
		onRefresh: o.onRefresh,
	}, nil
}

// AuthorizationHeader implements Provider.
func (p *OAuthProvider) AuthorizationHeader(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tok, err := p.Token()
	if err != nil {
		return "", err
	}
	return tok.Type() + " " + tok.AccessToken, nil
}

// Token returns the current access token, refreshing it when expired.
func (p *OAuthProvider) Token() (*oauth2.Token, error) {
	tok, err := p.src.Token()
	if err != nil {
		return nil, fmt.Errorf("auth: refresh access token: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("auth: token endpoint returned no access token: %w", ErrNoCredentials)
	}

	p.mu.Lock()
	fresh := tok.AccessToken != p.lastAccess
	p.lastAccess = tok.AccessToken
	p.mu.Unlock()

	if fresh && p.onRefresh != nil {
		p.onRefresh(tok)
	}
	return tok, nil
}
