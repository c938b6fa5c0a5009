package auth

import (
	"fmt"
	"time"

	"github.com/kdg/connector/validation"
)

// Config is the static OAuth configuration of a connector: where to
// exchange the refresh token and with which client credentials.
type Config struct {
	TokenURL     string   `yaml:"token_url" mapstructure:"token_url" validate:"required,url"`
	ClientID     string   `yaml:"client_id" mapstructure:"client_id" validate:"required"`
	ClientSecret string   `yaml:"client_secret" mapstructure:"client_secret"`
	RefreshToken string   `yaml:"refresh_token" mapstructure:"refresh_token" validate:"required"`
	Scopes       []string `yaml:"scopes" mapstructure:"scopes"`
	// AuthInHeader sends client credentials with HTTP basic auth instead
	// of form parameters.
	AuthInHeader bool `yaml:"auth_in_header" mapstructure:"auth_in_header"`
}

// IsZero reports whether no OAuth settings are present.
func (c Config) IsZero() bool {
	return c.TokenURL == "" && c.ClientID == "" && c.ClientSecret == "" && c.RefreshToken == ""
}

// Validate checks required fields.
func (c Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}

const (
	defaultJWTTTL       = 15 * time.Minute
	defaultJWTAlgorithm = "HS256"
)

// JWTConfig configures self-signed service tokens.
type JWTConfig struct {
	Secret    string        `yaml:"secret" mapstructure:"secret" validate:"required,min=16"`
	Algorithm string        `yaml:"algorithm" mapstructure:"algorithm" validate:"oneof=HS256 HS384 HS512"`
	Issuer    string        `yaml:"issuer" mapstructure:"issuer"`
	Subject   string        `yaml:"subject" mapstructure:"subject"`
	Audience  []string      `yaml:"audience" mapstructure:"audience"`
	KeyID     string        `yaml:"key_id" mapstructure:"key_id"`
	TTL       time.Duration `yaml:"ttl" mapstructure:"ttl" validate:"min=1s"`
}

// ApplyDefaults fills in zero-value fields.
func (c *JWTConfig) ApplyDefaults() {
	if c.Algorithm == "" {
		c.Algorithm = defaultJWTAlgorithm
	}
	if c.TTL <= 0 {
		c.TTL = defaultJWTTTL
	}
}

// Validate checks the configuration.
func (c *JWTConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return nil
}
