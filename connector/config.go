package connector

import (
	"fmt"
	"time"

	"github.com/kdg/connector/auth"
	"github.com/kdg/connector/security"
	"github.com/kdg/connector/validation"
)

const (
	// DefaultTimeout bounds a whole call including the body read. Upstream
	// partner APIs are often slow, so it is well above net/http norms.
	DefaultTimeout = 5 * time.Minute

	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
)

// Config configures a connector.
type Config struct {
	// Name identifies the connector in logs, traces and errors.
	Name string `yaml:"name" mapstructure:"name" validate:"required"`

	// BaseURL is the absolute URL paths are resolved against.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// Timeout bounds each call. Defaults to DefaultTimeout.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"min=0"`

	// Headers are sent on every request, before per-call headers.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// RedactResponseBodies logs "[Omitted]" instead of response bodies
	// unless a call opts back in.
	RedactResponseBodies bool `yaml:"redact_response_bodies" mapstructure:"redact_response_bodies"`

	// TLS configures the shared transport.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Transport tunes connection pooling.
	Transport TransportConfig `yaml:"transport" mapstructure:"transport"`

	// Auth holds OAuth refresh-token settings. Used only when no
	// provider is passed to New.
	Auth auth.Config `yaml:"auth" mapstructure:"auth" validate:"-"`
}

// TransportConfig tunes the pooled transport shared by all calls.
type TransportConfig struct {
	MaxIdleConns        int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns" validate:"min=0"`
	MaxIdleConnsPerHost int           `yaml:"max_idle_conns_per_host" mapstructure:"max_idle_conns_per_host" validate:"min=0"`
	IdleConnTimeout     time.Duration `yaml:"idle_conn_timeout" mapstructure:"idle_conn_timeout"`
	DisableHTTP2        bool          `yaml:"disable_http2" mapstructure:"disable_http2"`
	// HTTP2ReadIdleTimeout sends a health-check ping on idle HTTP/2
	// connections after this long. Zero disables pings.
	HTTP2ReadIdleTimeout time.Duration `yaml:"http2_read_idle_timeout" mapstructure:"http2_read_idle_timeout"`
	HTTP2PingTimeout     time.Duration `yaml:"http2_ping_timeout" mapstructure:"http2_ping_timeout"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Transport.MaxIdleConns <= 0 {
		c.Transport.MaxIdleConns = defaultMaxIdleConns
	}
	if c.Transport.MaxIdleConnsPerHost <= 0 {
		c.Transport.MaxIdleConnsPerHost = defaultMaxIdleConnsPerHost
	}
	if c.Transport.IdleConnTimeout <= 0 {
		c.Transport.IdleConnTimeout = defaultIdleConnTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("connector: %w", err)
	}
	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("connector: %w", err)
	}
	if !c.Auth.IsZero() {
		if err := c.Auth.Validate(); err != nil {
			return fmt.Errorf("connector: %w", err)
		}
	}
	return nil
}
