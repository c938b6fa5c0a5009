package main

import (
	"fmt"

	"github.com/kdg/connector/auth"
	"github.com/kdg/connector/config"
	"github.com/kdg/connector/connector"
	"github.com/kdg/connector/observability"
)

// appConfig is the probe's configuration file layout.
type appConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Connector   connector.Config     `yaml:"connector" mapstructure:"connector"`
	Credentials credentials          `yaml:"credentials" mapstructure:"credentials"`
	Telemetry   observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// credentials picks a static provider; the first non-empty entry wins.
// With none set, the connector falls back to connector.auth (OAuth).
type credentials struct {
	Bearer        string         `yaml:"bearer" mapstructure:"bearer"`
	BasicUser     string         `yaml:"basic_user" mapstructure:"basic_user"`
	BasicPassword string         `yaml:"basic_password" mapstructure:"basic_password"`
	Header        string         `yaml:"header" mapstructure:"header"`
	JWT           auth.JWTConfig `yaml:"jwt" mapstructure:"jwt"`
}

func (c *appConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Connector.Name == "" {
		c.Connector.Name = c.Name
	}
	c.Connector.ApplyDefaults()
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = c.Name
	}
	c.Telemetry.ApplyDefaults()
}

func (c *appConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Connector.Validate(); err != nil {
		return err
	}
	return c.Telemetry.Validate()
}

// provider returns the configured static provider, or nil.
func (c credentials) provider() (auth.Provider, error) {
	switch {
	case c.JWT.Secret != "":
		p, err := auth.JWT(c.JWT)
		if err != nil {
			return nil, fmt.Errorf("credentials.jwt: %w", err)
		}
		return p, nil
	case c.Bearer != "":
		return auth.Bearer(c.Bearer), nil
	case c.BasicUser != "":
		return auth.Basic(c.BasicUser, c.BasicPassword), nil
	case c.Header != "":
		return auth.Static(c.Header), nil
	default:
		return nil, nil
	}
}
