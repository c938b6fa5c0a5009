package config

import (
	"fmt"

	"github.com/kdg/connector/logger"
	"github.com/kdg/connector/validation"
)

// ServiceConfig holds the settings shared by every process that hosts
// connectors. Embed it in a larger struct to add connector sections:
//
//	type AppConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Billing connector.Config `yaml:"billing" mapstructure:"billing"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string        `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults applies default values to the base configuration.
// Outside development, logs default to JSON.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Logging.Format == "" && c.Environment != "development" {
		c.Logging.Format = "json"
	}
	c.Logging.ApplyDefaults()
}

// Validate checks the base configuration, including logging.
func (c *ServiceConfig) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
