package logger

import (
	"fmt"

	"github.com/kdg/connector/validation"
)

// Config contains logging configuration.
type Config struct {
	Level     string `yaml:"level" mapstructure:"level" validate:"oneof=trace debug info warn error fatal disabled"`
	Format    string `yaml:"format" mapstructure:"format" validate:"oneof=json console pretty"`
	Output    string `yaml:"output" mapstructure:"output" validate:"omitempty,oneof=stdout stderr"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`

	// BodyLevel is the level request and response bodies are written at.
	// "disabled" drops them without touching the other connector logs.
	BodyLevel string `yaml:"body_level" mapstructure:"body_level" validate:"omitempty,oneof=trace debug info disabled"`
	// MaxBodyBytes truncates logged bodies. Zero logs them whole.
	MaxBodyBytes int `yaml:"max_body_bytes" mapstructure:"max_body_bytes" validate:"min=0"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatConsole
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	if c.BodyLevel == "" {
		c.BodyLevel = "info"
	}
	c.Timestamp = true
}

// Validate validates logging configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}
