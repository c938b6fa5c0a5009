// Package validation checks configuration structs with struct tags
// (go-playground/validator). Field names in errors use the mapstructure
// key so messages point at the offending config entry:
//
//	type Config struct {
//	    BaseURL string `mapstructure:"base_url" validate:"required,url"`
//	}
//	err := validation.Validate(cfg) // "base_url: is required"
package validation
