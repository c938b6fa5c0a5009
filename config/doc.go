// Package config loads service and connector configuration with viper.
//
// Load reads an optional YAML file, an optional .env file (godotenv) and
// environment variables prefixed with the service name, then unmarshals
// into any struct using mapstructure tags:
//
//	var cfg AppConfig
//	err := config.Load("crm-sync", &cfg)
//
// CRM_SYNC_BILLING_BASE_URL overrides billing.base_url from the file.
package config
