package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type authSection struct {
	TokenURL string `mapstructure:"token_url"`
	ClientID string `mapstructure:"client_id"`
}

type testConnector struct {
	Name    string        `mapstructure:"name"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Auth    authSection   `mapstructure:"auth"`
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Billing       testConnector `mapstructure:"billing"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestServiceConfig_Defaults(t *testing.T) {
	cfg := ServiceConfig{Name: "svc"}
	cfg.ApplyDefaults()
	if cfg.Environment != "development" {
		t.Errorf("expected development, got %q", cfg.Environment)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging defaults, got %+v", cfg.Logging)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("expected console logs in development, got %q", cfg.Logging.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	prod := ServiceConfig{Name: "svc", Environment: "production"}
	prod.ApplyDefaults()
	if prod.Logging.Format != "json" {
		t.Errorf("expected json logs in production, got %q", prod.Logging.Format)
	}
}

func TestServiceConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    ServiceConfig
		errMsg string
	}{
		{"missing name", ServiceConfig{Environment: "production"}, "name: is required"},
		{"bad environment", ServiceConfig{Name: "svc", Environment: "qa"}, "environment: must be one of"},
		{"bad logging", ServiceConfig{Name: "svc", Environment: "staging"}, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error containing %q, got %v", tt.errMsg, err)
			}
		})
	}
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: crm-sync
environment: staging
billing:
  name: billing
  base_url: https://api.example.com/v1/
  timeout: 30s
  auth:
    token_url: https://idp.example.com/token
`)

	var cfg testConfig
	if err := Load("crm-sync", &cfg, WithConfigFile(path), WithEnvPrefix("CFGTEST_YAML")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "crm-sync" || cfg.Environment != "staging" {
		t.Errorf("unexpected service config %+v", cfg.ServiceConfig)
	}
	if cfg.Billing.BaseURL != "https://api.example.com/v1/" {
		t.Errorf("unexpected base url %q", cfg.Billing.BaseURL)
	}
	if cfg.Billing.Timeout != 30*time.Second {
		t.Errorf("expected 30s, got %v", cfg.Billing.Timeout)
	}
	if cfg.Billing.Auth.TokenURL != "https://idp.example.com/token" {
		t.Errorf("unexpected token url %q", cfg.Billing.Auth.TokenURL)
	}
	if cfg.Logging.Level != "info" {
		t.Error("expected ApplyDefaults to run after unmarshal")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
name: crm-sync
billing:
  base_url: https://file.example.com/
`)
	t.Setenv("CFGTEST_ENV_BILLING_BASE_URL", "https://env.example.com/")
	t.Setenv("CFGTEST_ENV_BILLING_AUTH_CLIENT_ID", "client-from-env")

	var cfg testConfig
	if err := Load("crm-sync", &cfg, WithConfigFile(path), WithEnvPrefix("CFGTEST_ENV")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Billing.BaseURL != "https://env.example.com/" {
		t.Errorf("expected env override, got %q", cfg.Billing.BaseURL)
	}
	if cfg.Billing.Auth.ClientID != "client-from-env" {
		t.Errorf("expected nested env binding, got %q", cfg.Billing.Auth.ClientID)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := writeFile(t, dir, ".env", "CFGTEST_DOTENV_NAME=from-dotenv\nCFGTEST_DOTENV_BILLING_TIMEOUT=2m\n")
	t.Cleanup(func() {
		os.Unsetenv("CFGTEST_DOTENV_NAME")
		os.Unsetenv("CFGTEST_DOTENV_BILLING_TIMEOUT")
	})

	var cfg testConfig
	if err := Load("svc", &cfg, WithEnvFile(envPath), WithConfigFile(filepath.Join(dir, "none.yml")), WithEnvPrefix("CFGTEST_DOTENV")); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Name != "from-dotenv" {
		t.Errorf("expected name from .env, got %q", cfg.Name)
	}
	if cfg.Billing.Timeout != 2*time.Minute {
		t.Errorf("expected 2m, got %v", cfg.Billing.Timeout)
	}
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	var cfg testConnector
	if err := Load("nothing-here", &cfg, WithConfigFile("/nonexistent/config.yml")); err != nil {
		t.Fatalf("expected success with missing file, got %v", err)
	}
	if cfg.BaseURL != "" {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", "billing: [unterminated")
	var cfg testConfig
	if err := Load("svc", &cfg, WithConfigFile(path)); err == nil {
		t.Error("expected parse error")
	}
}

type failingConfig struct {
	Name string `mapstructure:"name"`
}

var errInvalid = errors.New("invalid")

func (failingConfig) Validate() error { return errInvalid }

func TestLoad_RunsValidate(t *testing.T) {
	var cfg failingConfig
	err := Load("svc", &cfg, WithConfigFile("/nonexistent.yml"))
	if !errors.Is(err, errInvalid) {
		t.Errorf("expected validation error, got %v", err)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }
func (m *mockFS) LoadEnv(string) error    { return nil }

func TestResolve(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/probe/config.yml": true,
		"./config/config.yml":    true,
		".env":                   true,
	}}
	files := Resolve("probe", Options{FileSystem: fs})
	if files.ConfigFile != "./cmd/probe/config.yml" {
		t.Errorf("expected service config to win, got %q", files.ConfigFile)
	}
	if files.EnvFile != ".env" {
		t.Errorf("expected .env, got %q", files.EnvFile)
	}

	explicit := Resolve("probe", Options{FileSystem: fs, ConfigFile: "/etc/probe.yml"})
	if explicit.ConfigFile != "/etc/probe.yml" {
		t.Errorf("expected explicit path, got %q", explicit.ConfigFile)
	}

	none := Resolve("probe", Options{FileSystem: &mockFS{}})
	if none.ConfigFile != "" || none.EnvFile != "" {
		t.Errorf("expected nothing resolved, got %+v", none)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("AUTH_CLIENT_ID")
	for _, want := range []string{"auth_client_id", "auth.client.id", "auth.client_id", "auth_client.id"} {
		found := false
		for _, g := range got {
			if g == want {
				found = true
			}
		}
		if !found {
			t.Errorf("expected variant %q in %v", want, got)
		}
	}
	if v := envKeyVariants("NAME"); len(v) != 1 || v[0] != "name" {
		t.Errorf("unexpected single-part variants %v", v)
	}
}
