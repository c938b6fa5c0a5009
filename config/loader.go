package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem abstracts file lookups so resolution can be tested.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem on the local disk.
type RealFileSystem struct{}

func (RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// LoadEnv loads a .env file. Variables already set in the process win.
func (RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// Defaulter is implemented by configs that fill in their own defaults.
type Defaulter interface {
	ApplyDefaults()
}

// Validator is implemented by configs that can check themselves.
type Validator interface {
	Validate() error
}

// Options controls file resolution and environment binding.
type Options struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	// EnvPrefix selects environment variables; defaults to the upper-cased
	// service name with "-" replaced by "_".
	EnvPrefix string
}

// Option is a functional option for Load.
type Option func(*Options)

// WithFileSystem sets a custom filesystem for resolution.
func WithFileSystem(fs FileSystem) Option {
	return func(o *Options) { o.FileSystem = fs }
}

// WithConfigFile sets an explicit YAML file.
func WithConfigFile(path string) Option {
	return func(o *Options) { o.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file.
func WithEnvFile(path string) Option {
	return func(o *Options) { o.EnvFile = path }
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *Options) { o.EnvPrefix = prefix }
}

// Files are the resolved config and env file paths; either may be empty.
type Files struct {
	ConfigFile string
	EnvFile    string
}

// Resolve finds the config and env files for a service. Explicit paths
// in opts win over the search.
func Resolve(serviceName string, opts Options) Files {
	fs := opts.FileSystem
	if fs == nil {
		fs = RealFileSystem{}
	}
	files := Files{ConfigFile: opts.ConfigFile, EnvFile: opts.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = firstExisting(fs,
			fmt.Sprintf("./cmd/%s/config.yml", serviceName),
			fmt.Sprintf("./config/%s.yml", serviceName),
			"./config/config.yml",
			"./config.yml",
			"./config.yaml",
		)
	}
	if files.EnvFile == "" {
		files.EnvFile = firstExisting(fs,
			fmt.Sprintf("./cmd/%s/.env", serviceName),
			fmt.Sprintf(".env.%s", serviceName),
			".env",
		)
	}
	return files
}

func firstExisting(fs FileSystem, paths ...string) string {
	for _, p := range paths {
		if fs.Exists(p) {
			return p
		}
	}
	return ""
}

// Load reads the YAML config file and .env file for serviceName, overlays
// <PREFIX>_* environment variables and unmarshals the result into cfg. If
// cfg implements Defaulter and Validator they are applied in that order.
//
// CRM_AUTH_CLIENT_ID binds to auth.client_id; CRM_BASE_URL to base_url.
func Load(serviceName string, cfg any, opts ...Option) error {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	if o.FileSystem == nil {
		o.FileSystem = RealFileSystem{}
	}
	if o.EnvPrefix == "" {
		o.EnvPrefix = strings.ToUpper(strings.ReplaceAll(serviceName, "-", "_"))
	}

	files := Resolve(serviceName, o)
	v := viper.New()

	if files.ConfigFile != "" && o.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config %s: read %s: %w", serviceName, files.ConfigFile, err)
		}
	}

	if files.EnvFile != "" && o.FileSystem.Exists(files.EnvFile) {
		if err := o.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("config %s: load %s: %w", serviceName, files.EnvFile, err)
		}
	}
	bindEnv(v, o.EnvPrefix)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config %s: unmarshal: %w", serviceName, err)
	}

	if d, ok := cfg.(Defaulter); ok {
		d.ApplyDefaults()
	}
	if val, ok := cfg.(Validator); ok {
		if err := val.Validate(); err != nil {
			return fmt.Errorf("config %s: %w", serviceName, err)
		}
	}
	return nil
}

// bindEnv sets every variant of each PREFIX_* variable on v, so nested
// keys containing underscores resolve without a schema. Variants that
// match no struct field are ignored by Unmarshal.
func bindEnv(v *viper.Viper, prefix string) {
	p := strings.ToUpper(prefix) + "_"
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, p) {
			continue
		}
		for _, variant := range envKeyVariants(strings.TrimPrefix(key, p)) {
			v.Set(variant, value)
		}
	}
}

// envKeyVariants maps AUTH_CLIENT_ID to auth_client_id, auth.client.id,
// auth.client_id and auth_client.id.
func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	if len(parts) <= 1 {
		return []string{lower}
	}

	variants := []string{lower, strings.ReplaceAll(lower, "_", ".")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
		variants = append(variants, strings.Join(parts[:i], "_")+"."+strings.Join(parts[i:], "."))
	}
	return dedupe(variants)
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if !seen[it] {
			seen[it] = true
			out = append(out, it)
		}
	}
	return out
}
