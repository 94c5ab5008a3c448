// Package config provides unified configuration for the rigsheet API.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (RIGSHEET_ prefix)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for the rigsheet API server.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Auth          AuthConfig          `yaml:"auth"`
	Observability ObservabilityConfig `yaml:"observability"`
	Seed          SeedConfig          `yaml:"seed"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`             // default: 8080
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // default: 15s
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 10s
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	Type     string         `yaml:"type"` // "memory" or "postgres", default: "memory"
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	DSNFile        string `yaml:"dsn_file"` // _file variant for dsn
	MaxConns       int32  `yaml:"max_conns"`
	MigrateOnStart bool   `yaml:"migrate_on_start"`
}

// AuthConfig holds token and login settings.
type AuthConfig struct {
	// TokenSecret signs tokens; it must be at least 32 bytes. When
	// neither it nor TokenSecretFile is set, the insecure development
	// secret is substituted and a warning is logged at startup.
	TokenSecret     string        `yaml:"token_secret"`
	TokenSecretFile string        `yaml:"token_secret_file"`
	TokenTTL        time.Duration `yaml:"token_ttl"`          // default: 24h
	LoginMaxFails   int           `yaml:"login_max_failures"` // default: 10, 0 disables throttling
	LoginWindow     time.Duration `yaml:"login_window"`       // default: 1m
}

// DevTokenSecret is the fixed development signing secret used when no
// secret is configured. It must not ship to production.
const DevTokenSecret = "rigsheet-dev-secret-change-me-rigsheet-dev-secret-change-me"

// SecretBytes returns the effective signing secret and whether the
// insecure development fallback was substituted.
func (a *AuthConfig) SecretBytes() (secret []byte, devFallback bool) {
	if a.TokenSecret == "" {
		return []byte(DevTokenSecret), true
	}
	return []byte(a.TokenSecret), false
}

// ObservabilityConfig holds monitoring settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// SeedConfig optionally bootstraps an admin profile at startup when the
// store has no profile with that username yet.
type SeedConfig struct {
	AdminUsername     string `yaml:"admin_username"`
	AdminPassword     string `yaml:"admin_password"`
	AdminPasswordFile string `yaml:"admin_password_file"`
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Type: "memory",
			Postgres: PostgresConfig{
				MaxConns: 25,
			},
		},
		Auth: AuthConfig{
			TokenTTL:      24 * time.Hour,
			LoginMaxFails: 10,
			LoginWindow:   time.Minute,
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}
