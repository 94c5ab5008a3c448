package config

import (
	"errors"
	"fmt"

	"github.com/jameswoodtech/rigsheet/pkg/auth/token"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	switch c.Storage.Type {
	case "memory", "postgres":
		// valid
	default:
		errs = append(errs, fmt.Errorf("storage.type must be \"memory\" or \"postgres\", got %q", c.Storage.Type))
	}

	if c.Storage.Type == "postgres" {
		if c.Storage.Postgres.DSN == "" && c.Storage.Postgres.DSNFile == "" {
			errs = append(errs, fmt.Errorf("storage.postgres.dsn or storage.postgres.dsn_file is required when storage.type is \"postgres\""))
		}
	}

	// An explicitly configured secret must be usable for HS256. The
	// unset case is not an error here: the dev fallback is substituted
	// at startup with a warning.
	if c.Auth.TokenSecret != "" && len(c.Auth.TokenSecret) < token.MinSecretLen {
		errs = append(errs, fmt.Errorf("auth.token_secret must be at least %d bytes, got %d", token.MinSecretLen, len(c.Auth.TokenSecret)))
	}

	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL))
	}

	if c.Seed.AdminUsername != "" && c.Seed.AdminPassword == "" && c.Seed.AdminPasswordFile == "" {
		errs = append(errs, fmt.Errorf("seed.admin_password or seed.admin_password_file is required when seed.admin_username is set"))
	}

	return errors.Join(errs...)
}
