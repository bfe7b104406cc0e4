package config

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Rajangupta9/taskmanager/logging"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "server.port")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	add := func(field string, value any, msg string) {
		errs = append(errs, ValidationError{Field: field, Value: value, Message: msg})
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		add("server.port", c.Server.Port, "must be between 1 and 65535")
	}
	if c.Server.ReadTimeout <= 0 {
		add("server.read_timeout", c.Server.ReadTimeout, "must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		add("server.write_timeout", c.Server.WriteTimeout, "must be positive")
	}
	if c.Server.ShutdownTimeout <= 0 {
		add("server.shutdown_timeout", c.Server.ShutdownTimeout, "must be positive")
	}

	if c.Auth.TokenSecret == "" {
		add("auth.token_secret", "", "is required")
	}
	if c.Auth.ExpiresIn <= 0 {
		add("auth.expires_in", c.Auth.ExpiresIn, "must be positive")
	}
	if c.Auth.CookieName == "" {
		add("auth.cookie_name", "", "is required")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		add("auth.bcrypt_cost", c.Auth.BcryptCost, fmt.Sprintf("must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}

	switch strings.ToLower(c.Database.Driver) {
	case DriverMongo:
		if c.Database.URI == "" {
			add("database.uri", "", "is required for the mongo driver")
		}
		if c.Database.Name == "" {
			add("database.name", "", "is required for the mongo driver")
		}
	case DriverPostgres, DriverMySQL:
		if c.Database.DSN == "" {
			add("database.dsn", "", "is required for the "+c.Database.Driver+" driver")
		}
	case DriverMemory:
	default:
		add("database.driver", c.Database.Driver, "must be one of: "+strings.Join(ValidDrivers(), ", "))
	}
	if c.Database.Timeout <= 0 {
		add("database.timeout", c.Database.Timeout, "must be positive")
	}

	if !isOneOf(c.Logging.Level, logging.ValidLevels()) {
		add("logging.level", c.Logging.Level, "must be one of: debug, info, warn, error")
	}
	if !isOneOf(c.Logging.Format, []string{logging.FormatJSON, logging.FormatText}) {
		add("logging.format", c.Logging.Format, "must be json or text")
	}

	return errs
}
