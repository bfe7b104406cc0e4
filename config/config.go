package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/Rajangupta9/taskmanager/logging"
)

// EnvPrefix prefixes every environment override, e.g. TASKAPI_SERVER_PORT.
const EnvPrefix = "TASKAPI"

// Config represents the complete task API configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// AuthConfig controls session tokens and password hashing
type AuthConfig struct {
	// TokenSecret signs session tokens. Required.
	TokenSecret  string        `mapstructure:"token_secret"`
	ExpiresIn    time.Duration `mapstructure:"expires_in"`
	CookieName   string        `mapstructure:"cookie_name"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
	BcryptCost   int           `mapstructure:"bcrypt_cost"`
}

// DatabaseConfig selects and addresses the store
type DatabaseConfig struct {
	// Driver is one of "mongo", "postgres", "mysql", "memory"
	Driver string `mapstructure:"driver"`
	// URI and Name address MongoDB
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
	// DSN addresses PostgreSQL or MySQL
	DSN string `mapstructure:"dsn"`
	// Timeout bounds every store call
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggingConfig controls the structured logger
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Addr returns the listen address for the configured port.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Auth: AuthConfig{
			ExpiresIn:    24 * time.Hour,
			CookieName:   "login",
			CookieSecure: true,
			BcryptCost:   bcrypt.DefaultCost,
		},
		Database: DatabaseConfig{
			Driver:  DriverMongo,
			URI:     "mongodb://localhost:27017",
			Name:    "task_db",
			Timeout: 5 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatJSON,
		},
	}
}

// Database drivers
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMemory   = "memory"
)

// ValidDrivers returns the accepted database.driver values
func ValidDrivers() []string {
	return []string{DriverMongo, DriverPostgres, DriverMySQL, DriverMemory}
}

// legacyEnv maps config keys to the plain environment names the service
// has always read.
var legacyEnv = map[string]string{
	"server.port":       "PORT",
	"database.uri":      "MONGO_URI",
	"database.dsn":      "DATABASE_URL",
	"auth.token_secret": "TOKEN_SECRET_KEY",
	"auth.expires_in":   "EXPIRES_IN",
}

// SetDefaults registers defaults and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("server.read_timeout", defaults.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", defaults.Server.WriteTimeout)
	v.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)

	v.SetDefault("auth.token_secret", defaults.Auth.TokenSecret)
	v.SetDefault("auth.expires_in", defaults.Auth.ExpiresIn)
	v.SetDefault("auth.cookie_name", defaults.Auth.CookieName)
	v.SetDefault("auth.cookie_secure", defaults.Auth.CookieSecure)
	v.SetDefault("auth.bcrypt_cost", defaults.Auth.BcryptCost)

	v.SetDefault("database.driver", defaults.Database.Driver)
	v.SetDefault("database.uri", defaults.Database.URI)
	v.SetDefault("database.name", defaults.Database.Name)
	v.SetDefault("database.dsn", defaults.Database.DSN)
	v.SetDefault("database.timeout", defaults.Database.Timeout)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)

	v.SetEnvPrefix(EnvPrefix)
	// TASKAPI_DATABASE_DRIVER for database.driver
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, name := range legacyEnv {
		prefixed := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, prefixed, name)
	}
}

// Load reads the configuration from v into a Config struct and validates it
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "taskapi")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskapi"
	}
	return filepath.Join(home, ".config", "taskapi")
}

func isOneOf(v string, valid []string) bool {
	return slices.ContainsFunc(valid, func(s string) bool { return strings.EqualFold(s, v) })
}
