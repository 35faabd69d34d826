// Package config loads application configuration from environment
// variables. In production the database variables must be set
// explicitly; everywhere else they fall back to local defaults.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	Port    int    `env:"PORT" envDefault:"3000"`
	Version string `env:"APP_VERSION" envDefault:"1.0.0"`

	// Database selection. SQLite is the development default; production
	// deployments run against PostgreSQL.
	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabasePath   string `env:"DATABASE_PATH" envDefault:"database.db"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     int    `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"password"`
	DBName     string `env:"DB_NAME" envDefault:"userapp"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"db/migrations"`

	// Comma-separated allowed CORS origins; empty means allow all.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	TelemetryEnabled bool   `env:"TELEMETRY_ENABLED" envDefault:"false"`
	MetricsPort      string `env:"METRICS_PORT" envDefault:"9091"`
	OTLPEndpoint     string `env:"OTLP_ENDPOINT" envDefault:"localhost:4317"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// PostgresURL builds the connection string from the individual DB_*
// variables.
func (c *Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.DBUser),
		url.QueryEscape(c.DBPassword),
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

// MigrationsDir returns the per-engine migrations directory.
func (c *Config) MigrationsDir() string {
	return filepath.Join(c.MigrationsPath, c.DatabaseDriver)
}

func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)

		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// validate refuses implicit database defaults in production.
func (c *Config) validate() error {
	if c.DatabaseDriver != DriverSQLite && c.DatabaseDriver != DriverPostgres {
		return fmt.Errorf("unsupported database driver: %s", c.DatabaseDriver)
	}

	if !c.IsProduction() {
		return nil
	}

	required := []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME"}
	missing := []string{}

	for _, name := range required {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}
