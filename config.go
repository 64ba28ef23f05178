package mymcp

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
)

// Config is the immutable settings structure consumed by New. It is
// produced outside the core (environment variables, config file, or the
// configure wizard) and never mutated after construction.
type Config struct {
	MySQL     MySQLConfig     `json:"mysql"`
	Telemetry TelemetryConfig `json:"telemetry"`
	Logging   LoggingConfig   `json:"logging"`
	Server    ServerSettings  `json:"server"`
}

// MySQLConfig holds database endpoint, credentials, and pool sizing.
type MySQLConfig struct {
	Host            string `json:"host" validate:"required"`
	Port            int    `json:"port" validate:"gt=0"`
	User            string `json:"user" validate:"required"`
	Password        string `json:"password"`
	Database        string `json:"database"`
	ConnectionLimit int    `json:"connection_limit" validate:"gt=0"`
}

// TelemetryConfig holds the OTLP backend settings. When Enabled is false
// the server runs with a no-op recorder and all instrumentation calls
// become no-ops.
type TelemetryConfig struct {
	Enabled     bool   `json:"enabled"`
	Endpoint    string `json:"endpoint" validate:"required_if=Enabled true"`
	ServiceName string `json:"service_name"`
}

// LoggingConfig holds logging settings for CLI mode.
type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
	Output string `json:"output"` // stdout, stderr, or file path
}

// ServerSettings holds HTTP server settings for CLI mode.
type ServerSettings struct {
	Port               int    `json:"port"`
	HealthCheckEnabled bool   `json:"health_check_enabled"`
	HealthCheckPath    string `json:"health_check_path"`
}

var configValidator = validator.New()

// validate checks the config against its struct tags. Invalid config is
// a programmer error, so callers panic on a non-nil return.
func (c Config) validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// dsn builds the go-sql-driver connection string. ParseTime makes the
// driver return time.Time for temporal columns so the result shaper can
// format them consistently.
func (c MySQLConfig) dsn() string {
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
	mc.User = c.User
	mc.Passwd = c.Password
	mc.DBName = c.Database
	mc.ParseTime = true
	return mc.FormatDSN()
}
