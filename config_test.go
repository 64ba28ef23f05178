package mymcp

import (
	"context"
	"strings"
	"testing"
)

func validTestConfig() Config {
	return Config{
		MySQL: MySQLConfig{
			Host:            "localhost",
			Port:            3306,
			User:            "root",
			Password:        "secret",
			Database:        "shop",
			ConnectionLimit: 10,
		},
	}
}

// expectPanic fails the test unless fn panics.
func expectPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Error("expected panic, got none")
		}
	}()
	fn()
}

func TestNewPanicsOnInvalidConfig(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing host", func(c *Config) { c.MySQL.Host = "" }},
		{"zero port", func(c *Config) { c.MySQL.Port = 0 }},
		{"missing user", func(c *Config) { c.MySQL.User = "" }},
		{"zero connection limit", func(c *Config) { c.MySQL.ConnectionLimit = 0 }},
		{"telemetry enabled without endpoint", func(c *Config) { c.Telemetry.Enabled = true }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			config := validTestConfig()
			tt.mutate(&config)
			expectPanic(t, func() {
				New(context.Background(), config, testLogger())
			})
		})
	}
}

func TestNewAcceptsValidConfig(t *testing.T) {
	t.Parallel()
	// sql.Open does not dial, so constructing against an unreachable
	// host is fine.
	m := New(context.Background(), validTestConfig(), testLogger())
	if m == nil {
		t.Fatal("New returned nil")
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestValidateAllowsDisabledTelemetry(t *testing.T) {
	t.Parallel()
	config := validTestConfig()
	config.Telemetry = TelemetryConfig{Enabled: false}
	if err := config.validate(); err != nil {
		t.Errorf("validate: %v", err)
	}

	config.Telemetry = TelemetryConfig{Enabled: true, Endpoint: "localhost:4317"}
	if err := config.validate(); err != nil {
		t.Errorf("validate with endpoint: %v", err)
	}
}

func TestDSN(t *testing.T) {
	t.Parallel()
	dsn := validTestConfig().MySQL.dsn()
	for _, part := range []string{"root:secret@", "tcp(localhost:3306)", "/shop", "parseTime=true"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("dsn %q missing %q", dsn, part)
		}
	}
}

func TestDSNWithoutDatabase(t *testing.T) {
	t.Parallel()
	config := validTestConfig()
	config.MySQL.Database = ""
	dsn := config.MySQL.dsn()
	if !strings.Contains(dsn, "tcp(localhost:3306)/") {
		t.Errorf("dsn %q should still carry the address", dsn)
	}
}
