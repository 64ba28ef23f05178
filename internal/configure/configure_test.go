package configure

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mymcp "github.com/stackpine/mysql-mcp"
)

// promptCount is the number of fields the wizard asks about, in order.
const promptCount = 15

// answers builds a wizard input stream: one line per prompt, empty lines
// accept the current/default value.
func answers(overrides map[int]string) string {
	lines := make([]string, promptCount)
	for i, v := range overrides {
		lines[i] = v
	}
	return strings.Join(lines, "\n") + "\n"
}

func readConfig(t *testing.T, path string) mymcp.Config {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	var cfg mymcp.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}
	return cfg
}

func TestRunNewConfigDefaults(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	var out bytes.Buffer

	if err := run(path, strings.NewReader(answers(nil)), &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	cfg := readConfig(t, path)
	if cfg.MySQL.Host != "localhost" || cfg.MySQL.Port != 3306 {
		t.Errorf("mysql defaults = %s:%d, want localhost:3306", cfg.MySQL.Host, cfg.MySQL.Port)
	}
	if cfg.MySQL.ConnectionLimit != 10 {
		t.Errorf("connection_limit = %d, want 10", cfg.MySQL.ConnectionLimit)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" || cfg.Logging.Output != "stderr" {
		t.Errorf("logging defaults = %+v", cfg.Logging)
	}
	if cfg.Telemetry.Enabled {
		t.Error("telemetry should default to disabled")
	}
	if !strings.Contains(out.String(), "default:") {
		t.Error("new config prompts should be labeled with defaults")
	}
}

func TestRunOverridesFields(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	var out bytes.Buffer

	// Prompt order: host, port, user, password, database,
	// connection_limit, server.port, health_check_enabled,
	// health_check_path, logging level/format/output,
	// telemetry enabled/endpoint/service_name.
	input := answers(map[int]string{
		0:  "db.internal",
		2:  "app",
		3:  "hunter2",
		4:  "shop",
		12: "yes",
		13: "otel.internal:4317",
	})

	if err := run(path, strings.NewReader(input), &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	cfg := readConfig(t, path)
	if cfg.MySQL.Host != "db.internal" || cfg.MySQL.User != "app" || cfg.MySQL.Database != "shop" {
		t.Errorf("mysql = %+v", cfg.MySQL)
	}
	if cfg.MySQL.Password != "hunter2" {
		t.Errorf("password = %q, want hunter2", cfg.MySQL.Password)
	}
	if !cfg.Telemetry.Enabled || cfg.Telemetry.Endpoint != "otel.internal:4317" {
		t.Errorf("telemetry = %+v", cfg.Telemetry)
	}
	if strings.Contains(out.String(), "hunter2") {
		t.Error("password must not be echoed")
	}
}

func TestRunKeepsExistingValues(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")

	existing := mymcp.Config{}
	existing.MySQL = mymcp.MySQLConfig{Host: "db1", Port: 3307, User: "svc", Password: "s3cret", ConnectionLimit: 5}
	existing.Logging = mymcp.LoggingConfig{Level: "warn", Format: "text", Output: "stdout"}
	if err := writeConfig(path, &existing); err != nil {
		t.Fatalf("seed config: %v", err)
	}

	var out bytes.Buffer
	if err := run(path, strings.NewReader(answers(nil)), &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	cfg := readConfig(t, path)
	if cfg.MySQL.Host != "db1" || cfg.MySQL.Port != 3307 || cfg.MySQL.Password != "s3cret" {
		t.Errorf("existing values lost: %+v", cfg.MySQL)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("logging.level = %q, want warn", cfg.Logging.Level)
	}
	if !strings.Contains(out.String(), "current:") {
		t.Error("existing config prompts should be labeled as current")
	}
	if strings.Contains(out.String(), "s3cret") {
		t.Error("existing password must not be echoed")
	}
}

func TestRunRejectsInvalidInt(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	var out bytes.Buffer

	// Second prompt is mysql.port: feed garbage twice, then a valid
	// value; all remaining prompts accept defaults.
	lines := []string{"", "abc", "-1", "3307"}
	for i := 0; i < promptCount-2; i++ {
		lines = append(lines, "")
	}
	input := strings.Join(lines, "\n") + "\n"

	if err := run(path, strings.NewReader(input), &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	cfg := readConfig(t, path)
	if cfg.MySQL.Port != 3307 {
		t.Errorf("port = %d, want 3307", cfg.MySQL.Port)
	}
	if !strings.Contains(out.String(), "Invalid integer") {
		t.Error("expected retry message for invalid integer")
	}
	if !strings.Contains(out.String(), "must be > 0") {
		t.Error("expected retry message for non-positive integer")
	}
}

func TestRunRejectsInvalidEnum(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config.json")
	var out bytes.Buffer

	// Tenth prompt is logging.level.
	lines := make([]string, 0, promptCount+1)
	for i := 0; i < 9; i++ {
		lines = append(lines, "")
	}
	lines = append(lines, "verbose", "debug")
	for i := 0; i < promptCount-10; i++ {
		lines = append(lines, "")
	}
	input := strings.Join(lines, "\n") + "\n"

	if err := run(path, strings.NewReader(input), &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	cfg := readConfig(t, path)
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level = %q, want debug", cfg.Logging.Level)
	}
	if !strings.Contains(out.String(), "must be one of") {
		t.Error("expected retry message for invalid enum value")
	}
}

func TestWriteConfigCreatesDirectory(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), ".gomymcp", "config.json")

	cfg := &mymcp.Config{}
	applyDefaults(cfg)
	if err := writeConfig(path, cfg); err != nil {
		t.Fatalf("writeConfig: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 0600", perm)
	}
}
