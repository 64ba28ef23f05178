package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	mymcp "github.com/stackpine/mysql-mcp"
	"github.com/stackpine/mysql-mcp/internal/meta"

	"github.com/rs/zerolog"
)

func runDoctor() error {
	fs := flag.NewFlagSet("doctor", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "Path to configuration file")
	skipConnect := fs.Bool("skip-connect", false, "Skip the live database connectivity check")
	fs.Parse(os.Args[2:])

	useColor := isTTY(os.Stderr.Fd())
	return doctor(os.Stderr, useColor, *configPath, *skipConnect)
}

func doctor(w io.Writer, useColor bool, configPath string, skipConnect bool) error {
	printBanner(w, useColor)
	fmt.Fprintf(w, "gomymcp %s\n\n", meta.Version)

	// Load and validate config
	config, ok := doctorValidateConfig(w, useColor, configPath)
	if !ok {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Fix the issues above and run 'gomymcp doctor' again.")
		return nil
	}

	// Live connectivity probe
	if !skipConnect {
		fmt.Fprintln(w)
		doctorCheckConnectivity(w, useColor, config)
	}

	// Print agent connection snippets
	fmt.Fprintln(w)
	printAgentSnippets(w, useColor, config)
	return nil
}

// doctorValidateConfig loads and validates the config file, printing check results.
// Returns the parsed config and true if all checks passed.
func doctorValidateConfig(w io.Writer, useColor bool, configPath string) (*mymcp.Config, bool) {
	allPassed := true

	// Check 1: Config file exists and is valid JSON
	data, err := os.ReadFile(configPath)
	if err != nil {
		printCheck(w, useColor, false, fmt.Sprintf("Config file readable (%s)", configPath))
		allPassed = false
		return nil, allPassed
	}
	printCheck(w, useColor, true, fmt.Sprintf("Config file readable (%s)", configPath))

	var config mymcp.Config
	if err := json.Unmarshal(data, &config); err != nil {
		printCheck(w, useColor, false, fmt.Sprintf("Config file is valid JSON: %v", err))
		allPassed = false
		return nil, allPassed
	}
	printCheck(w, useColor, true, "Config file is valid JSON")
	applyEnvOverrides(&config)

	// Check 2: mysql.host is set
	if config.MySQL.Host == "" {
		printCheck(w, useColor, false, "mysql.host is set")
		allPassed = false
	} else {
		printCheck(w, useColor, true, fmt.Sprintf("mysql.host is set (%s)", config.MySQL.Host))
	}

	// Check 3: mysql.port > 0
	if config.MySQL.Port <= 0 {
		printCheck(w, useColor, false, "mysql.port is > 0")
		allPassed = false
	} else {
		printCheck(w, useColor, true, fmt.Sprintf("mysql.port is > 0 (%d)", config.MySQL.Port))
	}

	// Check 4: mysql.user is set
	if config.MySQL.User == "" {
		printCheck(w, useColor, false, "mysql.user is set")
		allPassed = false
	} else {
		printCheck(w, useColor, true, fmt.Sprintf("mysql.user is set (%s)", config.MySQL.User))
	}

	// Check 5: mysql.connection_limit > 0
	if config.MySQL.ConnectionLimit <= 0 {
		printCheck(w, useColor, false, "mysql.connection_limit is > 0")
		allPassed = false
	} else {
		printCheck(w, useColor, true, fmt.Sprintf("mysql.connection_limit is > 0 (%d)", config.MySQL.ConnectionLimit))
	}

	// Check 6: server.port > 0
	if config.Server.Port <= 0 {
		printCheck(w, useColor, false, "server.port is > 0")
		allPassed = false
	} else {
		printCheck(w, useColor, true, fmt.Sprintf("server.port is > 0 (%d)", config.Server.Port))
	}

	// Check 7: Health check path set when enabled
	if config.Server.HealthCheckEnabled {
		if config.Server.HealthCheckPath == "" {
			printCheck(w, useColor, false, "health_check_path is set (required when health_check_enabled)")
			allPassed = false
		} else {
			printCheck(w, useColor, true, fmt.Sprintf("health_check_path is set (%s)", config.Server.HealthCheckPath))
		}
	}

	// Check 8: Telemetry endpoint set when enabled
	if config.Telemetry.Enabled {
		if config.Telemetry.Endpoint == "" {
			printCheck(w, useColor, false, "telemetry.endpoint is set (required when telemetry.enabled)")
			allPassed = false
		} else {
			printCheck(w, useColor, true, fmt.Sprintf("telemetry.endpoint is set (%s)", config.Telemetry.Endpoint))
		}
	}

	return &config, allPassed
}

// doctorCheckConnectivity opens a pool against the configured database and
// runs one ping with a short timeout.
func doctorCheckConnectivity(w io.Writer, useColor bool, config *mymcp.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	m := mymcp.New(ctx, *config, zerolog.New(io.Discard))
	defer m.Close()

	if err := m.Ping(ctx); err != nil {
		printCheck(w, useColor, false, fmt.Sprintf("Database reachable: %v", err))
		return
	}
	printCheck(w, useColor, true, fmt.Sprintf("Database reachable (%s:%d)", config.MySQL.Host, config.MySQL.Port))
}

// printCheck prints a colored ✓ or ✗ check line.
func printCheck(w io.Writer, useColor bool, pass bool, msg string) {
	if pass {
		if useColor {
			fmt.Fprintf(w, "  \033[32m✓\033[0m %s\n", msg)
		} else {
			fmt.Fprintf(w, "  ✓ %s\n", msg)
		}
	} else {
		if useColor {
			fmt.Fprintf(w, "  \033[31m✗\033[0m %s\n", msg)
		} else {
			fmt.Fprintf(w, "  ✗ %s\n", msg)
		}
	}
}

// printAgentSnippets prints MCP connection config snippets for various AI agents.
func printAgentSnippets(w io.Writer, useColor bool, config *mymcp.Config) {
	port := config.Server.Port
	url := fmt.Sprintf("http://localhost:%d/mcp", port)

	heading := func(title string) {
		if useColor {
			fmt.Fprintf(w, "\033[1;36m%s\033[0m\n", title)
		} else {
			fmt.Fprintln(w, title)
		}
	}

	subheading := func(title string) {
		if useColor {
			fmt.Fprintf(w, "  \033[1m%s\033[0m\n", title)
		} else {
			fmt.Fprintf(w, "  %s\n", title)
		}
	}

	heading("Agent Connection Snippets")
	fmt.Fprintln(w)

	// Claude Code
	subheading("Claude Code")
	fmt.Fprintf(w, "  Run this command to add the server:\n\n")
	fmt.Fprintf(w, "    claude mcp add --transport http mysql %s\n\n", url)
	fmt.Fprintf(w, "  Or add to .mcp.json (project scope):\n\n")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "mysql": {
        "type": "http",
        "url": "%s"
      }
    }
  }
`, url)
	fmt.Fprintln(w)

	// Copilot CLI
	subheading("Copilot CLI (~/.copilot/mcp-config.json)")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "mysql": {
        "type": "http",
        "url": "%s"
      }
    }
  }
`, url)
	fmt.Fprintln(w)

	// Gemini CLI
	subheading("Gemini CLI (~/.gemini/settings.json)")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "mysql": {
        "httpUrl": "%s"
      }
    }
  }
`, url)
	fmt.Fprintln(w)

	// OpenCode
	subheading("OpenCode (opencode.json)")
	fmt.Fprintf(w, `  {
    "mcp": {
      "mysql": {
        "type": "remote",
        "url": "%s"
      }
    }
  }
`, url)
	fmt.Fprintln(w)

	// Cursor
	subheading("Cursor (.cursor/mcp.json)")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "mysql": {
        "url": "%s"
      }
    }
  }
`, url)
	fmt.Fprintln(w)

	// Windsurf
	subheading("Windsurf (~/.codeium/windsurf/mcp_config.json)")
	fmt.Fprintf(w, `  {
    "mcpServers": {
      "mysql": {
        "serverUrl": "%s"
      }
    }
  }
`, url)
}
