package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	mymcp "github.com/stackpine/mysql-mcp"
	"github.com/stackpine/mysql-mcp/internal/telemetry"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"golang.org/x/term"
)

const defaultConfigPath = ".gomymcp/config.json"

func runServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load config file, then layer env overrides on top
	config, err := loadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyEnvOverrides(config)

	if config.Server.Port <= 0 {
		panic("gomymcp: server.port must be > 0")
	}

	// 2. Resolve credentials: config/env, or prompt interactively
	if config.MySQL.User == "" {
		config.MySQL.User = promptInput("MySQL username: ")
	}
	if config.MySQL.Password == "" && isTTY(os.Stdin.Fd()) {
		config.MySQL.Password = promptPassword("MySQL password: ")
	}

	// 3. Setup logger
	logger := setupLogger(config.Logging)

	// 4. Setup telemetry
	var recorder telemetry.Recorder = telemetry.Nop{}
	var provider *telemetry.Provider
	if config.Telemetry.Enabled {
		serviceName := config.Telemetry.ServiceName
		if serviceName == "" {
			serviceName = "gomymcp"
		}
		var otel *telemetry.OTel
		provider, otel, err = telemetry.Setup(ctx, telemetry.Config{
			Endpoint:    config.Telemetry.Endpoint,
			ServiceName: serviceName,
		})
		if err != nil {
			return fmt.Errorf("failed to set up telemetry: %w", err)
		}
		recorder = otel
		logger.Info().
			Str("endpoint", config.Telemetry.Endpoint).
			Str("service_name", serviceName).
			Msg("telemetry enabled")
	}

	// 5. Create engine and test database connection
	myMcp := mymcp.New(ctx, *config, logger)
	defer myMcp.Close()

	logger.Info().Msg("testing database connection")
	if err := myMcp.Ping(ctx); err != nil {
		logger.Error().Err(err).Msg("database connection test failed")
		return fmt.Errorf("database connection test failed: %w", err)
	}
	logger.Info().Msg("database connection test successful")

	// 6. Create MCP server with initialize lifecycle logging
	hooks := &server.Hooks{}
	hooks.AddAfterInitialize(func(ctx context.Context, id any, req *mcp.InitializeRequest, result *mcp.InitializeResult) {
		logger.Info().
			Str("client_name", req.Params.ClientInfo.Name).
			Str("client_version", req.Params.ClientInfo.Version).
			Msg("AI agent connected (MCP initialize)")
	})

	mcpServer := server.NewMCPServer("gomymcp", "1.0.0",
		server.WithToolCapabilities(true),
		server.WithHooks(hooks),
	)

	dispatcher := mymcp.NewDispatcher(myMcp, recorder, logger)
	mymcp.RegisterMCPTools(mcpServer, dispatcher)

	// 7. Start HTTP server with optional health check
	addr := fmt.Sprintf(":%d", config.Server.Port)
	mux := http.NewServeMux()

	// Health check endpoint (process liveness only, not DB connectivity)
	if config.Server.HealthCheckEnabled {
		if config.Server.HealthCheckPath == "" {
			panic("gomymcp: health_check_path must be set when health_check_enabled is true")
		}
		mux.HandleFunc(config.Server.HealthCheckPath, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
	}

	httpSrv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Create StreamableHTTPServer with custom http.Server
	streamableServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithEndpointPath("/mcp"),
		server.WithStateLess(true),
		server.WithStreamableHTTPServer(httpSrv),
	)

	// Manually register the MCP handler — Start() does NOT register
	// when a custom *http.Server is provided via WithStreamableHTTPServer.
	mux.Handle("/mcp", streamableServer)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Int("port", config.Server.Port).Msg("starting gomymcp server")
		serveErr <- streamableServer.Start(addr)
	}()

	// 8. Wait for shutdown signal or server failure, then drain
	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received, draining")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := streamableServer.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("server shutdown failed")
		}
	}

	// Flush buffered spans and metric points before exit.
	if provider != nil {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(flushCtx); err != nil {
			logger.Error().Err(err).Msg("telemetry shutdown failed")
		}
	}

	logger.Info().Msg("gomymcp stopped")
	return nil
}

func loadServerConfig() (*mymcp.Config, error) {
	configPath := os.Getenv("GOMYMCP_CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var config mymcp.Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// applyEnvOverrides layers MYSQL_* and TELEMETRY_* environment variables
// over the file config. Useful for containers where credentials come from
// the environment rather than a file on disk.
func applyEnvOverrides(config *mymcp.Config) {
	if v := os.Getenv("MYSQL_HOST"); v != "" {
		config.MySQL.Host = v
	}
	if v := os.Getenv("MYSQL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.MySQL.Port = port
		}
	}
	if v := os.Getenv("MYSQL_USER"); v != "" {
		config.MySQL.User = v
	}
	if v := os.Getenv("MYSQL_PASSWORD"); v != "" {
		config.MySQL.Password = v
	}
	if v := os.Getenv("MYSQL_DATABASE"); v != "" {
		config.MySQL.Database = v
	}
	if v := os.Getenv("TELEMETRY_ENABLED"); v != "" {
		config.Telemetry.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("TELEMETRY_ENDPOINT"); v != "" {
		config.Telemetry.Endpoint = v
	}
	if v := os.Getenv("TELEMETRY_SERVICE_NAME"); v != "" {
		config.Telemetry.ServiceName = v
	}
}

func setupLogger(config mymcp.LoggingConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(config.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	var output io.Writer = os.Stderr
	if config.Output == "stdout" {
		output = os.Stdout
	} else if config.Output != "" && config.Output != "stderr" {
		f, err := os.OpenFile(config.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			output = f
		}
	}

	if config.Format == "text" {
		output = zerolog.ConsoleWriter{Out: output}
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func promptInput(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	var input string
	fmt.Scanln(&input)
	return input
}

func promptPassword(prompt string) string {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr) // newline after password input
	if err != nil {
		return ""
	}
	return string(password)
}
