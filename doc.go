// Package mymcp exposes a MySQL database to AI agents through the Model
// Context Protocol (MCP).
//
// It provides four tools — Onboarding, ListTables, TableSchema, and
// ExecuteQuery — routed through a single Dispatcher that owns the
// per-call instrumentation lifecycle: every invocation opens exactly one
// tracing span, records duration, row-count, payload-byte, and error
// counters exactly once, and is answered with a uniform success or error
// envelope regardless of how the handler exits.
//
// Query text is opaque to the server apart from a coarse leading-keyword
// verb classification used for routing and metric labels. No restriction
// or sanitization is applied to ExecuteQuery input; access control is the
// database grants' job.
//
// # Library Usage
//
//	m := mymcp.New(ctx, mymcp.Config{
//		MySQL: mymcp.MySQLConfig{
//			Host:            "localhost",
//			Port:            3306,
//			User:            "agent",
//			Password:        "secret",
//			Database:        "shop",
//			ConnectionLimit: 10,
//		},
//	}, logger)
//	defer m.Close()
//
//	d := mymcp.NewDispatcher(m, recorder, logger)
//	mymcp.RegisterMCPTools(mcpServer, d)
//
// Telemetry is injected as a [telemetry.Recorder]; pass telemetry.Nop{}
// to run without a backend.
package mymcp
