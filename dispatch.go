package mymcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/stackpine/mysql-mcp/internal/classify"
	"github.com/stackpine/mysql-mcp/internal/telemetry"
)

// Tool names exposed to the caller.
const (
	ToolOnboarding     = "onboarding"
	ToolListTables     = "list_tables"
	ToolGetTableSchema = "get_table_schema"
	ToolExecuteQuery   = "execute_query"
)

// toolOutcome is what a handler adapter hands back to the Dispatcher:
// the payload plus the metric inputs derived from its shape.
type toolOutcome struct {
	data any
	verb classify.Verb
	rows int64
}

type toolFunc func(ctx context.Context, args map[string]any) (*toolOutcome, error)

// Dispatcher routes an incoming (toolName, arguments) pair to the
// matching handler and owns the per-call instrumentation lifecycle. Per
// invocation it guarantees exactly one span open/close, one duration
// record, and — on the respective path — one rows/bytes or one error
// record, regardless of how the handler exits.
type Dispatcher struct {
	tools    map[string]toolFunc
	recorder telemetry.Recorder
	logger   zerolog.Logger
}

// NewDispatcher registers the four tool handlers against the given
// engine. Required arguments are validated here, once, before any handler
// runs; handlers receive typed inputs.
func NewDispatcher(m *MySQLMcp, recorder telemetry.Recorder, logger zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		tools:    make(map[string]toolFunc),
		recorder: recorder,
		logger:   logger,
	}

	d.tools[ToolOnboarding] = func(ctx context.Context, args map[string]any) (*toolOutcome, error) {
		return &toolOutcome{data: m.Onboarding(), verb: classify.Other}, nil
	}

	d.tools[ToolListTables] = func(ctx context.Context, args map[string]any) (*toolOutcome, error) {
		output, err := m.ListTables(ctx)
		if err != nil {
			return nil, err
		}
		return &toolOutcome{data: output, verb: classify.Show, rows: int64(len(output.Tables))}, nil
	}

	d.tools[ToolGetTableSchema] = func(ctx context.Context, args map[string]any) (*toolOutcome, error) {
		table, err := requireString(ToolGetTableSchema, args, "table")
		if err != nil {
			return nil, err
		}
		output, err := m.TableSchema(ctx, TableSchemaInput{Table: table})
		if err != nil {
			return nil, err
		}
		return &toolOutcome{data: output, verb: classify.Describe, rows: int64(len(output.Columns))}, nil
	}

	d.tools[ToolExecuteQuery] = func(ctx context.Context, args map[string]any) (*toolOutcome, error) {
		query, err := requireString(ToolExecuteQuery, args, "query")
		if err != nil {
			return nil, err
		}
		output, verb, err := m.ExecuteQuery(ctx, QueryInput{Query: query})
		if err != nil {
			return nil, err
		}
		return &toolOutcome{data: output, verb: verb, rows: output.metricRows()}, nil
	}

	return d
}

// Dispatch executes one invocation end to end:
// record call-count → open span → run handler → record duration →
// record rows/bytes or error → close span → envelope. Terminal in every
// branch; failures never propagate past this boundary.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) *mcp.CallToolResult {
	d.recorder.RecordToolCall(ctx, name)

	ctx, span := d.recorder.StartSpan(ctx, "tool."+name)
	startTime := time.Now()

	outcome, err := d.invoke(ctx, name, args)

	elapsed := time.Since(startTime)
	d.recorder.RecordQueryDuration(ctx, name, elapsed)

	if err != nil {
		message := err.Error()
		d.recorder.RecordQueryError(ctx, name, message)
		span.SetError(message)
		span.End()
		d.logger.Error().
			Str("tool", name).
			Dur("duration", elapsed).
			Err(err).
			Msg("tool call failed")
		return errorResult(message)
	}

	payload, payloadBytes := renderPayload(outcome.data)
	d.recorder.RecordQueryRows(ctx, outcome.rows, outcome.verb.String(), name)
	d.recorder.RecordQueryBytes(ctx, payloadBytes, outcome.verb.String(), name)
	if name == ToolExecuteQuery {
		span.SetRows(outcome.rows)
	}
	span.SetSuccess()
	span.End()

	d.logger.Info().
		Str("tool", name).
		Str("verb", outcome.verb.String()).
		Dur("duration", elapsed).
		Int64("rows", outcome.rows).
		Int64("response_bytes", payloadBytes).
		Msg("tool call")

	return mcp.NewToolResultText(payload)
}

// invoke looks up and runs the handler. Handler lookup is the first
// failable step inside the span, so an unknown tool still gets exactly
// one span-close and one duration-record. A panicking handler is
// recovered here — this is the single point where failures become
// values.
func (d *Dispatcher) invoke(ctx context.Context, name string, args map[string]any) (outcome *toolOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = nil
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()

	handler, ok := d.tools[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}
	return handler(ctx, args)
}

// requireString validates one required string argument.
func requireString(tool string, args map[string]any, param string) (string, error) {
	raw, ok := args[param]
	if !ok {
		return "", &ValidationError{Tool: tool, Param: param, Reason: "required argument is missing"}
	}
	value, ok := raw.(string)
	if !ok {
		return "", &ValidationError{Tool: tool, Param: param, Reason: fmt.Sprintf("expected string, got %T", raw)}
	}
	if value == "" {
		return "", &ValidationError{Tool: tool, Param: param, Reason: "must be non-empty"}
	}
	return value, nil
}

// errorResult wraps a failure message in the wire error envelope:
// isError = true with an {"error": message} JSON payload.
func errorResult(message string) *mcp.CallToolResult {
	payload, _ := renderPayload(struct {
		Error string `json:"error"`
	}{Error: message})
	result := mcp.NewToolResultText(payload)
	result.IsError = true
	return result
}
