package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/stackpine/mysql-mcp"

// OTel is the Recorder implementation backed by OpenTelemetry trace and
// metric providers.
type OTel struct {
	tracer        trace.Tracer
	toolCalls     metric.Int64Counter
	queryDuration metric.Float64Histogram
	queryRows     metric.Int64Counter
	queryBytes    metric.Int64Counter
	queryErrors   metric.Int64Counter
}

var _ Recorder = (*OTel)(nil)

// NewOTel creates all instruments up front. Instrument creation is the
// only fallible step; recording never returns errors.
func NewOTel(tp trace.TracerProvider, mp metric.MeterProvider) (*OTel, error) {
	meter := mp.Meter(instrumentationName)

	toolCalls, err := meter.Int64Counter("mcp.tool.calls",
		metric.WithDescription("Number of tool invocations, by tool name"))
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp.tool.calls counter: %w", err)
	}
	queryDuration, err := meter.Float64Histogram("mcp.query.duration",
		metric.WithDescription("Wall-clock duration of one tool invocation"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp.query.duration histogram: %w", err)
	}
	queryRows, err := meter.Int64Counter("mcp.query.rows",
		metric.WithDescription("Rows returned or affected, by verb and tool"))
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp.query.rows counter: %w", err)
	}
	queryBytes, err := meter.Int64Counter("mcp.query.bytes",
		metric.WithDescription("Serialized payload bytes, by verb and tool"))
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp.query.bytes counter: %w", err)
	}
	queryErrors, err := meter.Int64Counter("mcp.query.errors",
		metric.WithDescription("Failed tool invocations, by tool name"))
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp.query.errors counter: %w", err)
	}

	return &OTel{
		tracer:        tp.Tracer(instrumentationName),
		toolCalls:     toolCalls,
		queryDuration: queryDuration,
		queryRows:     queryRows,
		queryBytes:    queryBytes,
		queryErrors:   queryErrors,
	}, nil
}

func (o *OTel) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	ctx, span := o.tracer.Start(ctx, name)
	return ctx, otelSpan{span: span}
}

func (o *OTel) RecordToolCall(ctx context.Context, tool string) {
	o.toolCalls.Add(ctx, 1, metric.WithAttributes(attribute.String("tool", tool)))
}

func (o *OTel) RecordQueryDuration(ctx context.Context, tool string, d time.Duration) {
	o.queryDuration.Record(ctx, float64(d)/float64(time.Millisecond),
		metric.WithAttributes(attribute.String("tool", tool)))
}

func (o *OTel) RecordQueryRows(ctx context.Context, n int64, verb, tool string) {
	o.queryRows.Add(ctx, n, metric.WithAttributes(
		attribute.String("verb", verb),
		attribute.String("tool", tool)))
}

func (o *OTel) RecordQueryBytes(ctx context.Context, n int64, verb, tool string) {
	o.queryBytes.Add(ctx, n, metric.WithAttributes(
		attribute.String("verb", verb),
		attribute.String("tool", tool)))
}

func (o *OTel) RecordQueryError(ctx context.Context, tool, message string) {
	o.queryErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("error.message", message)))
}

type otelSpan struct {
	span trace.Span
}

func (s otelSpan) SetRows(n int64) {
	s.span.SetAttributes(attribute.Int64("db.response.returned_rows", n))
}

func (s otelSpan) SetSuccess() {
	s.span.SetAttributes(attribute.Bool("mcp.tool.success", true))
	s.span.SetStatus(codes.Ok, "")
}

func (s otelSpan) SetError(message string) {
	s.span.SetAttributes(
		attribute.Bool("mcp.tool.success", false),
		attribute.String("error.message", message))
	s.span.SetStatus(codes.Error, message)
}

func (s otelSpan) End() {
	s.span.End()
}
