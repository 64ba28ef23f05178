// Package telemetry wraps span creation and counter emission behind a
// small Recorder interface. All recording operations are fire-and-forget:
// they never return errors, never block the caller, and are safe no-ops
// when telemetry is disabled.
package telemetry

import (
	"context"
	"time"
)

// Recorder records per-invocation spans and metrics.
type Recorder interface {
	// StartSpan opens a span bracketing one tool invocation. It never
	// fails; a disabled backend returns a Span whose operations are all
	// no-ops.
	StartSpan(ctx context.Context, name string) (context.Context, Span)

	// RecordToolCall increments the call counter for the named tool.
	RecordToolCall(ctx context.Context, tool string)

	// RecordQueryDuration records the wall-clock duration of one call.
	RecordQueryDuration(ctx context.Context, tool string, d time.Duration)

	// RecordQueryRows records rows returned or affected by one call.
	RecordQueryRows(ctx context.Context, n int64, verb, tool string)

	// RecordQueryBytes records the serialized payload size of one call.
	RecordQueryBytes(ctx context.Context, n int64, verb, tool string)

	// RecordQueryError increments the error counter for the named tool.
	RecordQueryError(ctx context.Context, tool, message string)
}

// Span is an opaque handle bracketing one invocation. Its lifetime is
// exactly one call; End must be invoked exactly once.
type Span interface {
	SetRows(n int64)
	SetSuccess()
	SetError(message string)
	End()
}

// Nop is the Recorder used when telemetry is disabled.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	return ctx, nopSpan{}
}
func (Nop) RecordToolCall(context.Context, string)                     {}
func (Nop) RecordQueryDuration(context.Context, string, time.Duration) {}
func (Nop) RecordQueryRows(context.Context, int64, string, string)     {}
func (Nop) RecordQueryBytes(context.Context, int64, string, string)    {}
func (Nop) RecordQueryError(context.Context, string, string)           {}

type nopSpan struct{}

func (nopSpan) SetRows(int64)   {}
func (nopSpan) SetSuccess()     {}
func (nopSpan) SetError(string) {}
func (nopSpan) End()            {}
