package mymcp

import "fmt"

// UnknownToolError reports an invocation naming a tool outside the
// registered set. It never reaches a handler.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return "Unknown tool: " + e.Name
}

// ValidationError reports a required tool argument that is missing or of
// the wrong shape. Raised at the Dispatcher boundary before any handler
// runs.
type ValidationError struct {
	Tool   string
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %q argument: %s", e.Tool, e.Param, e.Reason)
}

// DatabaseError wraps any failure from statement execution. The driver
// message is surfaced to the caller unchanged; the core never retries.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }
