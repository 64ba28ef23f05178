package mymcp

import (
	"errors"
	"testing"
)

func TestUnknownToolErrorMessage(t *testing.T) {
	t.Parallel()
	err := &UnknownToolError{Name: "frobnicate"}
	if err.Error() != "Unknown tool: frobnicate" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestValidationErrorMessage(t *testing.T) {
	t.Parallel()
	err := &ValidationError{Tool: "execute_query", Param: "query", Reason: "must be non-empty"}
	want := `execute_query: invalid "query" argument: must be non-empty`
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}

func TestDatabaseErrorUnwrap(t *testing.T) {
	t.Parallel()
	cause := errors.New("deadlock found")
	err := &DatabaseError{Op: "query failed", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("DatabaseError should unwrap to its cause")
	}
	if err.Error() != "query failed: deadlock found" {
		t.Errorf("message = %q", err.Error())
	}
}
