package mymcp

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/rs/zerolog"

	"github.com/stackpine/mysql-mcp/internal/telemetry"
)

// testLogger returns a disabled logger for unit tests.
func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

// newTestEngine builds a MySQLMcp over a scripted fake driver wrapped in
// a counting pool, so tests can assert the acquire/release invariant.
func newTestEngine(t *testing.T, responses map[string]fakeResponse) (*MySQLMcp, *countingPool) {
	t.Helper()
	db := sql.OpenDB(&fakeConnector{backend: &fakeBackend{responses: responses}})
	t.Cleanup(func() { db.Close() })

	pool := &countingPool{inner: NewSQLPool(db)}
	config := Config{
		MySQL: MySQLConfig{
			Host:            "localhost",
			Port:            3306,
			User:            "test",
			Database:        "shop",
			ConnectionLimit: 2,
		},
	}
	return NewWithPool(pool, config, testLogger()), pool
}

// resultText extracts the text payload from a tool result envelope.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("nil result")
	}
	if len(result.Content) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(result.Content))
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return text.Text
}

// --- scripted fake driver ---
//
// Responses are keyed by the exact SQL text the engine sends; the SQL
// constants in the production code are referenced directly from these
// white-box tests. Parameter values are ignored.

type fakeRowsData struct {
	cols  []string
	types []string
	rows  [][]driver.Value

	// nextErr, when set, is returned after the scripted rows are
	// exhausted instead of io.EOF, simulating a mid-collection failure.
	nextErr error
}

type fakeResponse struct {
	rows     *fakeRowsData
	affected int64
	insertID int64
	err      error
}

type fakeBackend struct {
	responses map[string]fakeResponse
}

type fakeConnector struct {
	backend *fakeBackend
}

func (c *fakeConnector) Connect(context.Context) (driver.Conn, error) {
	return &fakeDriverConn{backend: c.backend}, nil
}

func (c *fakeConnector) Driver() driver.Driver { return fakeDrv{} }

type fakeDrv struct{}

func (fakeDrv) Open(string) (driver.Conn, error) {
	return nil, errors.New("fake driver: use sql.OpenDB")
}

type fakeDriverConn struct {
	backend *fakeBackend
}

var (
	_ driver.QueryerContext = (*fakeDriverConn)(nil)
	_ driver.ExecerContext  = (*fakeDriverConn)(nil)
)

func (c *fakeDriverConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("fake driver: prepare not supported")
}

func (c *fakeDriverConn) Close() error { return nil }

func (c *fakeDriverConn) Begin() (driver.Tx, error) {
	return nil, errors.New("fake driver: transactions not supported")
}

func (c *fakeDriverConn) QueryContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Rows, error) {
	resp, ok := c.backend.responses[query]
	if !ok {
		return nil, fmt.Errorf("fake driver: unexpected query: %s", query)
	}
	if resp.err != nil {
		return nil, resp.err
	}
	if resp.rows == nil {
		return nil, fmt.Errorf("fake driver: no rows scripted for: %s", query)
	}
	return &fakeRows{data: resp.rows}, nil
}

func (c *fakeDriverConn) ExecContext(_ context.Context, query string, _ []driver.NamedValue) (driver.Result, error) {
	resp, ok := c.backend.responses[query]
	if !ok {
		return nil, fmt.Errorf("fake driver: unexpected exec: %s", query)
	}
	if resp.err != nil {
		return nil, resp.err
	}
	return fakeResult{affected: resp.affected, insertID: resp.insertID}, nil
}

type fakeRows struct {
	data *fakeRowsData
	pos  int
}

func (r *fakeRows) Columns() []string { return r.data.cols }
func (r *fakeRows) Close() error      { return nil }

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data.rows) {
		if r.data.nextErr != nil {
			return r.data.nextErr
		}
		return io.EOF
	}
	copy(dest, r.data.rows[r.pos])
	r.pos++
	return nil
}

func (r *fakeRows) ColumnTypeDatabaseTypeName(index int) string {
	if r.data.types == nil || index >= len(r.data.types) {
		return ""
	}
	return r.data.types[index]
}

type fakeResult struct {
	affected int64
	insertID int64
}

func (r fakeResult) LastInsertId() (int64, error) { return r.insertID, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.affected, nil }

// --- counting pool ---

type countingPool struct {
	inner      Pool
	acquireErr error
	acquires   int
	releases   int
}

func (p *countingPool) Acquire(ctx context.Context) (Conn, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	conn, err := p.inner.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	p.acquires++
	return &countingConn{inner: conn, pool: p}, nil
}

func (p *countingPool) Ping(ctx context.Context) error { return p.inner.Ping(ctx) }
func (p *countingPool) Close() error                   { return p.inner.Close() }

type countingConn struct {
	inner Conn
	pool  *countingPool
}

func (c *countingConn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.inner.QueryContext(ctx, query, args...)
}

func (c *countingConn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.inner.ExecContext(ctx, query, args...)
}

func (c *countingConn) Release() error {
	c.pool.releases++
	return c.inner.Release()
}

// --- fake recorder ---

type rowsSample struct {
	n    int64
	verb string
	tool string
}

type errorSample struct {
	tool    string
	message string
}

type fakeRecorder struct {
	toolCalls []string
	durations []time.Duration
	rows      []rowsSample
	bytes     []rowsSample
	errors    []errorSample
	spans     []*fakeSpan
}

var _ telemetry.Recorder = (*fakeRecorder)(nil)

func (r *fakeRecorder) StartSpan(ctx context.Context, name string) (context.Context, telemetry.Span) {
	span := &fakeSpan{name: name}
	r.spans = append(r.spans, span)
	return ctx, span
}

func (r *fakeRecorder) RecordToolCall(_ context.Context, tool string) {
	r.toolCalls = append(r.toolCalls, tool)
}

func (r *fakeRecorder) RecordQueryDuration(_ context.Context, tool string, d time.Duration) {
	r.durations = append(r.durations, d)
}

func (r *fakeRecorder) RecordQueryRows(_ context.Context, n int64, verb, tool string) {
	r.rows = append(r.rows, rowsSample{n: n, verb: verb, tool: tool})
}

func (r *fakeRecorder) RecordQueryBytes(_ context.Context, n int64, verb, tool string) {
	r.bytes = append(r.bytes, rowsSample{n: n, verb: verb, tool: tool})
}

func (r *fakeRecorder) RecordQueryError(_ context.Context, tool, message string) {
	r.errors = append(r.errors, errorSample{tool: tool, message: message})
}

type fakeSpan struct {
	name    string
	rows    int64
	rowsSet bool
	success bool
	failed  bool
	errMsg  string
	ends    int
}

func (s *fakeSpan) SetRows(n int64) {
	s.rows = n
	s.rowsSet = true
}

func (s *fakeSpan) SetSuccess() { s.success = true }

func (s *fakeSpan) SetError(message string) {
	s.failed = true
	s.errMsg = message
}

func (s *fakeSpan) End() { s.ends++ }
