package mymcp

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
)

// Pool provides pooled database connections. The production
// implementation wraps database/sql; tests substitute doubles.
type Pool interface {
	// Acquire checks one connection out of the pool, queueing when all
	// connections are in use. The caller must Release it on every exit
	// path.
	Acquire(ctx context.Context) (Conn, error)

	// Ping verifies connectivity with one trivial round trip.
	Ping(ctx context.Context) error

	// Close drains the pool.
	Close() error
}

// Conn is a single pooled connection, exclusively owned by its acquirer
// until Release returns it to the pool.
type Conn interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Release() error
}

// MySQLMcp is the core engine behind the MCP tools. All exported methods
// are safe for concurrent use; the pool bounds concurrent physical
// connections.
type MySQLMcp struct {
	config Config
	pool   Pool
	logger zerolog.Logger
}

// New creates a MySQLMcp backed by a database/sql pool sized to
// Config.MySQL.ConnectionLimit. Panics on invalid config (a config error
// is a programmer error); returns only the engine, since opening a
// database/sql handle does not touch the network — use Ping for the
// startup connectivity probe.
func New(ctx context.Context, config Config, logger zerolog.Logger) *MySQLMcp {
	if err := config.validate(); err != nil {
		panic(fmt.Sprintf("mymcp: %v", err))
	}

	db, err := sql.Open("mysql", config.MySQL.dsn())
	if err != nil {
		// Open only fails for a malformed DSN, which dsn() cannot produce.
		panic(fmt.Sprintf("mymcp: failed to open database handle: %v", err))
	}
	db.SetMaxOpenConns(config.MySQL.ConnectionLimit)
	db.SetMaxIdleConns(config.MySQL.ConnectionLimit)
	db.SetConnMaxLifetime(time.Hour)

	return &MySQLMcp{
		config: config,
		pool:   NewSQLPool(db),
		logger: logger,
	}
}

// NewWithPool creates a MySQLMcp on an injected pool. Used by tests and
// by callers that manage the database handle themselves.
func NewWithPool(pool Pool, config Config, logger zerolog.Logger) *MySQLMcp {
	return &MySQLMcp{config: config, pool: pool, logger: logger}
}

// Ping runs the startup connectivity probe: one trivial acquire/release
// round trip against the configured database.
func (m *MySQLMcp) Ping(ctx context.Context) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("connectivity probe failed: %w", err)
	}
	return conn.Release()
}

// Close drains the connection pool.
func (m *MySQLMcp) Close() error {
	return m.pool.Close()
}

// NewSQLPool wraps a *sql.DB in the Pool interface.
func NewSQLPool(db *sql.DB) Pool {
	return &sqlPool{db: db}
}

type sqlPool struct {
	db *sql.DB
}

func (p *sqlPool) Acquire(ctx context.Context) (Conn, error) {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &sqlConn{conn: conn}, nil
}

func (p *sqlPool) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

func (p *sqlPool) Close() error {
	return p.db.Close()
}

type sqlConn struct {
	conn *sql.Conn
}

func (c *sqlConn) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return c.conn.QueryContext(ctx, query, args...)
}

func (c *sqlConn) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return c.conn.ExecContext(ctx, query, args...)
}

func (c *sqlConn) Release() error {
	return c.conn.Close()
}
