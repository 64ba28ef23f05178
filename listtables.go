package mymcp

import (
	"context"
	"time"
)

const listTablesSQL = "SHOW TABLES"

// ListTables returns the names of all tables in the configured database.
// Fails with a DatabaseError when the statement errors, e.g. when no
// database is selected.
func (m *MySQLMcp) ListTables(ctx context.Context) (*ListTablesOutput, error) {
	startTime := time.Now()

	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, &DatabaseError{Op: "failed to acquire connection", Err: err}
	}
	defer conn.Release()

	rows, err := conn.QueryContext(ctx, listTablesSQL)
	if err != nil {
		return nil, &DatabaseError{Op: "ListTables query failed", Err: err}
	}
	defer rows.Close()

	tables := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, &DatabaseError{Op: "ListTables scan failed", Err: err}
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, &DatabaseError{Op: "ListTables rows error", Err: err}
	}

	m.logger.Info().
		Dur("duration", time.Since(startTime)).
		Int("table_count", len(tables)).
		Msg("ListTables executed")

	return &ListTablesOutput{
		Database: m.config.MySQL.Database,
		Tables:   tables,
	}, nil
}
