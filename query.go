package mymcp

import (
	"context"
	"time"

	"github.com/stackpine/mysql-mcp/internal/classify"
)

// ExecuteQuery runs arbitrary SQL text verbatim on one pooled connection.
// The verb classification decides between the row-set and mutation paths
// (database/sql separates Query from Exec); the connection is released
// exactly once on every exit path. Query content is not inspected or
// restricted — access control is enforced by the database grants.
func (m *MySQLMcp) ExecuteQuery(ctx context.Context, input QueryInput) (QueryOutput, classify.Verb, error) {
	startTime := time.Now()
	verb := classify.Statement(input.Query)

	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, verb, &DatabaseError{Op: "failed to acquire connection", Err: err}
	}
	defer conn.Release()

	var output QueryOutput
	if verb.ReturnsRows() {
		rows, err := conn.QueryContext(ctx, input.Query)
		if err != nil {
			return nil, verb, &DatabaseError{Op: "query failed", Err: err}
		}
		output, err = collectRows(rows)
		if err != nil {
			return nil, verb, &DatabaseError{Op: "failed to read rows", Err: err}
		}
	} else {
		result, err := conn.ExecContext(ctx, input.Query)
		if err != nil {
			return nil, verb, &DatabaseError{Op: "query failed", Err: err}
		}
		output = shapeMutation(result, m.warningCount(ctx, conn))
	}

	m.logger.Info().
		Str("verb", verb.String()).
		Dur("duration", time.Since(startTime)).
		Int64("rows", output.metricRows()).
		Msg("query executed")

	return output, verb, nil
}

// warningCount reads the session warning count on the same connection the
// statement ran on. Best-effort: any failure yields 0 rather than failing
// the parent call.
func (m *MySQLMcp) warningCount(ctx context.Context, conn Conn) int64 {
	rows, err := conn.QueryContext(ctx, "SELECT @@warning_count")
	if err != nil {
		return 0
	}
	defer rows.Close()

	var count int64
	if !rows.Next() {
		return 0
	}
	if err := rows.Scan(&count); err != nil {
		return 0
	}
	return count
}
