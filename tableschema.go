package mymcp

import (
	"context"
	"strings"
	"time"
)

// SQL queries for TableSchema. Column and index lookups go through
// information_schema so the table name can be bound as a real parameter;
// identifiers cannot be bound in MySQL, so only the best-effort SHOW
// CREATE TABLE builds a quoted identifier.

const columnsSQL = `
SELECT
    column_name,
    column_type,
    CASE is_nullable WHEN 'YES' THEN 1 ELSE 0 END AS nullable,
    column_key,
    COALESCE(column_default, '') AS column_default,
    extra
FROM information_schema.columns
WHERE table_schema = DATABASE()
  AND table_name = ?
ORDER BY ordinal_position;
`

const indexesSQL = `
SELECT
    index_name,
    column_name,
    CASE non_unique WHEN 0 THEN 1 ELSE 0 END AS is_unique,
    seq_in_index,
    index_type
FROM information_schema.statistics
WHERE table_schema = DATABASE()
  AND table_name = ?
ORDER BY index_name, seq_in_index;
`

// TableSchema returns column, index, and DDL information for one table.
// The SHOW CREATE TABLE lookup is best-effort: on failure the statement
// is logged and an empty string substituted, since column and index info
// is still usable on its own. Zero columns means the table does not
// exist, which fails the whole call.
func (m *MySQLMcp) TableSchema(ctx context.Context, input TableSchemaInput) (*TableSchemaOutput, error) {
	startTime := time.Now()

	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, &DatabaseError{Op: "failed to acquire connection", Err: err}
	}
	defer conn.Release()

	output := &TableSchemaOutput{
		Database: m.config.MySQL.Database,
		Table:    input.Table,
		Columns:  []ColumnInfo{},
		Indexes:  []IndexInfo{},
	}

	if err := m.fetchColumns(ctx, conn, input.Table, output); err != nil {
		return nil, err
	}
	if len(output.Columns) == 0 {
		return nil, &DatabaseError{Op: "TableSchema failed", Err: errTableNotFound(input.Table)}
	}

	if err := m.fetchIndexes(ctx, conn, input.Table, output); err != nil {
		return nil, err
	}

	ddl, err := m.fetchCreateTable(ctx, conn, input.Table)
	if err != nil {
		m.logger.Warn().
			Str("table", input.Table).
			Err(err).
			Msg("SHOW CREATE TABLE failed, substituting empty statement")
		ddl = ""
	}
	output.CreateTableStatement = ddl

	m.logger.Info().
		Str("table", input.Table).
		Dur("duration", time.Since(startTime)).
		Int("column_count", len(output.Columns)).
		Int("index_count", len(output.Indexes)).
		Msg("TableSchema executed")

	return output, nil
}

func (m *MySQLMcp) fetchColumns(ctx context.Context, conn Conn, table string, output *TableSchemaOutput) error {
	rows, err := conn.QueryContext(ctx, columnsSQL, table)
	if err != nil {
		return &DatabaseError{Op: "failed to fetch columns", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var col ColumnInfo
		if err := rows.Scan(&col.Name, &col.Type, &col.Nullable, &col.Key, &col.Default, &col.Extra); err != nil {
			return &DatabaseError{Op: "failed to scan column", Err: err}
		}
		output.Columns = append(output.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return &DatabaseError{Op: "failed to fetch columns", Err: err}
	}
	return nil
}

func (m *MySQLMcp) fetchIndexes(ctx context.Context, conn Conn, table string, output *TableSchemaOutput) error {
	rows, err := conn.QueryContext(ctx, indexesSQL, table)
	if err != nil {
		return &DatabaseError{Op: "failed to fetch indexes", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var idx IndexInfo
		if err := rows.Scan(&idx.Name, &idx.Column, &idx.Unique, &idx.SeqInIndex, &idx.Type); err != nil {
			return &DatabaseError{Op: "failed to scan index", Err: err}
		}
		output.Indexes = append(output.Indexes, idx)
	}
	if err := rows.Err(); err != nil {
		return &DatabaseError{Op: "failed to fetch indexes", Err: err}
	}
	return nil
}

// fetchCreateTable reads the DDL from SHOW CREATE TABLE. The statement
// returns the DDL in its second column (the first is the table name).
func (m *MySQLMcp) fetchCreateTable(ctx context.Context, conn Conn, table string) (string, error) {
	rows, err := conn.QueryContext(ctx, "SHOW CREATE TABLE "+quoteIdent(table))
	if err != nil {
		return "", err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", err
	}
	if !rows.Next() {
		return "", rows.Err()
	}

	values := make([]any, len(columns))
	scanTargets := make([]any, len(columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}
	if err := rows.Scan(scanTargets...); err != nil {
		return "", err
	}
	if len(values) < 2 {
		return "", nil
	}
	ddl, _ := convertValue(values[1]).(string)
	return ddl, nil
}

// quoteIdent escapes a MySQL identifier: doubles embedded backticks and
// wraps in backticks.
func quoteIdent(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

type errTableNotFound string

func (e errTableNotFound) Error() string {
	return "table not found: " + string(e)
}
