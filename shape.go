package mymcp

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// collectRows drains a *sql.Rows into the canonical RowSet shape:
// rowCount = number of rows, rows passed through with driver values
// converted to JSON-friendly forms, fields projected to {name, type}.
func collectRows(rows *sql.Rows) (*RowSet, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	fields := make([]FieldInfo, len(columns))
	for i, name := range columns {
		fields[i] = FieldInfo{Name: name, Type: columnTypes[i].DatabaseTypeName()}
	}

	resultRows := make([]map[string]any, 0)
	values := make([]any, len(columns))
	scanTargets := make([]any, len(columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, err
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = convertValue(values[i])
		}
		resultRows = append(resultRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &RowSet{
		RowCount: len(resultRows),
		Rows:     resultRows,
		Fields:   fields,
	}, nil
}

// shapeMutation builds the receipt shape from a sql.Result. RowsAffected
// and LastInsertId cannot fail with the MySQL driver; a zero is
// substituted if they somehow do.
func shapeMutation(result sql.Result, warningCount int64) *Mutation {
	affected, err := result.RowsAffected()
	if err != nil {
		affected = 0
	}
	insertID, err := result.LastInsertId()
	if err != nil {
		insertID = 0
	}
	return &Mutation{
		AffectedRows: affected,
		InsertID:     insertID,
		WarningCount: warningCount,
	}
}

// convertValue converts a driver-returned value to a JSON-friendly Go
// type. The MySQL driver hands back []byte for text, decimal, and blob
// columns and time.Time when ParseTime is on.
func convertValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	default:
		return val
	}
}

// renderPayload serializes a successful result as formatted JSON text and
// returns the text plus its byte length for the payload-size metric.
// Strings pass through verbatim (the onboarding document is markdown, not
// JSON). On serialization failure the byte count is 0 and the data is
// rendered with the fallback formatter; metrics must never abort a
// successful response.
func renderPayload(v any) (string, int64) {
	if s, ok := v.(string); ok {
		return s, int64(len(s))
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fallbackPayload(v), 0
	}
	return string(data), int64(len(data))
}

func fallbackPayload(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%+v", v)
}
