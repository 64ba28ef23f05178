package mymcp

// QueryInput is the input for the ExecuteQuery tool.
type QueryInput struct {
	Query string `json:"query"`
}

// QueryOutput is the result of one ExecuteQuery call: either *RowSet or
// *Mutation, never both. metricRows supplies the row-count metric input
// regardless of which shape was produced.
type QueryOutput interface {
	metricRows() int64
}

// FieldInfo describes one column of a row set.
type FieldInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// RowSet is the canonical shape for row-producing statements.
type RowSet struct {
	RowCount int              `json:"rowCount"`
	Rows     []map[string]any `json:"rows"`
	Fields   []FieldInfo      `json:"fields"`
}

func (r *RowSet) metricRows() int64 { return int64(r.RowCount) }

// Mutation is the canonical receipt shape for non-row-producing
// statements.
type Mutation struct {
	AffectedRows int64 `json:"affectedRows"`
	InsertID     int64 `json:"insertId"`
	WarningCount int64 `json:"warningCount"`
}

func (m *Mutation) metricRows() int64 { return m.AffectedRows }

// ListTablesOutput is the output of the ListTables tool.
type ListTablesOutput struct {
	Database string   `json:"database"`
	Tables   []string `json:"tables"`
}

// TableSchemaInput is the input for the TableSchema tool.
type TableSchemaInput struct {
	Table string `json:"table"`
}

// ColumnInfo describes a single column from information_schema.
type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Nullable bool   `json:"nullable"`
	Key      string `json:"key"`
	Default  string `json:"default"`
	Extra    string `json:"extra"`
}

// IndexInfo describes one column of one index from information_schema.
type IndexInfo struct {
	Name       string `json:"name"`
	Column     string `json:"column"`
	Unique     bool   `json:"unique"`
	SeqInIndex int    `json:"seqInIndex"`
	Type       string `json:"type"`
}

// TableSchemaOutput is the output of the TableSchema tool.
// CreateTableStatement is best-effort and empty when the SHOW CREATE
// TABLE lookup failed.
type TableSchemaOutput struct {
	Database             string       `json:"database"`
	Table                string       `json:"table"`
	Columns              []ColumnInfo `json:"columns"`
	Indexes              []IndexInfo  `json:"indexes"`
	CreateTableStatement string       `json:"createTableStatement"`
}
