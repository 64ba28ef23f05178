package mymcp

// Onboarding returns a static description of the available tools and the
// recommended workflow. It has no database interaction; it exists as a
// handler for contract uniformity, so its calls go through the same
// dispatch and instrumentation path as every other tool.
func (m *MySQLMcp) Onboarding() string {
	return onboardingText
}

const onboardingText = `# MySQL MCP Server

This server gives you direct access to a MySQL database through four tools.

## Tools

- **onboarding** — this document.
- **list_tables** — list all tables in the configured database.
- **get_table_schema** — columns, indexes, and the CREATE TABLE statement
  for one table. Arguments: table (required).
- **execute_query** — run arbitrary SQL and get rows or a mutation receipt
  back. Arguments: query (required).

## Workflow

1. Call list_tables to see what exists.
2. Call get_table_schema on the tables you plan to touch; column types and
   indexes tell you how to write efficient queries.
3. Call execute_query with your SQL. Row-producing statements return
   {rowCount, rows, fields}; mutations return {affectedRows, insertId,
   warningCount}.

## Notes

- Statements run with autocommit; use explicit BEGIN/COMMIT in your SQL if
  you need a transaction.
- Query text is executed verbatim. What you are allowed to do is decided
  by the database user's grants, not by this server.
- Errors come back as {"error": "..."} with the driver's message.
`
