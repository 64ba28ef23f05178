package mymcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools declares the four tools with their argument schemas on
// the given MCP server and binds every one of them to the Dispatcher, so
// the transport delivers (toolName, arguments) and gets the envelope
// back without any per-tool glue.
func RegisterMCPTools(mcpServer *server.MCPServer, d *Dispatcher) {
	onboardingTool := mcp.NewTool(ToolOnboarding,
		mcp.WithDescription("Read this first: what the server offers and the recommended workflow."),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	listTablesTool := mcp.NewTool(ToolListTables,
		mcp.WithDescription("List all tables in the configured MySQL database."),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	getTableSchemaTool := mcp.NewTool(ToolGetTableSchema,
		mcp.WithDescription("Get columns, indexes, and the CREATE TABLE statement for one table."),
		mcp.WithString("table",
			mcp.Required(),
			mcp.Description("The table name to inspect"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	executeQueryTool := mcp.NewTool(ToolExecuteQuery,
		mcp.WithDescription("Execute a SQL query against the MySQL database. Returns rows or a mutation receipt as JSON."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The SQL query to execute"),
		),
	)

	for _, tool := range []mcp.Tool{onboardingTool, listTablesTool, getTableSchemaTool, executeQueryTool} {
		mcpServer.AddTool(tool, dispatchHandler(d))
	}
}

// dispatchHandler adapts the mcp-go handler signature onto Dispatch.
// Dispatch never fails as a Go call; all failures live in the envelope.
func dispatchHandler(d *Dispatcher) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return d.Dispatch(ctx, req.Params.Name, req.GetArguments()), nil
	}
}
