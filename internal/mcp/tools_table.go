package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"csvmanager/internal/domain"
	"csvmanager/internal/service"
)

func (s *Server) registerTableTools() {
	s.mcp.AddTool(mcp.NewTool("list_rows",
		mcp.WithDescription("Show every row of the table. Each row carries a handle used by edit_row and delete_row."),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleListRows)

	s.mcp.AddTool(mcp.NewTool("add_row",
		mcp.WithDescription("Append a row. Columns left out are stored as empty strings."),
		mcp.WithString("values", mcp.Description("Row values as JSON object {columnName: value, ...}"), mcp.Required()),
	), s.handleAddRow)

	s.mcp.AddTool(mcp.NewTool("edit_row",
		mcp.WithDescription("Replace the row with the given handle. Every row with identical values is replaced too."),
		mcp.WithString("handle", mcp.Description("Row handle from the current view"), mcp.Required()),
		mcp.WithString("values", mcp.Description("New row values as JSON object {columnName: value, ...}"), mcp.Required()),
	), s.handleEditRow)

	s.mcp.AddTool(mcp.NewTool("delete_row",
		mcp.WithDescription("🛑 DESTRUCTIVE: Delete the row with the given handle and every row with identical values."),
		mcp.WithString("handle", mcp.Description("Row handle from the current view"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeleteRow)

	s.mcp.AddTool(mcp.NewTool("search_rows",
		mcp.WithDescription("Show rows containing the text in any column, ignoring case"),
		mcp.WithString("text", mcp.Description("Text to look for"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleSearchRows)

	s.mcp.AddTool(mcp.NewTool("filter_rows",
		mcp.WithDescription("Show rows containing the text in one column, ignoring case"),
		mcp.WithString("column", mcp.Description("Column name"), mcp.Required()),
		mcp.WithString("text", mcp.Description("Text to look for"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleFilterRows)

	s.mcp.AddTool(mcp.NewTool("sort_rows",
		mcp.WithDescription("Sort the whole table ascending by a column and save the new order"),
		mcp.WithString("column", mcp.Description("Column name"), mcp.Required()),
	), s.handleSortRows)
}

func (s *Server) handleListRows(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.tables.List(ctx))
}

func (s *Server) handleAddRow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	values, err := s.rowValues(stringArg(args, "values"))
	if err != nil {
		return s.failure(err)
	}
	state, err := s.tables.Add(ctx, values)
	if err != nil {
		return s.failure(err)
	}
	return jsonResult(state)
}

func (s *Server) handleEditRow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	selection, err := s.tables.Selection(stringArg(args, "handle"))
	if err != nil {
		return s.failure(err)
	}
	values, err := s.rowValues(stringArg(args, "values"))
	if err != nil {
		return s.failure(err)
	}
	state, err := s.tables.Edit(ctx, selection, values)
	if err != nil {
		return s.failure(err)
	}
	return jsonResult(state)
}

func (s *Server) handleDeleteRow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	selection, err := s.tables.Selection(stringArg(req.GetArguments(), "handle"))
	if err != nil {
		return s.failure(err)
	}
	state, err := s.tables.Delete(ctx, selection)
	if err != nil {
		return s.failure(err)
	}
	return jsonResult(state)
}

func (s *Server) handleSearchRows(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.tables.Search(ctx, stringArg(req.GetArguments(), "text"))
	if err != nil {
		return s.failure(err)
	}
	return jsonResult(state)
}

func (s *Server) handleFilterRows(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	state, err := s.tables.Filter(ctx, stringArg(args, "column"), stringArg(args, "text"))
	if err != nil {
		return s.failure(err)
	}
	return jsonResult(state)
}

func (s *Server) handleSortRows(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.tables.Sort(ctx, stringArg(req.GetArguments(), "column"))
	if err != nil {
		return s.failure(err)
	}
	return jsonResult(state)
}

// rowValues turns a JSON values object into a row in column order.
func (s *Server) rowValues(data string) ([]string, error) {
	m, err := parseValues(data)
	if err != nil {
		return nil, err
	}
	return service.ValuesFromMap(s.tables.Columns(), m)
}

// failure reports user mistakes as tool errors the agent can read and
// correct; anything else is a protocol error.
func (s *Server) failure(err error) (*mcp.CallToolResult, error) {
	if domain.IsWarning(err) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.logger.Error("tool failed", "err", err)
	return nil, fmt.Errorf("table operation: %w", err)
}
