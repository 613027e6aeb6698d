package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerSnapshotTools() {
	s.mcp.AddTool(mcp.NewTool("list_snapshots",
		mcp.WithDescription("List stored copies of the CSV file, newest first"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleListSnapshots)

	s.mcp.AddTool(mcp.NewTool("take_snapshot",
		mcp.WithDescription("Store a copy of the CSV file now. Does nothing when it has not changed."),
	), s.handleTakeSnapshot)

	s.mcp.AddTool(mcp.NewTool("export_snapshot",
		mcp.WithDescription("Write a stored copy to a file. The open CSV file cannot be the destination."),
		mcp.WithString("id", mcp.Description("Snapshot ID"), mcp.Required()),
		mcp.WithString("path", mcp.Description("Destination file path"), mcp.Required()),
	), s.handleExportSnapshot)
}

func (s *Server) handleListSnapshots(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.snapshots.ListSnapshots()
	if err != nil {
		return nil, err
	}
	return jsonResult(list)
}

func (s *Server) handleTakeSnapshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, err := s.snapshots.TakeSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return textResult("No snapshot taken: the file is missing or unchanged"), nil
	}
	return jsonResult(snap)
}

func (s *Server) handleExportSnapshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id, path := stringArg(args, "id"), stringArg(args, "path")
	if err := s.snapshots.ExportSnapshot(id, path); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return textResult("Exported snapshot " + id + " to " + path), nil
}
