package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	uriColumns = "csv://table/columns"
	uriView    = "csv://table/view"
)

func (s *Server) registerResources() {
	s.mcp.AddResource(mcp.NewResource(
		uriColumns,
		"Table Columns",
		mcp.WithResourceDescription("Column names of the CSV file in order"),
		mcp.WithMIMEType("application/json"),
	), s.handleColumnsResource)

	s.mcp.AddResource(mcp.NewResource(
		uriView,
		"Current View",
		mcp.WithResourceDescription("Rows currently shown, with the search or filter that produced them"),
		mcp.WithMIMEType("application/json"),
	), s.handleViewResource)
}

func (s *Server) handleColumnsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(uriColumns, s.tables.Columns())
}

func (s *Server) handleViewResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonResource(uriView, s.tables.View())
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
