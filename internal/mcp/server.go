package mcpserver

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"csvmanager/internal/service"
)

// Server is the MCP server for the CSV table.
// It exposes the table operations as tools so AI agents can edit the file.
type Server struct {
	mcp    *server.MCPServer
	logger *slog.Logger

	// Services (injected from app layer)
	tables    *service.TableService
	snapshots *service.SnapshotService
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Tables    *service.TableService
	Snapshots *service.SnapshotService // optional
	Logger    *slog.Logger
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		logger:    logger,
		tables:    deps.Tables,
		snapshots: deps.Snapshots,
	}

	s.mcp = server.NewMCPServer(
		"csvmanager-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTableTools()
	s.registerResources()
	if s.snapshots != nil {
		s.registerSnapshotTools()
	}
	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// stringArg returns a string argument, or "" when absent.
func stringArg(args map[string]any, name string) string {
	v, _ := args[name].(string)
	return v
}
