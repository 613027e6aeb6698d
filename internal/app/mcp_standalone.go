package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"csvmanager/internal/config"
	mcpserver "csvmanager/internal/mcp"
)

// noopEmitter is a no-op EventEmitter used in MCP-only mode (no Wails frontend).
type noopEmitter struct{}

func (noopEmitter) Emit(_ context.Context, _ string, _ any) {}

// ServeMCP runs the app as a standalone MCP server on stdin/stdout with no
// GUI, until stdin closes or the process is interrupted.
func ServeMCP(cfg config.Config, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if logger == nil {
		logger = slog.Default()
	}
	a, err := newApp(cfg, logger, noopEmitter{})
	if err != nil {
		return err
	}
	a.ctx = ctx
	a.startBackground(ctx, a.onExternalChangeHeadless)
	defer a.Shutdown(context.Background())

	srv := mcpserver.New(mcpserver.Deps{
		Tables:    a.tables,
		Snapshots: a.snapshots,
		Logger:    logger.With("component", "mcp"),
	})

	logger.Info("serving MCP on stdio", "file", cfg.FilePath)
	errc := make(chan error, 1)
	go func() { errc <- srv.ServeStdio() }()
	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("mcp server: %w", err)
		}
	case <-ctx.Done():
	}
	return nil
}
