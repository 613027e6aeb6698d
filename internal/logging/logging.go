// Package logging builds the process logger and bridges it to the Wails
// runtime logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/wailsapp/wails/v2/pkg/logger"
)

// ParseLevel converts a config level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level %q", name)
}

// New returns a tint logger writing to w. Colour is used only when w is a
// terminal.
func New(w io.Writer, level slog.Level) *slog.Logger {
	ll := &slog.LevelVar{}
	ll.Set(level)
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isatty.IsTerminal(f.Fd())
		w = colorable.NewColorable(f)
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000", // Like time.TimeOnly plus milliseconds.
		NoColor:    noColor,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Drop empty strings and nil errors.
			switch v := a.Value.Any().(type) {
			case string:
				if v == "" {
					return slog.Attr{}
				}
			case nil:
				return slog.Attr{}
			}
			return a
		},
	}))
}

// NewStderr is New(os.Stderr, level). stdout is reserved for MCP traffic.
func NewStderr(level slog.Level) *slog.Logger {
	return New(os.Stderr, level)
}

// WailsLogger adapts a slog.Logger to the Wails runtime logger.
type WailsLogger struct {
	l *slog.Logger
}

// NewWailsLogger wraps l, tagging records with the wails component.
func NewWailsLogger(l *slog.Logger) *WailsLogger {
	return &WailsLogger{l: l.With("component", "wails")}
}

func (w *WailsLogger) Print(message string)   { w.l.Info(message) }
func (w *WailsLogger) Trace(message string)   { w.l.Debug(message) }
func (w *WailsLogger) Debug(message string)   { w.l.Debug(message) }
func (w *WailsLogger) Info(message string)    { w.l.Info(message) }
func (w *WailsLogger) Warning(message string) { w.l.Warn(message) }
func (w *WailsLogger) Error(message string)   { w.l.Error(message) }
func (w *WailsLogger) Fatal(message string) {
	w.l.Error(message)
	os.Exit(1)
}

// WailsLevel maps a slog level to the Wails log level.
func WailsLevel(level slog.Level) logger.LogLevel {
	switch {
	case level <= slog.LevelDebug:
		return logger.DEBUG
	case level <= slog.LevelInfo:
		return logger.INFO
	case level <= slog.LevelWarn:
		return logger.WARNING
	default:
		return logger.ERROR
	}
}

var _ logger.Logger = (*WailsLogger)(nil)
