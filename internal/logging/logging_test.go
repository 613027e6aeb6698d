package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wailsapp/wails/v2/pkg/logger"
)

func TestParseLevel(t *testing.T) {
	for name, want := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNewFiltersByLevelWithoutColor(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, slog.LevelInfo)
	l.Debug("hidden")
	l.Info("shown", "path", "/x.csv", "empty", "")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "path=/x.csv")
	assert.NotContains(t, out, "empty=")
	assert.NotContains(t, out, "\x1b[", "no colour when not a terminal")
}

func TestWailsLogger(t *testing.T) {
	var buf bytes.Buffer
	w := NewWailsLogger(New(&buf, slog.LevelDebug))
	w.Warning("careful")
	w.Trace("tiny")
	assert.Contains(t, buf.String(), "careful")
	assert.Contains(t, buf.String(), "component=wails")
	assert.Contains(t, buf.String(), "tiny")
}

func TestWailsLevel(t *testing.T) {
	assert.Equal(t, logger.DEBUG, WailsLevel(slog.LevelDebug))
	assert.Equal(t, logger.INFO, WailsLevel(slog.LevelInfo))
	assert.Equal(t, logger.WARNING, WailsLevel(slog.LevelWarn))
	assert.Equal(t, logger.ERROR, WailsLevel(slog.LevelError))
}
