package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load([]string{"-data-dir", dir})
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.True(t, filepath.IsAbs(cfg.FilePath))
	assert.Equal(t, "data.csv", filepath.Base(cfg.FilePath))
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "@every 15m", cfg.SnapshotSchedule)
	assert.Equal(t, 20, cfg.SnapshotKeep)
	assert.False(t, cfg.MCP)
	assert.Equal(t, filepath.Join(dir, "csvmanager.db"), cfg.DBPath())
}

func TestLoadFileThenFlags(t *testing.T) {
	dir := t.TempDir()
	yml := "file: /tmp/from-yaml.csv\nlog_level: debug\nsnapshot_keep: 5\nwatch_debounce: 1s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(yml), 0o644))

	cfg, err := Load([]string{"-data-dir", dir})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-yaml.csv", cfg.FilePath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 5, cfg.SnapshotKeep)
	assert.Equal(t, time.Second, cfg.WatchDebounce)

	cfg, err = Load([]string{"-data-dir", dir, "-file", "/tmp/flag.csv", "-snapshot-keep", "7", "-snapshot-schedule", "", "-mcp"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.csv", cfg.FilePath)
	assert.Equal(t, "debug", cfg.LogLevel, "unset flag keeps the file value")
	assert.Equal(t, 7, cfg.SnapshotKeep)
	assert.Empty(t, cfg.SnapshotSchedule)
	assert.True(t, cfg.MCP)
}

func TestLoadRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	_, err := Load([]string{"-data-dir", dir, "-log-level", "loud"})
	assert.Error(t, err)

	_, err = Load([]string{"-data-dir", dir, "extra"})
	assert.Error(t, err)

	_, err = Load([]string{"-data-dir", dir, "-snapshot-keep", "-1"})
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("file: [oops\n"), 0o644))
	_, err = Load([]string{"-data-dir", dir})
	assert.Error(t, err)
}
