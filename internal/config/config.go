// Package config resolves the application settings from defaults, an
// optional YAML file in the data directory, and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the data directory.
const FileName = "config.yaml"

// Config holds everything the app needs at startup.
type Config struct {
	// FilePath is the CSV file the table is loaded from and saved to.
	FilePath string `yaml:"file"`
	// DataDir holds the settings database and config.yaml.
	DataDir string `yaml:"-"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// SnapshotSchedule is a cron spec; empty disables snapshots.
	SnapshotSchedule string `yaml:"snapshot_schedule"`
	// SnapshotKeep is how many snapshots to keep per file.
	SnapshotKeep int `yaml:"snapshot_keep"`
	// WatchDebounce delays external-change checks until writes settle.
	WatchDebounce time.Duration `yaml:"watch_debounce"`
	// MCP runs the stdio MCP server instead of the window.
	MCP bool `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() Config {
	dataDir := "."
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".local", "share", "csvmanager")
	}
	return Config{
		FilePath:         "data.csv",
		DataDir:          dataDir,
		LogLevel:         "info",
		SnapshotSchedule: "@every 15m",
		SnapshotKeep:     20,
		WatchDebounce:    300 * time.Millisecond,
	}
}

// DBPath is the settings database location.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "csvmanager.db")
}

// Validate checks values that would otherwise fail late.
func (c Config) Validate() error {
	if c.FilePath == "" {
		return errors.New("file path is required")
	}
	if c.DataDir == "" {
		return errors.New("data directory is required")
	}
	if c.SnapshotKeep < 0 {
		return fmt.Errorf("snapshot-keep must be >= 0, got %d", c.SnapshotKeep)
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch debounce must be >= 0, got %s", c.WatchDebounce)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

// Load parses args (without the program name) on top of the defaults and
// the data directory's config.yaml.
func Load(args []string) (Config, error) {
	cfg := Default()

	flags := flag.NewFlagSet("csvmanager", flag.ContinueOnError)
	filePath := flags.String("file", cfg.FilePath, "CSV file to edit")
	dataDir := flags.String("data-dir", cfg.DataDir, "Directory for settings, snapshots and "+FileName)
	logLevel := flags.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	schedule := flags.String("snapshot-schedule", cfg.SnapshotSchedule, "Cron schedule for snapshots of the CSV file; empty disables them")
	keep := flags.Int("snapshot-keep", cfg.SnapshotKeep, "Number of snapshots to keep per file")
	mcp := flags.Bool("mcp", false, "Serve the table over MCP on stdin/stdout instead of opening a window")
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}
	if flags.NArg() > 0 {
		return Config{}, fmt.Errorf("unknown arguments: %v", flags.Args())
	}

	set := make(map[string]bool)
	flags.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	cfg.DataDir = *dataDir
	if err := cfg.loadFile(filepath.Join(cfg.DataDir, FileName)); err != nil {
		return Config{}, err
	}

	// Flags given explicitly win over the file.
	if set["file"] {
		cfg.FilePath = *filePath
	}
	if set["log-level"] {
		cfg.LogLevel = *logLevel
	}
	if set["snapshot-schedule"] {
		cfg.SnapshotSchedule = *schedule
	}
	if set["snapshot-keep"] {
		cfg.SnapshotKeep = *keep
	}
	cfg.MCP = *mcp

	if abs, err := filepath.Abs(cfg.FilePath); err == nil {
		cfg.FilePath = abs
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFile overlays the YAML file at path. A missing file is not an error.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
