package service

import (
	"fmt"
	"strconv"
)

// ─────────────────────────────────────────────────────────────
// Window Size Persistence
// ─────────────────────────────────────────────────────────────
//
// Saves and restores the main Wails window size between sessions.
// Stored as two rows of the app_settings table.

// WindowSize holds the saved window dimensions.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SettingsStore is the key/value store window settings persist to.
type SettingsStore interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// WindowSettingsService persists window size between sessions.
type WindowSettingsService struct {
	settings SettingsStore
}

// NewWindowSettingsService creates a WindowSettingsService.
func NewWindowSettingsService(settings SettingsStore) *WindowSettingsService {
	return &WindowSettingsService{settings: settings}
}

const (
	settingWindowWidth  = "window_width"
	settingWindowHeight = "window_height"
	defaultWindowWidth  = 1024
	defaultWindowHeight = 680
	minWindowWidth      = 640
	minWindowHeight     = 420
)

// LoadWindowSize returns the saved window dimensions, or sensible defaults.
func (s *WindowSettingsService) LoadWindowSize() WindowSize {
	size := WindowSize{Width: defaultWindowWidth, Height: defaultWindowHeight}
	if s.settings == nil {
		return size
	}
	if w, ok := s.intSetting(settingWindowWidth); ok && w >= minWindowWidth {
		size.Width = w
	}
	if h, ok := s.intSetting(settingWindowHeight); ok && h >= minWindowHeight {
		size.Height = h
	}
	return size
}

// SaveWindowSize persists the current window dimensions.
func (s *WindowSettingsService) SaveWindowSize(width, height int) error {
	if s.settings == nil {
		return fmt.Errorf("window settings: no store")
	}
	if err := s.settings.Set(settingWindowWidth, strconv.Itoa(width)); err != nil {
		return fmt.Errorf("save window width: %w", err)
	}
	if err := s.settings.Set(settingWindowHeight, strconv.Itoa(height)); err != nil {
		return fmt.Errorf("save window height: %w", err)
	}
	return nil
}

// MinWindowSize returns the smallest window the layout supports.
func MinWindowSize() WindowSize {
	return WindowSize{Width: minWindowWidth, Height: minWindowHeight}
}

func (s *WindowSettingsService) intSetting(key string) (int, bool) {
	v, ok, err := s.settings.Get(key)
	if err != nil || !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
