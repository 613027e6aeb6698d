package app

import (
	"fmt"
	"path/filepath"
	"strings"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"csvmanager/internal/domain"
)

// ============================================================
// Snapshots
// ============================================================

// ListSnapshots returns the stored copies of the file, newest first.
func (a *App) ListSnapshots() ([]domain.Snapshot, error) {
	return a.snapshots.ListSnapshots()
}

// TakeSnapshot stores the file's current text now. It returns nil when
// the file is missing or unchanged since the last snapshot.
func (a *App) TakeSnapshot() (*domain.Snapshot, error) {
	snap, err := a.snapshots.TakeSnapshot(a.ctx)
	if err != nil {
		return nil, a.report(err)
	}
	return snap, nil
}

// ExportSnapshot asks for a destination and writes the snapshot there.
// It returns the chosen path, or "" when the dialog was cancelled.
func (a *App) ExportSnapshot(id string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(a.cfg.FilePath), filepath.Ext(a.cfg.FilePath))
	dest, err := wailsRuntime.SaveFileDialog(a.ctx, wailsRuntime.SaveDialogOptions{
		Title:            "Export snapshot",
		DefaultDirectory: filepath.Dir(a.cfg.FilePath),
		DefaultFilename:  fmt.Sprintf("%s-snapshot.csv", base),
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "CSV files (*.csv)", Pattern: "*.csv"},
		},
	})
	if err != nil {
		return "", a.report(fmt.Errorf("export snapshot: %w", err))
	}
	if dest == "" {
		return "", nil
	}
	return dest, a.ExportSnapshotTo(id, dest)
}

// ExportSnapshotTo writes the snapshot to dest without a dialog.
func (a *App) ExportSnapshotTo(id, dest string) error {
	return a.report(a.snapshots.ExportSnapshot(id, dest))
}
