package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"csvmanager/internal/config"
	"csvmanager/internal/domain"
	"csvmanager/internal/service"
	"csvmanager/internal/storage"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx    context.Context
	cfg    config.Config
	logger *slog.Logger

	// interactive is set once a window exists; dialogs need it.
	interactive bool
	emitter     service.EventEmitter

	db        *storage.DB
	table     *storage.CSVTable
	tables    *service.TableService
	window    *service.WindowSettingsService
	snapshots *service.SnapshotService
	watcher   atomic.Pointer[service.FileWatcher]
}

// wailsEmitter forwards service events to the frontend.
type wailsEmitter struct{}

func (wailsEmitter) Emit(ctx context.Context, event string, data any) {
	if ctx == nil {
		return
	}
	wailsRuntime.EventsEmit(ctx, event, data)
}

// New opens the settings database and the CSV file named by cfg.
func New(cfg config.Config, logger *slog.Logger) (*App, error) {
	return newApp(cfg, logger, wailsEmitter{})
}

func newApp(cfg config.Config, logger *slog.Logger, emitter service.EventEmitter) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{
		ctx:     context.Background(),
		cfg:     cfg,
		logger:  logger,
		emitter: emitter,
	}

	db, err := storage.New(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open settings database: %w", err)
	}

	table, err := storage.OpenCSVTable(cfg.FilePath,
		storage.WithLogger(logger.With("component", "table")),
		storage.WithSaveHook(a.markOwnWrite),
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w", cfg.FilePath, err)
	}

	a.db = db
	a.table = table
	a.tables = service.NewTableService(table, emitter, logger.With("component", "service"))
	a.window = service.NewWindowSettingsService(storage.NewSettingsStore(db))
	a.snapshots = service.NewSnapshotService(
		storage.NewSnapshotStore(db), table, cfg.SnapshotKeep, emitter,
		logger.With("component", "snapshots"),
	)
	logger.Info("table opened", "path", cfg.FilePath, "columns", len(table.Columns()), "rows", table.Len())
	return a, nil
}

// WindowSize is the size the window should open with.
func (a *App) WindowSize() service.WindowSize {
	return a.window.LoadWindowSize()
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	a.interactive = true
	a.startBackground(ctx, a.onExternalChangeInteractive)
}

// BeforeClose persists the window size. It never prevents closing.
func (a *App) BeforeClose(ctx context.Context) bool {
	w, h := wailsRuntime.WindowGetSize(ctx)
	if err := a.window.SaveWindowSize(w, h); err != nil {
		a.logger.Warn("save window size failed", "err", err)
	}
	return false
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.snapshots != nil {
		a.snapshots.Stop(ctx)
	}
	if w := a.watcher.Swap(nil); w != nil {
		w.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

// startBackground starts the file watcher and the snapshot schedule.
// Neither is fatal: the table works without them.
func (a *App) startBackground(ctx context.Context, onChange service.ExternalChangeHandler) {
	w, err := service.NewFileWatcher(a.cfg.FilePath, a.cfg.WatchDebounce, a.logger.With("component", "watcher"), onChange)
	if err != nil {
		a.logger.Warn("file watcher disabled", "err", err)
	} else {
		a.watcher.Store(w)
	}
	if err := a.snapshots.Start(ctx, a.cfg.SnapshotSchedule); err != nil {
		a.logger.Warn("snapshot schedule disabled", "err", err)
	}
}

// markOwnWrite is the table's save hook.
func (a *App) markOwnWrite(path string) {
	if w := a.watcher.Load(); w != nil {
		w.MarkOwnWrite(path)
	}
}

// The window decides whether to reload; the user may have an edit open.
func (a *App) onExternalChangeInteractive(path string) {
	a.emitter.Emit(a.ctx, service.EventExternalChange, map[string]string{"path": path})
}

// Without a window there is nobody to ask, so the file wins.
func (a *App) onExternalChangeHeadless(path string) {
	if _, err := a.tables.Reload(a.ctx); err != nil {
		a.logger.Error("reload after external change failed", "path", path, "err", err)
	}
}

// ── Dialogs ────────────────────────────────────────────────

// report shows warnings in a dialog and passes the error through.
func (a *App) report(err error) error {
	if err == nil {
		return nil
	}
	if domain.IsWarning(err) {
		a.logger.Debug("operation rejected", "err", err)
		a.dialog(wailsRuntime.WarningDialog, "Warning", warningMessage(err))
		return err
	}
	a.logger.Error("operation failed", "err", err)
	a.dialog(wailsRuntime.ErrorDialog, "Error", err.Error())
	return err
}

// notify shows a view's notice, if any.
func (a *App) notify(state domain.ViewState) domain.ViewState {
	if state.Notice != "" {
		a.dialog(wailsRuntime.InfoDialog, "Info", state.Notice)
	}
	return state
}

func (a *App) dialog(kind wailsRuntime.DialogType, title, message string) {
	if !a.interactive {
		return
	}
	_, err := wailsRuntime.MessageDialog(a.ctx, wailsRuntime.MessageDialogOptions{
		Type:    kind,
		Title:   title,
		Message: message,
	})
	if err != nil {
		a.logger.Warn("dialog failed", "err", err)
	}
}

func warningMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoSelection):
		return "Please select a row first."
	case errors.Is(err, domain.ErrEmptyQuery):
		return "Please enter text to search for."
	case errors.Is(err, domain.ErrIncompleteFilter):
		return "Please choose a column and enter a value to filter by."
	case errors.Is(err, domain.ErrUnknownColumn):
		return "Please choose one of the table's columns."
	case errors.Is(err, domain.ErrNoEditInProgress):
		return "There is no open form to confirm."
	}
	return err.Error()
}
