package service

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ExternalChangeHandler is called when the watched file was changed by
// someone other than this process.
type ExternalChangeHandler func(path string)

// FileWatcher reports writes to the CSV file made outside the app.
//
// Saves replace the file by renaming a temp file over it, so the parent
// directory is watched rather than the file itself. Our own saves are
// recognised by the size and mtime recorded through MarkOwnWrite.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange ExternalChangeHandler
	logger   *slog.Logger
	debounce time.Duration

	mu    sync.Mutex
	own   fileStamp
	timer *time.Timer
	done  chan struct{}
}

type fileStamp struct {
	size    int64
	modTime time.Time
	exists  bool
}

func statFile(path string) fileStamp {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}
	}
	return fileStamp{size: info.Size(), modTime: info.ModTime(), exists: true}
}

// NewFileWatcher starts watching path. onChange runs on the watcher's
// goroutine after writes settle for debounce.
func NewFileWatcher(path string, debounce time.Duration, logger *slog.Logger, onChange ExternalChangeHandler) (*FileWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(absPath), err)
	}

	w := &FileWatcher{
		watcher:  watcher,
		path:     absPath,
		onChange: onChange,
		logger:   logger,
		debounce: debounce,
		own:      statFile(absPath),
		done:     make(chan struct{}),
	}
	go w.watchLoop()
	return w, nil
}

// MarkOwnWrite records the file's current state as written by us.
// Matches the storage save hook signature.
func (w *FileWatcher) MarkOwnWrite(string) {
	s := statFile(w.path)
	w.mu.Lock()
	w.own = s
	w.mu.Unlock()
}

// Close stops the watcher.
func (w *FileWatcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return err
}

func (w *FileWatcher) watchLoop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}
			absPath, _ := filepath.Abs(event.Name)
			if absPath != w.path {
				continue
			}
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "err", err)
		}
	}
}

// schedule coalesces a burst of events into one check.
func (w *FileWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.check)
}

func (w *FileWatcher) check() {
	current := statFile(w.path)
	w.mu.Lock()
	own := w.own
	w.mu.Unlock()

	if current.exists == own.exists && current.size == own.size && current.modTime.Equal(own.modTime) {
		return
	}
	w.logger.Info("csv file changed on disk", "path", w.path)
	if w.onChange != nil {
		w.onChange(w.path)
	}
	// Report each external state once.
	w.mu.Lock()
	w.own = current
	w.mu.Unlock()
}
