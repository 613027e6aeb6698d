package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"csvmanager/internal/domain"
	"csvmanager/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Snapshot Service: scheduled copies of the CSV file
// ─────────────────────────────────────────────────────────────

// SnapshotService copies the CSV file's text into the snapshot store on a
// cron schedule and keeps only the newest ones. Snapshots are never
// applied back to the table; they can only be listed and exported.
type SnapshotService struct {
	store   domain.SnapshotStore
	table   domain.TableStore
	keep    int
	emitter EventEmitter
	logger  *slog.Logger
	guard   runGuard

	mu        sync.Mutex
	cronSched *cron.Cron
	last      []byte
}

// NewSnapshotService creates a SnapshotService keeping at most keep
// snapshots per file.
func NewSnapshotService(store domain.SnapshotStore, table domain.TableStore, keep int, emitter EventEmitter, logger *slog.Logger) *SnapshotService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotService{
		store:   store,
		table:   table,
		keep:    keep,
		emitter: emitter,
		logger:  logger,
	}
}

// Start schedules TakeSnapshot. An empty schedule disables snapshots.
// The schedule accepts standard cron specs and descriptors like "@every 15m".
func (s *SnapshotService) Start(ctx context.Context, schedule string) error {
	if schedule == "" {
		s.logger.Info("snapshots disabled")
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if _, err := s.TakeSnapshot(ctx); err != nil {
			s.logger.Error("snapshot failed", "err", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid snapshot schedule %q: %w", schedule, err)
	}

	s.mu.Lock()
	if s.cronSched != nil {
		s.cronSched.Stop()
	}
	s.cronSched = c
	s.mu.Unlock()

	c.Start()
	s.logger.Info("snapshots scheduled", "schedule", schedule, "keep", s.keep)
	return nil
}

// Stop halts the scheduler and waits for a snapshot in flight.
func (s *SnapshotService) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.cronSched
	s.cronSched = nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	s.guard.Wait(ctx)
}

// TakeSnapshot stores the file's current text. It returns nil without
// error when the file does not exist yet or has not changed since the
// previous snapshot.
func (s *SnapshotService) TakeSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	path := s.table.Path()
	if !s.guard.TryLock(path) {
		return nil, fmt.Errorf("snapshot of %s already running", path)
	}
	defer s.guard.Unlock(path)

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	s.mu.Lock()
	unchanged := s.last != nil && bytes.Equal(s.last, content)
	s.mu.Unlock()
	if unchanged {
		s.logger.Debug("snapshot skipped, file unchanged", "path", path)
		return nil, nil
	}

	snap := &domain.Snapshot{
		ID:        uuid.New().String(),
		FilePath:  path,
		RowCount:  s.table.Len(),
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateSnapshot(snap, content); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.last = content
	s.mu.Unlock()

	if s.keep > 0 {
		pruned, err := s.store.PruneSnapshots(path, s.keep)
		if err != nil {
			s.logger.Warn("snapshot prune failed", "err", err)
		} else if pruned > 0 {
			s.logger.Debug("snapshots pruned", "count", pruned)
		}
	}

	s.logger.Info("snapshot taken", "id", snap.ID, "rows", snap.RowCount, "bytes", snap.SizeBytes)
	s.emitter.Emit(ctx, EventSnapshotTaken, *snap)
	return snap, nil
}

// ListSnapshots returns the snapshots of the current file, newest first.
func (s *SnapshotService) ListSnapshots() ([]domain.Snapshot, error) {
	list, err := s.store.ListSnapshots(s.table.Path())
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	if list == nil {
		list = []domain.Snapshot{}
	}
	return list, nil
}

// ExportSnapshot writes a snapshot's text to dest. dest must not be the
// table's own file.
func (s *SnapshotService) ExportSnapshot(id, dest string) error {
	if dest == "" {
		return fmt.Errorf("export snapshot: destination is required")
	}
	if same, _ := sameFile(dest, s.table.Path()); same {
		return fmt.Errorf("export snapshot: refusing to overwrite the open table %s", dest)
	}
	content, err := s.store.GetSnapshotContent(id)
	if err != nil {
		return err
	}
	if err := storage.WriteFileAtomic(dest, content); err != nil {
		return fmt.Errorf("export snapshot: %w", err)
	}
	s.logger.Info("snapshot exported", "id", id, "dest", dest)
	return nil
}

func sameFile(a, b string) (bool, error) {
	ai, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	return os.SameFile(ai, bi), nil
}
