package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"csvmanager/internal/domain"
)

// SnapshotStore implements domain.SnapshotStore using SQLite.
type SnapshotStore struct {
	db *DB
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(db *DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

func (s *SnapshotStore) CreateSnapshot(snap *domain.Snapshot, content []byte) error {
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now()
	}
	// Stored as text; keep one zone so ORDER BY created_at is chronological.
	snap.CreatedAt = snap.CreatedAt.UTC()
	snap.SizeBytes = len(content)
	_, err := s.db.conn.Exec(
		`INSERT INTO snapshots (id, file_path, content, row_count, size_bytes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.FilePath, content, snap.RowCount, snap.SizeBytes, snap.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// ListSnapshots returns the snapshots of filePath, newest first.
func (s *SnapshotStore) ListSnapshots(filePath string) ([]domain.Snapshot, error) {
	rows, err := s.db.conn.Query(
		`SELECT id, file_path, row_count, size_bytes, created_at
		 FROM snapshots WHERE file_path = ? ORDER BY created_at DESC`, filePath,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Snapshot
	for rows.Next() {
		var snap domain.Snapshot
		if err := rows.Scan(&snap.ID, &snap.FilePath, &snap.RowCount, &snap.SizeBytes, &snap.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, snap)
	}
	return result, rows.Err()
}

func (s *SnapshotStore) GetSnapshotContent(id string) ([]byte, error) {
	var content []byte
	err := s.db.conn.QueryRow(`SELECT content FROM snapshots WHERE id = ?`, id).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot not found: %s", id)
	}
	return content, err
}

// PruneSnapshots deletes all but the newest keep snapshots of filePath.
func (s *SnapshotStore) PruneSnapshots(filePath string, keep int) (int, error) {
	res, err := s.db.conn.Exec(
		`DELETE FROM snapshots WHERE file_path = ? AND id NOT IN (
			SELECT id FROM snapshots WHERE file_path = ? ORDER BY created_at DESC LIMIT ?
		)`, filePath, filePath, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

var _ domain.SnapshotStore = (*SnapshotStore)(nil)
