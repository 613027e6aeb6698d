package domain

import "time"

// Snapshot is a stored copy of the CSV file's text.
// Snapshots are for recovery outside the app; they are never applied back.
type Snapshot struct {
	ID        string    `json:"id"`
	FilePath  string    `json:"filePath"`
	RowCount  int       `json:"rowCount"`
	SizeBytes int       `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// SnapshotStore persists snapshots.
type SnapshotStore interface {
	CreateSnapshot(s *Snapshot, content []byte) error
	ListSnapshots(filePath string) ([]Snapshot, error)
	GetSnapshotContent(id string) ([]byte, error)
	PruneSnapshots(filePath string, keep int) (int, error)
}
