package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvmanager/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "csvmanager.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSnapshotStoreCreateListPrune(t *testing.T) {
	store := NewSnapshotStore(newTestDB(t))
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"s1", "s2", "s3"} {
		snap := &domain.Snapshot{
			ID:        id,
			FilePath:  "/data/a.csv",
			RowCount:  i,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, store.CreateSnapshot(snap, []byte("a\n")))
		assert.Equal(t, 2, snap.SizeBytes)
	}
	require.NoError(t, store.CreateSnapshot(&domain.Snapshot{ID: "other", FilePath: "/data/b.csv"}, []byte("b\n")))

	list, err := store.ListSnapshots("/data/a.csv")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "s3", list[0].ID, "newest first")

	n, err := store.PruneSnapshots("/data/a.csv", 2)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	list, err = store.ListSnapshots("/data/a.csv")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []string{"s3", "s2"}, []string{list[0].ID, list[1].ID})

	other, err := store.ListSnapshots("/data/b.csv")
	require.NoError(t, err)
	assert.Len(t, other, 1, "pruning is per file")
}

func TestSnapshotStoreContent(t *testing.T) {
	store := NewSnapshotStore(newTestDB(t))
	require.NoError(t, store.CreateSnapshot(&domain.Snapshot{ID: "x", FilePath: "/f.csv"}, []byte("a,b\n1,2\n")))

	content, err := store.GetSnapshotContent("x")
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(content))

	_, err = store.GetSnapshotContent("missing")
	assert.Error(t, err)
}

func TestSettingsStore(t *testing.T) {
	store := NewSettingsStore(newTestDB(t))

	_, ok, err := store.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set("k", "v1"))
	require.NoError(t, store.Set("k", "v2"))
	v, ok, err := store.Get("k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
}
