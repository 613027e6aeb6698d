package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"csvmanager/internal/service"
	"csvmanager/internal/storage"
)

func newSnapshotService(t *testing.T, keep int) (*service.SnapshotService, *storage.CSVTable, *service.MockEmitter) {
	t.Helper()
	dir := t.TempDir()
	db, err := storage.New(filepath.Join(dir, "csvmanager.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	table, err := storage.OpenCSVTable(filepath.Join(dir, "t.csv"))
	require.NoError(t, err)
	emitter := &service.MockEmitter{}
	return service.NewSnapshotService(storage.NewSnapshotStore(db), table, keep, emitter, nil), table, emitter
}

func TestSnapshotService_SkipsMissingAndUnchanged(t *testing.T) {
	svc, table, emitter := newSnapshotService(t, 5)
	ctx := context.Background()

	snap, err := svc.TakeSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap, "no file yet")

	_, err = table.Insert([]string{"1"})
	require.NoError(t, err)

	snap, err = svc.TakeSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 1, snap.RowCount)
	assert.Equal(t, service.EventSnapshotTaken, emitter.Last().Event)

	snap, err = svc.TakeSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap, "unchanged file is not snapshotted twice")
}

func TestSnapshotService_PrunesAndExports(t *testing.T) {
	svc, table, _ := newSnapshotService(t, 2)
	ctx := context.Background()

	for _, v := range []string{"1", "2", "3"} {
		_, err := table.Insert([]string{v})
		require.NoError(t, err)
		_, err = svc.TakeSnapshot(ctx)
		require.NoError(t, err)
	}

	list, err := svc.ListSnapshots()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 3, list[0].RowCount)

	dest := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, svc.ExportSnapshot(list[0].ID, dest))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "Column1,Column2,Column3\n1,,\n2,,\n3,,\n", string(data))

	assert.Error(t, svc.ExportSnapshot(list[0].ID, table.Path()), "must not overwrite the open table")
	assert.Error(t, svc.ExportSnapshot(list[0].ID, ""))
}

func TestSnapshotService_Schedule(t *testing.T) {
	svc, _, _ := newSnapshotService(t, 2)
	ctx := context.Background()

	assert.NoError(t, svc.Start(ctx, ""))
	assert.Error(t, svc.Start(ctx, "not a schedule"))
	require.NoError(t, svc.Start(ctx, "@every 1h"))
	svc.Stop(ctx)
}
