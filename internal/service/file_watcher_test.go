package service_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"csvmanager/internal/service"
	"csvmanager/internal/storage"
)

func TestFileWatcher_ReportsExternalWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	require.NoError(t, os.WriteFile(path, []byte("a\n1\n"), 0o644))

	changed := make(chan string, 4)
	w, err := service.NewFileWatcher(path, 50*time.Millisecond, nil, func(p string) { changed <- p })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("a\n1\n2\n"), 0o644))

	select {
	case got := <-changed:
		abs, _ := filepath.Abs(path)
		require.Equal(t, abs, got)
	case <-time.After(3 * time.Second):
		t.Fatal("external write was not reported")
	}
}

func TestFileWatcher_IgnoresOwnSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")

	changed := make(chan string, 4)
	w, err := service.NewFileWatcher(path, 50*time.Millisecond, nil, func(p string) { changed <- p })
	require.NoError(t, err)
	defer w.Close()

	table, err := storage.OpenCSVTable(path, storage.WithSaveHook(w.MarkOwnWrite))
	require.NoError(t, err)
	_, err = table.Insert([]string{"1", "2", "3"})
	require.NoError(t, err)

	select {
	case <-changed:
		t.Fatal("own save reported as external change")
	case <-time.After(300 * time.Millisecond):
	}
}
