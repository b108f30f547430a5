package paramsource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeWatched(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestNewWatcherSuccess(t *testing.T) {
	path := writeWatched(t, t.TempDir(), "")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	defer w.Close()

	assert.NotNil(t, w.Changes())
	assert.Equal(t, path, w.Path())
}

func TestNewWatcherBadPath(t *testing.T) {
	_, err := NewWatcher("/nonexistent/dir/params.yaml", nil)
	assert.Error(t, err)
}

func TestWatcherDetectsWrite(t *testing.T) {
	path := writeWatched(t, t.TempDir(), "rate: 2\n")

	w, err := NewWatcher(path, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer w.Close()

	// Give fsnotify time to start watching.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("rate: 3\n"), 0o644))

	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Error("timed out waiting for change signal on parameter write")
	}
}

func TestWatcherDetectsRecreate(t *testing.T) {
	dir := t.TempDir()
	path := writeWatched(t, dir, "rate: 2\n")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	defer w.Close()

	time.Sleep(50 * time.Millisecond)

	// Editors often write a temp file and rename it over the original.
	tmp := filepath.Join(dir, "params.yaml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("rate: 4\n"), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Error("timed out waiting for change signal on rename-over")
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeWatched(t, dir, "rate: 2\n")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	defer w.Close()

	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("noise"), 0o644))

	select {
	case <-w.Changes():
		t.Error("unexpected change signal from unrelated file write")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherClose(t *testing.T) {
	path := writeWatched(t, t.TempDir(), "rate: 2\n")

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	assert.NoError(t, w.Close())
}
