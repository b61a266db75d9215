package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcherReChecksSettledFile(t *testing.T) {
	dir := t.TempDir()

	checked := make(chan []string, 4)
	w, err := New(dir, nil, func(ctx context.Context, paths []string) {
		checked <- paths
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, w.Start(ctx))
	defer w.Stop()

	path := filepath.Join(dir, "widget.go")
	require.NoError(t, os.WriteFile(path, []byte("package widget\n"), 0644))

	select {
	case paths := <-checked:
		assert.Contains(t, paths, path)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never re-checked the settled file")
	}

	stats := w.GetStats()
	assert.GreaterOrEqual(t, stats.FilesModified, 1)
	assert.GreaterOrEqual(t, stats.ChecksRun, 1)
}

func TestWatcherIgnoresNonSourceFiles(t *testing.T) {
	dir := t.TempDir()

	checked := make(chan []string, 4)
	w, err := New(dir, nil, func(ctx context.Context, paths []string) {
		checked <- paths
	})
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi\n"), 0644))

	select {
	case paths := <-checked:
		t.Fatalf("unexpected check for %v", paths)
	case <-time.After(1200 * time.Millisecond):
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, nil, func(context.Context, []string) {})
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	assert.True(t, w.IsWatching())

	w.Stop()
	w.Stop()
	assert.False(t, w.IsWatching())
}

func TestWatcherPicksUpNewDirectories(t *testing.T) {
	dir := t.TempDir()

	checked := make(chan []string, 4)
	w, err := New(dir, []string{"vendor"}, func(ctx context.Context, paths []string) {
		checked <- paths
	})
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	sub := filepath.Join(dir, "pkg")
	require.NoError(t, os.Mkdir(sub, 0755))
	// Give the watcher a moment to register the new directory.
	time.Sleep(300 * time.Millisecond)

	path := filepath.Join(sub, "thing.go")
	require.NoError(t, os.WriteFile(path, []byte("package pkg\n"), 0644))

	select {
	case paths := <-checked:
		assert.Contains(t, paths, path)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never saw the file in the new directory")
	}
}
