package watcher

// TEST PLAN
// =========
//
// 1. A write inside the root is delivered as a batch after the debounce
// 2. Files with unmonitored extensions are ignored
// 3. Pause holds delivery, Resume flushes what accumulated
// 4. Stop is idempotent and safe before Start

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 50 * time.Millisecond

func startWatcher(t *testing.T, root string) (*Watcher, chan []string) {
	t.Helper()
	w, err := New(root, []string{"pl", "c"}, testDebounce)
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })

	batches := make(chan []string, 16)
	w.Start(context.Background(), func(files []string) {
		batches <- files
	})
	return w, batches
}

func waitForBatch(t *testing.T, batches chan []string) []string {
	t.Helper()
	select {
	case files := <-batches:
		return files
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change batch")
		return nil
	}
}

func TestDeliversBatchAfterDebounce(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	_, batches := startWatcher(t, root)

	path := filepath.Join(root, "a.pl")
	require.NoError(t, os.WriteFile(path, []byte("# change"), 0o644))

	files := waitForBatch(t, batches)
	assert.Contains(t, files, path)
}

func TestIgnoresUnmonitoredExtensions(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	_, batches := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.xyz"), []byte("x"), 0o644))

	select {
	case files := <-batches:
		t.Fatalf("unexpected batch for unmonitored file: %v", files)
	case <-time.After(5 * testDebounce):
	}
}

func TestPauseAccumulatesUntilResume(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	w, batches := startWatcher(t, root)

	w.Pause()
	path := filepath.Join(root, "a.c")
	require.NoError(t, os.WriteFile(path, []byte("int x;"), 0o644))

	// Past the debounce, still paused: nothing may arrive.
	select {
	case files := <-batches:
		t.Fatalf("batch delivered while paused: %v", files)
	case <-time.After(5 * testDebounce):
	}

	w.Resume()
	files := waitForBatch(t, batches)
	assert.Contains(t, files, path)
}

func TestStopIsIdempotent(t *testing.T) {
	t.Parallel()
	w, err := New(t.TempDir(), []string{"pl"}, testDebounce)
	require.NoError(t, err)

	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
