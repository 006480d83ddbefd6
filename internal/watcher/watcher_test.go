package watcher_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eqtint/internal/watcher"
)

func TestWatcher_DebounceMultipleWrites(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "equation.md")
	err := os.WriteFile(docPath, []byte("# Doc"), 0644)
	require.NoError(t, err, "failed to create test file")

	w, err := watcher.New(watcher.Config{
		Path:        docPath,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Rapid writes should coalesce into single notification
	for i := 0; i < 10; i++ {
		err := os.WriteFile(docPath, []byte(fmt.Sprintf("# Doc %d", i)), 0644)
		require.NoError(t, err, "failed to write file")
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-onChange:
		// Expected
	case <-time.After(200 * time.Millisecond):
		t.Fatal("expected notification but got timeout")
	}

	// No second notification should come quickly
	select {
	case <-onChange:
		t.Fatal("unexpected second notification")
	case <-time.After(100 * time.Millisecond):
		// Expected - no second notification
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "equation.md")
	otherPath := filepath.Join(dir, "notes.txt")
	err := os.WriteFile(docPath, []byte("# Doc"), 0644)
	require.NoError(t, err, "failed to create doc file")
	// Pre-create the other file so writes to it are just Write events
	err = os.WriteFile(otherPath, []byte("initial"), 0644)
	require.NoError(t, err, "failed to create other file")

	w, err := watcher.New(watcher.Config{
		Path:        docPath,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	err = os.WriteFile(otherPath, []byte("other content"), 0644)
	require.NoError(t, err, "failed to write other file")

	select {
	case <-onChange:
		t.Fatal("should not notify for unrelated files")
	case <-time.After(100 * time.Millisecond):
		// Expected - no notification for unrelated file
	}
}

func TestWatcher_AtomicSaveViaRename(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "equation.md")
	tmpPath := filepath.Join(dir, "equation.md.tmp")
	err := os.WriteFile(docPath, []byte("# Doc"), 0644)
	require.NoError(t, err, "failed to create doc file")

	w, err := watcher.New(watcher.Config{
		Path:        docPath,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	require.NoError(t, err, "failed to start watcher")

	// Editors commonly save by writing a temp file and renaming it over
	// the original.
	err = os.WriteFile(tmpPath, []byte("# Doc v2"), 0644)
	require.NoError(t, err, "failed to write temp file")
	err = os.Rename(tmpPath, docPath)
	require.NoError(t, err, "failed to rename over doc")

	select {
	case <-onChange:
		// Expected
	case <-time.After(300 * time.Millisecond):
		t.Fatal("expected notification for atomic save")
	}
}

func TestWatcher_Stop(t *testing.T) {
	dir := t.TempDir()
	docPath := filepath.Join(dir, "equation.md")
	err := os.WriteFile(docPath, []byte("# Doc"), 0644)
	require.NoError(t, err, "failed to create test file")

	w, err := watcher.New(watcher.Config{
		Path:        docPath,
		DebounceDur: 50 * time.Millisecond,
	})
	require.NoError(t, err, "failed to create watcher")

	_, err = w.Start()
	require.NoError(t, err, "failed to start watcher")

	done := make(chan struct{})
	go func() {
		err := w.Stop()
		assert.NoError(t, err, "Stop returned error")
		close(done)
	}()

	select {
	case <-done:
		// Expected - stop completed successfully
	case <-time.After(1 * time.Second):
		t.Fatal("Stop() timed out - possible deadlock")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := watcher.DefaultConfig("/docs/equation.md")

	assert.Equal(t, "/docs/equation.md", cfg.Path)
	assert.Equal(t, 250*time.Millisecond, cfg.DebounceDur)
}
