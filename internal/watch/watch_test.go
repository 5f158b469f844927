package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitForEvent(t *testing.T, w *Watcher) bool {
	t.Helper()
	select {
	case <-w.Events():
		return true
	case <-time.After(2 * time.Second):
		return false
	}
}

func TestWatcherReportsCreate(t *testing.T) {
	tempDir := t.TempDir()

	w, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch(tempDir); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	os.WriteFile(filepath.Join(tempDir, "new.txt"), []byte("x"), 0644)

	if !waitForEvent(t, w) {
		t.Error("no event after file creation")
	}
}

func TestWatcherReportsRemove(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "doomed.txt")
	os.WriteFile(path, []byte("x"), 0644)

	w, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch(tempDir); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	os.Remove(path)

	if !waitForEvent(t, w) {
		t.Error("no event after file removal")
	}
}

func TestWatchSwitchesDirectory(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	w, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch(first); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if err := w.Watch(second); err != nil {
		t.Fatalf("Watch switch failed: %v", err)
	}

	os.WriteFile(filepath.Join(second, "here.txt"), []byte("x"), 0644)

	if !waitForEvent(t, w) {
		t.Error("no event from the newly watched directory")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer w.Close()

	if err := w.Watch(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error watching a missing directory")
	}
}
