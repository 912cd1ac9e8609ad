package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitForChange(t *testing.T, fw *FileWatcher, timeout time.Duration) (FileChangeEvent, bool) {
	t.Helper()
	select {
	case ev := <-fw.Events():
		return ev, true
	case <-time.After(timeout):
		return FileChangeEvent{}, false
	}
}

func newTestWatcher(t *testing.T, path string) *FileWatcher {
	t.Helper()
	fw, err := NewFileWatcher(path, nil)
	if err != nil {
		t.Fatalf("Failed to create watcher: %v", err)
	}
	fw.SetDebounceDelay(20 * time.Millisecond)
	if err := fw.Start(); err != nil {
		t.Fatalf("Failed to start watcher: %v", err)
	}
	t.Cleanup(func() { fw.Close() })
	return fw
}

func TestFileWatcher_CreateAndWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigPath)
	fw := newTestWatcher(t, path)

	if err := os.WriteFile(path, []byte(`{"terminals": []}`), 0644); err != nil {
		t.Fatal(err)
	}

	ev, ok := waitForChange(t, fw, 2*time.Second)
	if !ok {
		t.Fatal("expected change event after create")
	}
	if ev.Path != fw.Path() {
		t.Errorf("event path = %q, want %q", ev.Path, fw.Path())
	}
	if ev.Removed {
		t.Error("create should not be reported as removal")
	}
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	fw := newTestWatcher(t, filepath.Join(dir, DefaultConfigPath))

	if err := os.WriteFile(filepath.Join(dir, "other.json"), []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, ok := waitForChange(t, fw, 200*time.Millisecond); ok {
		t.Error("unexpected event for unrelated file")
	}
}

func TestFileWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigPath)
	fw, err := NewFileWatcher(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	fw.SetDebounceDelay(100 * time.Millisecond)
	if err := fw.Start(); err != nil {
		t.Fatal(err)
	}
	defer fw.Close()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte(`{"terminals": []}`), 0644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if _, ok := waitForChange(t, fw, 2*time.Second); !ok {
		t.Fatal("expected one change event")
	}
	if _, ok := waitForChange(t, fw, 300*time.Millisecond); ok {
		t.Error("burst of writes should produce a single event")
	}
}

func TestFileWatcher_Remove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigPath)
	if err := os.WriteFile(path, []byte(`{"terminals": []}`), 0644); err != nil {
		t.Fatal(err)
	}
	fw := newTestWatcher(t, path)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	ev, ok := waitForChange(t, fw, 2*time.Second)
	if !ok {
		t.Fatal("expected change event after remove")
	}
	if !ev.Removed {
		t.Error("remove should be reported as removal")
	}
}

func TestFileWatcher_StartMissingDir(t *testing.T) {
	fw, err := NewFileWatcher(filepath.Join(t.TempDir(), "missing", DefaultConfigPath), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer fw.Close()
	if err := fw.Start(); err == nil {
		t.Error("expected error watching a missing directory")
	}
}

func TestFileWatcher_CloseTwice(t *testing.T) {
	fw := newTestWatcher(t, filepath.Join(t.TempDir(), DefaultConfigPath))
	if err := fw.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	fw.Wait()
	if err := fw.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
}
