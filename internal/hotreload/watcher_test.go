package hotreload

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestNewWatcher(t *testing.T) {
	w, err := NewWatcher(nil)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Stop()

	if w.IsWatching() {
		t.Error("Watcher should not be watching initially")
	}
}

func TestWatcher_Add(t *testing.T) {
	w, err := NewWatcher(nil)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Stop()

	dir := t.TempDir()
	first := filepath.Join(dir, "config.yaml")
	second := filepath.Join(dir, "other.yaml")
	writeFile(t, first, "a: 1")
	writeFile(t, second, "b: 2")

	if err := w.Add(first); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if err := w.Add(first); err != nil {
		t.Fatalf("Adding the same file twice should be a no-op: %v", err)
	}
	if err := w.Add(second); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if len(w.dirs) != 1 {
		t.Errorf("Expected the shared directory to be watched once, got %d dirs", len(w.dirs))
	}
	if len(w.files) != 2 {
		t.Errorf("Expected 2 watched files, got %d", len(w.files))
	}
}

func TestWatcher_Add_MissingDirectory(t *testing.T) {
	w, err := NewWatcher(nil)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Stop()

	if err := w.Add(filepath.Join(t.TempDir(), "missing", "config.yaml")); err == nil {
		t.Error("Expected error for a file in a missing directory")
	}
}

func TestWatcher_StartStop(t *testing.T) {
	w, err := NewWatcher(nil)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}

	w.Start(context.Background())
	if !w.IsWatching() {
		t.Error("Watcher should be watching after Start()")
	}

	w.Stop()
	if w.IsWatching() {
		t.Error("Watcher should not be watching after Stop()")
	}
	if _, ok := <-w.Events(); ok {
		t.Error("Events channel should be closed after Stop()")
	}

	// Stop is idempotent.
	w.Stop()
}

func TestWatcher_EventFlow(t *testing.T) {
	w, err := NewWatcher(nil)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Stop()

	dir := t.TempDir()
	watched := filepath.Join(dir, "config.yaml")
	writeFile(t, watched, "a: 1")

	if err := w.Add(watched); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	w.Start(context.Background())

	// A sibling file in the same directory is ignored.
	writeFile(t, filepath.Join(dir, "unrelated.txt"), "noise")
	writeFile(t, watched, "a: 2")

	select {
	case event := <-w.Events():
		absPath, _ := filepath.Abs(watched)
		if event.Path != absPath {
			t.Errorf("Expected event for %s, got %s", absPath, event.Path)
		}
		if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
			t.Errorf("Expected write or create, got %s", event.Op)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for file event")
	}
}

func TestWatcher_isRelevant(t *testing.T) {
	w, err := NewWatcher(nil)
	if err != nil {
		t.Fatalf("NewWatcher() failed: %v", err)
	}
	defer w.Stop()

	dir := t.TempDir()
	watched := filepath.Join(dir, "config.yaml")
	writeFile(t, watched, "a: 1")
	if err := w.Add(watched); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write to watched file", fsnotify.Event{Name: watched, Op: fsnotify.Write}, true},
		{"rename of watched file", fsnotify.Event{Name: watched, Op: fsnotify.Rename}, true},
		{"chmod of watched file", fsnotify.Event{Name: watched, Op: fsnotify.Chmod}, false},
		{"write to sibling", fsnotify.Event{Name: filepath.Join(dir, "config.yaml.swp"), Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.isRelevant(tt.event); got != tt.want {
				t.Errorf("isRelevant() = %v, want %v", got, tt.want)
			}
		})
	}
}
