package hotreload

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func TestNewManager(t *testing.T) {
	m, err := NewManager(zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}
	defer m.Close()

	if m.IsRunning() {
		t.Error("Manager should not be running initially")
	}
}

func TestManager_Run(t *testing.T) {
	m, err := NewManager(zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}
	m.SetDebounceTime(50 * time.Millisecond)

	file := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, file, "refresh: {interval: 5m}")

	reloadable := &mockReloadable{name: "config"}
	if err := m.RegisterReloadable(reloadable); err != nil {
		t.Fatalf("RegisterReloadable() failed: %v", err)
	}
	if err := m.AddWatch(file); err != nil {
		t.Fatalf("AddWatch() failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()

	if !waitFor(t, time.Second, m.IsRunning) {
		t.Fatal("Manager did not start")
	}

	writeFile(t, file, "refresh: {interval: 1m}")
	if !waitFor(t, 2*time.Second, func() bool { return reloadable.GetReloadCount() == 1 }) {
		t.Fatalf("Expected one reload, got %d", reloadable.GetReloadCount())
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
	if m.IsRunning() {
		t.Error("Manager should not be running after Run() returns")
	}
	m.Close()
}
