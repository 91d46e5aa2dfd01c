// Package hotreload reloads components when the files they were built from
// change on disk.
package hotreload

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Manager manages the entire hot reload system
type Manager struct {
	watcher     *Watcher
	coordinator *Coordinator
	logger      *zap.Logger
}

// NewManager creates a new hot reload manager
func NewManager(logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	watcher, err := NewWatcher(logger)
	if err != nil {
		return nil, err
	}

	return &Manager{
		watcher:     watcher,
		coordinator: NewCoordinator(watcher, logger),
		logger:      logger,
	}, nil
}

// AddWatch adds a file to watch
func (m *Manager) AddWatch(path string) error {
	return m.watcher.Add(path)
}

// RegisterReloadable registers a reloadable component
func (m *Manager) RegisterReloadable(reloadable Reloadable) error {
	return m.coordinator.Register(reloadable)
}

// SetDebounceTime sets the debounce time for reload events
func (m *Manager) SetDebounceTime(d time.Duration) {
	m.coordinator.SetDebounceTime(d)
}

// Run starts the hot reload system and blocks until ctx is done.
func (m *Manager) Run(ctx context.Context) error {
	if err := m.coordinator.Start(ctx); err != nil {
		return err
	}
	m.logger.Info("Hot reload system started")

	<-ctx.Done()

	m.coordinator.Stop()
	m.logger.Info("Hot reload system stopped")
	return nil
}

// IsRunning returns whether the hot reload system is running
func (m *Manager) IsRunning() bool {
	return m.coordinator.IsRunning()
}

// Close releases the watcher of a manager that was never run.
func (m *Manager) Close() {
	if !m.coordinator.IsRunning() {
		m.watcher.Stop()
	}
}
