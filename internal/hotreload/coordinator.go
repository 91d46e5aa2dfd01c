package hotreload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Reloadable represents an interface that can be reloaded
type Reloadable interface {
	Reload(ctx context.Context) error
	Name() string
}

// Coordinator turns bursts of file events into a single reload of every
// registered component.
type Coordinator struct {
	watcher      *Watcher
	logger       *zap.Logger
	reloadables  map[string]Reloadable
	cancel       context.CancelFunc
	mu           sync.RWMutex
	debounceTime time.Duration
	wg           sync.WaitGroup
	isRunning    bool
}

// NewCoordinator creates a new reload coordinator
func NewCoordinator(watcher *Watcher, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		watcher:      watcher,
		logger:       logger,
		reloadables:  make(map[string]Reloadable),
		debounceTime: 500 * time.Millisecond,
	}
}

// Register adds a reloadable component to the coordinator
func (c *Coordinator) Register(reloadable Reloadable) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := reloadable.Name()
	if _, exists := c.reloadables[name]; exists {
		return fmt.Errorf("reloadable %s already registered", name)
	}

	c.reloadables[name] = reloadable
	c.logger.Info("Registered reloadable component", zap.String("name", name))
	return nil
}

// Start begins the hot reload coordination
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return fmt.Errorf("coordinator already running")
	}
	c.isRunning = true
	ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	c.watcher.Start(ctx)

	c.wg.Add(1)
	go c.coordinateReloads(ctx)

	c.logger.Info("Hot reload coordinator started")
	return nil
}

// Stop stops the hot reload coordination and the watcher
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return
	}
	c.isRunning = false
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	c.watcher.Stop()

	c.logger.Info("Hot reload coordinator stopped")
}

// coordinateReloads waits until events stop arriving for the debounce
// period, then reloads once.
func (c *Coordinator) coordinateReloads(ctx context.Context) {
	defer c.wg.Done()

	var (
		debounceTimer *time.Timer
		fire          <-chan time.Time
		events        []Event
	)

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return

		case event, ok := <-c.watcher.Events():
			if !ok {
				return
			}
			events = append(events, event)

			wait := c.debounce()
			if debounceTimer == nil {
				debounceTimer = time.NewTimer(wait)
			} else {
				debounceTimer.Reset(wait)
			}
			fire = debounceTimer.C

		case <-fire:
			c.triggerReload(ctx, events)
			events = events[:0]
			fire = nil
		}
	}
}

func (c *Coordinator) debounce() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.debounceTime
}

// triggerReload reloads all registered components concurrently
func (c *Coordinator) triggerReload(ctx context.Context, events []Event) {
	c.mu.RLock()
	reloadables := make([]Reloadable, 0, len(c.reloadables))
	for _, r := range c.reloadables {
		reloadables = append(reloadables, r)
	}
	c.mu.RUnlock()

	if len(reloadables) == 0 {
		return
	}

	c.logger.Info("Triggering hot reload", zap.Int("events", len(events)))
	for _, event := range events {
		c.logger.Debug("Reload triggered by",
			zap.String("path", event.Path),
			zap.String("operation", event.Op.String()))
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(reloadables))

	for _, reloadable := range reloadables {
		wg.Add(1)
		go func(r Reloadable) {
			defer wg.Done()
			if err := r.Reload(ctx); err != nil {
				errs <- fmt.Errorf("failed to reload %s: %w", r.Name(), err)
				return
			}
			c.logger.Info("Successfully reloaded component", zap.String("name", r.Name()))
		}(reloadable)
	}

	wg.Wait()
	close(errs)

	var reloadErrors []error
	for err := range errs {
		reloadErrors = append(reloadErrors, err)
	}

	if len(reloadErrors) > 0 {
		c.logger.Error("Hot reload completed with errors", zap.Error(errors.Join(reloadErrors...)))
	} else {
		c.logger.Info("Hot reload completed successfully")
	}
}

// SetDebounceTime sets the debounce time for reload events
func (c *Coordinator) SetDebounceTime(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.debounceTime = d
}

// IsRunning returns whether the coordinator is currently running
func (c *Coordinator) IsRunning() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isRunning
}
