// Package tray shows frames in the system tray: an icon with a tooltip and a
// menu of status rows.
package tray

import (
	"context"
	"sync"

	"fyne.io/systray"
	"github.com/pkg/browser"
	"go.uber.org/zap"

	"github.com/leslieo2/status-lights/internal/constants"
	"github.com/leslieo2/status-lights/internal/lights"
)

// Refresher accepts manual refresh requests.
type Refresher interface {
	Refresh() bool
}

type rowItem interface {
	SetTitle(title string)
}

// Tray implements app.View on top of systray. Show may be called before the
// tray is ready; the latest frame is applied once the menu exists.
type Tray struct {
	pageURL   string
	slots     int
	refresher Refresher
	logger    *zap.Logger

	openURL    func(url string) error
	setIcon    func(icon []byte)
	setTooltip func(tooltip string)
	quit       func()

	mu      sync.Mutex
	rows    []rowItem
	pending *lights.Frame
}

func New(pageURL string, slots int, refresher Refresher, logger *zap.Logger) *Tray {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tray{
		pageURL:    pageURL,
		slots:      slots,
		refresher:  refresher,
		logger:     logger,
		openURL:    browser.OpenURL,
		setIcon:    systray.SetIcon,
		setTooltip: systray.SetTooltip,
		quit:       systray.Quit,
	}
}

// Run blocks in the systray event loop until Quit is chosen or ctx is done.
// It must be called from the main goroutine. cancel is invoked on Quit so the
// rest of the application stops with the tray.
func (t *Tray) Run(ctx context.Context, cancel context.CancelFunc) {
	systray.Run(func() { t.onReady(ctx, cancel) }, func() {
		t.logger.Debug("Tray exited")
	})
}

func (t *Tray) onReady(ctx context.Context, cancel context.CancelFunc) {
	systray.SetTooltip(constants.LoadingText)

	refresh := systray.AddMenuItem(constants.MenuRefresh, "Fetch the status now")
	open := systray.AddMenuItem(constants.MenuOpenPage, t.pageURL)
	systray.AddSeparator()

	rows := make([]rowItem, 0, t.slots)
	for i := 0; i < t.slots; i++ {
		item := systray.AddMenuItem(constants.LoadingText, "")
		item.Disable()
		rows = append(rows, item)
	}
	systray.AddSeparator()
	quit := systray.AddMenuItem(constants.MenuQuit, "")

	t.attach(rows)
	go t.handleClicks(ctx, cancel, refresh.ClickedCh, open.ClickedCh, quit.ClickedCh)
}

// attach installs the row items and flushes a frame shown before they existed.
func (t *Tray) attach(rows []rowItem) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = rows
	if t.pending != nil {
		t.apply(*t.pending)
		t.pending = nil
	}
}

func (t *Tray) Show(frame lights.Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rows == nil {
		t.pending = &frame
		return
	}
	t.apply(frame)
}

// apply requires t.mu.
func (t *Tray) apply(frame lights.Frame) {
	if len(frame.Icon) > 0 {
		t.setIcon(frame.Icon)
	}
	t.setTooltip(frame.Tooltip)
	for i, item := range t.rows {
		title := ""
		if i < len(frame.Rows) {
			title = frame.Rows[i]
		}
		item.SetTitle(title)
	}
}

func (t *Tray) handleClicks(ctx context.Context, cancel context.CancelFunc, refresh, open, quit <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			t.quit()
			return
		case <-refresh:
			if !t.refresher.Refresh() {
				t.logger.Debug("Refresh request dropped")
			}
		case <-open:
			if err := t.openURL(t.pageURL); err != nil {
				t.logger.Warn("Failed to open status page", zap.String("url", t.pageURL), zap.Error(err))
			}
		case <-quit:
			cancel()
			t.quit()
			return
		}
	}
}
