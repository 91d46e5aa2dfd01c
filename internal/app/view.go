package app

import (
	"slices"

	"go.uber.org/zap"

	"github.com/leslieo2/status-lights/internal/lights"
)

// View displays frames. Show is only called from the controller goroutine.
type View interface {
	Show(frame lights.Frame)
}

// LogView is the headless view: it logs the menu rows whenever they change.
type LogView struct {
	logger *zap.Logger
	last   []string
}

func NewLogView(logger *zap.Logger) *LogView {
	return &LogView{logger: logger}
}

func (v *LogView) Show(frame lights.Frame) {
	if slices.Equal(v.last, frame.Rows) {
		return
	}
	v.last = slices.Clone(frame.Rows)

	rows := make([]string, 0, len(frame.Rows))
	for _, row := range frame.Rows {
		if row != "" {
			rows = append(rows, row)
		}
	}
	v.logger.Info("Status", zap.String("summary", frame.Tooltip), zap.Strings("rows", rows))
}
