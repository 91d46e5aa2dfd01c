package lights

import (
	"fmt"
	"time"

	"github.com/leslieo2/status-lights/internal/constants"
	"github.com/leslieo2/status-lights/internal/statuspage"
)

// Frame is everything the menu bar shows for one state.
type Frame struct {
	Icon    []byte
	Rows    []string
	Tooltip string
}

// Presenter renders snapshots into frames. It holds no state, so rendering
// the same snapshot twice yields the same frame.
type Presenter struct {
	slots    int
	location *time.Location
}

// NewPresenter creates a presenter with the fixed row layout.
func NewPresenter() *Presenter {
	return &Presenter{slots: constants.MaxServices, location: time.Local}
}

// Slots returns the number of status rows every frame carries.
func (p *Presenter) Slots() int {
	return p.slots
}

// Render builds the frame for a snapshot. A nil snapshot means no fetch has
// succeeded yet: every row shows the loading placeholder and the grid is empty.
func (p *Presenter) Render(snapshot *statuspage.Snapshot) (Frame, error) {
	var services []statuspage.Service
	if snapshot != nil {
		services = snapshot.Sorted()
	}

	icon, err := EncodePNG(RenderIcon(services))
	if err != nil {
		return Frame{}, err
	}

	return Frame{
		Icon:    icon,
		Rows:    p.Rows(snapshot),
		Tooltip: p.Tooltip(snapshot),
	}, nil
}

// Rows returns exactly Slots() row titles in ascending name order, padded
// with empty rows.
func (p *Presenter) Rows(snapshot *statuspage.Snapshot) []string {
	rows := make([]string, p.slots)

	if snapshot == nil {
		for i := range rows {
			rows[i] = constants.LoadingText
		}
		return rows
	}

	for i, service := range snapshot.Sorted() {
		if i >= p.slots {
			break
		}
		rows[i] = RowTitle(service)
	}
	return rows
}

// RowTitle formats one service as "<emoji> <name>: <Status>".
func RowTitle(service statuspage.Service) string {
	return fmt.Sprintf("%s %s: %s", EmojiForStatus(service.Status), service.Name, Humanize(service.Status))
}

// Tooltip describes the page status and when it was fetched.
func (p *Presenter) Tooltip(snapshot *statuspage.Snapshot) string {
	if snapshot == nil {
		return constants.LoadingText
	}

	updated := snapshot.FetchedAt.In(p.location).Format(constants.TooltipTimestamp)
	if snapshot.Description == "" {
		return fmt.Sprintf("Updated %s", updated)
	}
	return fmt.Sprintf("%s (updated %s)", snapshot.Description, updated)
}
