// Package lights turns a status snapshot into what the menu bar shows: a
// grid of colored dots and one text row per service.
package lights

import (
	"image/color"
	"strings"

	"github.com/leslieo2/status-lights/internal/statuspage"
)

// Severity groups status tokens into the four colors of the indicator.
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityOperational
	SeverityDegraded
	SeverityOutage
)

func (s Severity) String() string {
	switch s {
	case SeverityOperational:
		return "operational"
	case SeverityDegraded:
		return "degraded"
	case SeverityOutage:
		return "outage"
	default:
		return "unknown"
	}
}

// Traffic light palette.
var (
	Green = color.RGBA{R: 0, G: 204, B: 0, A: 255}
	Amber = color.RGBA{R: 255, G: 153, B: 0, A: 255}
	Red   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Gray  = color.RGBA{R: 170, G: 170, B: 170, A: 255}
)

// SeverityOf classifies a status token. Matching ignores case.
func SeverityOf(status statuspage.Status) Severity {
	switch statuspage.Status(strings.ToLower(string(status))) {
	case statuspage.StatusOperational:
		return SeverityOperational
	case statuspage.StatusDegradedPerformance, statuspage.StatusPartialOutage:
		return SeverityDegraded
	case statuspage.StatusMajorOutage:
		return SeverityOutage
	default:
		return SeverityUnknown
	}
}

// ColorForStatus returns the dot color of a status token.
func ColorForStatus(status statuspage.Status) color.RGBA {
	switch SeverityOf(status) {
	case SeverityOperational:
		return Green
	case SeverityDegraded:
		return Amber
	case SeverityOutage:
		return Red
	default:
		return Gray
	}
}

// EmojiForStatus returns the row prefix of a status token.
func EmojiForStatus(status statuspage.Status) string {
	switch SeverityOf(status) {
	case SeverityOperational:
		return "🟢"
	case SeverityDegraded:
		return "🟠"
	case SeverityOutage:
		return "🔴"
	default:
		return "⚪️"
	}
}
