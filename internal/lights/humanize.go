package lights

import (
	"strings"

	"github.com/leslieo2/status-lights/internal/statuspage"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Humanize turns a status token into display text: underscores become
// spaces and every word is capitalized, "major_outage" -> "Major Outage".
func Humanize(status statuspage.Status) string {
	// A Caser keeps state and is not safe for concurrent use.
	caser := cases.Title(language.Und)
	return caser.String(strings.ReplaceAll(string(status), "_", " "))
}
