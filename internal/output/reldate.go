package output

import (
	"fmt"
	"time"
)

// Placeholder is rendered wherever a timestamp or value is absent.
const Placeholder = "—"

// FormatRelative renders how long ago t was, relative to now (the run
// timestamp, not wall clock). Unit boundaries: hours within the first day,
// days below 30, months below 365, years beyond. An absent timestamp
// renders the placeholder glyph.
func FormatRelative(t *time.Time, now time.Time) string {
	if t == nil {
		return Placeholder
	}

	delta := now.Sub(*t)
	if delta < 0 {
		delta = 0
	}
	days := int(delta.Hours() / 24)
	switch {
	case days == 0:
		hours := int(delta.Hours())
		if hours == 0 {
			return "just now"
		}
		return fmt.Sprintf("%dh ago", hours)
	case days < 30:
		return fmt.Sprintf("%dd ago", days)
	case days < 365:
		return fmt.Sprintf("%dmo ago", days/30)
	default:
		return fmt.Sprintf("%dy ago", days/365)
	}
}
