package output

// ciGlyphs maps a workflow run conclusion (or in-flight status) to its
// display glyph. One fixed lookup table shared by every rendering.
var ciGlyphs = map[string]string{
	"success":         "✅",
	"failure":         "❌",
	"cancelled":       "⚫",
	"skipped":         "⏭️",
	"timed_out":       "⏱️",
	"action_required": "⚠️",
	"neutral":         "⚪",
	"in_progress":     "🔄",
	"queued":          "🕐",
}

const unknownGlyph = "❓"

// StatusGlyph renders a CI status. Unrecognized or absent statuses map to a
// distinct "unknown" glyph rather than failing.
func StatusGlyph(status *string) string {
	if status == nil {
		return unknownGlyph
	}
	if g, ok := ciGlyphs[*status]; ok {
		return g
	}
	return unknownGlyph
}
