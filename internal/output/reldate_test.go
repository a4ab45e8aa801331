package output

import (
	"testing"
	"time"
)

func TestFormatRelative(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"same instant", 0, "just now"},
		{"under an hour", 30 * time.Minute, "just now"},
		{"two hours", 2 * time.Hour, "2h ago"},
		{"ten days", 10 * 24 * time.Hour, "10d ago"},
		{"twenty-nine days", 29 * 24 * time.Hour, "29d ago"},
		{"thirty days rolls to months", 30 * 24 * time.Hour, "1mo ago"},
		{"eleven months", 340 * 24 * time.Hour, "11mo ago"},
		{"past a year", 400 * 24 * time.Hour, "1y ago"},
		{"two years", 750 * 24 * time.Hour, "2y ago"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := now.Add(-tc.ago)
			if got := FormatRelative(&ts, now); got != tc.want {
				t.Fatalf("FormatRelative(-%v) = %q, want %q", tc.ago, got, tc.want)
			}
		})
	}

	t.Run("absent timestamp", func(t *testing.T) {
		if got := FormatRelative(nil, now); got != Placeholder {
			t.Fatalf("got %q, want placeholder", got)
		}
	})

	t.Run("future timestamp clamps to just now", func(t *testing.T) {
		ts := now.Add(time.Hour)
		if got := FormatRelative(&ts, now); got != "just now" {
			t.Fatalf("got %q, want %q", got, "just now")
		}
	})
}

func TestStatusGlyph(t *testing.T) {
	success := "success"
	bogus := "exploded"

	if got := StatusGlyph(&success); got != "✅" {
		t.Errorf("success glyph = %q", got)
	}
	if got := StatusGlyph(nil); got != unknownGlyph {
		t.Errorf("nil status glyph = %q", got)
	}
	if got := StatusGlyph(&bogus); got != unknownGlyph {
		t.Errorf("unrecognized status glyph = %q", got)
	}
}
