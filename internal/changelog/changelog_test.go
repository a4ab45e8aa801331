package changelog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleChangelog = `# Changelog

` + Marker + `

## [1.0.0] - 2026-01-10

Initial release.
`

func TestInsert(t *testing.T) {
	entry := Entry{Version: "1.1.0", Date: "2026-08-30", Notes: "- Fixed playback resume\n- Faster search\n"}

	t.Run("entry lands above the marker", func(t *testing.T) {
		got, err := Insert(sampleChangelog, entry)
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		newIdx := strings.Index(got, "## [1.1.0] - 2026-08-30")
		markerIdx := strings.Index(got, Marker)
		oldIdx := strings.Index(got, "## [1.0.0]")
		if newIdx == -1 || newIdx > markerIdx || markerIdx > oldIdx {
			t.Fatalf("ordering wrong:\n%s", got)
		}
		if !strings.Contains(got, "- Fixed playback resume\n- Faster search\n\n---\n") {
			t.Fatalf("notes or separator missing:\n%s", got)
		}
	})

	t.Run("trailing newlines in notes collapse", func(t *testing.T) {
		got, err := Insert(sampleChangelog, Entry{Version: "2.0.0", Date: "2026-09-01", Notes: "note\n\n\n"})
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		if !strings.Contains(got, "note\n\n---\n") {
			t.Fatalf("notes not trimmed:\n%s", got)
		}
	})

	t.Run("missing marker returns content unchanged", func(t *testing.T) {
		content := "# Changelog\n\nNo marker here.\n"
		got, err := Insert(content, entry)
		if !errors.Is(err, ErrNoMarker) {
			t.Fatalf("err = %v, want ErrNoMarker", err)
		}
		if got != content {
			t.Fatal("content must not change without a marker")
		}
	})

	t.Run("only the first marker is replaced", func(t *testing.T) {
		content := Marker + "\n\n" + Marker + "\n"
		got, err := Insert(content, entry)
		if err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		if strings.Count(got, Marker) != 2 {
			t.Fatalf("marker count changed:\n%s", got)
		}
		if strings.Count(got, "## [1.1.0]") != 1 {
			t.Fatalf("entry inserted more than once:\n%s", got)
		}
	})
}

func TestUpdateFile(t *testing.T) {
	entry := Entry{Version: "1.1.0", Date: "2026-08-30", Notes: "notes"}

	t.Run("rewrites in place", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "CHANGELOG.md")
		if err := os.WriteFile(path, []byte(sampleChangelog), 0644); err != nil {
			t.Fatal(err)
		}
		if err := UpdateFile(path, entry); err != nil {
			t.Fatalf("UpdateFile failed: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "## [1.1.0] - 2026-08-30") {
			t.Fatalf("entry missing:\n%s", data)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if err := UpdateFile(filepath.Join(t.TempDir(), "absent.md"), entry); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("marker-less file untouched", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "CHANGELOG.md")
		original := "# Changelog\n"
		if err := os.WriteFile(path, []byte(original), 0644); err != nil {
			t.Fatal(err)
		}
		if err := UpdateFile(path, entry); !errors.Is(err, ErrNoMarker) {
			t.Fatalf("err = %v, want ErrNoMarker", err)
		}
		data, _ := os.ReadFile(path)
		if string(data) != original {
			t.Fatal("file changed despite missing marker")
		}
	})
}
