// Package changelog inserts release entries into a CHANGELOG.md that carries
// an auto-generation marker. Entries accumulate newest-first above the
// marker; a file without the marker is left untouched.
package changelog

import (
	"fmt"
	"os"
	"strings"
)

// Marker is the line release tooling inserts entries above.
const Marker = "<!-- changelog entries will be added here by release workflow -->"

// ErrNoMarker reports a changelog without the insertion marker. Callers
// treat it as a warning, not a failure, so a hand-maintained changelog is
// never corrupted.
var ErrNoMarker = fmt.Errorf("changelog marker not found")

// Entry is one release heading plus its notes.
type Entry struct {
	Version string
	Date    string
	Notes   string
}

func (e Entry) render() string {
	return fmt.Sprintf("## [%s] - %s\n\n%s\n\n---\n\n", e.Version, e.Date, strings.TrimRight(e.Notes, "\n"))
}

// Insert places the entry immediately above the first marker occurrence and
// returns the updated content. Content without a marker returns ErrNoMarker
// unchanged.
func Insert(content string, e Entry) (string, error) {
	if !strings.Contains(content, Marker) {
		return content, ErrNoMarker
	}
	return strings.Replace(content, Marker, e.render()+Marker, 1), nil
}

// UpdateFile applies Insert to the changelog at path, rewriting it in place.
// ErrNoMarker propagates so the caller can downgrade it to a warning.
func UpdateFile(path string, e Entry) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read changelog: %w", err)
	}

	updated, err := Insert(string(data), e)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		return fmt.Errorf("write changelog: %w", err)
	}
	return nil
}
