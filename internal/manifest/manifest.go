// Package manifest compares the requirements arrays of two provider
// manifest.json files and renders the change set as markdown suitable for a
// pull request comment.
package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
)

// Requirements extracts the requirements array from manifest JSON content.
// Malformed JSON or a missing field yields an empty list, never an error:
// an unreadable old manifest means "everything is new".
func Requirements(content []byte) []string {
	var m struct {
		Requirements []string `json:"requirements"`
	}
	if err := json.Unmarshal(content, &m); err != nil {
		return nil
	}
	return m.Requirements
}

// Diff is the set difference between two requirement lists, each bucket
// sorted for stable rendering.
type Diff struct {
	Added     []string
	Removed   []string
	Unchanged []string
}

func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Compare builds the diff between the old and new requirement lists.
// Duplicate entries collapse; comparison is on the full requirement string
// including its version pin.
func Compare(oldReqs, newReqs []string) Diff {
	oldSet := toSet(oldReqs)
	newSet := toSet(newReqs)

	var d Diff
	for req := range newSet {
		if _, ok := oldSet[req]; !ok {
			d.Added = append(d.Added, req)
		}
	}
	for req := range oldSet {
		if _, ok := newSet[req]; ok {
			d.Unchanged = append(d.Unchanged, req)
		} else {
			d.Removed = append(d.Removed, req)
		}
	}
	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	sort.Strings(d.Unchanged)
	return d
}

// CompareFiles diffs two manifest files. A missing old file is treated as an
// empty manifest; a missing new file is an error.
func CompareFiles(oldPath, newPath string) (Diff, error) {
	var oldReqs []string
	if data, err := os.ReadFile(oldPath); err == nil {
		oldReqs = Requirements(data)
	} else if !os.IsNotExist(err) {
		return Diff{}, fmt.Errorf("read old manifest: %w", err)
	}

	data, err := os.ReadFile(newPath)
	if err != nil {
		return Diff{}, fmt.Errorf("read new manifest: %w", err)
	}
	return Compare(oldReqs, Requirements(data)), nil
}

var packageName = regexp.MustCompile(`^([a-zA-Z0-9_-]+)`)

// requirementLine renders one requirement as a markdown bullet with a PyPI
// project link. Requirements whose name cannot be extracted render verbatim.
func requirementLine(req, marker string) string {
	m := packageName.FindStringSubmatch(req)
	if m == nil {
		return fmt.Sprintf("- %s %s", marker, req)
	}
	name := m[1]
	version := strings.TrimSpace(req[len(name):])
	return fmt.Sprintf("- %s [%s](https://pypi.org/project/%s/) %s", marker, name, name, version)
}

// WriteMarkdown renders the diff. An empty diff renders a single line; a
// non-empty one lists additions and removals, with unchanged entries folded
// into a collapsed details block.
func WriteMarkdown(w io.Writer, d Diff) error {
	var b strings.Builder

	if d.Empty() {
		b.WriteString("No dependency changes\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	if len(d.Added) > 0 {
		b.WriteString("**Added:**\n")
		for _, req := range d.Added {
			b.WriteString(requirementLine(req, "✅") + "\n")
		}
		b.WriteString("\n")
	}

	if len(d.Removed) > 0 {
		b.WriteString("**Removed:**\n")
		for _, req := range d.Removed {
			b.WriteString(requirementLine(req, "❌") + "\n")
		}
		b.WriteString("\n")
	}

	if len(d.Unchanged) > 0 {
		b.WriteString("<details>\n<summary>Unchanged dependencies</summary>\n\n")
		for _, req := range d.Unchanged {
			b.WriteString(requirementLine(req, "") + "\n")
		}
		b.WriteString("\n</details>\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func toSet(reqs []string) map[string]struct{} {
	set := make(map[string]struct{}, len(reqs))
	for _, r := range reqs {
		set[r] = struct{}{}
	}
	return set
}
