// Package output renders a snapshot into its artifacts. Every exporter is a
// pure, order-preserving projection of the same canonical records: formats
// may differ in presentation but never in the numbers they show.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"provdash/internal/stats"
)

type Exporter interface {
	// Name identifies the exporter in diagnostics.
	Name() string
	// Export renders the snapshot to w.
	Export(w io.Writer, snap *stats.Snapshot) error
}

type artifact struct {
	path     string
	exporter Exporter
}

// Manager fans one snapshot out to every registered artifact file.
type Manager struct {
	artifacts []artifact
}

func NewManager() *Manager {
	return &Manager{}
}

func (m *Manager) Add(path string, e Exporter) error {
	if e == nil {
		return errors.New("exporter is nil")
	}
	if path == "" {
		return fmt.Errorf("artifact path required for %s exporter", e.Name())
	}
	m.artifacts = append(m.artifacts, artifact{path: path, exporter: e})
	return nil
}

// WriteAll renders the snapshot to every artifact. A failing artifact does
// not prevent the others from being written; all failures are reported
// together.
func (m *Manager) WriteAll(snap *stats.Snapshot) error {
	var errs []error
	for _, a := range m.artifacts {
		if err := writeArtifact(a, snap); err != nil {
			errs = append(errs, fmt.Errorf("%s (%s): %w", a.exporter.Name(), a.path, err))
		}
	}
	return errors.Join(errs...)
}

func writeArtifact(a artifact, snap *stats.Snapshot) error {
	dir := filepath.Dir(a.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(a.path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}

	if err := a.exporter.Export(f, snap); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
