package output

import (
	"encoding/json"
	"io"

	"provdash/internal/stats"
)

// JSONExporter renders the machine-facing snapshot. Absent values serialize
// as null, never as a sentinel string, so downstream consumers can tell
// "zero" from "unknown".
type JSONExporter struct{}

func NewJSONExporter() *JSONExporter { return &JSONExporter{} }

func (e *JSONExporter) Name() string { return "json" }

func (e *JSONExporter) Export(w io.Writer, snap *stats.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
