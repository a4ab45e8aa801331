// Package stats defines the canonical per-provider metrics record, the
// snapshot that bundles one record per registry entry, and the aggregator
// that fans sub-queries out against the GitHub API to populate them.
package stats

import (
	"time"

	"provdash/internal/registry"
)

// StatusNotApplicable is the CI status recorded for providers whose CI
// sub-query is skipped entirely. It is distinct from an absent (nil) status,
// which means the latest run could not be determined.
const StatusNotApplicable = "n/a"

// Record is the canonical stats bundle for one provider in one run. Every
// field is independently optional because each originates from a separate,
// independently-failing sub-query: numeric fields default to zero and
// pointer fields to nil ("absent", rendered as null / a placeholder glyph).
// Construction never fails; a Record exists for every registry entry even if
// every sub-query failed.
//
// Fields are written by disjoint sub-queries, so no locking is needed beyond
// "all sub-queries complete before the record is read".
type Record struct {
	Repo string `json:"repo"`
	Name string `json:"name"`
	Type string `json:"provider_type"`

	PROpen       int `json:"pr_open"`
	PRDraft      int `json:"pr_draft"`
	PRMerged30d  int `json:"pr_merged_30d"`
	IssuesOpen   int `json:"issues_open"`
	Bugs         int `json:"bugs"`
	Enhancements int `json:"enhancements"`
	Incidents    int `json:"incidents"`

	CIStatus *string    `json:"ci_status"`
	CIDate   *time.Time `json:"ci_date"`

	LastRelease     *string    `json:"last_release"`
	LastReleaseDate *time.Time `json:"last_release_date"`

	Commits30d   int        `json:"commits_30d"`
	LastCommit   *time.Time `json:"last_commit"`
	Contributors int        `json:"contributors"`

	Additions30d int `json:"additions_30d"`
	Deletions30d int `json:"deletions_30d"`

	SourceFiles int     `json:"source_files"`
	CodeSizeKB  float64 `json:"code_size_kb"`
}

// NewRecord builds a Record with every metric at its documented default.
func NewRecord(p registry.Provider) *Record {
	return &Record{
		Repo: p.Repo,
		Name: p.Name(),
		Type: p.Type,
	}
}

// Snapshot is the unit handed to exporters: one record per registry entry,
// in registry order, plus the generation timestamp every trailing window and
// relative date is computed against.
type Snapshot struct {
	GeneratedAt time.Time `json:"generated_at"`
	Records     []*Record `json:"providers"`
}
