package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"provdash/internal/stats"
)

// typeShort maps a provider type to its table badge. Unknown types render
// verbatim.
var typeShort = map[string]string{
	"music_provider":  "🎵 Music",
	"player_provider": "🔊 Player",
	"server_fork":     "🔧 Fork",
}

// MarkdownExporter renders the human-facing dashboard: three tables over the
// same record slice, in registry order, with a bold totals row under the
// first.
type MarkdownExporter struct {
	printer *message.Printer
}

func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{printer: message.NewPrinter(language.English)}
}

func (e *MarkdownExporter) Name() string { return "markdown" }

func (e *MarkdownExporter) Export(w io.Writer, snap *stats.Snapshot) error {
	var b strings.Builder

	b.WriteString("# Provider Dashboard\n\n")
	fmt.Fprintf(&b, "*Last updated: %s*\n\n", snap.GeneratedAt.UTC().Format("2006-01-02 15:04 UTC"))
	b.WriteString("---\n\n")

	e.writeActivity(&b, snap)
	e.writeCodebase(&b, snap)
	e.writeIntensity(&b, snap)

	b.WriteString("\n---\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func (e *MarkdownExporter) writeActivity(b *strings.Builder, snap *stats.Snapshot) {
	b.WriteString("## PRs & Issues\n\n")
	b.WriteString("| Provider | Type | Open PRs | Draft | Merged 30d | 🐛 Bugs | 💡 Enhance | 🚨 CI Incidents | Issues | CI Status | Last Release |\n")
	b.WriteString("|----------|------|:--------:|:-----:|:----------:|:-------:|:----------:|:---------------:|:------:|:---------:|:------------:|\n")

	var totals struct {
		prOpen, prDraft, prMerged, bugs, enhancements, incidents, issues int
	}
	for _, rec := range snap.Records {
		fmt.Fprintf(b, "| %s | %s | %d | %d | %d | %d | %d | %d | %d | %s | %s |\n",
			providerCell(rec), typeCell(rec.Type),
			rec.PROpen, rec.PRDraft, rec.PRMerged30d,
			rec.Bugs, rec.Enhancements, rec.Incidents, rec.IssuesOpen,
			ciCell(rec, snap.GeneratedAt), releaseCell(rec, snap.GeneratedAt))

		totals.prOpen += rec.PROpen
		totals.prDraft += rec.PRDraft
		totals.prMerged += rec.PRMerged30d
		totals.bugs += rec.Bugs
		totals.enhancements += rec.Enhancements
		totals.incidents += rec.Incidents
		totals.issues += rec.IssuesOpen
	}

	fmt.Fprintf(b, "\n| **Total** | %s | **%d** | **%d** | **%d** | **%d** | **%d** | **%d** | **%d** | %s | %s |\n\n",
		Placeholder,
		totals.prOpen, totals.prDraft, totals.prMerged,
		totals.bugs, totals.enhancements, totals.incidents, totals.issues,
		Placeholder, Placeholder)
}

func (e *MarkdownExporter) writeCodebase(b *strings.Builder, snap *stats.Snapshot) {
	b.WriteString("---\n\n")
	b.WriteString("## Codebase\n\n")
	b.WriteString("| Provider | 🐍 Source Files | 📦 Code Size | 👥 Contributors |\n")
	b.WriteString("|----------|:---------------:|:------------:|:---------------:|\n")

	for _, rec := range snap.Records {
		fmt.Fprintf(b, "| %s | %d | %s KB | %d |\n",
			providerCell(rec), rec.SourceFiles, formatKB(rec.CodeSizeKB), rec.Contributors)
	}
}

func (e *MarkdownExporter) writeIntensity(b *strings.Builder, snap *stats.Snapshot) {
	b.WriteString("\n---\n\n")
	b.WriteString("## Development Intensity (last 30 days)\n\n")
	b.WriteString("| Provider | 📝 Commits | Last Commit | ➕ Additions | ➖ Deletions |\n")
	b.WriteString("|----------|:----------:|:-----------:|:------------:|:------------:|\n")

	for _, rec := range snap.Records {
		fmt.Fprintf(b, "| %s | %d | %s | +%s | -%s |\n",
			providerCell(rec), rec.Commits30d,
			FormatRelative(rec.LastCommit, snap.GeneratedAt),
			e.printer.Sprintf("%d", rec.Additions30d),
			e.printer.Sprintf("%d", rec.Deletions30d))
	}
}

func providerCell(rec *stats.Record) string {
	return fmt.Sprintf("[%s](https://github.com/%s)", rec.Name, rec.Repo)
}

func typeCell(ptype string) string {
	if short, ok := typeShort[ptype]; ok {
		return short
	}
	return ptype
}

// ciCell folds the status glyph and run date into one cell. A skipped CI
// query renders the bare placeholder, never a glyph.
func ciCell(rec *stats.Record, now time.Time) string {
	if rec.CIStatus != nil && *rec.CIStatus == stats.StatusNotApplicable {
		return Placeholder
	}
	cell := StatusGlyph(rec.CIStatus)
	if rec.CIDate != nil {
		cell += " " + FormatRelative(rec.CIDate, now)
	}
	return cell
}

func releaseCell(rec *stats.Record, now time.Time) string {
	if rec.LastRelease == nil || *rec.LastRelease == "" {
		return Placeholder
	}
	if rec.LastReleaseDate != nil {
		return fmt.Sprintf("%s (%s)", *rec.LastRelease, FormatRelative(rec.LastReleaseDate, now))
	}
	return *rec.LastRelease
}

// formatKB keeps one decimal place so sizes line up across rows.
func formatKB(kb float64) string {
	return strconv.FormatFloat(kb, 'f', 1, 64)
}
