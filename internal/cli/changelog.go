package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"provdash/internal/changelog"
)

var (
	changelogPath  string
	changelogDate  string
	changelogNotes string
)

var changelogCmd = &cobra.Command{
	Use:   "changelog <version>",
	Short: "Insert a release entry into CHANGELOG.md",
	Long: `Insert a release entry above the auto-generation marker in CHANGELOG.md.

The entry heading is "## [version] - date" followed by the release notes,
read from the file given with --notes. A changelog without the marker is
left untouched and the command exits successfully with a warning, so
hand-maintained changelogs are never corrupted.

Examples:
  provdash changelog 1.2.0 --notes release-notes.md
  provdash changelog 1.2.0 --notes notes.md --date 2026-08-30 --file docs/CHANGELOG.md
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		version := strings.TrimPrefix(args[0], "v")
		if changelogNotes == "" {
			fmt.Fprintln(os.Stderr, "Error: --notes is required")
			os.Exit(1)
		}
		notes, err := os.ReadFile(changelogNotes)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: read notes file: %v\n", err)
			os.Exit(1)
		}

		date := changelogDate
		if date == "" {
			date = time.Now().UTC().Format("2006-01-02")
		}

		entry := changelog.Entry{Version: version, Date: date, Notes: string(notes)}
		if err := changelog.UpdateFile(changelogPath, entry); err != nil {
			if errors.Is(err, changelog.ErrNoMarker) {
				fmt.Fprintf(os.Stderr, "Warning: marker not found in %s, skipping update\n", changelogPath)
				return
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s for v%s\n", changelogPath, version)
	},
}

func init() {
	rootCmd.AddCommand(changelogCmd)
	changelogCmd.Flags().StringVar(&changelogPath, "file", "CHANGELOG.md", "Path to the changelog")
	changelogCmd.Flags().StringVar(&changelogDate, "date", "", "Entry date (default today, UTC)")
	changelogCmd.Flags().StringVar(&changelogNotes, "notes", "", "Path to the release notes file (required)")
}
