package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"provdash/internal/manifest"
)

var manifestDiffCmd = &cobra.Command{
	Use:   "manifest-diff <old-manifest> <new-manifest>",
	Short: "Diff the requirements of two manifest.json files",
	Long: `Compare the requirements arrays of two provider manifest.json files.

The diff is printed as markdown suitable for a pull request comment: added
and removed requirements with PyPI project links, and unchanged entries in a
collapsed details block. A missing or malformed old manifest is treated as
empty, so a brand-new manifest reports every requirement as added.

Examples:
  provdash manifest-diff manifest.json.orig manifest.json
`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		diff, err := manifest.CompareFiles(args[0], args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := manifest.WriteMarkdown(cmd.OutOrStdout(), diff); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(manifestDiffCmd)
}
