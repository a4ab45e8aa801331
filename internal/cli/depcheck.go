package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"provdash/internal/safety"
)

var depcheckIndexURL string

var depcheckCmd = &cobra.Command{
	Use:   "depcheck [packages or requirements.txt]",
	Short: "Vet Python dependencies against their PyPI metadata",
	Long: `Vet Python dependencies for supply chain concerns.

Each package is checked against its PyPI metadata: typosquatting against
well-known package names, license compatibility, package age, release count,
and whether a source repository is linked. Arguments are package names, or a
single path ending in .txt which is read as a requirements file.

Exit codes:
	0 = all packages low risk
	1 = at least one medium-risk package
	2 = at least one high-risk package, or invalid usage
`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		packages, err := depcheckTargets(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}
		if len(packages) == 0 {
			fmt.Fprintln(os.Stderr, "No packages to check")
			os.Exit(0)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Checking %d package(s)...\n", len(packages))

		ctx := context.Background()
		index := safety.NewIndex(depcheckIndexURL)
		results := make([]*safety.Result, 0, len(packages))
		for _, name := range packages {
			meta, err := index.Fetch(ctx, name)
			if err != nil {
				if errors.Is(err, safety.ErrNotFound) {
					fmt.Fprintf(os.Stderr, "Warning: package %q not found on PyPI\n", name)
				} else {
					fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
				}
				results = append(results, safety.Unavailable(name, err))
				continue
			}
			results = append(results, safety.Evaluate(name, meta, time.Now().UTC()))
		}

		safety.WriteReport(cmd.OutOrStdout(), results)
		os.Exit(safety.Summarize(results).ExitCode())
	},
}

// depcheckTargets resolves the argument list into package names. A single
// .txt argument is read as a requirements file.
func depcheckTargets(args []string) ([]string, error) {
	if len(args) == 1 && strings.HasSuffix(args[0], ".txt") {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("read requirements file: %w", err)
		}
		return safety.ParseRequirements(string(data)), nil
	}

	packages := make([]string, 0, len(args))
	for _, arg := range args {
		packages = append(packages, strings.ToLower(arg))
	}
	return packages, nil
}

func init() {
	rootCmd.AddCommand(depcheckCmd)
	depcheckCmd.Flags().StringVar(&depcheckIndexURL, "index-url", "", "PyPI-compatible JSON API endpoint (default pypi.org)")
}
