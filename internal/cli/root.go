package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "provdash",
	Short: "Generate health dashboards for a fleet of provider repositories",
	Long: `ProvDash collects repository health metrics for every provider in a
registry and renders them into dashboard artifacts.

It reads a YAML registry of provider repositories, fans rate-aware GitHub API
queries out over all of them, and writes a markdown dashboard plus an optional
JSON snapshot. Companion commands vet Python dependencies, diff manifest
requirements, and maintain changelogs for the same fleet.

Examples:
	# Show available commands and global flags
	provdash --help

	# Generate the dashboard from providers.yml
	provdash generate --registry providers.yml --out DASHBOARD.md

	# Vet new dependencies before merging
	provdash depcheck requests aiohttp

	# Print build info
	provdash version`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&cfg.Runtime.Verbose, "verbose", false, "Enable verbose logging (prints every GitHub API call and full error details)")
}

func SetBuildInfo(version, commit, date string) {
	if version != "" {
		buildVersion = version
	}
	if commit != "" {
		buildCommit = commit
	}
	if date != "" {
		buildDate = date
	}

	rootCmd.Version = fmt.Sprintf("%s (%s) %s", buildVersion, buildCommit, buildDate)
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func BuildInfo() (version, commit, date string) {
	return buildVersion, buildCommit, buildDate
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
