package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"provdash/internal/config"
	"provdash/internal/fetcher"
	gh "provdash/internal/github"
	"provdash/internal/output"
	"provdash/internal/registry"
	"provdash/internal/stats"
)

var cfg = config.New()

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Collect provider stats and write the dashboard artifacts",
	Long: `Collect health metrics for every provider in the registry and render them.

For each provider repository the command gathers pull request and issue
counts, the latest CI run of the configured workflow, release and commit
activity, contributor counts, code churn, and source tree size. Sub-queries
run concurrently under a shared rate budget; a failing sub-query leaves its
metrics at their defaults and never aborts the run.

Authentication:
  ProvDash uses a GitHub access token. It prefers GITHUB_TOKEN, but can also
  reuse GitHub CLI authentication if the gh CLI is installed and logged in.
  Without a token the run proceeds unauthenticated at a much lower rate limit.

Output:
	--out writes the markdown dashboard (default DASHBOARD.md).
	--json additionally writes the snapshot as JSON for machine consumers.
	Both artifacts render the same records; only the presentation differs.

Examples:
  export GITHUB_TOKEN="<your_token>"
  provdash generate --registry providers.yml --out DASHBOARD.md --json dashboard.json

  # Count Rust sources against a different CI workflow
  provdash generate --source-ext .rs --workflow ci.yml
`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		providers, err := registry.Load(cfg.Input.Registry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx := context.Background()
		token, source, err := gh.ResolveAuthToken(ctx, cfg.Runtime.Token)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to resolve GitHub auth token: %v\n", err)
			os.Exit(1)
		}
		if strings.TrimSpace(token) == "" {
			fmt.Fprintln(os.Stderr, "Warning: no GitHub auth token found (set GITHUB_TOKEN or run 'gh auth login'); continuing unauthenticated")
		} else if cfg.Runtime.Verbose {
			fmt.Fprintf(os.Stderr, "[verbose] auth token source: %s\n", source)
		}

		client, err := gh.NewClient(ctx, token, gh.WithVerbose(cfg.Runtime.Verbose, nil))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create GitHub client: %v\n", err)
			os.Exit(1)
		}

		os.Exit(runGenerate(ctx, client, providers))
	},
}

func runGenerate(ctx context.Context, client *gh.Client, providers []registry.Provider) int {
	f := fetcher.New(client, fetcher.NewRequestBudget(), fetcher.DefaultRetryPolicy())
	agg, err := stats.NewAggregator(f, stats.AggregatorParams{
		Concurrency:  cfg.Runtime.Concurrency,
		QueryTimeout: cfg.Runtime.QueryTimeout,
		WorkflowFile: cfg.Input.WorkflowFile,
		SourceExt:    cfg.Input.SourceExt,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stderr, "Collecting stats for %d providers...\n", len(providers))

	var bar *progressbar.ProgressBar
	if !cfg.Output.NoProgress {
		bar = progressbar.NewOptions(len(providers),
			progressbar.OptionSetDescription("Collecting"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
		)
	}
	green := color.New(color.FgGreen)
	var doneMu sync.Mutex
	agg.OnProviderDone = func(res stats.ProviderResult) {
		doneMu.Lock()
		defer doneMu.Unlock()
		if bar != nil {
			_ = bar.Add(1)
		} else {
			green.Fprintf(os.Stderr, "  %s", res.Provider.Repo)
			fmt.Fprintf(os.Stderr, " (PRs:%d issues:%d commits:%d)\n",
				res.Record.PROpen, res.Record.IssuesOpen, res.Record.Commits30d)
		}
		if cfg.Runtime.Verbose && len(res.Errs) > 0 {
			names := make([]string, 0, len(res.Errs))
			for name := range res.Errs {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(os.Stderr, "[verbose] %s: %s: %v\n", res.Provider.Repo, name, res.Errs[name])
			}
		}
	}

	snap, err := agg.Collect(ctx, providers)
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	mgr := output.NewManager()
	if err := mgr.Add(cfg.Output.Markdown, output.NewMarkdownExporter()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if cfg.Output.JSON != "" {
		if err := mgr.Add(cfg.Output.JSON, output.NewJSONExporter()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	if err := mgr.WriteAll(snap); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	green.Fprintf(os.Stderr, "Wrote %s", cfg.Output.Markdown)
	if cfg.Output.JSON != "" {
		green.Fprintf(os.Stderr, " and %s", cfg.Output.JSON)
	}
	fmt.Fprintln(os.Stderr)
	return 0
}

func init() {
	rootCmd.AddCommand(generateCmd)
	flags := generateCmd.Flags()
	flags.StringVar(&cfg.Input.Registry, "registry", cfg.Input.Registry, "Path to the provider registry YAML")
	flags.StringVar(&cfg.Output.Markdown, "out", cfg.Output.Markdown, "Path for the markdown dashboard")
	flags.StringVar(&cfg.Output.JSON, "json", cfg.Output.JSON, "Path for the JSON snapshot (empty disables it)")
	flags.IntVar(&cfg.Runtime.Concurrency, "concurrency", cfg.Runtime.Concurrency, "Maximum simultaneous API sub-queries")
	flags.DurationVar(&cfg.Runtime.QueryTimeout, "timeout", cfg.Runtime.QueryTimeout, "Timeout for each individual sub-query")
	flags.StringVar(&cfg.Input.WorkflowFile, "workflow", cfg.Input.WorkflowFile, "Workflow filename whose latest run becomes the CI status")
	flags.StringVar(&cfg.Input.SourceExt, "source-ext", cfg.Input.SourceExt, "File extension counted as source in the tree measurement")
	flags.StringVar(&cfg.Runtime.Token, "token", cfg.Runtime.Token, "GitHub API token (overrides GITHUB_TOKEN and gh auth)")
	flags.BoolVar(&cfg.Output.NoProgress, "no-progress", cfg.Output.NoProgress, "Disable the progress bar")
}
