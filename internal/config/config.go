package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Config struct {
	// MAINTAINER NOTE: if you add/change/remove fields that affect snapshot
	// behavior, keep the CLI flags in internal/cli/generate.go in sync.
	Input   Input
	Output  Output
	Runtime Runtime
}

type Input struct {
	// Registry is the path to the provider registry YAML (see --registry).
	Registry string

	// WorkflowFile is the workflow filename whose latest run becomes the CI
	// status (see --workflow).
	WorkflowFile string

	// SourceExt is the file extension counted as source in the tree
	// measurement (see --source-ext). Always carries a leading dot.
	SourceExt string
}

type Output struct {
	// Markdown writes the dashboard markdown to this path (see --out).
	Markdown string

	// JSON writes the snapshot JSON to this path (see --json). Empty
	// disables the JSON artifact.
	JSON string

	// NoProgress suppresses the per-provider progress bar (see --no-progress).
	NoProgress bool
}

type Runtime struct {
	// Concurrency bounds simultaneous API sub-queries (see --concurrency).
	// Must be >= 1.
	Concurrency int

	// QueryTimeout bounds each individual sub-query (see --timeout).
	// Must be > 0.
	QueryTimeout time.Duration

	// Token is the GitHub API token. Empty means resolve from the
	// environment or the gh CLI.
	Token string

	// Verbose enables API request diagnostics.
	Verbose bool
}

func New() *Config {
	return &Config{
		Input: Input{
			Registry:     "providers.yml",
			WorkflowFile: "test.yml",
			SourceExt:    ".py",
		},
		Output: Output{
			Markdown: "DASHBOARD.md",
		},
		Runtime: Runtime{
			Concurrency:  5,
			QueryTimeout: 30 * time.Second,
		},
	}
}

func (c *Config) Validate() error {
	if c.Input.Registry == "" {
		return errors.New("--registry must not be empty")
	}

	c.Input.WorkflowFile = strings.TrimSpace(c.Input.WorkflowFile)
	if c.Input.WorkflowFile == "" {
		return errors.New("--workflow must not be empty")
	}
	if strings.Contains(c.Input.WorkflowFile, "/") {
		return fmt.Errorf("invalid --workflow value %q: expected a bare filename", c.Input.WorkflowFile)
	}

	c.Input.SourceExt = strings.TrimSpace(c.Input.SourceExt)
	if c.Input.SourceExt == "" {
		return errors.New("--source-ext must not be empty")
	}
	if !strings.HasPrefix(c.Input.SourceExt, ".") {
		c.Input.SourceExt = "." + c.Input.SourceExt
	}

	if c.Output.Markdown == "" {
		return errors.New("--out must not be empty")
	}

	if c.Runtime.Concurrency < 1 {
		return errors.New("--concurrency must be >= 1")
	}
	if c.Runtime.QueryTimeout <= 0 {
		return errors.New("--timeout must be > 0")
	}
	return nil
}
