package main

import (
	"provdash/internal/cli"
	_ "provdash/internal/stats/queries"
)

// These variables are populated by the build via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cli.SetBuildInfo(version, commit, date)
	cli.Execute()
}
