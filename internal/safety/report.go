package safety

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// WriteReport prints the human-readable check report: one block per package,
// then an automated-checks section and a risk summary.
func WriteReport(w io.Writer, results []*Result) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	green := color.New(color.FgGreen)

	for _, r := range results {
		fmt.Fprintln(w)
		switch r.Risk {
		case RiskHigh:
			red.Fprint(w, "[high] ")
		case RiskMedium:
			yellow.Fprint(w, "[medium] ")
		case RiskUnknown:
			fmt.Fprint(w, "[unknown] ")
		default:
			green.Fprint(w, "[low] ")
		}
		bold.Fprintf(w, "%s", r.Name)
		if r.Version != "" {
			fmt.Fprintf(w, " (v%s)", r.Version)
		}
		fmt.Fprintln(w)

		if r.Err != nil {
			fmt.Fprintf(w, "  error: %v\n", r.Err)
			continue
		}
		if r.Summary != "" {
			fmt.Fprintf(w, "  %s\n", r.Summary)
		}
		fmt.Fprintf(w, "  age: %d days\n", r.AgeDays)
		fmt.Fprintf(w, "  releases: %d\n", r.Releases)
		fmt.Fprintf(w, "  author: %s\n", r.Author)
		fmt.Fprintf(w, "  license: %s\n", r.License)
		if r.SourceURL != "" {
			fmt.Fprintf(w, "  source: %s\n", r.SourceURL)
		}
		for _, warning := range r.Warnings {
			yellow.Fprintf(w, "  warning: %s\n", warning)
		}
	}

	fmt.Fprintln(w)
	bold.Fprintln(w, "Automated checks:")
	writeCheckLine(w, allOf(results, func(r *Result) bool { return r.HasSource }),
		"trusted sources", "all packages have source repositories", "some packages missing source info")
	writeCheckLine(w, allOf(results, func(r *Result) bool { return r.Typosquat == "" }),
		"typosquatting", "no suspicious package names detected", "possible typosquatting detected")
	writeCheckLine(w, allOf(results, func(r *Result) bool { return r.LicenseOK }),
		"license compatibility", "all licenses are compatible", "some license issues detected")

	s := Summarize(results)
	fmt.Fprintln(w)
	bold.Fprintf(w, "Summary: %d packages checked\n", len(results))
	if s.High > 0 {
		red.Fprintf(w, "  high risk: %d\n", s.High)
	}
	if s.Medium > 0 {
		yellow.Fprintf(w, "  medium risk: %d\n", s.Medium)
	}
	if s.Unknown > 0 {
		fmt.Fprintf(w, "  unknown: %d\n", s.Unknown)
	}
	green.Fprintf(w, "  low risk: %d\n", s.Low)

	fmt.Fprintln(w)
	switch {
	case s.High > 0:
		red.Fprintln(w, "High-risk packages detected. Manual review strongly recommended.")
	case s.Medium > 0:
		yellow.Fprintln(w, "Medium-risk packages detected. Please review before merging.")
	default:
		green.Fprintln(w, "All packages passed basic safety checks.")
	}
}

func writeCheckLine(w io.Writer, ok bool, label, passMsg, failMsg string) {
	mark, msg := "PASS", passMsg
	if !ok {
		mark, msg = "FAIL", failMsg
	}
	fmt.Fprintf(w, "  [%s] %s: %s\n", mark, label, msg)
}

func allOf(results []*Result, pred func(*Result) bool) bool {
	for _, r := range results {
		if r.Err != nil {
			return false
		}
		if !pred(r) {
			return false
		}
	}
	return true
}
