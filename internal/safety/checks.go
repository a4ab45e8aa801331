package safety

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Risk buckets, ordered by severity. Unknown means metadata could not be
// fetched at all.
type RiskLevel string

const (
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
	RiskUnknown RiskLevel = "unknown"
)

// Scoring thresholds. A single typosquat hit is enough to land in the high
// bucket on its own.
const (
	scoreHighThreshold   = 5
	scoreMediumThreshold = 3
)

// compatibleLicenses are matched as substrings, case-insensitively, against
// the declared license text.
var compatibleLicenses = []string{
	"MIT",
	"Apache-2.0",
	"Apache Software License",
	"BSD",
	"BSD-3-Clause",
	"BSD-2-Clause",
	"ISC",
	"Python Software Foundation License",
	"PSF",
	"LGPL",
	"MPL-2.0",
	"Unlicense",
	"CC0",
}

var copyleftLicenses = []string{"GPL", "AGPL", "SSPL"}

// popularPackages is the typosquat reference set: widely-installed names
// that attackers imitate.
var popularPackages = []string{
	"requests", "urllib3", "setuptools", "certifi", "pip",
	"numpy", "pandas", "boto3", "botocore", "awscli",
	"django", "flask", "sqlalchemy", "pytest", "pydantic",
	"aiohttp", "fastapi",
}

// homoglyphs are digit-for-letter swaps commonly used in squatted names.
var homoglyphs = [][2]string{
	{"0", "o"},
	{"1", "l"},
	{"1", "i"},
}

var requirementName = regexp.MustCompile(`^([a-zA-Z0-9_-]+)`)

// ParseRequirement extracts the lowercase package name from one requirements
// line. Blank lines and comments yield "".
func ParseRequirement(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return ""
	}
	m := requirementName.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// ParseRequirements extracts every package name from requirements file
// content, preserving order.
func ParseRequirements(content string) []string {
	var names []string
	for _, line := range strings.Split(content, "\n") {
		if name := ParseRequirement(line); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func normalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, "-", "")
	return strings.ReplaceAll(name, "_", "")
}

// CheckTyposquat reports whether name imitates a popular package, either by
// a single-character difference at equal length or by a homoglyph
// substitution. An exact match is not flagged. The returned detail is empty
// when the name is clean.
func CheckTyposquat(name string) string {
	normalized := normalizeName(name)

	for _, popular := range popularPackages {
		target := normalizeName(popular)
		if normalized == target {
			continue
		}

		if len(normalized) == len(target) {
			diffs := 0
			for i := range normalized {
				if normalized[i] != target[i] {
					diffs++
				}
			}
			if diffs == 1 {
				return fmt.Sprintf("very similar to popular package %q", popular)
			}
		}

		for _, sub := range homoglyphs {
			if strings.Contains(normalized, sub[0]) &&
				strings.ReplaceAll(normalized, sub[0], sub[1]) == target {
				return fmt.Sprintf("character substitution of popular package %q", popular)
			}
		}
	}
	return ""
}

// CheckLicense classifies a declared license string. Copyleft families
// (GPL, AGPL, SSPL) are incompatible unless the text is actually LGPL.
func CheckLicense(license string) (bool, string) {
	if license == "" || license == "Unknown" {
		return false, "no license information"
	}

	upper := strings.ToUpper(license)
	for _, ok := range compatibleLicenses {
		if strings.Contains(upper, strings.ToUpper(ok)) {
			return true, fmt.Sprintf("compatible (%s)", license)
		}
	}
	for _, bad := range copyleftLicenses {
		if strings.Contains(upper, bad) && !strings.Contains(upper, "LGPL") {
			return false, fmt.Sprintf("incompatible copyleft license (%s)", license)
		}
	}
	return false, fmt.Sprintf("unknown/unverified license (%s)", license)
}

// Result is the verdict for one package.
type Result struct {
	Name     string
	Version  string
	Summary  string
	License  string
	Author   string
	AgeDays  int
	Releases int

	HasSource   bool
	HasHomepage bool
	SourceURL   string

	Typosquat     string
	LicenseOK     bool
	LicenseDetail string

	Warnings []string
	Score    int
	Risk     RiskLevel

	// Err is set when metadata could not be fetched; the other fields are
	// then meaningless and Risk is RiskUnknown.
	Err error
}

// Unavailable builds the Result for a package whose metadata fetch failed.
func Unavailable(name string, err error) *Result {
	return &Result{Name: name, Risk: RiskUnknown, Err: err}
}

// Evaluate scores one package's metadata. now anchors the age computation so
// results are reproducible in tests.
func Evaluate(name string, meta *Metadata, now time.Time) *Result {
	info := meta.Info

	author := info.Author
	if author == "" {
		author = info.Maintainer
	}
	if author == "" {
		author = "Unknown"
	}
	license := info.License
	if license == "" {
		license = "Unknown"
	}

	ageDays := 0
	if first := meta.FirstUpload(); !first.IsZero() {
		ageDays = int(now.Sub(first).Hours() / 24)
	}

	res := &Result{
		Name:        name,
		Version:     info.Version,
		Summary:     info.Summary,
		License:     license,
		Author:      author,
		AgeDays:     ageDays,
		Releases:    len(meta.Releases),
		SourceURL:   info.SourceURL(),
		HasSource:   info.SourceURL() != "",
		HasHomepage: info.HomepageURL() != "",
	}
	res.Typosquat = CheckTyposquat(name)
	res.LicenseOK, res.LicenseDetail = CheckLicense(license)

	score := 0
	warn := func(n int, format string, args ...any) {
		res.Warnings = append(res.Warnings, fmt.Sprintf(format, args...))
		score += n
	}

	if res.Typosquat != "" {
		warn(5, "%s", res.Typosquat)
	}
	if !res.LicenseOK {
		warn(2, "license issue: %s", res.LicenseDetail)
	}
	switch {
	case ageDays < 30:
		warn(3, "very new package (only %d days old)", ageDays)
	case ageDays < 90:
		warn(1, "relatively new package (%d days old)", ageDays)
	}
	if res.Releases < 3 {
		warn(2, "very few releases (only %d)", res.Releases)
	}
	if !res.HasSource {
		warn(2, "no source repository linked")
	}
	if !res.HasSource && !res.HasHomepage {
		warn(1, "no homepage or source repository")
	}
	if res.Author == "Unknown" {
		warn(1, "no author information available")
	}

	res.Score = score
	switch {
	case score >= scoreHighThreshold:
		res.Risk = RiskHigh
	case score >= scoreMediumThreshold:
		res.Risk = RiskMedium
	default:
		res.Risk = RiskLow
	}
	return res
}

// Summary tallies results into risk buckets.
type Summary struct {
	High, Medium, Low, Unknown int
}

func Summarize(results []*Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.Risk {
		case RiskHigh:
			s.High++
		case RiskMedium:
			s.Medium++
		case RiskUnknown:
			s.Unknown++
		default:
			s.Low++
		}
	}
	return s
}

// ExitCode maps the summary to the process exit status: 2 when any package
// is high risk, 1 when any is medium, 0 otherwise.
func (s Summary) ExitCode() int {
	switch {
	case s.High > 0:
		return 2
	case s.Medium > 0:
		return 1
	default:
		return 0
	}
}

// PopularPackages returns the typosquat reference set, sorted, for display.
func PopularPackages() []string {
	out := make([]string, len(popularPackages))
	copy(out, popularPackages)
	sort.Strings(out)
	return out
}
