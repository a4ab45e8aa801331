// Package queries implements the independent sub-queries that populate a
// stats record. Each file registers one Query in its init(); the entrypoint
// blank-imports the package to pull them in.
package queries

import (
	"math"
	"strings"
	"time"

	"github.com/google/go-github/v81/github"
)

// Recognized issue labels. Every label on every open issue is tallied;
// only these three surface as dedicated record fields.
const (
	labelBug         = "type:bug"
	labelEnhancement = "type:enhancement"
	labelIncident    = "incident:ci"
)

// countMergedSince counts pull requests whose merge timestamp falls within
// the trailing window (merge time >= since). Unmerged PRs don't count.
func countMergedSince(pulls []*github.PullRequest, since time.Time) int {
	n := 0
	for _, pr := range pulls {
		if pr.MergedAt == nil {
			continue
		}
		if !pr.GetMergedAt().Time.Before(since) {
			n++
		}
	}
	return n
}

// tallyLabels filters a combined issue/PR listing down to pure issues and
// tallies every label on every remaining issue. Unrecognized labels are
// counted but only the recognized ones are reported individually.
func tallyLabels(issues []*github.Issue) (open int, counts map[string]int) {
	counts = make(map[string]int)
	for _, issue := range issues {
		if issue.IsPullRequest() {
			continue
		}
		open++
		for _, label := range issue.Labels {
			counts[label.GetName()]++
		}
	}
	return open, counts
}

// lastCommitTime extracts a commit's timestamp, preferring the committer
// date over the author date when both exist.
func lastCommitTime(rc *github.RepositoryCommit) *time.Time {
	c := rc.GetCommit()
	if c == nil {
		return nil
	}
	if committer := c.GetCommitter(); committer != nil && committer.Date != nil {
		t := committer.GetDate().Time
		return &t
	}
	if author := c.GetAuthor(); author != nil && author.Date != nil {
		t := author.GetDate().Time
		return &t
	}
	return nil
}

// churnWindow sums additions and deletions over the trailing n entries of a
// weekly code-frequency series. The API reports deletions as negative; the
// result is their non-negative magnitude.
func churnWindow(weeks []*github.WeeklyStats, n int) (additions, deletions int) {
	if len(weeks) > n {
		weeks = weeks[len(weeks)-n:]
	}
	for _, w := range weeks {
		additions += w.GetAdditions()
		deletions += w.GetDeletions()
	}
	if deletions < 0 {
		deletions = -deletions
	}
	return additions, deletions
}

// measureTree filters tree entries down to blobs with the tracked extension
// and reports their count and total size in kilobytes, one decimal place.
func measureTree(entries []*github.TreeEntry, ext string) (files int, sizeKB float64) {
	bytes := 0
	for _, e := range entries {
		if e.GetType() != "blob" || !strings.HasSuffix(e.GetPath(), ext) {
			continue
		}
		files++
		bytes += e.GetSize()
	}
	sizeKB = math.Round(float64(bytes)/1024*10) / 10
	return files, sizeKB
}
