// Package report renders run results for humans and serializes the
// collection output consumed by the backlog renderer.
package report

import (
	"sort"

	"github.com/quattor/release-helper/pkg/model"
)

// Formatter defines the interface for formatting results.
type Formatter interface {
	// FormatCollectResult formats a collection run.
	FormatCollectResult(result *model.CollectResult) (string, error)

	// FormatSyncSummary formats a milestone sync run.
	FormatSyncSummary(summary *model.SyncSummary) (string, error)

	// FormatBumpSummary formats a milestone bump run.
	FormatBumpSummary(summary *model.BumpSummary) (string, error)
}

// New returns the formatter for a format name; unknown names fall back to
// the table formatter.
func New(format string) Formatter {
	switch format {
	case "json":
		return NewJSONFormatter()
	case "markdown", "md":
		return NewMarkdownFormatter()
	default:
		return NewTableFormatter()
	}
}

// bucketNames returns the result's bucket names in display order: named
// milestones ascending, then Backlog and Legacy.
func bucketNames(result *model.CollectResult) []string {
	names := make([]string, 0, len(result.Milestones))
	for name := range result.Milestones {
		names = append(names, name)
	}
	return model.SortBuckets(names, true)
}

// repoNames returns a bucket's repository names sorted alphabetically.
func repoNames(perRepo map[string]*model.Bucket) []string {
	names := make([]string, 0, len(perRepo))
	for name := range perRepo {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func scheduleTitles(schedule model.Schedule) []string {
	titles := make([]string, 0, len(schedule))
	for title := range schedule {
		titles = append(titles, title)
	}
	return titles
}
