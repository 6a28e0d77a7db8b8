package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/quattor/release-helper/pkg/model"
)

// TableFormatter formats results as text tables.
type TableFormatter struct{}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter() *TableFormatter {
	return &TableFormatter{}
}

// FormatCollectResult formats a collection run as a text table.
func (f *TableFormatter) FormatCollectResult(result *model.CollectResult) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Collection Results (%s)\n", result.Timestamp.Format(time.RFC3339)))
	sb.WriteString(strings.Repeat("-", 72) + "\n")

	buckets := bucketNames(result)
	if len(buckets) == 0 {
		sb.WriteString("No milestones found.\n")
	}

	sb.WriteString(fmt.Sprintf("%-12s %-28s %6s %6s %8s\n", "MILESTONE", "REPOSITORY", "OPEN", "CLOSED", "THINGS"))
	sb.WriteString(strings.Repeat("-", 72) + "\n")

	for _, bucket := range buckets {
		for _, repo := range repoNames(result.Milestones[bucket]) {
			data := result.Milestones[bucket][repo]
			sb.WriteString(fmt.Sprintf("%-12s %-28s %6d %6d %8d\n",
				bucket, truncate(repo, 28), data.Open, data.Closed, len(data.Things)))
		}
	}

	sb.WriteString(fmt.Sprintf("\nRelationships: %d\n", len(result.Relationships)))
	for _, rel := range result.Relationships {
		sb.WriteString(fmt.Sprintf("  %s %s %s\n", rel.From, rel.Type, rel.To))
	}

	writeErrors(&sb, result.Errors)

	return sb.String(), nil
}

// FormatSyncSummary formats a milestone sync run as a text table.
func (f *TableFormatter) FormatSyncSummary(summary *model.SyncSummary) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Milestone Sync Results (%s)\n", summary.Timestamp.Format(time.RFC3339)))
	sb.WriteString(strings.Repeat("-", 72) + "\n")

	for _, repo := range summary.Repos {
		status := "converged"
		if repo.Writes() > 0 {
			status = fmt.Sprintf("created %d, edited %d, reopened %d, closed %d",
				len(repo.Created), len(repo.Edited), len(repo.Reopened), len(repo.ClosedMs))
		}
		sb.WriteString(fmt.Sprintf("%-36s %s\n", truncate(repo.Repo, 36), status))

		for _, title := range repo.Skipped {
			sb.WriteString(fmt.Sprintf("  point release %s left unmodified\n", title))
		}
	}

	writeErrors(&sb, summary.Errors)

	return sb.String(), nil
}

// FormatBumpSummary formats a milestone bump run as a text table.
func (f *TableFormatter) FormatBumpSummary(summary *model.BumpSummary) (string, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Milestone Bump Results (+%d months, %s)\n",
		summary.Months, summary.Timestamp.Format(time.RFC3339)))
	sb.WriteString(strings.Repeat("-", 72) + "\n")

	for _, b := range summary.Bumped {
		sb.WriteString(fmt.Sprintf("%-36s %s -> %s (due %s)\n",
			truncate(b.Repo, 36), b.OldTitle, b.NewTitle, b.NewDue.Format("2006-01-02")))
	}
	for _, title := range summary.Skipped {
		sb.WriteString(fmt.Sprintf("  point release %s left unmodified\n", title))
	}

	if len(summary.Schedule) > 0 {
		sb.WriteString("\nUpdated release schedule (persist in configuration):\n")
		for _, title := range model.SortBuckets(scheduleTitles(summary.Schedule), false) {
			entry := summary.Schedule[title]
			sb.WriteString(fmt.Sprintf("  %s: start %s, rcs %s, target %s\n", title,
				entry.Start.Format("2006-01-02"),
				entry.RCs.Format("2006-01-02"),
				entry.Target.Format("2006-01-02")))
		}
	}

	writeErrors(&sb, summary.Errors)

	return sb.String(), nil
}

func writeErrors(sb *strings.Builder, errs []model.RepoError) {
	if len(errs) == 0 {
		return
	}
	sb.WriteString("\nErrors:\n")
	for _, e := range errs {
		sb.WriteString(fmt.Sprintf("  %s (%s): %s\n", e.Repo, e.Op, e.Message))
	}
}

// truncate shortens a string to maxLen characters.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
