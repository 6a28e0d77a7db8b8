package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/quattor/release-helper/pkg/model"
)

// MarkdownFormatter formats results as Markdown.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a new Markdown formatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// FormatCollectResult formats a collection run as Markdown.
func (f *MarkdownFormatter) FormatCollectResult(result *model.CollectResult) (string, error) {
	var sb strings.Builder

	sb.WriteString("# Release Progress\n\n")
	sb.WriteString(fmt.Sprintf("**Collected:** %s\n\n", result.Timestamp.Format(time.RFC3339)))

	for _, bucket := range bucketNames(result) {
		perRepo := result.Milestones[bucket]

		sb.WriteString(fmt.Sprintf("## %s\n\n", bucket))
		sb.WriteString("| Repository | Open | Closed | Things | Due |\n")
		sb.WriteString("|------------|------|--------|--------|-----|\n")

		for _, repo := range repoNames(perRepo) {
			data := perRepo[repo]
			due := "-"
			if data.Due != nil {
				due = data.Due.Format("2006-01-02")
			}
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %s |\n",
				repo, data.Open, data.Closed, len(data.Things), due))
		}
		sb.WriteString("\n")
	}

	if len(result.Relationships) > 0 {
		sb.WriteString("## Dependencies\n\n")
		for _, rel := range result.Relationships {
			sb.WriteString(fmt.Sprintf("- %s %s %s\n", rel.From, rel.Type, rel.To))
		}
		sb.WriteString("\n")
	}

	if len(result.Errors) > 0 {
		sb.WriteString("## Errors\n\n")
		for _, e := range result.Errors {
			sb.WriteString(fmt.Sprintf("- %s (%s): %s\n", e.Repo, e.Op, e.Message))
		}
	}

	return sb.String(), nil
}

// FormatSyncSummary formats a milestone sync run as Markdown.
func (f *MarkdownFormatter) FormatSyncSummary(summary *model.SyncSummary) (string, error) {
	var sb strings.Builder

	sb.WriteString("# Milestone Sync\n\n")
	sb.WriteString(fmt.Sprintf("**Run:** %s\n\n", summary.Timestamp.Format(time.RFC3339)))
	sb.WriteString("| Repository | Created | Edited | Reopened | Closed |\n")
	sb.WriteString("|------------|---------|--------|----------|--------|\n")

	for _, repo := range summary.Repos {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n",
			repo.Repo,
			orDash(repo.Created), orDash(repo.Edited),
			orDash(repo.Reopened), orDash(repo.ClosedMs)))
	}

	return sb.String(), nil
}

// FormatBumpSummary formats a milestone bump run as Markdown.
func (f *MarkdownFormatter) FormatBumpSummary(summary *model.BumpSummary) (string, error) {
	var sb strings.Builder

	sb.WriteString("# Milestone Bump\n\n")
	sb.WriteString(fmt.Sprintf("**Shift:** %d months\n\n", summary.Months))
	sb.WriteString("| Repository | Old | New | Due |\n")
	sb.WriteString("|------------|-----|-----|-----|\n")

	for _, b := range summary.Bumped {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			b.Repo, b.OldTitle, b.NewTitle, b.NewDue.Format("2006-01-02")))
	}

	return sb.String(), nil
}

func orDash(titles []string) string {
	if len(titles) == 0 {
		return "-"
	}
	return strings.Join(titles, ", ")
}
