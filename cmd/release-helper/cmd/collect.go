package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quattor/release-helper/internal/collector"
	"github.com/quattor/release-helper/internal/report"
	"github.com/quattor/release-helper/pkg/model"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect issues and pull requests into milestone buckets",
	Long: `Collect the issues and pull requests of all configured repositories
and group them by milestone. Items without a milestone land in the synthetic
Backlog bucket when recently updated, Legacy otherwise.

This is a read-only operation.

Examples:
  # Collect an organization
  release-helper collect --orgs quattor

  # Collect specific repositories
  release-helper collect --repos quattor/aquilon,quattor/pan

  # Write pulls.json, relations.json and burndown.json to a directory
  release-helper collect --orgs quattor --output-dir public

  # Output as JSON
  release-helper collect --orgs quattor --format json`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().Int("backlog-days", collector.DefaultBacklogDays, "Backlog window in days for items without a milestone")
	collectCmd.Flags().String("output-dir", "", "Directory for the JSON result files (default: formatted stdout)")

	_ = viper.BindPFlag("backlog-days", collectCmd.Flags().Lookup("backlog-days"))
	_ = viper.BindPFlag("collect.output-dir", collectCmd.Flags().Lookup("output-dir"))
}

func runCollect(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, gh, log, err := setup()
	if err != nil {
		return err
	}

	repos, err := cfg.ResolveRepos(ctx, gh)
	if err != nil {
		return err
	}
	log.WithField("repos", len(repos)).Debug("collecting")

	coll := collector.New(gh, log, collector.Options{BacklogDays: cfg.BacklogDays})
	result := coll.Collect(ctx, repos)

	if outputDir := viper.GetString("collect.output-dir"); outputDir != "" {
		return writeCollectFiles(outputDir, result)
	}

	formatter := report.New(viper.GetString("format"))
	output, err := formatter.FormatCollectResult(result)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(output)

	if len(result.Errors) > 0 {
		return fmt.Errorf("%d repositories failed", len(result.Errors))
	}
	return nil
}

// writeCollectFiles writes the collection result as the three JSON documents
// consumed by the dashboard: the full bucketed result, the dependency
// relationships, and the per-milestone burndown.
func writeCollectFiles(dir string, result *model.CollectResult) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	relations := struct {
		Timestamp     string               `json:"timestamp"`
		Relationships []model.Relationship `json:"relationships"`
	}{
		Timestamp:     result.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
		Relationships: result.Relationships,
	}

	files := map[string]any{
		"pulls.json":     result,
		"relations.json": relations,
		"burndown.json":  report.BuildBurndown(result),
	}

	for name, doc := range files {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", name, err)
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		fmt.Fprintf(os.Stderr, "Output written to %s\n", path)
	}

	if len(result.Errors) > 0 {
		return fmt.Errorf("%d repositories failed", len(result.Errors))
	}
	return nil
}
