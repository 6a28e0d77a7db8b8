package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quattor/release-helper/internal/config"
	"github.com/quattor/release-helper/internal/milestone"
	"github.com/quattor/release-helper/internal/report"
	"github.com/quattor/release-helper/pkg/model"
)

var milestonesCmd = &cobra.Command{
	Use:   "milestones",
	Short: "Manage release milestones",
	Long:  `Create, reopen, close and shift release milestones across repositories.`,
}

var milestonesSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Converge milestones on the planned releases",
	Long: `Bring every repository's milestones in line with the planned releases:
create missing ones, reopen prematurely closed ones, fix due dates, and
close milestones whose due date has passed.

The planned releases come from the schedule file when one is configured,
otherwise from a generated cadence of month-aligned releases. Point
release milestones (three title components) are never touched.

Running sync twice in a row performs no writes on the second run.

Examples:
  # Sync against a schedule file
  release-helper milestones sync --orgs quattor --schedule releases.yaml

  # Sync against a generated cadence of 3 upcoming bi-monthly releases
  release-helper milestones sync --orgs quattor --count 4 --interval 2`,
	RunE: runMilestonesSync,
}

var milestonesBumpCmd = &cobra.Command{
	Use:   "bump",
	Short: "Shift open milestones by a number of months",
	Long: `Rename every open milestone to a title the given number of months later
and move its due date accordingly. Milestones are edited in place, so issues
keep their milestone assignment. Point release milestones are skipped.

Entries of the release schedule are shifted the same way; use
--write-schedule to persist the shifted schedule back to the file.

Examples:
  # A release slipped two months
  release-helper milestones bump --orgs quattor --months 2

  # Also rewrite the schedule file
  release-helper milestones bump --orgs quattor --months 2 --schedule releases.yaml --write-schedule`,
	RunE: runMilestonesBump,
}

func init() {
	rootCmd.AddCommand(milestonesCmd)
	milestonesCmd.AddCommand(milestonesSyncCmd)
	milestonesCmd.AddCommand(milestonesBumpCmd)

	milestonesSyncCmd.Flags().Int("count", 4, "Cadence length when no schedule is configured")
	milestonesSyncCmd.Flags().Int("interval", 2, "Months between cadence releases")

	_ = viper.BindPFlag("milestones.count", milestonesSyncCmd.Flags().Lookup("count"))
	_ = viper.BindPFlag("milestones.interval", milestonesSyncCmd.Flags().Lookup("interval"))

	milestonesBumpCmd.Flags().Int("months", 1, "Number of months to shift by")
	milestonesBumpCmd.Flags().Bool("write-schedule", false, "Rewrite the schedule file with the shifted entries")

	_ = viper.BindPFlag("milestones.months", milestonesBumpCmd.Flags().Lookup("months"))
	_ = viper.BindPFlag("milestones.write-schedule", milestonesBumpCmd.Flags().Lookup("write-schedule"))
}

func runMilestonesSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, gh, log, err := setup()
	if err != nil {
		return err
	}

	repos, err := cfg.ResolveRepos(ctx, gh)
	if err != nil {
		return err
	}

	var desired []milestone.Record
	if len(cfg.Schedule) > 0 {
		desired, err = milestone.FromSchedule(cfg.Schedule)
		if err != nil {
			return err
		}
	} else {
		count := viper.GetInt("milestones.count")
		interval := viper.GetInt("milestones.interval")
		desired = milestone.GenerateCadence(count, interval, time.Now())
	}
	if len(desired) == 0 {
		return fmt.Errorf("no planned releases: configure a schedule or a cadence")
	}

	syncer := milestone.NewSyncer(gh, log)
	summary := model.SyncSummary{Timestamp: time.Now()}

	for _, repo := range repos {
		result, err := syncer.Sync(ctx, repo, desired)
		if err != nil {
			log.WithField("repo", repo.FullName()).WithError(err).Warn("milestone sync failed")
			summary.Errors = append(summary.Errors, model.RepoError{
				Repo:    repo.FullName(),
				Op:      "sync milestones",
				Message: err.Error(),
			})
			continue
		}
		summary.Repos = append(summary.Repos, result)
	}

	formatter := report.New(viper.GetString("format"))
	output, err := formatter.FormatSyncSummary(&summary)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(output)

	if len(summary.Errors) > 0 {
		return fmt.Errorf("%d repositories failed", len(summary.Errors))
	}
	return nil
}

func runMilestonesBump(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, gh, log, err := setup()
	if err != nil {
		return err
	}

	months := viper.GetInt("milestones.months")
	if months < 1 {
		return fmt.Errorf("--months must be at least 1")
	}

	repos, err := cfg.ResolveRepos(ctx, gh)
	if err != nil {
		return err
	}

	bumper := milestone.NewBumper(gh, log)
	summary := model.BumpSummary{
		Timestamp: time.Now(),
		Months:    months,
		Schedule:  model.Schedule{},
	}

	for _, repo := range repos {
		result, err := bumper.Bump(ctx, repo, months, cfg.Schedule)
		if err != nil {
			log.WithField("repo", repo.FullName()).WithError(err).Warn("milestone bump failed")
			summary.Errors = append(summary.Errors, model.RepoError{
				Repo:    repo.FullName(),
				Op:      "bump milestones",
				Message: err.Error(),
			})
			continue
		}
		summary.Bumped = append(summary.Bumped, result.Bumped...)
		summary.Skipped = append(summary.Skipped, result.Skipped...)
		for title, entry := range result.Schedule {
			summary.Schedule[title] = entry
		}
	}

	formatter := report.New(viper.GetString("format"))
	output, err := formatter.FormatBumpSummary(&summary)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(output)

	if viper.GetBool("milestones.write-schedule") && len(summary.Schedule) > 0 {
		schedulePath := viper.GetString("schedule")
		if schedulePath == "" {
			return fmt.Errorf("--write-schedule requires --schedule")
		}
		if err := config.WriteSchedule(schedulePath, summary.Schedule); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Schedule written to %s\n", schedulePath)
	}

	if len(summary.Errors) > 0 {
		return fmt.Errorf("%d repositories failed", len(summary.Errors))
	}
	return nil
}
