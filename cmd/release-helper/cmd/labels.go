package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quattor/release-helper/internal/labels"
	"github.com/quattor/release-helper/pkg/model"
)

var labelsCmd = &cobra.Command{
	Use:   "labels",
	Short: "Manage repository labels",
}

var labelsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile repository labels against the configured set",
	Long: `Create the configured labels where they are missing and fix colors that
drifted. Labels outside the configured set are left alone.

The labels are read from the config file:

  labels:
    bug: ee0701
    enhancement: 84b6eb

Examples:
  release-helper labels sync --orgs quattor`,
	RunE: runLabelsSync,
}

func init() {
	rootCmd.AddCommand(labelsCmd)
	labelsCmd.AddCommand(labelsSyncCmd)
}

func runLabelsSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, gh, log, err := setup()
	if err != nil {
		return err
	}
	if len(cfg.Labels) == 0 {
		return fmt.Errorf("no labels configured: set the labels map in the config file")
	}

	repos, err := cfg.ResolveRepos(ctx, gh)
	if err != nil {
		return err
	}

	syncer := labels.NewSyncer(gh, log)

	var results []labels.Result
	var errs []model.RepoError

	for _, repo := range repos {
		result, err := syncer.Sync(ctx, repo, cfg.Labels)
		if err != nil {
			log.WithField("repo", repo.FullName()).WithError(err).Warn("label sync failed")
			errs = append(errs, model.RepoError{
				Repo:    repo.FullName(),
				Op:      "sync labels",
				Message: err.Error(),
			})
			continue
		}
		results = append(results, result)
	}

	if viper.GetString("format") == "json" {
		doc := struct {
			Repos  []labels.Result   `json:"repos"`
			Errors []model.RepoError `json:"errors,omitempty"`
		}{Repos: results, Errors: errs}

		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		fmt.Println(string(data))
	} else {
		for _, result := range results {
			if len(result.Created)+len(result.Updated) == 0 {
				fmt.Printf("%s: converged\n", result.Repo)
				continue
			}
			fmt.Printf("%s: created [%s], updated [%s]\n", result.Repo,
				strings.Join(result.Created, ", "), strings.Join(result.Updated, ", "))
		}
		for _, repoErr := range errs {
			fmt.Printf("%s: failed: %s\n", repoErr.Repo, repoErr.Message)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d repositories failed", len(errs))
	}
	return nil
}
