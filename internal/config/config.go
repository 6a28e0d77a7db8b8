// Package config builds the explicit run configuration. There is no
// process-wide configuration state: the struct is constructed once in the
// command layer and passed into the components that need it.
package config

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/quattor/release-helper/internal/forge"
	"github.com/quattor/release-helper/pkg/model"
)

// Config is the run configuration shared by all subcommands.
type Config struct {
	// Token is the forge API token.
	Token string

	// Orgs are organizations whose repositories are all included, subject
	// to the white/black filters.
	Orgs []string

	// Repos are explicitly configured repositories in owner/name format,
	// not subject to the filters.
	Repos []string

	// White and Black are repository name filters applied to organization
	// listings: with a white list, only matching names are kept; black
	// matches are then dropped.
	White []*regexp.Regexp
	Black []*regexp.Regexp

	// BacklogDays is the trailing window of the synthetic Backlog bucket.
	BacklogDays int

	// Labels maps label names to hex colors for the label synchronizer.
	Labels map[string]string

	// Schedule maps milestone titles to planned release dates.
	Schedule model.Schedule
}

// Load builds the configuration from viper state (flags, environment and
// config file, already merged by the command layer).
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Token:       v.GetString("token"),
		Orgs:        v.GetStringSlice("orgs"),
		Repos:       v.GetStringSlice("repos"),
		BacklogDays: v.GetInt("backlog-days"),
		Labels:      v.GetStringMapString("labels"),
	}

	if cfg.Token == "" {
		return nil, fmt.Errorf("forge token required: set GITHUB_TOKEN or the token option")
	}
	if len(cfg.Orgs) == 0 && len(cfg.Repos) == 0 {
		return nil, fmt.Errorf("at least one organization (orgs) or repository (repos) required")
	}

	var err error
	if cfg.White, err = compileFilters(v.GetStringSlice("white")); err != nil {
		return nil, fmt.Errorf("white filter: %w", err)
	}
	if cfg.Black, err = compileFilters(v.GetStringSlice("black")); err != nil {
		return nil, fmt.Errorf("black filter: %w", err)
	}

	if schedulePath := v.GetString("schedule"); schedulePath != "" {
		cfg.Schedule, err = LoadSchedule(schedulePath)
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func compileFilters(patterns []string) ([]*regexp.Regexp, error) {
	var filters []*regexp.Regexp
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		filters = append(filters, re)
	}
	return filters, nil
}

// scheduleFile is the release-schedule YAML document.
type scheduleFile struct {
	Releases map[string]model.ScheduleEntry `yaml:"releases"`
}

// LoadSchedule reads the release schedule from a YAML file and validates
// that every key is a milestone title.
func LoadSchedule(path string) (model.Schedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schedule: %w", err)
	}
	return ParseSchedule(data)
}

// WriteSchedule writes a release schedule back to a YAML file, typically
// after a bump shifted its entries.
func WriteSchedule(path string, schedule model.Schedule) error {
	data, err := yaml.Marshal(scheduleFile{Releases: schedule})
	if err != nil {
		return fmt.Errorf("marshal schedule: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write schedule: %w", err)
	}
	return nil
}

// ParseSchedule parses a release-schedule YAML document.
func ParseSchedule(data []byte) (model.Schedule, error) {
	var file scheduleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse schedule: %w", err)
	}

	schedule := model.Schedule{}
	for title, entry := range file.Releases {
		if _, err := model.ParseMilestoneTitle(title); err != nil {
			return nil, err
		}
		schedule[title] = entry
	}
	return schedule, nil
}

// FilterRepos applies the white and black filters to repositories listed
// from an organization. A name must match some white pattern (when any are
// configured) and no black pattern.
func (c *Config) FilterRepos(repos []model.RepoRef) []model.RepoRef {
	var kept []model.RepoRef

	for _, repo := range repos {
		if len(c.White) > 0 && !anyMatch(c.White, repo.Name) {
			continue
		}
		if anyMatch(c.Black, repo.Name) {
			continue
		}
		kept = append(kept, repo)
	}
	return kept
}

// ResolveRepos expands the configured organizations through the forge,
// applies the white/black filters to their listings, and appends the
// explicitly configured repositories unfiltered.
func (c *Config) ResolveRepos(ctx context.Context, f forge.Forge) ([]model.RepoRef, error) {
	var repos []model.RepoRef

	for _, org := range c.Orgs {
		listed, err := f.ListRepos(ctx, org)
		if err != nil {
			return nil, fmt.Errorf("list repositories of %s: %w", org, err)
		}
		repos = append(repos, c.FilterRepos(listed)...)
	}

	for _, fullName := range c.Repos {
		repos = append(repos, model.ParseRepoRef(fullName))
	}

	return repos, nil
}

func anyMatch(filters []*regexp.Regexp, name string) bool {
	for _, re := range filters {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
