package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quattor/release-helper/internal/config"
	"github.com/quattor/release-helper/internal/forge"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "release-helper",
	Short: "Milestone and release bookkeeping across GitHub repositories",
	Long: `release-helper keeps the milestones of a multi-repository project in
step with its release schedule.

Features:
  - Collect issues and pull requests into per-milestone buckets
  - Create, reopen and close milestones to match the planned releases
  - Shift milestone titles and due dates when a release slips
  - Reconcile repository labels against a configured set`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.release-helper.yaml)")
	rootCmd.PersistentFlags().StringSlice("orgs", nil, "GitHub organizations whose repositories are included")
	rootCmd.PersistentFlags().StringSlice("repos", nil, "Specific repositories (owner/repo format)")
	rootCmd.PersistentFlags().String("token", "", "GitHub token (or set GITHUB_TOKEN env var)")
	rootCmd.PersistentFlags().String("format", "table", "Output format: table, json, markdown")
	rootCmd.PersistentFlags().String("schedule", "", "Release schedule YAML file")
	rootCmd.PersistentFlags().StringSlice("white", nil, "Repository name patterns to keep from organization listings")
	rootCmd.PersistentFlags().StringSlice("black", nil, "Repository name patterns to drop from organization listings")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	// Bind flags to viper
	_ = viper.BindPFlag("orgs", rootCmd.PersistentFlags().Lookup("orgs"))
	_ = viper.BindPFlag("repos", rootCmd.PersistentFlags().Lookup("repos"))
	_ = viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	_ = viper.BindPFlag("schedule", rootCmd.PersistentFlags().Lookup("schedule"))
	_ = viper.BindPFlag("white", rootCmd.PersistentFlags().Lookup("white"))
	_ = viper.BindPFlag("black", rootCmd.PersistentFlags().Lookup("black"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".release-helper" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".release-helper")
	}

	// Environment variables
	viper.SetEnvPrefix("RELEASE_HELPER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Also check GITHUB_TOKEN directly
	if viper.GetString("token") == "" {
		if token := os.Getenv("GITHUB_TOKEN"); token != "" {
			viper.Set("token", token)
		}
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("debug") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

// newLogger builds the command logger, honoring --debug.
func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if viper.GetBool("debug") {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// setup loads the run configuration and builds the GitHub client shared by
// all subcommands.
func setup() (*config.Config, *forge.GitHubForge, *logrus.Logger, error) {
	log := newLogger()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, nil, nil, err
	}

	gh := forge.NewGitHubWithConfig(forge.Config{Token: cfg.Token})
	return cfg, gh, log, nil
}
