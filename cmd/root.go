package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/iksnae/consent-session/internal"
	"github.com/spf13/cobra"
)

var (
	verbose     bool
	configPath  string
	apiBase     string
	timeout     time.Duration
	openerKind  string
	journalPath string
	noJournal   bool
	version     string = "dev"
	commit      string = "unknown"
	date        string = "unknown"
)

// cfg is resolved before every command runs
var cfg *internal.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "consent-session",
	Short: "Start and track consent flows against a consent backend",
	Long: `A small CLI client for a consent backend.

It starts consent flows, opens the approval link for the user, and polls the
backend for the resulting status. Every consent started here is kept in a
local journal so it can be checked again later.

Quick Start:
  consent-session hello                  # Check the backend greeting
  consent-session start                  # Start a consent flow
  consent-session status --watch         # Poll until the consent settles
  consent-session run                    # Interactive session

The backend address comes from --api-base, CONSENT_API_BASE, .env or the
config file (default http://localhost:8080).`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		internal.SetVerbose(verbose)
		resolved, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		cfg = resolved
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// resolveConfig layers command-line flags over the loaded configuration.
func resolveConfig(cmd *cobra.Command) (*internal.Config, error) {
	c, err := internal.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("api-base") {
		c.APIBase = apiBase
	}
	if flags.Changed("timeout") {
		c.Timeout = timeout
	}
	if flags.Changed("opener") {
		c.Opener = openerKind
	}
	if flags.Changed("journal") {
		c.Journal = journalPath
	}
	if noJournal {
		c.Journal = ""
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Source != "" {
		internal.LogDebug("Using config file %s", c.Source)
	}
	internal.LogDebug("Backend: %s (timeout %s)", c.APIBase, c.Timeout)
	return c, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: <user config dir>/consent-session/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiBase, "api-base", "", "Consent backend base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", internal.DefaultTimeout, "Deadline for each backend call")
	rootCmd.PersistentFlags().StringVar(&openerKind, "opener", "", "How to present approval URLs: browser, clipboard, print, none")
	rootCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "Path to the consent journal database")
	rootCmd.PersistentFlags().BoolVar(&noJournal, "no-journal", false, "Do not read or write the consent journal")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
