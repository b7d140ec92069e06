package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/consent-session/internal"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check configuration, journal and backend reachability",
	Long: `Check the health of consent-session by verifying:
  • Configuration resolution
  • Consent journal access
  • Backend reachability (greeting endpoint)

Run with --verbose for detailed diagnostic information.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, sectionStyle.Render("🔍 Consent Session Health Check"))
		fmt.Fprintln(out)

		// Step 1: configuration was resolved by the root command
		fmt.Fprintln(out, infoStyle.Render("Step 1: Resolving configuration..."))
		fmt.Fprintln(out, successStyle.Render("✅ Configuration valid"))
		if verbose {
			source := cfg.Source
			if source == "" {
				source = "(defaults and environment)"
			}
			fmt.Fprintf(out, "   Config file: %s\n", source)
			fmt.Fprintf(out, "   Backend: %s\n", cfg.APIBase)
			fmt.Fprintf(out, "   Timeout: %s\n", cfg.Timeout)
			fmt.Fprintf(out, "   Opener: %s\n", cfg.Opener)
		}
		fmt.Fprintln(out)

		ctx := cmd.Context()

		// Step 2: journal
		fmt.Fprintln(out, infoStyle.Render("Step 2: Checking consent journal..."))
		journalOK := checkJournal(ctx, out)
		fmt.Fprintln(out)

		// Step 3: backend
		fmt.Fprintln(out, infoStyle.Render("Step 3: Contacting backend..."))
		env, err := newClientEnv(cmd)
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("❌ Failed to set up client:"), err)
			return fmt.Errorf("health check failed: %w", err)
		}
		defer env.Close()

		env.client.FetchGreeting(ctx)
		backendErr := env.client.LastError()
		if backendErr == nil {
			fmt.Fprintln(out, successStyle.Render("✅ Backend reachable"))
			if verbose {
				fmt.Fprintf(out, "   Greeting: %s\n", env.client.Message())
			}
		} else {
			fmt.Fprintln(out, errorStyle.Render("❌ Backend unreachable:"), backendErr)
			if verbose {
				fmt.Fprintf(out, "   Expected: GET %s/api/hello\n", cfg.APIBase)
			}
		}
		fmt.Fprintln(out)

		// Summary
		fmt.Fprintln(out, sectionStyle.Render("📊 Summary"))
		fmt.Fprintln(out)

		switch {
		case backendErr != nil:
			fmt.Fprintln(out, errorStyle.Render("❌ Health check failed"))
			fmt.Fprintf(out, "   • Backend %s is not answering\n", cfg.APIBase)
			return fmt.Errorf("health check failed: %w", backendErr)
		case !journalOK:
			fmt.Fprintln(out, warningStyle.Render("⚠️  Backend reachable but the journal is unavailable"))
			fmt.Fprintln(out, "   • Consents can be started and checked")
			fmt.Fprintln(out, "   • 'status' without --id, 'history' and 'export' will not work")
			return nil
		default:
			fmt.Fprintln(out, successStyle.Render("✅ Health check passed!"))
			return nil
		}
	},
}

// checkJournal reports on the journal and whether it can be used
func checkJournal(ctx context.Context, out io.Writer) bool {
	if cfg.Journal == "" {
		fmt.Fprintln(out, warningStyle.Render("⚠️  Journal disabled"))
		return false
	}

	journal, err := internal.OpenJournal(cfg.Journal)
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render("❌ Failed to open journal:"), err)
		return false
	}
	defer journal.Close()

	count, err := journal.Count(ctx)
	if err != nil {
		fmt.Fprintln(out, errorStyle.Render("❌ Failed to read journal:"), err)
		return false
	}
	fmt.Fprintln(out, successStyle.Render(fmt.Sprintf("✅ Journal available (%d consent(s) recorded)", count)))
	if verbose {
		fmt.Fprintf(out, "   Database: %s\n", journal.Path())
	}
	return true
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
