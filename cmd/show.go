package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/consent-session/internal"
	"github.com/spf13/cobra"
)

var showRefresh bool

var (
	consentHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	consentMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <consent-id>",
	Short: "Show a consent from the journal",
	Long: `Display what the journal knows about one consent.

With --refresh the status is checked with the backend first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		ctx := cmd.Context()

		journal, err := openJournal()
		if err != nil {
			return err
		}
		rec, err := journal.Get(ctx, id)
		_ = journal.Close()
		if errors.Is(err, internal.ErrRecordNotFound) {
			return fmt.Errorf("consent not found: %s (use 'consent-session history' to see recorded consents)", id)
		}
		if err != nil {
			return err
		}

		var refreshErr error
		if showRefresh {
			env, err := newClientEnv(cmd, internal.WithSession(rec.Session()))
			if err != nil {
				return err
			}
			env.client.CheckStatus(ctx)
			if refreshErr = env.client.LastError(); refreshErr != nil {
				internal.PrintError(cmd.OutOrStdout(), env.client.Message())
			} else if env.journal != nil {
				if refreshed, err := env.journal.Get(ctx, id); err == nil {
					rec = refreshed
				}
			}
			env.Close()
		}

		displayRecord(cmd.OutOrStdout(), rec)
		if refreshErr != nil {
			return fmt.Errorf("status refresh failed: %w", refreshErr)
		}
		return nil
	},
}

func displayRecord(out io.Writer, rec *internal.ConsentRecord) {
	fmt.Fprintln(out, consentHeaderStyle.Render(fmt.Sprintf("🔏 Consent %s", rec.ID)))

	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Status:"), statusStyle(rec.Status).Render(rec.Status))
	approval := rec.ApprovalURL
	if approval == "" {
		approval = "—"
	}
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Approval URL:"), approval)

	meta := []string{
		fmt.Sprintf("Started: %s", rec.CreatedAt.Local().Format(time.RFC3339)),
		fmt.Sprintf("Updated: %s", rec.UpdatedAt.Local().Format(time.RFC3339)),
		fmt.Sprintf("Checks: %d", rec.Checks),
	}
	fmt.Fprintln(out, consentMetaStyle.Render(strings.Join(meta, " • ")))
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showRefresh, "refresh", false, "Check the status with the backend before showing")
}
