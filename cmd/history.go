package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/consent-session/internal"
	"github.com/spf13/cobra"
)

var historyLimit int

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List consents recorded in the journal",
	Long:  `List the consents started from this machine, newest first, with their last known status.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyLimit < 0 {
			return fmt.Errorf("invalid --limit %d: must not be negative", historyLimit)
		}

		journal, err := openJournal()
		if err != nil {
			return err
		}
		defer journal.Close()

		records, err := journal.List(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list consents: %w", err)
		}

		displayRecords(cmd.OutOrStdout(), records, time.Now())
		return nil
	},
}

func displayRecords(out io.Writer, records []*internal.ConsentRecord, now time.Time) {
	if len(records) == 0 {
		fmt.Fprintln(out, headerStyle.Render("📋 No consents recorded"))
		return
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("📋 Found %d consent(s)", len(records))))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Status")+"\t"+titleStyle.Render("Checks")+"\t"+titleStyle.Render("Started")+"\t"+titleStyle.Render("Updated")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 80))

	for _, rec := range records {
		status := statusStyle(rec.Status).Render(rec.Status)
		checks := countStyle.Render(strconv.Itoa(rec.Checks))
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			idStyle.Render(rec.ID), status, checks,
			dateStyle.Render(relativeDate(rec.CreatedAt, now)),
			dateStyle.Render(relativeDate(rec.UpdatedAt, now)))
	}
	_ = w.Flush()

	fmt.Fprintln(out)
	fmt.Fprintln(out, idStyle.Render("💡 Tip: Use the ID (e.g., ")+
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(records[0].ID)+
		idStyle.Render(") with `consent-session show <id>` or `consent-session status --id <id>`"))
}

// relativeDate formats t more compactly the closer it is to now
func relativeDate(t, now time.Time) string {
	if t.IsZero() {
		return "—"
	}
	t = t.Local()
	diff := now.Sub(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of consents to list (0 for all)")
}
