package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/consent-session/internal"
	"github.com/spf13/cobra"
)

// DefaultStopStatuses ends a watch. Anything else is treated as still pending.
const DefaultStopStatuses = "ACTIVE,APPROVED,REJECTED,REVOKED,EXPIRED,PAUSED"

var (
	statusID       string
	statusWatch    bool
	statusInterval time.Duration
	statusUntil    string
)

var (
	messageStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	grantedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	deniedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// statusStyle picks a badge colour for a backend status
func statusStyle(status string) lipgloss.Style {
	switch strings.ToUpper(status) {
	case "ACTIVE", "APPROVED", "GRANTED":
		return grantedStyle
	case "REJECTED", "REVOKED", "EXPIRED", "DENIED":
		return deniedStyle
	default:
		return pendingStyle
	}
}

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the status of a consent",
	Long: `Check the status of a consent with the backend.

Without --id the most recently started consent from the journal is used.
With --watch the status is polled every --interval until it reaches one of
the --until statuses or the command is interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := resolveStatusSession(cmd.Context())
		if err != nil {
			return err
		}

		env, err := newClientEnv(cmd, internal.WithSession(session))
		if err != nil {
			return err
		}
		defer env.Close()

		if statusWatch {
			interval := cfg.PollInterval
			if cmd.Flags().Changed("interval") {
				interval = statusInterval
			}
			if interval <= 0 {
				return fmt.Errorf("invalid --interval %s: must be positive", interval)
			}
			ctx, stop := signalContext(cmd)
			defer stop()
			return watchStatus(ctx, cmd, env.client, interval, parseStopStatuses(statusUntil))
		}

		ctx := cmd.Context()
		_ = internal.ShowProgress(ctx, "Checking consent status", func() error {
			env.client.CheckStatus(ctx)
			return env.client.LastError()
		})
		printSnapshot(cmd.OutOrStdout(), env.client.Snapshot())
		if err := env.client.LastError(); err != nil {
			return fmt.Errorf("status check failed: %w", err)
		}
		return nil
	},
}

// resolveStatusSession picks the session to check: --id when given,
// otherwise the latest journal record. No session at all yields Uninitiated
// so the client reports that no consent was started.
func resolveStatusSession(ctx context.Context) (internal.Session, error) {
	if statusID != "" {
		return internal.Initiated{ID: statusID}, nil
	}
	if cfg.Journal == "" {
		return internal.Uninitiated{}, nil
	}

	journal, err := internal.OpenJournal(cfg.Journal)
	if err != nil {
		internal.LogWarn("Consent journal unavailable: %v", err)
		return internal.Uninitiated{}, nil
	}
	defer journal.Close()

	rec, err := journal.Latest(ctx)
	if errors.Is(err, internal.ErrRecordNotFound) {
		return internal.Uninitiated{}, nil
	}
	if err != nil {
		return nil, err
	}
	internal.LogDebug("Resuming consent %s from journal", rec.ID)
	return rec.Session(), nil
}

// parseStopStatuses splits a comma-separated status list into an upper-case set
func parseStopStatuses(list string) map[string]bool {
	set := make(map[string]bool)
	for _, s := range strings.Split(list, ",") {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			set[s] = true
		}
	}
	return set
}

// watchStatus polls until the status is in stop or ctx is cancelled.
// Transient failures keep the watch going; a missing session ends it.
func watchStatus(ctx context.Context, cmd *cobra.Command, client *internal.Client, interval time.Duration, stop map[string]bool) error {
	out := cmd.OutOrStdout()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := ""
	for {
		client.CheckStatus(ctx)
		snap := client.Snapshot()
		err := client.LastError()

		if errors.Is(err, internal.ErrConsentNotStarted) {
			printSnapshot(out, snap)
			return err
		}
		if ctx.Err() != nil {
			internal.PrintInfo(out, "Watch interrupted")
			return nil
		}
		if snap.Message != last {
			printSnapshot(out, snap)
			last = snap.Message
		}
		if err == nil {
			if status, ok := internal.SessionStatus(snap.Session); ok && stop[strings.ToUpper(status)] {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			internal.PrintInfo(out, "Watch interrupted")
			return nil
		case <-ticker.C:
		}
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVar(&statusID, "id", "", "Consent id to check (default: latest journal entry)")
	statusCmd.Flags().BoolVarP(&statusWatch, "watch", "w", false, "Poll until the consent settles")
	statusCmd.Flags().DurationVar(&statusInterval, "interval", internal.DefaultPollInterval, "Polling interval for --watch")
	statusCmd.Flags().StringVar(&statusUntil, "until", DefaultStopStatuses, "Comma-separated statuses that end --watch")
}
