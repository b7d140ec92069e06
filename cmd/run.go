package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/consent-session/internal"
	"github.com/spf13/cobra"
)

const runHelp = `Commands:
  start    Start a new consent flow
  status   Check the status of the current consent
  show     Show the current message and consent
  help     Show this help
  quit     Leave the session`

var promptStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("62")).
	Bold(true)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive consent session",
	Long: `Run an interactive consent session.

The backend greeting is fetched once on startup. Commands are then read from
stdin, one per line:

` + runHelp,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newClientEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx, stop := signalContext(cmd)
		defer stop()

		out := cmd.OutOrStdout()
		env.client.FetchGreeting(ctx)
		printSnapshot(out, env.client.Snapshot())

		return runLoop(ctx.Done(), cmd.InOrStdin(), out, func(line string) bool {
			switch line {
			case "start", "s":
				env.client.StartConsent(ctx)
				printSnapshot(out, env.client.Snapshot())
			case "status", "check", "c":
				env.client.CheckStatus(ctx)
				printSnapshot(out, env.client.Snapshot())
			case "show":
				printSnapshot(out, env.client.Snapshot())
			case "help", "?":
				fmt.Fprintln(out, runHelp)
			case "quit", "exit", "q":
				return false
			default:
				internal.PrintWarning(out, fmt.Sprintf("Unknown command %q (try 'help')", line))
			}
			return true
		})
	},
}

// runLoop feeds trimmed, non-empty input lines to handle until it returns
// false, input ends, or done is closed.
func runLoop(done <-chan struct{}, in io.Reader, out io.Writer, handle func(line string) bool) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(out, promptStyle.Render("consent> "))
		select {
		case <-done:
			fmt.Fprintln(out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				select {
				case err := <-scanErr:
					if err != nil {
						return fmt.Errorf("failed to read input: %w", err)
					}
				default:
				}
				return nil
			}
			line = strings.ToLower(strings.TrimSpace(line))
			if line == "" {
				continue
			}
			if !handle(line) {
				return nil
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
}
