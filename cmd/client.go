package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/iksnae/consent-session/internal"
	"github.com/spf13/cobra"
)

// clientEnv bundles a client with the journal it records into.
type clientEnv struct {
	api     *internal.API
	client  *internal.Client
	journal *internal.Journal
}

func (e *clientEnv) Close() {
	if e.journal == nil {
		return
	}
	if err := e.journal.Close(); err != nil {
		internal.LogWarn("Failed to close journal: %v", err)
	}
}

// newClientEnv builds a client from the resolved config. The journal is
// optional: failing to open it only costs the history.
func newClientEnv(cmd *cobra.Command, opts ...internal.ClientOption) (*clientEnv, error) {
	out := cmd.OutOrStdout()
	opener, err := internal.NewOpener(cfg.Opener, out)
	if err != nil {
		return nil, err
	}

	env := &clientEnv{
		api: internal.NewAPI(cfg.APIBase, internal.WithTimeout(cfg.Timeout)),
	}
	clientOpts := []internal.ClientOption{internal.WithOpener(opener)}

	if cfg.Journal != "" {
		journal, err := internal.OpenJournal(cfg.Journal)
		if err != nil {
			internal.LogWarn("Consent journal unavailable: %v", err)
		} else {
			env.journal = journal
			clientOpts = append(clientOpts, internal.WithRecorder(journal))
		}
	}

	env.client = internal.NewClient(env.api, append(clientOpts, opts...)...)
	return env, nil
}

// openJournal opens the configured journal for read-only style commands.
func openJournal() (*internal.Journal, error) {
	if cfg.Journal == "" {
		return nil, fmt.Errorf("consent journal is disabled")
	}
	return internal.OpenJournal(cfg.Journal)
}

// signalContext cancels on ctrl-c or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// printSnapshot renders the message as a heading, then the consent id and
// status when known.
func printSnapshot(w io.Writer, snap internal.Snapshot) {
	if snap.HasMessage {
		fmt.Fprintln(w, messageStyle.Render(snap.Message))
	}
	if id, ok := internal.SessionID(snap.Session); ok {
		fmt.Fprintf(w, "Consent ID: %s\n", idStyle.Render(id))
	}
	if status, ok := internal.SessionStatus(snap.Session); ok {
		fmt.Fprintf(w, "Status: %s\n", statusStyle(status).Render(status))
	}
}
