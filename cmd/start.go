package cmd

import (
	"fmt"

	"github.com/iksnae/consent-session/internal"
	"github.com/spf13/cobra"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new consent flow",
	Long: `Ask the backend to initiate a consent and open the approval link.

The approval URL is handed to the configured opener (browser, clipboard,
print or none). The new consent is recorded in the journal so that
'consent-session status' can check it later.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newClientEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		_ = internal.ShowProgress(ctx, "Initiating consent", func() error {
			env.client.StartConsent(ctx)
			return env.client.LastError()
		})

		out := cmd.OutOrStdout()
		printSnapshot(out, env.client.Snapshot())

		if err := env.client.LastError(); err != nil {
			if internal.IsMissingField(err) {
				internal.PrintWarning(out, "Backend did not return a consent id")
				return nil
			}
			return fmt.Errorf("failed to start consent: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
