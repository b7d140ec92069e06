package cmd

import (
	"errors"
	"fmt"

	"github.com/iksnae/consent-session/internal"
	"github.com/spf13/cobra"
)

// helloCmd represents the hello command
var helloCmd = &cobra.Command{
	Use:   "hello",
	Short: "Fetch the backend greeting",
	Long: `Fetch the greeting from the consent backend and print it.

Useful as a quick check that the configured backend is reachable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newClientEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		_ = internal.ShowProgress(ctx, "Contacting "+env.api.BaseURL(), func() error {
			env.client.FetchGreeting(ctx)
			return env.client.LastError()
		})

		snap := env.client.Snapshot()
		if !snap.HasMessage {
			if err := env.client.LastError(); err != nil {
				return fmt.Errorf("no greeting from %s: %w", env.api.BaseURL(), err)
			}
			return errors.New("no greeting from " + env.api.BaseURL())
		}
		printSnapshot(cmd.OutOrStdout(), snap)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(helloCmd)
}
