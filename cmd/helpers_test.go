package cmd

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/consent-session/internal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// isolateEnv keeps user config, data dirs and CONSENT_* variables out of
// command tests.
func isolateEnv(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	for _, key := range []string{internal.EnvAPIBase, internal.EnvTimeout, internal.EnvOpener, internal.EnvJournal, internal.EnvPollInterval} {
		t.Setenv(key, "")
	}
}

// resetFlags puts every flag of c and its subcommands back to its default
// so one Execute does not leak into the next.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs the root command with args and stdin and returns
// everything written to stdout and stderr.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	var in io.Reader = strings.NewReader(stdin)
	rootCmd.SetIn(in)

	err := rootCmd.Execute()
	return out.String(), err
}

// backendArgs points a command at the fake backend and a temp journal
func backendArgs(baseURL, journal string, args ...string) []string {
	return append([]string{"--api-base", baseURL, "--journal", journal, "--opener", internal.OpenerPrint}, args...)
}

func assertContains(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(output, w) {
			t.Errorf("output missing %q\n--- output ---\n%s", w, output)
		}
	}
}
