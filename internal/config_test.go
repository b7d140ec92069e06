package internal

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/iksnae/consent-session/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateConfig points the user directories at a temp home and clears the
// environment variables LoadConfig reads.
func isolateConfig(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	for _, key := range []string{EnvAPIBase, EnvTimeout, EnvOpener, EnvJournal, EnvPollInterval} {
		t.Setenv(key, "")
	}
	return home
}

func TestLoadConfig_Defaults(t *testing.T) {
	home := isolateConfig(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBase, cfg.APIBase)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, OpenerBrowser, cfg.Opener)
	assert.Equal(t, DefaultPollInterval, cfg.PollInterval)
	assert.Equal(t, filepath.Join(home, ".local", "share", "consent-session", "journal.db"), cfg.Journal)
	assert.Empty(t, cfg.Source)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_File(t *testing.T) {
	isolateConfig(t)
	path := testutil.WriteConfig(t, `
api_base: https://consent.example.com/
timeout: 2s
opener: print
poll_interval: 500ms
journal: /tmp/consents.db
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://consent.example.com/", cfg.APIBase)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, OpenerPrint, cfg.Opener)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, "/tmp/consents.db", cfg.Journal)
	assert.Equal(t, path, cfg.Source)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://consent.example.com", cfg.APIBase, "Validate trims the trailing slash")
}

func TestLoadConfig_DefaultLocation(t *testing.T) {
	home := isolateConfig(t)
	dir := filepath.Join(home, ".config", "consent-session")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("opener: none\n"), 0644))

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, OpenerNone, cfg.Opener)
	assert.Equal(t, DefaultAPIBase, cfg.APIBase)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	isolateConfig(t)
	path := testutil.WriteConfig(t, "api_base: https://file.example\ntimeout: 2s\n")
	t.Setenv(EnvAPIBase, "https://env.example")
	t.Setenv(EnvTimeout, "750ms")
	t.Setenv(EnvOpener, OpenerClipboard)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example", cfg.APIBase)
	assert.Equal(t, 750*time.Millisecond, cfg.Timeout)
	assert.Equal(t, OpenerClipboard, cfg.Opener)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantKey string
	}{
		{
			name:    "explicit file missing",
			setup:   func(t *testing.T) string { return filepath.Join(t.TempDir(), "missing.yaml") },
			wantKey: "missing.yaml",
		},
		{
			name:    "invalid yaml",
			setup:   func(t *testing.T) string { return testutil.WriteConfig(t, "api_base: [unterminated\n") },
			wantKey: "config.yaml",
		},
		{
			name: "invalid env duration",
			setup: func(t *testing.T) string {
				t.Setenv(EnvTimeout, "soon")
				return ""
			},
			wantKey: EnvTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfig(t)
			path := tt.setup(t)

			_, err := LoadConfig(path)
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "want ConfigError, got %v", err)
			assert.Contains(t, cfgErr.Key, tt.wantKey)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	isolateConfig(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("CONSENT_TEST_DOTENV=from-file\n"), 0644))
	t.Cleanup(func() { _ = os.Unsetenv("CONSENT_TEST_DOTENV") })

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env"), envFile))
	assert.Equal(t, "from-file", os.Getenv("CONSENT_TEST_DOTENV"))
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{APIBase: "http://localhost:8080", Timeout: time.Second, Opener: OpenerNone, PollInterval: time.Second}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantKey string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "empty base", mutate: func(c *Config) { c.APIBase = " " }, wantKey: "api_base"},
		{name: "relative base", mutate: func(c *Config) { c.APIBase = "/api" }, wantKey: "api_base"},
		{name: "ftp base", mutate: func(c *Config) { c.APIBase = "ftp://example.com" }, wantKey: "api_base"},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantKey: "timeout"},
		{name: "negative poll", mutate: func(c *Config) { c.PollInterval = -time.Second }, wantKey: "poll_interval"},
		{name: "unknown opener", mutate: func(c *Config) { c.Opener = "telepathy" }, wantKey: "opener"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantKey == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantKey, cfgErr.Key)
		})
	}
}
