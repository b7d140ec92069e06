package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by LoadConfig
const (
	EnvAPIBase      = "CONSENT_API_BASE"
	EnvTimeout      = "CONSENT_TIMEOUT"
	EnvOpener       = "CONSENT_OPENER"
	EnvJournal      = "CONSENT_JOURNAL"
	EnvPollInterval = "CONSENT_POLL_INTERVAL"
)

const (
	DefaultAPIBase      = "http://localhost:8080"
	DefaultPollInterval = 3 * time.Second
)

// Config is the resolved CLI configuration
type Config struct {
	APIBase      string        `yaml:"api_base"`
	Timeout      time.Duration `yaml:"timeout"`
	Opener       string        `yaml:"opener"`
	Journal      string        `yaml:"journal"`
	PollInterval time.Duration `yaml:"poll_interval"`

	// Source is the config file that was read, if any
	Source string `yaml:"-"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	cfg := &Config{
		APIBase:      DefaultAPIBase,
		Timeout:      DefaultTimeout,
		Opener:       OpenerBrowser,
		PollInterval: DefaultPollInterval,
	}
	if paths, err := DetectAppPaths(); err == nil {
		cfg.Journal = paths.JournalFile()
	}
	return cfg
}

// LoadConfig resolves defaults, then the YAML file at path (or the default
// location when path is empty), then .env, then the environment.
// An explicit path must exist; the default one is optional.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		if paths, err := DetectAppPaths(); err == nil {
			path = paths.ConfigFile()
		}
	}
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDotEnv loads the given .env files into the process environment
// without overriding variables that are already set. Missing files are
// skipped.
func LoadDotEnv(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return &ConfigError{Key: file, Err: err}
		}
		LogDebug("Loaded environment from %s", file)
	}
	return nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConfigError{Key: path, Err: err}
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return &ConfigError{Key: path, Err: fmt.Errorf("failed to unmarshal config: %w", err)}
	}
	c.Source = path
	LogDebug("Loaded config from %s", path)
	return nil
}

func (c *Config) mergeEnv() error {
	if v := os.Getenv(EnvAPIBase); v != "" {
		c.APIBase = v
	}
	if v := os.Getenv(EnvOpener); v != "" {
		c.Opener = v
	}
	if v := os.Getenv(EnvJournal); v != "" {
		c.Journal = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &ConfigError{Key: EnvTimeout, Err: err}
		}
		c.Timeout = d
	}
	if v := os.Getenv(EnvPollInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &ConfigError{Key: EnvPollInterval, Err: err}
		}
		c.PollInterval = d
	}
	return nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	c.APIBase = strings.TrimRight(strings.TrimSpace(c.APIBase), "/")
	if c.APIBase == "" {
		return &ConfigError{Key: "api_base", Err: errors.New("must not be empty")}
	}
	u, err := url.Parse(c.APIBase)
	if err != nil {
		return &ConfigError{Key: "api_base", Err: err}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ConfigError{Key: "api_base", Err: fmt.Errorf("must be an absolute http(s) URL, got %q", c.APIBase)}
	}
	if c.Timeout <= 0 {
		return &ConfigError{Key: "timeout", Err: fmt.Errorf("must be positive, got %s", c.Timeout)}
	}
	if c.PollInterval <= 0 {
		return &ConfigError{Key: "poll_interval", Err: fmt.Errorf("must be positive, got %s", c.PollInterval)}
	}
	switch c.Opener {
	case OpenerBrowser, OpenerClipboard, OpenerPrint, OpenerNone:
	default:
		return &ConfigError{Key: "opener", Err: fmt.Errorf("unsupported opener %q (supported: browser, clipboard, print, none)", c.Opener)}
	}
	return nil
}
