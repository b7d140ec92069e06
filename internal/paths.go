package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "consent-session"

// AppPaths holds the per-user locations used by the CLI
type AppPaths struct {
	ConfigDir string // holds config.yaml
	DataDir   string // holds the consent journal
}

// DetectAppPaths resolves the config and data directories for this OS
func DetectAppPaths() (AppPaths, error) {
	configBase, err := os.UserConfigDir()
	if err != nil {
		return AppPaths{}, fmt.Errorf("failed to get config directory: %w", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppPaths{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	var dataBase string
	switch runtime.GOOS {
	case "darwin":
		dataBase = filepath.Join(home, "Library", "Application Support")
	case "windows":
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			dataBase = local
		} else {
			dataBase = configBase
		}
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			dataBase = xdg
		} else {
			dataBase = filepath.Join(home, ".local", "share")
		}
	}

	return AppPaths{
		ConfigDir: filepath.Join(configBase, appDirName),
		DataDir:   filepath.Join(dataBase, appDirName),
	}, nil
}

// ConfigFile returns the default config file path
func (p AppPaths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// JournalFile returns the default journal path
func (p AppPaths) JournalFile() string {
	return filepath.Join(p.DataDir, "journal.db")
}

// ConfigFileExists checks if the default config file exists
func (p AppPaths) ConfigFileExists() bool {
	_, err := os.Stat(p.ConfigFile())
	return err == nil
}
