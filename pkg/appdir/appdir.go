// Package appdir resolves where assetwatch keeps its config, logs and
// generated files
package appdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const appName = "assetwatch"

// Dirs holds the XDG-style locations used by the CLI
type Dirs struct {
	ConfigPath string // config.yaml
	StatePath  string // logs
	DataPath   string // generated reports such as charts
}

// New resolves the directories from the environment
func New() (*Dirs, error) {
	configPath, err := configFile()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config path: %w", err)
	}
	statePath, err := baseDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
	if err != nil {
		return nil, fmt.Errorf("failed to determine state directory: %w", err)
	}
	dataPath, err := baseDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
	if err != nil {
		return nil, fmt.Errorf("failed to determine data directory: %w", err)
	}

	return &Dirs{
		ConfigPath: configPath,
		StatePath:  statePath,
		DataPath:   dataPath,
	}, nil
}

// baseDir checks the XDG variable, then APPDATA on Windows, then the
// fallback under the home directory
func baseDir(xdgVar, homeFallback string) (string, error) {
	if dir := os.Getenv(xdgVar); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, homeFallback, appName), nil
}

func configFile() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.yaml"), nil
	}
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appName+"-config", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.yaml"), nil
}

// Initialize creates the state and data directories
func (d *Dirs) Initialize() error {
	for _, dir := range []string{d.StatePath, d.DataPath} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LogPath returns the default log file
func (d *Dirs) LogPath() string {
	return filepath.Join(d.StatePath, appName+".log")
}

// DataFile returns a path inside the data directory
func (d *Dirs) DataFile(name string) string {
	return filepath.Join(d.DataPath, name)
}
