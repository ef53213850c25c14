package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
)

// Load builds the configuration for workingDir. Files are merged field by
// field in this order, later files winning: the global config, the data
// config (where preferences are written back) and the project's
// .vscroll.json. Missing files are skipped.
func Load(workingDir, dataDir string, debug bool) (*Config, error) {
	cfg := Defaults()
	cfg.workingDir = workingDir
	cfg.dataConfigDir = GlobalConfigData()

	for _, path := range configPaths(workingDir) {
		loaded, err := mergeFile(cfg, path)
		if err != nil {
			return nil, err
		}
		if loaded {
			cfg.sources = append(cfg.sources, path)
		}
	}

	// A file may null out a whole section.
	defaults := Defaults()
	if cfg.List == nil {
		cfg.List = defaults.List
	}
	if cfg.Scroll == nil {
		cfg.Scroll = defaults.Scroll
	}
	if cfg.Options == nil {
		cfg.Options = defaults.Options
	}
	if dataDir != "" {
		cfg.Options.DataDirectory = dataDir
	}
	if cfg.Options.DataDirectory == "" {
		cfg.Options.DataDirectory = defaultDataDirectory
	}
	if !filepath.IsAbs(cfg.Options.DataDirectory) {
		cfg.Options.DataDirectory = filepath.Join(workingDir, cfg.Options.DataDirectory)
	}
	if debug {
		cfg.Options.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	slog.Debug("Loaded config", "sources", cfg.sources, "data_directory", cfg.Options.DataDirectory)
	return cfg, nil
}

// Files returns every config file Load reads for this working directory,
// whether it exists or not.
func (c *Config) Files() []string {
	return configPaths(c.workingDir)
}

func configPaths(workingDir string) []string {
	return []string{
		GlobalConfig(),
		GlobalConfigData(),
		filepath.Join(workingDir, projectConfigName),
	}
}

func mergeFile(cfg *Config, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if len(data) == 0 {
		return false, nil
	}
	// Unmarshal into the already populated struct so that only the fields
	// present in the file override what was loaded before.
	if err := json.Unmarshal(data, cfg); err != nil {
		return false, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return true, nil
}

// GlobalConfig returns the path to the main config file for the user.
func GlobalConfig() string {
	if dir := os.Getenv("VSCROLL_GLOBAL_CONFIG"); dir != "" {
		return filepath.Join(dir, fmt.Sprintf("%s.json", appName))
	}
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, appName, fmt.Sprintf("%s.json", appName))
	}
	return filepath.Join(homeDir(), ".config", appName, fmt.Sprintf("%s.json", appName))
}

// GlobalConfigData returns the path to the data config file for the user.
// This is where preferences changed from the interface are stored.
func GlobalConfigData() string {
	if dir := os.Getenv("VSCROLL_GLOBAL_DATA"); dir != "" {
		return filepath.Join(dir, fmt.Sprintf("%s.json", appName))
	}
	xdgDataHome := os.Getenv("XDG_DATA_HOME")
	if xdgDataHome != "" {
		return filepath.Join(xdgDataHome, appName, fmt.Sprintf("%s.json", appName))
	}

	// return the path to the main data directory
	// for windows, it should be in `%LOCALAPPDATA%/vscroll/`
	// for linux and macOS, it should be in `$HOME/.local/share/vscroll/`
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Local")
		}
		return filepath.Join(localAppData, appName, fmt.Sprintf("%s.json", appName))
	}
	return filepath.Join(homeDir(), ".local", "share", appName, fmt.Sprintf("%s.json", appName))
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.Getenv("HOME")
	}
	return home
}
