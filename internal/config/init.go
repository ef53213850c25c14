package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var ErrProjectConfigExists = errors.New("project config already exists")

// ProjectConfigPath returns where the project config of dir lives.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, projectConfigName)
}

func ProjectConfigExists(dir string) (bool, error) {
	_, err := os.Stat(ProjectConfigPath(dir))
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to check project config: %w", err)
	}
	return false, nil
}

// InitProject writes cfg's list and scroll sections to dir/.vscroll.json.
// An existing file is only replaced when force is set.
func InitProject(dir string, cfg *Config, force bool) (string, error) {
	if cfg == nil {
		return "", fmt.Errorf("config not loaded")
	}
	exists, err := ProjectConfigExists(dir)
	if err != nil {
		return "", err
	}
	if exists && !force {
		return "", ErrProjectConfigExists
	}

	project := Config{
		List:   cfg.List,
		Scroll: cfg.Scroll,
	}
	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode project config: %w", err)
	}

	path := ProjectConfigPath(dir)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write project config: %w", err)
	}
	return path, nil
}
