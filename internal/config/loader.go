package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// Load reads and merges configuration from global and project paths.
// Order of precedence (highest to lowest): project config, global config, defaults.
// Missing files are not errors; malformed JSON and invalid values are.
func Load(globalPath, projectPath string) (*TaskerConfig, error) {
	cfg := DefaultConfig()

	if globalPath != "" {
		if err := mergeConfigFile(cfg, globalPath); err != nil {
			return nil, fmt.Errorf("loading global config: %w", err)
		}
	}

	if projectPath != "" {
		if err := mergeConfigFile(cfg, projectPath); err != nil {
			return nil, fmt.Errorf("loading project config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPaths returns the conventional config locations.
// Global: ~/.tasker/config.json
// Project: .tasker/config.json (relative to cwd)
func DefaultPaths() (globalPath, projectPath string, err error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".tasker", "config.json"), filepath.Join(".tasker", "config.json"), nil
}

// LoadDefault loads configuration from the conventional paths.
func LoadDefault() (*TaskerConfig, error) {
	globalPath, projectPath, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	return Load(globalPath, projectPath)
}

// Validate checks every field against its allowed values.
func (c *TaskerConfig) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// mergeConfigFile overlays the non-empty fields of a JSON config file onto base.
func mergeConfigFile(base *TaskerConfig, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var loaded TaskerConfig
	if err := json.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if loaded.Store.Backend != "" {
		base.Store.Backend = loaded.Store.Backend
	}
	if loaded.Store.Path != "" {
		base.Store.Path = loaded.Store.Path
	}
	if loaded.Log.Level != "" {
		base.Log.Level = loaded.Log.Level
	}
	if loaded.Log.File != "" {
		base.Log.File = loaded.Log.File
	}
	if loaded.List.DefaultOrder != "" {
		base.List.DefaultOrder = loaded.List.DefaultOrder
	}

	return nil
}
