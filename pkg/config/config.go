// Package config resolves application settings from a JSON file, the
// environment, and built-in defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/malvik/dagbok/pkg/store"
)

// Config holds the application settings.
type Config struct {
	// DatabasePath is where the calendar database file lives.
	DatabasePath string `json:"database_path,omitempty"`
}

// Load resolves the configuration with the following precedence (highest to
// lowest): environment variables, the JSON config file at path (optional,
// pass "" to skip), defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if dbPath := os.Getenv("DAGBOK_DATABASE_PATH"); dbPath != "" {
		cfg.DatabasePath = dbPath
	}

	if cfg.DatabasePath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolving user config dir: %w", err)
		}
		cfg.DatabasePath = filepath.Join(dir, "dagbok", store.DefaultFileName)
	}

	return &cfg, nil
}
