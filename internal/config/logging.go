package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`      // debug, info, warn, error
	DebugMode  bool            `yaml:"debug_mode"` // Master toggle - false = no logging
	Dir        string          `yaml:"dir"`        // Defaults to the user cache dir
	File       string          `yaml:"file"`
	MaxSizeMB  int             `yaml:"max_size_mb"`
	MaxBackups int             `yaml:"max_backups"`
	Categories map[string]bool `yaml:"categories"` // Per-category toggles
}

// LogDir returns the configured directory or ~/.cache/voltdesk/logs.
func (c *LoggingConfig) LogDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".voltdesk", "logs")
	}
	return filepath.Join(dir, "voltdesk", "logs")
}

// Validate checks the level name.
func (c *LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "", "debug", "info", "warn", "warning", "error":
		return nil
	}
	return fmt.Errorf("invalid logging.level: %s", c.Level)
}
