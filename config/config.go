// ABOUTME: Configuration management for the playlist editor
// ABOUTME: Handles loading/saving TOML config files with fallback to defaults

// Package config loads and saves the editor's TOML settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

const localConfigFile = "./playlist-editor.toml"

// Config holds user-tunable settings
type Config struct {
	// Storage
	DatabasePath string `toml:"database_path"` // Empty means the XDG data directory

	// Appearance; the theme mode stored in the database takes precedence once set
	Theme       string `toml:"theme"`        // light, dark or custom
	AccentColor string `toml:"accent_color"` // Used by the custom theme

	// Import
	ImportWorkers int `toml:"import_workers"` // Parallel tag readers, 0 = one per CPU

	// Diagnostics
	DebugLogPath string `toml:"debug_log_path"`
}

// GetConfigPath returns the default config file path
// First tries current directory, then falls back to $XDG_CONFIG_HOME/playlist-editor/config.toml
func GetConfigPath() string {
	if _, err := os.Stat(localConfigFile); err == nil {
		return localConfigFile
	}

	return filepath.Join(xdg.ConfigHome, "playlist-editor", "config.toml")
}

// LoadConfig loads configuration from a TOML file
// If the file doesn't exist, returns default config. Keys missing from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}

		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves configuration to a TOML file
func SaveConfig(path string, config Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", err)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		DatabasePath:  "",
		Theme:         "dark",
		AccentColor:   "#1DB954",
		ImportWorkers: 0,
		DebugLogPath:  "playlist-editor-debug.log",
	}
}
