// ABOUTME: Resolves run settings from the TOML config file and command-line flags
// ABOUTME: Flags win over the config file, the stored theme wins over the configured one

package main

import (
	"context"
	"fmt"

	"playlist-editor/config"
	"playlist-editor/store"
	"playlist-editor/theme"
)

// RunOptions contains command-line options for all commands
type RunOptions struct {
	ConfigPath string
	DBPath     string
	DryRun     bool
	Debug      bool
	WatchPath  string
}

// settings are the effective values after merging flags over the config file
type settings struct {
	ConfigPath    string // File the settings were read from, which may not exist
	DBPath        string
	DryRun        bool
	WatchPath     string
	Theme         theme.Mode
	Accent        string
	ImportWorkers int
	DebugLogPath  string
	DebugLog      bool
}

// loadSettings reads the config file named by opts (or the default location) and applies flags on top
func loadSettings(opts RunOptions) (settings, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.GetConfigPath()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return settings{}, err
	}

	debugf("[CONFIG] Loaded %s", path)

	s, err := mergeSettings(cfg, opts)
	if err != nil {
		return settings{}, err
	}

	s.ConfigPath = path

	return s, nil
}

// mergeSettings applies flag values over cfg
func mergeSettings(cfg config.Config, opts RunOptions) (settings, error) {
	mode, err := theme.ParseMode(cfg.Theme)
	if err != nil {
		return settings{}, fmt.Errorf("config: %w", err)
	}

	if cfg.AccentColor != "" && !theme.ValidAccent(cfg.AccentColor) {
		return settings{}, fmt.Errorf("config: invalid accent color %q, want #RRGGBB", cfg.AccentColor)
	}

	s := settings{
		DBPath:        cfg.DatabasePath,
		DryRun:        opts.DryRun,
		WatchPath:     opts.WatchPath,
		Theme:         mode,
		Accent:        cfg.AccentColor,
		ImportWorkers: cfg.ImportWorkers,
		DebugLogPath:  cfg.DebugLogPath,
		DebugLog:      opts.Debug,
	}

	if opts.DBPath != "" {
		s.DBPath = opts.DBPath
	}

	if s.DebugLogPath == "" {
		s.DebugLogPath = config.DefaultConfig().DebugLogPath
	}

	return s, nil
}

// effectiveTheme returns the theme stored in the database, falling back to the configured one
func effectiveTheme(ctx context.Context, repo *store.Repository, fallback theme.Mode) theme.Mode {
	stored, ok, err := repo.LoadThemeMode(ctx)
	if err != nil {
		debugf("[CONFIG] Failed to read stored theme: %v", err)

		return fallback
	}

	if !ok {
		return fallback
	}

	mode, err := theme.ParseMode(stored)
	if err != nil {
		debugf("[CONFIG] Ignoring stored theme: %v", err)

		return fallback
	}

	return mode
}
