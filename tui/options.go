// ABOUTME: TUI run options and injected dependencies
// ABOUTME: Defines input parameters for running the playlist editor screen

package tui

import "playlist-editor/theme"

// Options contains configuration for running the TUI
type Options struct {
	PlaylistID string     // Playlist to edit
	DryRun     bool       // If true, don't save changes
	WatchPath  string     // Optional M3U8 file reloaded into the editor when it changes
	Theme      theme.Mode // Initial theme
	Accent     string     // Accent color for the custom theme
}

// Dependencies holds all external dependencies for the TUI
type Dependencies struct {
	Store     PlaylistStore
	LoadWatch WatchLoader
	Debugf    func(format string, args ...interface{})
}
