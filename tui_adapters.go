// ABOUTME: Adapter implementations for TUI dependencies
// ABOUTME: Bridges the store, importer and debug log to the tui package contracts

package main

import (
	"context"
	"fmt"

	"playlist-editor/playlist"
	"playlist-editor/store"
	"playlist-editor/tui"
)

// watchLoader adapts playlist.ImportPlaylist to tui.WatchLoader
func watchLoader(workers int) tui.WatchLoader {
	return func(ctx context.Context, path string) ([]playlist.Song, error) {
		result, err := playlist.ImportPlaylist(ctx, path, workers)
		if err != nil {
			return nil, fmt.Errorf("failed to reload %s: %w", path, err)
		}

		debugf("[WATCH] Reloaded %d songs from %s (%d duplicates, %d untagged)",
			len(result.Songs), path, result.Duplicates, result.Untagged)

		return result.Songs, nil
	}
}

// tuiDependencies wires the editor screen to repo and the debug log
func tuiDependencies(repo *store.Repository, s settings) tui.Dependencies {
	return tui.Dependencies{
		Store:     repo,
		LoadWatch: watchLoader(s.ImportWorkers),
		Debugf:    debugf,
	}
}
