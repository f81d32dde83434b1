// ABOUTME: File watching for a linked M3U8 playlist
// ABOUTME: Reloads the file when it is written and feeds the songs back as a SET action

package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// writeSettleDelay gives editors time to finish atomic writes before the file is re-read
const writeSettleDelay = 100 * time.Millisecond

// newPlaylistWatcher watches the directory holding path.
// Watching the directory keeps events flowing when editors replace the file by rename.
func newPlaylistWatcher(path string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()

		return nil, fmt.Errorf("failed to watch playlist file: %w", err)
	}

	return watcher, nil
}

// isPlaylistWrite reports whether event changed the contents of path
func isPlaylistWrite(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != filepath.Clean(path) {
		return false
	}

	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// waitForFileChange returns a command that waits for the next write to the watched file
func (m model) waitForFileChange() tea.Cmd {
	watcher, path, debugf := m.watcher, m.watchPath, m.debugf

	return func() tea.Msg {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}

				if isPlaylistWrite(event, path) {
					time.Sleep(writeSettleDelay)

					return fileChangeMsg{}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}

				// Log error but continue watching
				debugf("[WATCHER] Error: %v", err)
			}
		}
	}
}

// reloadWatched re-reads the watched file in the background
func (m model) reloadWatched() tea.Cmd {
	load, path := m.loadWatch, m.watchPath

	return func() tea.Msg {
		if load == nil {
			return watchReloadMsg{err: fmt.Errorf("no loader for %s", path)}
		}

		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()

		songs, err := load(ctx, path)

		return watchReloadMsg{songs: songs, err: err}
	}
}
