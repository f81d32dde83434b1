// ABOUTME: Interfaces defining dependencies for the TUI package
// ABOUTME: Allows clean separation and easy testing with fakes

package tui

import (
	"context"

	"playlist-editor/playlist"
)

// PlaylistStore persists songs, metadata and the theme choice.
// *store.Repository implements it.
type PlaylistStore interface {
	LoadSongs(ctx context.Context, id string) ([]playlist.Song, bool, error)
	SaveSongs(ctx context.Context, id string, songs []playlist.Song) error
	LoadMeta(ctx context.Context, id string) (playlist.Meta, bool, error)
	SaveThemeMode(ctx context.Context, mode string) error
}

// WatchLoader reads the songs of a watched playlist file
type WatchLoader func(ctx context.Context, path string) ([]playlist.Song, error)
