// ABOUTME: Defines Song and playlist Meta types and metadata reading from audio files
// ABOUTME: Provides ID generation and tag lookup for title, artist and embedded cover art

package playlist

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/google/uuid"
)

// Song is a single playlist entry. Songs are immutable once created.
type Song struct {
	ID     string `json:"id"`               // Opaque unique identifier
	Name   string `json:"name"`             // Display name
	Artist string `json:"artist,omitempty"` // Optional artist
	Cover  string `json:"cover,omitempty"`  // Optional cover reference (URI or file path)
	Path   string `json:"path,omitempty"`   // Audio file location, empty for songs typed by hand
}

// Meta holds the descriptive data of a playlist, stored apart from its songs
type Meta struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Cover       string `json:"cover,omitempty"`
}

// pathNamespace scopes path-derived song IDs
var pathNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("playlist-editor:path"))

// NewSong creates a song with a fresh random identifier
func NewSong(name string) Song {
	return Song{
		ID:   uuid.NewString(),
		Name: strings.TrimSpace(name),
	}
}

// PathID returns the stable identifier for a song backed by the given file path.
// Re-importing the same file yields the same ID.
func PathID(path string) string {
	return uuid.NewSHA1(pathNamespace, []byte(path)).String()
}

// String returns a display form of the song
func (s Song) String() string {
	if s.Artist == "" {
		return s.Name
	}

	return s.Artist + " - " + s.Name
}

// GetSongMetadata reads tags from an audio file and builds a Song from them.
// The songPath can be absolute or relative. Relative paths are resolved against
// baseDir (typically the playlist's directory) but the Song keeps songPath as given.
func GetSongMetadata(songPath string, baseDir string) (Song, error) {
	fullPath := songPath
	if !filepath.IsAbs(songPath) && baseDir != "" {
		fullPath = filepath.Join(baseDir, songPath)
	}

	file, err := os.Open(fullPath)
	if err != nil {
		return Song{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		return Song{}, fmt.Errorf("failed to read metadata: %w", err)
	}

	name := strings.TrimSpace(metadata.Title())
	if name == "" {
		name = nameFromPath(songPath)
	}

	song := Song{
		ID:     PathID(songPath),
		Name:   name,
		Artist: strings.TrimSpace(metadata.Artist()),
		Path:   songPath,
	}

	// Embedded art is referenced through the audio file itself
	if metadata.Picture() != nil {
		song.Cover = songPath
	}

	return song, nil
}

// SongFromPath builds a Song from the file name alone, used when tags can't be read
func SongFromPath(songPath string) Song {
	return Song{
		ID:   PathID(songPath),
		Name: nameFromPath(songPath),
		Path: songPath,
	}
}

// nameFromPath strips directory and extension: "a/b/01 Song.mp3" -> "01 Song"
func nameFromPath(p string) string {
	base := filepath.Base(p)

	return strings.TrimSuffix(base, filepath.Ext(base))
}
