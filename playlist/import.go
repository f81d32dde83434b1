// ABOUTME: Builds songs from an M3U8 file by reading audio tags in parallel
// ABOUTME: Falls back to #EXTINF details or the file name when tags can't be read

package playlist

import (
	"context"
	"fmt"
	"path/filepath"

	"playlist-editor/pool"
)

// ImportResult holds songs built from a playlist file
type ImportResult struct {
	Songs      []Song
	Untagged   int // Entries whose tags could not be read
	Duplicates int // Entries skipped because the path was already seen
}

// ImportPlaylist reads an M3U8 file and builds one Song per distinct path.
// Tags are read concurrently with up to workers goroutines (<= 0 means one per CPU).
// Relative paths are resolved against the playlist's directory.
func ImportPlaylist(ctx context.Context, path string, workers int) (ImportResult, error) {
	entries, err := ReadPlaylist(path)
	if err != nil {
		return ImportResult{}, err
	}

	var result ImportResult

	seen := make(map[string]bool, len(entries))
	unique := entries[:0:0]

	for _, entry := range entries {
		if seen[entry.Path] {
			result.Duplicates++

			continue
		}

		seen[entry.Path] = true
		unique = append(unique, entry)
	}

	baseDir := filepath.Dir(path)
	songs := make([]Song, len(unique))
	tagged := make([]bool, len(unique))

	err = pool.ForEach(ctx, len(unique), workers, func(i int) {
		song, err := GetSongMetadata(unique[i].Path, baseDir)
		if err != nil {
			songs[i] = songFromEntry(unique[i])

			return
		}

		songs[i] = song
		tagged[i] = true
	})
	if err != nil {
		return ImportResult{}, fmt.Errorf("import cancelled: %w", err)
	}

	for _, ok := range tagged {
		if !ok {
			result.Untagged++
		}
	}

	result.Songs = songs

	return result, nil
}

// songFromEntry builds a Song from the M3U8 line itself
func songFromEntry(entry Entry) Song {
	song := SongFromPath(entry.Path)

	if entry.Name != "" {
		song.Name = entry.Name
		song.Artist = entry.Artist
	}

	return song
}
