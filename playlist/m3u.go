// ABOUTME: Handles reading and writing extended M3U8 playlist files
// ABOUTME: Export writes #EXTINF lines so songs survive a round trip without tags

// Package playlist holds the song and playlist metadata types, reads and writes
// M3U8 files, and extracts song details directly from audio file tags.
package playlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

const (
	m3uHeader       = "#EXTM3U"
	extinfPrefix    = "#EXTINF:"
	artistSeparator = " - "
)

// Entry is one path line of an M3U8 file with the #EXTINF details preceding it
type Entry struct {
	Path   string
	Name   string // Empty when the entry had no #EXTINF line
	Artist string
}

// ReadPlaylist reads an M3U8 playlist file and returns its entries in order
func ReadPlaylist(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open playlist: %w", err)
	}

	defer func() {
		_ = file.Close() // Explicitly ignore error for read-only file
	}()

	var (
		entries []Entry
		pending Entry
	)

	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		if strings.HasPrefix(line, extinfPrefix) {
			pending.Artist, pending.Name = parseExtinf(line)

			continue
		}

		// Other directives and comments
		if strings.HasPrefix(line, "#") {
			continue
		}

		pending.Path = line
		entries = append(entries, pending)
		pending = Entry{}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading playlist: %w", err)
	}

	return entries, nil
}

// WritePlaylist writes songs to an extended M3U8 file.
// Songs without a Path cannot be referenced from M3U8 and are skipped.
// Creates a backup (.bak) of the existing file before overwriting.
// Returns the number of songs written.
func WritePlaylist(path string, songs []Song) (written int, err error) {
	if _, statErr := os.Stat(path); statErr == nil {
		backupPath := path + ".bak"
		if err := os.Rename(path, backupPath); err != nil {
			return 0, fmt.Errorf("failed to create backup: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create playlist: %w", err)
	}

	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close playlist file: %w", closeErr)
		}
	}()

	writer := bufio.NewWriter(file)

	if _, err := writer.WriteString(m3uHeader + "\n"); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	for _, song := range songs {
		if song.Path == "" {
			continue
		}

		if _, err := fmt.Fprintf(writer, "%s-1,%s\n%s\n", extinfPrefix, extinfTitle(song), song.Path); err != nil {
			return written, fmt.Errorf("failed to write song: %w", err)
		}

		written++
	}

	if err := writer.Flush(); err != nil {
		return written, fmt.Errorf("failed to flush writer: %w", err)
	}

	return written, nil
}

// extinfTitle formats the display part of an EXTINF line. A song without an artist
// whose name contains the separator gets an empty artist field so it reads back unchanged.
func extinfTitle(song Song) string {
	if song.Artist == "" && strings.Contains(song.Name, artistSeparator) {
		return artistSeparator + song.Name
	}

	return song.String()
}

// parseExtinf extracts artist and title from "#EXTINF:<secs>,<artist> - <title>".
// Only the first separator splits, so titles keep any later " - ".
func parseExtinf(line string) (artist, title string) {
	_, info, found := strings.Cut(line, ",")
	if !found {
		return "", ""
	}

	// Empty artist field, as written by extinfTitle
	if t, ok := strings.CutPrefix(info, artistSeparator); ok {
		return "", strings.TrimSpace(t)
	}

	info = strings.TrimSpace(info)

	if a, t, ok := strings.Cut(info, artistSeparator); ok {
		return strings.TrimSpace(a), strings.TrimSpace(t)
	}

	return "", info
}
