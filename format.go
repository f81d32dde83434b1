// ABOUTME: Human-readable formatting for command output
// ABOUTME: Counts, import summaries and table cells for the list command

package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"playlist-editor/playlist"
)

// formatSongCount renders n with thousands separators and the right plural, e.g. "1,204 songs"
func formatSongCount(n int) string {
	return humanize.Comma(int64(n)) + " " + english.PluralWord(n, "song", "")
}

// formatImportSummary describes what an import added and skipped
func formatImportSummary(added int, result playlist.ImportResult, present int) string {
	parts := []string{"Added " + formatSongCount(added)}

	if result.Duplicates > 0 {
		parts = append(parts, fmt.Sprintf("%s skipped as duplicate paths", humanize.Comma(int64(result.Duplicates))))
	}

	if present > 0 {
		parts = append(parts, fmt.Sprintf("%s already in the playlist", humanize.Comma(int64(present))))
	}

	if result.Untagged > 0 {
		parts = append(parts, fmt.Sprintf("%s without readable tags", humanize.Comma(int64(result.Untagged))))
	}

	return strings.Join(parts, ", ")
}

// orDash returns s, or "-" when s is blank, so table columns stay aligned
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}

	return s
}
