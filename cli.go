// ABOUTME: Non-interactive commands for listing, importing, exporting and settings
// ABOUTME: Edits go through the history reducer so CLI and TUI share the same semantics

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"playlist-editor/config"
	"playlist-editor/history"
	"playlist-editor/playlist"
	"playlist-editor/profile"
	"playlist-editor/store"
	"playlist-editor/theme"
)

var errUsage = errors.New("invalid arguments")

// runList prints a table of every stored playlist
func runList(ctx context.Context, w io.Writer, repo *store.Repository) error {
	summaries, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list playlists: %w", err)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(w, "No playlists yet. Create one with: playlist-editor edit <id>")

		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, "ID\tName\tSongs\tDescription"); err != nil {
		log.Printf("Warning: failed to write header: %v", err)
	}

	if _, err := fmt.Fprintln(tw, "--\t----\t-----\t-----------"); err != nil {
		log.Printf("Warning: failed to write separator: %v", err)
	}

	for _, s := range summaries {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			s.ID,
			truncate(orDash(s.Meta.Name), 30),
			formatSongCount(s.SongCount),
			truncate(orDash(s.Meta.Description), 40),
		); err != nil {
			log.Printf("Warning: failed to write playlist %s: %v", s.ID, err)
		}
	}

	if err := tw.Flush(); err != nil {
		log.Printf("Warning: failed to flush output: %v", err)
	}

	return nil
}

// runImport appends the songs of an M3U8 file to playlist id.
// Songs already in the playlist (same path) are skipped.
func runImport(ctx context.Context, w io.Writer, repo *store.Repository, s settings, id, path string) error {
	if err := store.ValidateID(id); err != nil {
		return err
	}

	existing, _, err := repo.LoadSongs(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load playlist: %w", err)
	}

	fmt.Fprintf(w, "Reading playlist: %s\n", path)

	result, err := playlist.ImportPlaylist(ctx, path, s.ImportWorkers)
	if err != nil {
		return fmt.Errorf("failed to import playlist: %w", err)
	}

	state := history.Reduce(history.State{}, history.SetSongs(existing))

	present := make(map[string]bool, len(existing))
	for _, song := range existing {
		present[song.ID] = true
	}

	added, skipped := 0, 0

	for _, song := range result.Songs {
		if present[song.ID] {
			skipped++

			continue
		}

		state = history.Reduce(state, history.AddSong(song))
		added++

		debugf("[IMPORT] Added %s", song)
	}

	fmt.Fprintln(w, formatImportSummary(added, result, skipped))

	if s.DryRun {
		fmt.Fprintln(w, "--dry-run mode: playlist not modified")

		return nil
	}

	if added == 0 {
		return nil
	}

	if err := repo.SaveSongs(ctx, id, state.Songs); err != nil {
		return fmt.Errorf("failed to save playlist: %w", err)
	}

	fmt.Fprintf(w, "Playlist %s now has %s\n", id, formatSongCount(len(state.Songs)))

	return nil
}

// runExport writes playlist id to an extended M3U8 file
func runExport(ctx context.Context, w io.Writer, repo *store.Repository, s settings, id, path string) error {
	songs, ok, err := repo.LoadSongs(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load playlist: %w", err)
	}

	if !ok {
		return fmt.Errorf("playlist %q not found", id)
	}

	if s.DryRun {
		fmt.Fprintf(w, "--dry-run mode: would write %s to %s\n", formatSongCount(len(songs)), path)

		return nil
	}

	written, err := playlist.WritePlaylist(path, songs)
	if err != nil {
		return fmt.Errorf("failed to write playlist: %w", err)
	}

	fmt.Fprintf(w, "Wrote %s to %s\n", formatSongCount(written), path)

	if skipped := len(songs) - written; skipped > 0 {
		fmt.Fprintf(w, "Skipped %s without a file path\n", formatSongCount(skipped))
	}

	return nil
}

// runMeta shows or sets the name, description and cover of playlist id
func runMeta(ctx context.Context, w io.Writer, repo *store.Repository, s settings, id string, args []string) error {
	if len(args) == 0 {
		meta, _, err := repo.LoadMeta(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load metadata: %w", err)
		}

		fmt.Fprintf(w, "Name:        %s\nDescription: %s\nCover:       %s\n",
			orDash(meta.Name), orDash(meta.Description), orDash(meta.Cover))

		return nil
	}

	if len(args) > 3 {
		return fmt.Errorf("%w: meta <id> [name] [description] [cover]", errUsage)
	}

	meta := playlist.Meta{Name: args[0]}
	if len(args) > 1 {
		meta.Description = args[1]
	}

	if len(args) > 2 {
		meta.Cover = args[2]
	}

	if s.DryRun {
		fmt.Fprintln(w, "--dry-run mode: metadata not modified")

		return nil
	}

	if err := repo.SaveMeta(ctx, id, meta); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	fmt.Fprintf(w, "Updated %s\n", id)

	return nil
}

// runProfile shows the stored profile, or validates and saves a new one
func runProfile(ctx context.Context, w io.Writer, repo *store.Repository, s settings, args []string) error {
	if len(args) == 0 {
		p, _, err := profile.Load(ctx, repo)
		if err != nil {
			return err
		}

		avatar := p.Avatar
		if avatar == "" {
			avatar = orDash(p.AvatarBg)
		}

		fmt.Fprintf(w, "Username: %s\nEmail:    %s\nAvatar:   %s\n", p.DisplayName(), orDash(p.Email), avatar)

		return nil
	}

	if len(args) < 2 || len(args) > 3 {
		return fmt.Errorf("%w: profile [<username> <email> [avatar]]", errUsage)
	}

	p := profile.Profile{Username: args[0], Email: args[1]}
	if len(args) == 3 {
		p.Avatar = args[2]
	}

	if errs := p.Validate(); errs != nil {
		for _, field := range []string{"username", "email"} {
			if msg, ok := errs[field]; ok {
				fmt.Fprintf(w, "%s: %s\n", field, msg)
			}
		}

		return profile.ErrInvalidProfile
	}

	if s.DryRun {
		fmt.Fprintln(w, "--dry-run mode: profile not modified")

		return nil
	}

	if err := profile.Save(ctx, repo, p); err != nil {
		return err
	}

	fmt.Fprintf(w, "Saved profile for %s\n", p.DisplayName())

	return nil
}

// runTheme shows or sets the persisted theme mode
func runTheme(ctx context.Context, w io.Writer, repo *store.Repository, s settings, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(w, effectiveTheme(ctx, repo, s.Theme))

		return nil
	}

	mode, err := theme.ParseMode(args[0])
	if err != nil {
		return err
	}

	if s.DryRun {
		fmt.Fprintln(w, "--dry-run mode: theme not modified")

		return nil
	}

	if err := repo.SaveThemeMode(ctx, string(mode)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}

	fmt.Fprintf(w, "Theme set to %s\n", mode)

	return nil
}

// runInitConfig writes the default settings to the config file unless one already exists
func runInitConfig(w io.Writer, s settings) error {
	if _, err := os.Stat(s.ConfigPath); err == nil {
		fmt.Fprintf(w, "Config already exists: %s\n", s.ConfigPath)

		return nil
	}

	if s.DryRun {
		fmt.Fprintf(w, "--dry-run mode: would write %s\n", s.ConfigPath)

		return nil
	}

	if err := config.SaveConfig(s.ConfigPath, config.DefaultConfig()); err != nil {
		return err
	}

	fmt.Fprintf(w, "Wrote default config to %s\n", s.ConfigPath)

	return nil
}
