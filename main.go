// ABOUTME: Entry point for playlist-editor application
// ABOUTME: Handles command-line parsing and routing to the CLI commands or the TUI editor

// Package main provides the entry point for playlist-editor, a playlist editor with undo and redo.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"playlist-editor/store"
	"playlist-editor/tui"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "read settings from this TOML file (default: ./playlist-editor.toml or the XDG config dir)")
	dbPath := flag.String("db", "", "use this SQLite database (default: the XDG data dir)")
	dryRun := flag.Bool("dry-run", false, "preview changes without writing them")
	debug := flag.Bool("debug", false, "enable debug logging")
	watch := flag.String("watch", "", "reload this M3U8 file into the editor whenever it changes")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()

		return 1
	}

	s, err := loadSettings(RunOptions{
		ConfigPath: *configPath,
		DBPath:     *dbPath,
		DryRun:     *dryRun,
		Debug:      *debug,
		WatchPath:  *watch,
	})
	if err != nil {
		log.Printf("Config error: %v", err)

		return 1
	}

	if s.DebugLog {
		if err := SetupDebugLog(s.DebugLogPath); err != nil {
			log.Printf("Failed to setup debug log: %v", err)

			return 1
		}
	}

	repo, closeRepo, err := openRepository(s.DBPath)
	if err != nil {
		log.Printf("Storage error: %v", err)

		return 1
	}
	defer closeRepo()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := dispatchCommand(ctx, repo, s, args); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			usage()

			return 1
		}

		log.Printf("Error: %v", err)

		return 1
	}

	return 0
}

// dispatchCommand routes args to a command. A lone argument that is not a command name edits that playlist.
func dispatchCommand(ctx context.Context, repo *store.Repository, s settings, args []string) error {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "list":
		return runList(ctx, os.Stdout, repo)

	case "import":
		if len(rest) != 2 {
			return fmt.Errorf("%w: import <id> <file.m3u8>", errUsage)
		}

		return runImport(ctx, os.Stdout, repo, s, rest[0], rest[1])

	case "export":
		if len(rest) != 2 {
			return fmt.Errorf("%w: export <id> <file.m3u8>", errUsage)
		}

		return runExport(ctx, os.Stdout, repo, s, rest[0], rest[1])

	case "meta":
		if len(rest) == 0 {
			return fmt.Errorf("%w: meta <id> [name] [description] [cover]", errUsage)
		}

		if err := store.ValidateID(rest[0]); err != nil {
			return err
		}

		return runMeta(ctx, os.Stdout, repo, s, rest[0], rest[1:])

	case "profile":
		return runProfile(ctx, os.Stdout, repo, s, rest)

	case "theme":
		return runTheme(ctx, os.Stdout, repo, s, rest)

	case "init-config":
		return runInitConfig(os.Stdout, s)

	case "edit":
		if len(rest) != 1 {
			return fmt.Errorf("%w: edit <id>", errUsage)
		}

		return runEdit(ctx, repo, s, rest[0])
	}

	if len(args) == 1 {
		return runEdit(ctx, repo, s, cmd)
	}

	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

// runEdit opens the interactive editor for playlist id
func runEdit(ctx context.Context, repo *store.Repository, s settings, id string) error {
	if err := store.ValidateID(id); err != nil {
		return err
	}

	opts := tui.Options{
		PlaylistID: id,
		DryRun:     s.DryRun,
		WatchPath:  s.WatchPath,
		Theme:      effectiveTheme(ctx, repo, s.Theme),
		Accent:     s.Accent,
	}

	debugf("[MAIN] Editing %s (dry-run=%v, watch=%q, theme=%s)", id, opts.DryRun, opts.WatchPath, opts.Theme)

	return tui.Run(opts, tuiDependencies(repo, s))
}

func usage() {
	out := flag.CommandLine.Output()

	fmt.Fprintln(out, "Usage: playlist-editor [flags] <command> [args]")
	fmt.Fprintln(out, "\nCommands:")
	fmt.Fprintln(out, "  edit <id>                           open the editor (default when only an id is given)")
	fmt.Fprintln(out, "  list                                show stored playlists")
	fmt.Fprintln(out, "  import <id> <file.m3u8>             append the songs of an M3U8 file")
	fmt.Fprintln(out, "  export <id> <file.m3u8>             write a playlist as extended M3U8")
	fmt.Fprintln(out, "  meta <id> [name] [description] [cover]  show or set playlist details")
	fmt.Fprintln(out, "  profile [<username> <email> [avatar]]   show or set your profile")
	fmt.Fprintln(out, "  theme [light|dark|custom]           show or set the theme")
	fmt.Fprintln(out, "  init-config                         write the default settings to the config file")
	fmt.Fprintln(out, "\nExample: playlist-editor -watch ~/Music/road_trip.m3u8 road-trip")
	fmt.Fprintln(out, "\nFlags:")
	flag.PrintDefaults()
}
