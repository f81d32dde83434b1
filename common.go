// ABOUTME: Shared initialization code for all commands
// ABOUTME: Provides debug logging, store opening and terminal detection

package main

import (
	"fmt"
	"log"
	"os"

	"playlist-editor/store"
)

var debugLog *log.Logger

// SetupDebugLog initializes debug logging
func SetupDebugLog(filename string) error {
	if err := InitDebugLog(filename); err != nil {
		return fmt.Errorf("failed to initialize debug log: %w", err)
	}

	if isTTY(os.Stdout) {
		fmt.Printf("Debug logging enabled: %s\n", filename)
	}

	return nil
}

// InitDebugLog initializes debug logging
func InitDebugLog(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create debug log file: %w", err)
	}

	debugLog = log.New(f, "", log.Ltime|log.Lmicroseconds)

	return nil
}

// debugf logs debug messages if enabled
func debugf(format string, args ...interface{}) {
	if debugLog != nil {
		debugLog.Printf(format, args...)
	}
}

// isTTY checks if the given file is a terminal
func isTTY(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}

	return (stat.Mode() & os.ModeCharDevice) != 0
}

// openRepository opens the SQLite database at path, or the default XDG location when path is empty.
// The returned function closes the database.
func openRepository(path string) (*store.Repository, func(), error) {
	if path == "" {
		defaultPath, err := store.DefaultPath()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to resolve database path: %w", err)
		}

		path = defaultPath
	}

	db, err := store.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}

	debugf("[STORE] Opened %s", path)

	closeFn := func() {
		if err := db.Close(); err != nil {
			log.Printf("Warning: failed to close database: %v", err)
		}
	}

	return store.NewRepository(db), closeFn, nil
}

// truncate shortens s to maxLen runes, adding "..." if needed
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return string(r[:maxLen])
	}

	return string(r[:maxLen-3]) + "..."
}
