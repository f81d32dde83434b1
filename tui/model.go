// ABOUTME: Terminal UI model and core state management
// ABOUTME: Bubble Tea model for the playlist detail screen built around the edit history reducer

// Package tui provides the interactive playlist editor screen.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"playlist-editor/history"
	"playlist-editor/playlist"
	"playlist-editor/theme"
)

// Panel identifiers
const (
	panelInput = "input"
	panelList  = "list"
)

// Layout constants for UI dimensions
const (
	// UI chrome heights (elements that reduce available viewport space)
	titleHeight     = 2 // Title and description
	inputHeight     = 3 // Bordered add-song input
	headerHeight    = 1 // Column headers for the list
	controlsHeight  = 1 // Undo/Redo/Clear line
	statusBarHeight = 1 // Bottom status bar
	helpHeight      = 1 // Help text line
	totalUIChrome   = titleHeight + inputHeight + headerHeight + controlsHeight + statusBarHeight + helpHeight

	minViewportWidth  = 20
	minViewportHeight = 3
)

// Navigation and interaction constants
const (
	pageJumpSize          = 10              // Number of songs to jump on PageUp/PageDown
	statusMessageDuration = 5 * time.Second // How long to show transient status messages
	storageTimeout        = 5 * time.Second // Upper bound for one storage call
	maxSongNameLength     = 200
)

// loadedMsg carries the persisted playlist read at startup
type loadedMsg struct {
	songs []playlist.Song
	found bool
	meta  playlist.Meta
	err   error
}

// savedMsg reports the outcome of a fire-and-forget song write
type savedMsg struct {
	seq   uint64
	count int
	at    time.Time
	err   error
}

// themeSavedMsg reports the outcome of persisting the theme choice
type themeSavedMsg struct {
	err error
}

// fileChangeMsg signals that the watched playlist file was written
type fileChangeMsg struct{}

// watchReloadMsg carries songs re-read from the watched file
type watchReloadMsg struct {
	songs []playlist.Song
	err   error
}

// saver orders concurrent song writes so an older state never overwrites a newer one.
// A write that fails still counts as the latest attempt; there is no retry.
type saver struct {
	mu      sync.Mutex
	written uint64
	err     error // Result of the write for seq written
}

func (s *saver) save(seq uint64, write func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.written {
		return nil
	}

	s.written = seq
	s.err = write()

	return s.err
}

// lastErr returns the result of the newest write that ran
func (s *saver) lastErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

// model holds the TUI state
type model struct {
	// Dependencies
	store     PlaylistStore
	loadWatch WatchLoader
	debugf    func(string, ...interface{})
	saver     *saver

	// Playlist
	playlistID string
	meta       playlist.Meta
	state      history.State // Only ever replaced through dispatch
	loaded     bool
	loadFailed bool // Edits and saves stay off so the stored list is never overwritten
	edited     bool   // Set once any edit went through dispatch
	saveSeq    uint64 // Incremented for every write issued
	lastSaved  time.Time

	// File I/O
	dryRun    bool
	watchPath string
	watcher   *fsnotify.Watcher

	// Appearance
	themeMode theme.Mode
	accent    string
	styles    theme.Styles

	// UI state
	width        int
	height       int
	quitting     bool
	statusMsg    string    // Temporary status message (e.g., "Nothing to undo")
	statusMsgAge time.Time // When status message was set
	focusedPanel string    // "input" or "list"

	// Song browsing
	cursorPos int
	input     textinput.Model
	viewport  viewport.Model
}

// Key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Tab      key.Binding
	Add      key.Binding
	Submit   key.Binding
	Cancel   key.Binding
	Remove   key.Binding
	Undo     key.Binding
	Redo     key.Binding
	Clear    key.Binding
	Theme    key.Binding
	Quit     key.Binding
	ForceQ   key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "navigate"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "navigate"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("home/g", "first song"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("end/G", "last song"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch panel"),
	),
	Add: key.NewBinding(
		key.WithKeys("a", "i"),
		key.WithHelp("a", "add song"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "add"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back to list"),
	),
	Remove: key.NewBinding(
		key.WithKeys("d", "delete"),
		key.WithHelp("d", "remove song"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "redo"),
	),
	Clear: key.NewBinding(
		key.WithKeys("C"),
		key.WithHelp("C", "clear"),
	),
	Theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "theme"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	ForceQ: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
}

// Run starts the editor for one playlist and blocks until the user quits.
// A save the program dropped on exit is written synchronously; a failed save is not retried.
func Run(opts Options, deps Dependencies) error {
	m := initModel(opts, deps)

	if opts.WatchPath != "" {
		watcher, err := newPlaylistWatcher(opts.WatchPath)
		if err != nil {
			return err
		}
		defer watcher.Close()

		m.watcher = watcher
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	fm, ok := finalModel.(model)
	if !ok || !fm.edited {
		return nil
	}

	if fm.dryRun {
		fmt.Println("\n--dry-run mode: playlist not modified")

		return nil
	}

	if err := fm.flush(); err != nil {
		return fmt.Errorf("playlist not saved: %w", err)
	}

	fmt.Printf("\nSaved %d songs to playlist %s\n", len(fm.state.Songs), fm.playlistID)

	return nil
}

// initModel creates the initial model with injected dependencies
func initModel(opts Options, deps Dependencies) model {
	debugf := deps.Debugf
	if debugf == nil {
		debugf = func(string, ...interface{}) {}
	}

	input := textinput.New()
	input.Placeholder = "Add a song..."
	input.CharLimit = maxSongNameLength
	input.Prompt = "♪ "

	mode := opts.Theme
	if mode == "" {
		mode = theme.Dark
	}

	return model{
		store:     deps.Store,
		loadWatch: deps.LoadWatch,
		debugf:    debugf,
		saver:     &saver{},

		playlistID: opts.PlaylistID,
		state:      history.State{Songs: []playlist.Song{}},

		dryRun:    opts.DryRun,
		watchPath: opts.WatchPath,

		themeMode: mode,
		accent:    opts.Accent,
		styles:    theme.NewStyles(theme.Resolve(mode, opts.Accent)),

		focusedPanel: panelList,
		input:        input,
		viewport:     viewport.New(0, 0), // Width and height set on first WindowSizeMsg
	}
}

// Init starts loading the persisted playlist and, if configured, watching the linked file
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadPlaylist()}

	if m.watcher != nil {
		cmds = append(cmds, m.waitForFileChange())
	}

	return tea.Batch(cmds...)
}

// ========== Commands ==========

// loadPlaylist reads songs and metadata in the background
func (m *model) loadPlaylist() tea.Cmd {
	store, id := m.store, m.playlistID

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()

		songs, found, err := store.LoadSongs(ctx, id)
		if err != nil {
			return loadedMsg{err: err}
		}

		meta, _, err := store.LoadMeta(ctx, id)
		if err != nil {
			return loadedMsg{err: err}
		}

		return loadedMsg{songs: songs, found: found, meta: meta}
	}
}

// saveSongs issues a fire-and-forget write of the current song list
func (m *model) saveSongs() tea.Cmd {
	if m.dryRun || !m.loaded || m.loadFailed {
		return nil
	}

	m.saveSeq++

	seq := m.saveSeq
	songs := m.state.Songs // Never mutated by the reducer, safe to share
	store, id, s := m.store, m.playlistID, m.saver

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()

		err := s.save(seq, func() error {
			return store.SaveSongs(ctx, id, songs)
		})

		return savedMsg{seq: seq, count: len(songs), at: time.Now(), err: err}
	}
}

// flush writes the newest issued save if its command never ran, then reports how that write went.
// A save that already ran, or is running, is not written again.
func (m *model) flush() error {
	if m.dryRun || !m.loaded || m.loadFailed {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	if err := m.saver.save(m.saveSeq, func() error {
		return m.store.SaveSongs(ctx, m.playlistID, m.state.Songs)
	}); err != nil {
		return err
	}

	return m.saver.lastErr()
}

// saveThemeMode persists the theme choice in the background
func (m *model) saveThemeMode() tea.Cmd {
	if m.dryRun {
		return nil
	}

	store, mode := m.store, string(m.themeMode)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()

		return themeSavedMsg{err: store.SaveThemeMode(ctx, mode)}
	}
}

// ========== Dispatch ==========

// editable reports whether edits are accepted, setting a status message when they are not.
// Nothing may change the list before the stored one arrives or after it failed to load.
func (m *model) editable() bool {
	switch {
	case !m.loaded:
		m.setStatusMsg("Loading...")

		return false

	case m.loadFailed:
		m.setStatusMsg("Playlist failed to load, editing is disabled")

		return false
	}

	return true
}

// dispatch runs one action through the reducer and persists the result.
// No-op undo/redo leave the state and storage untouched.
func (m *model) dispatch(a history.Action) tea.Cmd {
	if !m.editable() {
		m.debugf("[TUI] %s ignored: playlist not loaded", a.Type)

		return nil
	}

	if history.IsNoop(m.state, a) {
		m.debugf("[TUI] %s ignored: nothing to apply", a.Type)

		return nil
	}

	m.state = history.Reduce(m.state, a)
	m.edited = true

	m.debugf("[TUI] %s -> %d songs (history %d, future %d)",
		a.Type, len(m.state.Songs), len(m.state.History), len(m.state.Future))

	m.clampCursor()
	m.ensureCursorVisible()
	m.updateViewportContent()

	return m.saveSongs()
}

// addSong dispatches ADD for the text in the input
func (m *model) addSong() tea.Cmd {
	name := strings.TrimSpace(m.input.Value())
	if name == "" || !m.editable() {
		return nil
	}

	m.input.Reset()

	song := playlist.NewSong(name)
	cmd := m.dispatch(history.AddSong(song))

	// Keep the new song in view
	m.cursorPos = len(m.state.Songs) - 1
	m.ensureCursorVisible()
	m.updateViewportContent()

	return cmd
}

// removeSong dispatches REMOVE for the song under the cursor
func (m *model) removeSong() tea.Cmd {
	if !m.editable() || len(m.state.Songs) == 0 {
		return nil
	}

	song := m.state.Songs[m.cursorPos]
	cmd := m.dispatch(history.RemoveSong(song.ID))
	m.setStatusMsg(fmt.Sprintf("Removed %q (Undo: %d, Redo: %d)", song.Name, len(m.state.History), len(m.state.Future)))

	return cmd
}

// clearSongs dispatches CLEAR
func (m *model) clearSongs() tea.Cmd {
	if !m.editable() {
		return nil
	}

	cmd := m.dispatch(history.ClearSongs())
	m.setStatusMsg("Cleared playlist (u to undo)")

	return cmd
}

// undo dispatches UNDO when there is something to undo
func (m *model) undo() tea.Cmd {
	if !m.editable() {
		return nil
	}

	if !history.CanUndo(m.state) {
		m.setStatusMsg("Nothing to undo")

		return nil
	}

	cmd := m.dispatch(history.UndoEdit())
	m.setStatusMsg(fmt.Sprintf("Undo (Undo: %d, Redo: %d)", len(m.state.History), len(m.state.Future)))

	return cmd
}

// redo dispatches REDO when there is something to redo
func (m *model) redo() tea.Cmd {
	if !m.editable() {
		return nil
	}

	if !history.CanRedo(m.state) {
		m.setStatusMsg("Nothing to redo")

		return nil
	}

	cmd := m.dispatch(history.RedoEdit())
	m.setStatusMsg(fmt.Sprintf("Redo (Undo: %d, Redo: %d)", len(m.state.History), len(m.state.Future)))

	return cmd
}

// cycleTheme switches to the next theme and persists the choice
func (m *model) cycleTheme() tea.Cmd {
	m.themeMode = m.themeMode.Next()
	m.styles = theme.NewStyles(theme.Resolve(m.themeMode, m.accent))
	m.updateViewportContent()
	m.setStatusMsg("Theme: " + string(m.themeMode))

	return m.saveThemeMode()
}

// ========== Helpers ==========

// setStatusMsg sets a transient status message with current timestamp
func (m *model) setStatusMsg(msg string) {
	m.statusMsg = msg
	m.statusMsgAge = time.Now()
}

// clampCursor keeps the cursor inside the song list
func (m *model) clampCursor() {
	if m.cursorPos >= len(m.state.Songs) {
		m.cursorPos = len(m.state.Songs) - 1
	}

	if m.cursorPos < 0 {
		m.cursorPos = 0
	}
}

// ensureCursorVisible adjusts viewport offset to keep cursor visible with middle-of-screen scrolling
func (m *model) ensureCursorVisible() {
	m.viewport.SetYOffset(scrollOffset(m.viewport.Height, m.cursorPos, len(m.state.Songs)))
}

// focus switches the active panel
func (m *model) focus(panel string) tea.Cmd {
	m.focusedPanel = panel
	m.updateViewportContent() // Cursor highlight follows list focus

	if panel == panelInput {
		return m.input.Focus()
	}

	m.input.Blur()

	return nil
}

// truncate shortens a string to maxLen runes, adding "..." if truncated
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
