// ABOUTME: Unit tests for TUI model behavior
// ABOUTME: Drives Update with key messages against in-memory and failing stores

package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"playlist-editor/history"
	"playlist-editor/playlist"
	"playlist-editor/store"
	"playlist-editor/theme"
)

// failingStore rejects every call
type failingStore struct {
	saves int
}

var errStorage = errors.New("storage unavailable")

func (f *failingStore) LoadSongs(context.Context, string) ([]playlist.Song, bool, error) {
	return nil, false, errStorage
}

func (f *failingStore) SaveSongs(context.Context, string, []playlist.Song) error {
	f.saves++

	return errStorage
}

func (f *failingStore) LoadMeta(context.Context, string) (playlist.Meta, bool, error) {
	return playlist.Meta{}, false, errStorage
}

func (f *failingStore) SaveThemeMode(context.Context, string) error {
	return errStorage
}

// createTestModel creates a model backed by an in-memory repository
func createTestModel(t *testing.T, opts Options) (model, *store.Repository) {
	t.Helper()

	repo := store.NewRepository(store.NewMemory())

	if opts.PlaylistID == "" {
		opts.PlaylistID = "road-trip"
	}

	m := initModel(opts, Dependencies{
		Store: repo,
		Debugf: func(_ string, _ ...interface{}) {
			// Silent in tests
		},
	})

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 30})

	return m, repo
}

func createTestSongs(names ...string) []playlist.Song {
	songs := make([]playlist.Song, len(names))
	for i, name := range names {
		songs[i] = playlist.Song{ID: name, Name: name}
	}

	return songs
}

// update runs one message through Update and returns the concrete model
func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(msg)

	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T, want model", next)
	}

	return nm, cmd
}

// press sends a key to the model and, when it issued a save, runs the write and feeds the result back
func press(t *testing.T, m model, k tea.KeyMsg) model {
	t.Helper()

	seq := m.saveSeq

	m, cmd := update(t, m, k)
	if cmd == nil || m.saveSeq == seq {
		return m
	}

	if msg, ok := cmd().(savedMsg); ok {
		m, _ = update(t, m, msg)
	}

	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func songIDs(songs []playlist.Song) string {
	ids := make([]string, len(songs))
	for i, s := range songs {
		ids[i] = s.ID
	}

	return strings.Join(ids, ",")
}

// withSongs loads songs into the model the way startup does
func withSongs(t *testing.T, m model, names ...string) model {
	t.Helper()

	m, _ = update(t, m, loadedMsg{songs: createTestSongs(names...), found: true})

	return m
}

func TestModelInitialization(t *testing.T) {
	m, _ := createTestModel(t, Options{})

	if len(m.state.Songs) != 0 || m.state.Songs == nil {
		t.Errorf("Expected empty non-nil song list, got %v", m.state.Songs)
	}

	if m.focusedPanel != panelList {
		t.Errorf("Expected focusedPanel to be %q, got %q", panelList, m.focusedPanel)
	}

	if m.themeMode != theme.Dark {
		t.Errorf("Expected default theme dark, got %q", m.themeMode)
	}
}

func TestLoadAppliesSetWithoutHistory(t *testing.T) {
	m, repo := createTestModel(t, Options{})

	ctx := context.Background()
	if err := repo.SaveSongs(ctx, "road-trip", createTestSongs("A", "B")); err != nil {
		t.Fatal(err)
	}

	if err := repo.SaveMeta(ctx, "road-trip", playlist.Meta{Name: "Road Trip"}); err != nil {
		t.Fatal(err)
	}

	m, _ = update(t, m, m.loadPlaylist()())

	if got := songIDs(m.state.Songs); got != "A,B" {
		t.Errorf("Songs = %s, want A,B", got)
	}

	if history.CanUndo(m.state) {
		t.Error("Loading should not record history")
	}

	if m.meta.Name != "Road Trip" {
		t.Errorf("Meta name = %q, want Road Trip", m.meta.Name)
	}

	if m.edited {
		t.Error("Loading should not mark the playlist edited")
	}
}

func TestLoadFailureShowsAlert(t *testing.T) {
	m := initModel(Options{PlaylistID: "x"}, Dependencies{Store: &failingStore{}})

	m, _ = update(t, m, m.loadPlaylist()())

	if len(m.state.Songs) != 0 {
		t.Errorf("Expected empty songs after failed load, got %d", len(m.state.Songs))
	}

	if !strings.Contains(m.statusMsg, "Load failed") {
		t.Errorf("statusMsg = %q, want load failure alert", m.statusMsg)
	}
}

func TestAddSongFromInput(t *testing.T) {
	m, repo := createTestModel(t, Options{})
	m = withSongs(t, m)

	m = press(t, m, runes("a"))
	if m.focusedPanel != panelInput {
		t.Fatalf("Expected input focus after 'a', got %q", m.focusedPanel)
	}

	m = press(t, m, runes("  Dreams "))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if len(m.state.Songs) != 1 || m.state.Songs[0].Name != "Dreams" {
		t.Fatalf("Songs = %+v, want one song named Dreams", m.state.Songs)
	}

	if m.state.Songs[0].ID == "" {
		t.Error("Added song should get an ID")
	}

	if m.input.Value() != "" {
		t.Errorf("Input should be cleared, got %q", m.input.Value())
	}

	saved, ok, err := repo.LoadSongs(context.Background(), "road-trip")
	if err != nil || !ok {
		t.Fatalf("LoadSongs: ok=%v err=%v", ok, err)
	}

	if len(saved) != 1 || saved[0].Name != "Dreams" {
		t.Errorf("Persisted songs = %+v, want Dreams", saved)
	}

	if m.lastSaved.IsZero() {
		t.Error("lastSaved should be set after a successful save")
	}
}

func TestEditsIgnoredUntilLoaded(t *testing.T) {
	m, repo := createTestModel(t, Options{})

	ctx := context.Background()
	if err := repo.SaveSongs(ctx, "road-trip", createTestSongs("A", "B")); err != nil {
		t.Fatal(err)
	}

	load := m.loadPlaylist()

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(t, m, runes("X"))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("Add before load should not issue a save")
	}

	if m.statusMsg != "Loading..." {
		t.Errorf("statusMsg = %q, want Loading...", m.statusMsg)
	}

	if m.input.Value() != "X" {
		t.Errorf("Input = %q, want X kept for after the load", m.input.Value())
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	for _, k := range []tea.KeyMsg{runes("C"), runes("u"), {Type: tea.KeyCtrlR}} {
		m, cmd = update(t, m, k)
		if cmd != nil {
			t.Errorf("%v before load should not issue a save", k)
		}
	}

	m, cmd = update(t, m, watchReloadMsg{songs: createTestSongs("W")})
	if cmd != nil || len(m.state.Songs) != 0 {
		t.Error("Reload before load should be ignored")
	}

	if m.edited {
		t.Error("Nothing should be edited before the load")
	}

	m, _ = update(t, m, load())

	if got := songIDs(m.state.Songs); got != "A,B" {
		t.Errorf("Songs after load = %s, want A,B", got)
	}

	if err := m.flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	saved, _, _ := repo.LoadSongs(ctx, "road-trip")
	if got := songIDs(saved); got != "A,B" {
		t.Errorf("Persisted = %s, want A,B", got)
	}
}

func TestEditsDisabledAfterLoadFailure(t *testing.T) {
	fs := &failingStore{}
	m := initModel(Options{PlaylistID: "x"}, Dependencies{Store: fs})

	m, _ = update(t, m, m.loadPlaylist()())

	m = press(t, m, runes("C"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(t, m, runes("X"))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, watchReloadMsg{songs: createTestSongs("W")})

	if m.edited || len(m.state.Songs) != 0 {
		t.Errorf("Edits applied after failed load: %s", songIDs(m.state.Songs))
	}

	if !strings.Contains(m.statusMsg, "editing is disabled") {
		t.Errorf("statusMsg = %q, want editing disabled alert", m.statusMsg)
	}

	if err := m.flush(); err != nil {
		t.Errorf("flush should not write after a failed load: %v", err)
	}

	if fs.saves != 0 {
		t.Errorf("saves = %d, want 0", fs.saves)
	}
}

func TestAddBlankInputIgnored(t *testing.T) {
	m, _ := createTestModel(t, Options{})

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(t, m, runes("   "))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("Blank input should not issue a save")
	}

	if len(m.state.Songs) != 0 || history.CanUndo(m.state) {
		t.Error("Blank input should not dispatch ADD")
	}
}

func TestInputKeysDoNotTriggerListActions(t *testing.T) {
	m, _ := createTestModel(t, Options{})
	m = withSongs(t, m, "A")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(t, m, runes("d"))

	if len(m.state.Songs) != 1 {
		t.Error("Typing 'd' in the input should not remove a song")
	}

	if m.input.Value() != "d" {
		t.Errorf("Input = %q, want d", m.input.Value())
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.focusedPanel != panelList {
		t.Error("Esc should return focus to the list")
	}
}

func TestRemoveUnderCursor(t *testing.T) {
	m, repo := createTestModel(t, Options{})
	m = withSongs(t, m, "A", "B", "C")

	m = press(t, m, runes("j"))
	m = press(t, m, runes("d"))

	if got := songIDs(m.state.Songs); got != "A,C" {
		t.Errorf("Songs = %s, want A,C", got)
	}

	saved, _, _ := repo.LoadSongs(context.Background(), "road-trip")
	if got := songIDs(saved); got != "A,C" {
		t.Errorf("Persisted = %s, want A,C", got)
	}
}

func TestRemoveLastSongClampsCursor(t *testing.T) {
	m, _ := createTestModel(t, Options{})
	m = withSongs(t, m, "A", "B")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	m = press(t, m, runes("d"))

	if m.cursorPos != 0 {
		t.Errorf("cursorPos = %d, want 0", m.cursorPos)
	}
}

func TestRemoveOnEmptyListDoesNothing(t *testing.T) {
	m, _ := createTestModel(t, Options{})

	m, cmd := update(t, m, runes("d"))
	if cmd != nil || history.CanUndo(m.state) {
		t.Error("Remove on empty list should not dispatch")
	}
}

func TestUndoRedoKeys(t *testing.T) {
	m, repo := createTestModel(t, Options{})
	m = withSongs(t, m, "A", "B")

	m = press(t, m, runes("d"))
	m = press(t, m, runes("u"))

	if got := songIDs(m.state.Songs); got != "A,B" {
		t.Errorf("After undo songs = %s, want A,B", got)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})

	if got := songIDs(m.state.Songs); got != "B" {
		t.Errorf("After redo songs = %s, want B", got)
	}

	saved, _, _ := repo.LoadSongs(context.Background(), "road-trip")
	if got := songIDs(saved); got != "B" {
		t.Errorf("Persisted = %s, want B", got)
	}
}

func TestUndoRedoGated(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		want string
	}{
		{"undo", runes("u"), "Nothing to undo"},
		{"redo", tea.KeyMsg{Type: tea.KeyCtrlR}, "Nothing to redo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := createTestModel(t, Options{})
			m = withSongs(t, m, "A")
			before := m.state

			m, cmd := update(t, m, tt.key)

			if cmd != nil {
				t.Error("Gated action should not issue a save")
			}

			if m.statusMsg != tt.want {
				t.Errorf("statusMsg = %q, want %q", m.statusMsg, tt.want)
			}

			if songIDs(m.state.Songs) != songIDs(before.Songs) || m.edited {
				t.Error("Gated action changed state")
			}
		})
	}
}

func TestClearKey(t *testing.T) {
	m, _ := createTestModel(t, Options{})
	m = withSongs(t, m, "A", "B")

	m = press(t, m, runes("C"))

	if len(m.state.Songs) != 0 {
		t.Errorf("Expected empty list after clear, got %d songs", len(m.state.Songs))
	}

	m = press(t, m, runes("u"))

	if got := songIDs(m.state.Songs); got != "A,B" {
		t.Errorf("After undo songs = %s, want A,B", got)
	}
}

func TestDryRunSkipsSaves(t *testing.T) {
	m, repo := createTestModel(t, Options{DryRun: true})
	m = withSongs(t, m, "A")

	m, cmd := update(t, m, runes("d"))
	if cmd != nil {
		t.Error("Dry-run should not issue saves")
	}

	if !m.edited {
		t.Error("Dry-run should still apply the edit in memory")
	}

	if _, ok, _ := repo.LoadSongs(context.Background(), "road-trip"); ok {
		t.Error("Dry-run should not write to the store")
	}
}

func TestSaveFailureKeepsState(t *testing.T) {
	fs := &failingStore{}
	m := initModel(Options{PlaylistID: "x"}, Dependencies{Store: fs})
	m, _ = update(t, m, loadedMsg{songs: createTestSongs("A", "B"), found: true})

	m = press(t, m, runes("d"))

	if got := songIDs(m.state.Songs); got != "B" {
		t.Errorf("Songs = %s, want B (no rollback)", got)
	}

	if !strings.Contains(m.statusMsg, "Save failed") {
		t.Errorf("statusMsg = %q, want save failure alert", m.statusMsg)
	}

	if fs.saves != 1 {
		t.Errorf("saves = %d, want exactly 1 (no retry)", fs.saves)
	}
}

func TestSaverSkipsStaleWrites(t *testing.T) {
	s := &saver{}

	var order []int

	write := func(n int) func() error {
		return func() error {
			order = append(order, n)

			return nil
		}
	}

	_ = s.save(2, write(2))
	_ = s.save(1, write(1)) // Older state arriving late
	_ = s.save(3, write(3))

	if len(order) != 2 || order[0] != 2 || order[1] != 3 {
		t.Errorf("writes = %v, want [2 3]", order)
	}
}

func TestOutOfOrderSaveCommands(t *testing.T) {
	m, repo := createTestModel(t, Options{})
	m = withSongs(t, m, "A", "B", "C")

	// Two edits issued before either write runs
	m, first := update(t, m, runes("d"))
	m, second := update(t, m, runes("d"))

	second()
	first()

	saved, _, _ := repo.LoadSongs(context.Background(), "road-trip")
	if got := songIDs(saved); got != songIDs(m.state.Songs) {
		t.Errorf("Persisted = %s, want latest %s", got, songIDs(m.state.Songs))
	}
}

func TestFlushWritesLatestState(t *testing.T) {
	m, repo := createTestModel(t, Options{})
	m = withSongs(t, m, "A", "B")

	// Save command dropped, as when the program exits before it runs
	m, _ = update(t, m, runes("d"))

	if err := m.flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	saved, _, _ := repo.LoadSongs(context.Background(), "road-trip")
	if got := songIDs(saved); got != "B" {
		t.Errorf("Persisted = %s, want B", got)
	}
}

func TestFlushDoesNotRetryFailedSave(t *testing.T) {
	fs := &failingStore{}
	m := initModel(Options{PlaylistID: "x"}, Dependencies{Store: fs})
	m, _ = update(t, m, loadedMsg{songs: createTestSongs("A", "B"), found: true})

	m = press(t, m, runes("d"))

	if err := m.flush(); !errors.Is(err, errStorage) {
		t.Errorf("flush err = %v, want the failed save reported", err)
	}

	if fs.saves != 1 {
		t.Errorf("saves = %d, want 1 (no retry on exit)", fs.saves)
	}
}

func TestFlushSkipsCompletedSave(t *testing.T) {
	m, repo := createTestModel(t, Options{})
	m = withSongs(t, m, "A", "B")

	m = press(t, m, runes("d"))

	// Written elsewhere after our save landed
	ctx := context.Background()
	if err := repo.SaveSongs(ctx, "road-trip", createTestSongs("Z")); err != nil {
		t.Fatal(err)
	}

	if err := m.flush(); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	saved, _, _ := repo.LoadSongs(ctx, "road-trip")
	if got := songIDs(saved); got != "Z" {
		t.Errorf("Persisted = %s, want Z untouched by flush", got)
	}
}

func TestThemeCycle(t *testing.T) {
	m, repo := createTestModel(t, Options{Theme: theme.Light})

	m, cmd := update(t, m, runes("t"))
	if m.themeMode != theme.Dark {
		t.Errorf("themeMode = %q, want dark", m.themeMode)
	}

	if cmd == nil {
		t.Fatal("Expected theme save command")
	}

	m, _ = update(t, m, cmd())

	mode, ok, err := repo.LoadThemeMode(context.Background())
	if err != nil || !ok || mode != string(theme.Dark) {
		t.Errorf("Stored theme = %q (ok=%v err=%v), want dark", mode, ok, err)
	}

	if m.edited {
		t.Error("Theme change should not touch the playlist")
	}
}

func TestWatchReloadDispatchesSet(t *testing.T) {
	m, _ := createTestModel(t, Options{WatchPath: "list.m3u8"})
	m = withSongs(t, m, "A")
	m = press(t, m, runes("d"))

	m, cmd := update(t, m, watchReloadMsg{songs: createTestSongs("X", "Y")})
	if cmd == nil {
		t.Error("Reload should persist the new songs")
	}

	if got := songIDs(m.state.Songs); got != "X,Y" {
		t.Errorf("Songs = %s, want X,Y", got)
	}

	if len(m.state.History) != 1 {
		t.Errorf("SET should not change history, got %d entries", len(m.state.History))
	}
}

func TestWatchReloadUsesLoader(t *testing.T) {
	var gotPath string

	m := initModel(Options{PlaylistID: "x", WatchPath: "list.m3u8"}, Dependencies{
		Store: store.NewRepository(store.NewMemory()),
		LoadWatch: func(_ context.Context, path string) ([]playlist.Song, error) {
			gotPath = path

			return createTestSongs("W"), nil
		},
	})

	msg, ok := m.reloadWatched()().(watchReloadMsg)
	if !ok || msg.err != nil {
		t.Fatalf("Unexpected reload result: %+v", msg)
	}

	if gotPath != "list.m3u8" || songIDs(msg.songs) != "W" {
		t.Errorf("Loader got %q, returned %s", gotPath, songIDs(msg.songs))
	}
}

func TestNavigationBounds(t *testing.T) {
	m, _ := createTestModel(t, Options{})
	m = withSongs(t, m, "A", "B", "C")

	m = press(t, m, runes("k"))
	if m.cursorPos != 0 {
		t.Errorf("cursorPos = %d after up at top, want 0", m.cursorPos)
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyPgDown})
	if m.cursorPos != 2 {
		t.Errorf("cursorPos = %d after page down, want 2", m.cursorPos)
	}

	m = press(t, m, runes("g"))
	if m.cursorPos != 0 {
		t.Errorf("cursorPos = %d after home, want 0", m.cursorPos)
	}
}

func TestViewShowsControls(t *testing.T) {
	m, _ := createTestModel(t, Options{})
	m = withSongs(t, m, "A")

	view := m.View()
	for _, want := range []string{"Undo 0", "Redo 0", "Clear", "Songs (1)"} {
		if !strings.Contains(view, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestClearControlUsesDangerStyle(t *testing.T) {
	m, _ := createTestModel(t, Options{})

	if got := m.controlStyle(true, true).GetForeground(); got != m.styles.Danger.GetForeground() {
		t.Errorf("Clear foreground = %v, want danger %v", got, m.styles.Danger.GetForeground())
	}

	if got := m.controlStyle(true, false).GetForeground(); got != m.styles.Accent.GetForeground() {
		t.Errorf("Undo foreground = %v, want accent", got)
	}

	if got := m.controlStyle(false, true).GetForeground(); got != m.styles.Disabled.GetForeground() {
		t.Errorf("Disabled Clear foreground = %v, want muted", got)
	}
}

func TestQuit(t *testing.T) {
	m, _ := createTestModel(t, Options{})

	m, cmd := update(t, m, runes("q"))
	if !m.quitting || cmd == nil {
		t.Error("q should quit")
	}
}

func TestIsPlaylistWrite(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "dir/list.m3u8", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "dir/./list.m3u8", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "dir/list.m3u8", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "dir/other.m3u8", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		if got := isPlaylistWrite(tt.event, "dir/list.m3u8"); got != tt.want {
			t.Errorf("isPlaylistWrite(%v) = %v, want %v", tt.event, got, tt.want)
		}
	}
}
