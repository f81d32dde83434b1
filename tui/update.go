// ABOUTME: Event handling and state updates for the TUI
// ABOUTME: Implements the Bubble Tea Update() function and message handlers

package tui

import (
	"fmt"
	"runtime/debug"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"playlist-editor/history"
)

// Update handles messages and updates the model
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.debugf("[PANIC] Update panic: %v", r)
			m.debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		m.viewport.Width = max(msg.Width, minViewportWidth)
		m.viewport.Height = max(msg.Height-totalUIChrome, minViewportHeight)
		m.input.Width = max(msg.Width-len(m.input.Prompt)-4, minViewportWidth)

		m.ensureCursorVisible()
		m.updateViewportContent()

		return m, nil

	case loadedMsg:
		return m.handleLoaded(msg)

	case savedMsg:
		if msg.err != nil {
			m.debugf("[TUI] Save FAILED (seq %d): %v", msg.seq, msg.err)
			m.setStatusMsg(fmt.Sprintf("Save failed: %v", msg.err))

			return m, nil
		}

		m.lastSaved = msg.at
		m.debugf("[TUI] Saved %d songs to %s (seq %d)", msg.count, m.playlistID, msg.seq)

		return m, nil

	case themeSavedMsg:
		if msg.err != nil {
			m.debugf("[TUI] Theme save FAILED: %v", msg.err)
			m.setStatusMsg(fmt.Sprintf("Theme not saved: %v", msg.err))
		}

		return m, nil

	case fileChangeMsg:
		m.debugf("[TUI] %s changed, reloading", m.watchPath)

		return m, tea.Batch(m.reloadWatched(), m.waitForFileChange())

	case watchReloadMsg:
		if msg.err != nil {
			m.debugf("[TUI] Reload FAILED: %v", msg.err)
			m.setStatusMsg(fmt.Sprintf("Reload failed: %v", msg.err))

			return m, nil
		}

		if !m.editable() {
			return m, nil
		}

		cmd := m.dispatch(history.SetSongs(msg.songs))
		m.setStatusMsg(fmt.Sprintf("Reloaded %d songs from %s", len(msg.songs), m.watchPath))

		return m, cmd

	case tea.KeyMsg:
		if m.focusedPanel == panelInput {
			return m.handleInputKey(msg)
		}

		return m.handleListKey(msg)
	}

	return m, nil
}

// handleLoaded applies the persisted playlist as a SET so it never lands in history
func (m model) handleLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	m.loaded = true

	if msg.err != nil {
		m.loadFailed = true
		m.debugf("[TUI] Load FAILED: %v", msg.err)
		m.setStatusMsg(fmt.Sprintf("Load failed: %v", msg.err))

		return m, nil
	}

	m.meta = msg.meta

	if !msg.found {
		m.debugf("[TUI] No stored songs for %s, starting empty", m.playlistID)
		m.updateViewportContent()

		return m, nil
	}

	m.state = history.Reduce(m.state, history.SetSongs(msg.songs))
	m.clampCursor()
	m.ensureCursorVisible()
	m.updateViewportContent()

	m.debugf("[TUI] Loaded %d songs for %s", len(m.state.Songs), m.playlistID)

	return m, nil
}

// handleInputKey routes keys while the add-song input has focus
func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.ForceQ):
		return m.handleQuitKey()

	case key.Matches(msg, keys.Submit):
		cmd := m.addSong()

		return m, cmd

	case key.Matches(msg, keys.Cancel), key.Matches(msg, keys.Tab):
		cmd := m.focus(panelList)

		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// handleListKey routes keys while the song list has focus
func (m model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m.handleQuitKey()

	case key.Matches(msg, keys.Tab), key.Matches(msg, keys.Add):
		cmd := m.focus(panelInput)

		return m, cmd

	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, keys.PageUp):
		m.moveCursor(-pageJumpSize)

	case key.Matches(msg, keys.PageDown):
		m.moveCursor(pageJumpSize)

	case key.Matches(msg, keys.Home):
		m.moveCursor(-len(m.state.Songs))

	case key.Matches(msg, keys.End):
		m.moveCursor(len(m.state.Songs))

	case key.Matches(msg, keys.Remove):
		cmd := m.removeSong()

		return m, cmd

	case key.Matches(msg, keys.Undo):
		cmd := m.undo()

		return m, cmd

	case key.Matches(msg, keys.Redo):
		cmd := m.redo()

		return m, cmd

	case key.Matches(msg, keys.Clear):
		cmd := m.clearSongs()

		return m, cmd

	case key.Matches(msg, keys.Theme):
		cmd := m.cycleTheme()

		return m, cmd
	}

	return m, nil
}

// handleQuitKey handles the quit key press
func (m model) handleQuitKey() (tea.Model, tea.Cmd) {
	m.quitting = true

	return m, tea.Quit
}

// moveCursor moves the cursor by delta songs, stopping at either end
func (m *model) moveCursor(delta int) {
	m.cursorPos += delta
	m.clampCursor()
	m.ensureCursorVisible()
	m.updateViewportContent()
}
