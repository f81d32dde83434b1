// ABOUTME: Rendering and display functions for the TUI
// ABOUTME: Implements the Bubble Tea View() function and all render helpers

package tui

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// View renders the TUI
func (m model) View() string {
	defer func() {
		if r := recover(); r != nil {
			m.debugf("[PANIC] View panic: %v", r)
			m.debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	if m.quitting {
		return "Saving playlist and exiting...\n"
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitle(),
		m.renderInput(),
		m.renderHeader(),
		m.viewport.View(),
		m.renderControls(),
		m.renderStatus(),
		m.renderHelp(),
	)
}

// renderTitle renders the playlist name and description
func (m model) renderTitle() string {
	name := m.meta.Name
	if name == "" {
		name = m.playlistID
	}

	description := m.meta.Description
	if !m.loaded {
		description = "Loading..."
	}

	return m.styles.Title.Render(truncate(name, max(m.width, minViewportWidth))) + "\n" +
		m.styles.Muted.Render(truncate(description, max(m.width, minViewportWidth)))
}

// renderInput renders the add-song input, highlighted when focused
func (m model) renderInput() string {
	style := m.styles.Input
	if m.focusedPanel != panelInput {
		style = style.BorderForeground(m.styles.Disabled.GetForeground())
	}

	return style.Width(max(m.width-2, minViewportWidth)).Render(m.input.View())
}

// renderHeader renders the list column header
func (m model) renderHeader() string {
	title := fmt.Sprintf("Songs (%d)", len(m.state.Songs))
	if m.focusedPanel == panelList {
		title = "► " + title
	}

	return m.styles.Accent.Render(title)
}

// updateViewportContent rebuilds the song list shown in the viewport
func (m *model) updateViewportContent() {
	if len(m.state.Songs) == 0 {
		m.viewport.SetContent(m.styles.Muted.Render("  No songs yet. Press a to add one."))

		return
	}

	width := max(m.viewport.Width-8, minViewportWidth)

	var b strings.Builder

	for i, song := range m.state.Songs {
		line := fmt.Sprintf("%3d. %s", i+1, truncate(song.String(), width))

		if i == m.cursorPos && m.focusedPanel == panelList {
			b.WriteString(m.styles.Cursor.Render(line))
		} else {
			b.WriteString(m.styles.Text.Render(line))
		}

		if i < len(m.state.Songs)-1 {
			b.WriteString("\n")
		}
	}

	m.viewport.SetContent(b.String())
}

// renderControls renders the Undo/Redo/Clear controls, dimmed when they would do nothing
func (m model) renderControls() string {
	control := func(label string, enabled, destructive bool) string {
		return m.controlStyle(enabled, destructive).Render("[" + label + "]")
	}

	return strings.Join([]string{
		control(fmt.Sprintf("Undo %d", len(m.state.History)), len(m.state.History) > 0, false),
		control(fmt.Sprintf("Redo %d", len(m.state.Future)), len(m.state.Future) > 0, false),
		control("Clear", len(m.state.Songs) > 0, true),
	}, " ")
}

// controlStyle picks the style of one control; destructive ones are drawn in red
func (m model) controlStyle(enabled, destructive bool) lipgloss.Style {
	switch {
	case !enabled:
		return m.styles.Disabled
	case destructive:
		return m.styles.Danger
	}

	return m.styles.Accent
}

// renderStatus renders the status bar
func (m model) renderStatus() string {
	// Show status message if recent
	if m.statusMsg != "" && time.Since(m.statusMsgAge) < statusMessageDuration {
		return m.styles.Status.Width(m.width).Render(m.statusMsg)
	}

	position := 0
	if len(m.state.Songs) > 0 {
		position = m.cursorPos + 1
	}

	saved := "not saved"

	switch {
	case m.dryRun:
		saved = "dry-run"
	case !m.lastSaved.IsZero():
		saved = "saved " + humanize.Time(m.lastSaved)
	}

	status := fmt.Sprintf("%s | Song %d/%d | %s | theme: %s",
		m.playlistID,
		position,
		len(m.state.Songs),
		saved,
		m.themeMode,
	)

	return m.styles.Status.Width(m.width).Render(status)
}

// renderHelp renders the help text
func (m model) renderHelp() string {
	if m.focusedPanel == panelInput {
		return m.styles.Muted.Render(" enter: add | esc/tab: back to list | ctrl+c: quit")
	}

	return m.styles.Muted.Render(" a/tab: add | ↑/↓/j/k: navigate | d: remove | u: undo | ctrl+r: redo | C: clear | t: theme | q: quit")
}
