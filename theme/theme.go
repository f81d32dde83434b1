// ABOUTME: Color palettes for light, dark and custom modes
// ABOUTME: Resolves the active palette and builds lipgloss styles from it

// Package theme maps a theme mode and accent color to terminal styles.
package theme

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Mode selects a palette
type Mode string

// Available modes, cycled in this order
const (
	Light  Mode = "light"
	Dark   Mode = "dark"
	Custom Mode = "custom"
)

var modes = []Mode{Light, Dark, Custom}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Palette holds the colors of one theme
type Palette struct {
	Background    string
	Text          string
	SecondaryText string
	Accent        string
	InputBack     string
	Border        string
}

var palettes = map[Mode]Palette{
	Light: {
		Background:    "#FFFFFF",
		Text:          "#000000",
		SecondaryText: "#666666",
		Accent:        "#00C4B4",
		InputBack:     "#F0F0F0",
		Border:        "#CCCCCC",
	},
	Dark: {
		Background:    "#121212",
		Text:          "#FFFFFF",
		SecondaryText: "#AAAAAA",
		Accent:        "#1DB954",
		InputBack:     "#1E1E1E",
		Border:        "#FFFFFF",
	},
	Custom: {
		Background:    "#121212",
		Text:          "#FFFFFF",
		SecondaryText: "#AAAAAA",
		Accent:        "#1DB954", // Replaced by the user's accent
		InputBack:     "#1E1E1E",
		Border:        "#FFFFFF",
	},
}

// ParseMode validates a mode name (case-insensitive)
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := palettes[m]; !ok {
		return "", fmt.Errorf("unknown theme %q (want light, dark or custom)", s)
	}

	return m, nil
}

// Next returns the mode after m in the cycle light -> dark -> custom -> light
func (m Mode) Next() Mode {
	for i, mode := range modes {
		if mode == m {
			return modes[(i+1)%len(modes)]
		}
	}

	return Light
}

// ValidAccent reports whether s is a #RRGGBB color
func ValidAccent(s string) bool {
	return hexColor.MatchString(s)
}

// Resolve returns the palette for mode. The accent only applies in custom mode,
// and an invalid accent leaves the palette's own.
func Resolve(mode Mode, accent string) Palette {
	p, ok := palettes[mode]
	if !ok {
		p = palettes[Dark]
	}

	if mode == Custom && ValidAccent(accent) {
		p.Accent = accent
	}

	return p
}

// Styles are the lipgloss styles derived from a palette
type Styles struct {
	Title    lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Danger   lipgloss.Style
	Cursor   lipgloss.Style
	Input    lipgloss.Style
	Status   lipgloss.Style
	Disabled lipgloss.Style
}

// NewStyles builds styles for p
func NewStyles(p Palette) Styles {
	bg := lipgloss.Color(p.Background)
	text := lipgloss.Color(p.Text)
	accent := lipgloss.Color(p.Accent)
	muted := lipgloss.Color(p.SecondaryText)

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),
		Text: lipgloss.NewStyle().
			Foreground(text),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		Accent: lipgloss.NewStyle().
			Foreground(accent),
		Danger: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")),
		Cursor: lipgloss.NewStyle().
			Background(accent).
			Foreground(bg),
		Input: lipgloss.NewStyle().
			Background(lipgloss.Color(p.InputBack)).
			Foreground(text).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Border)).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Background(lipgloss.Color(p.InputBack)).
			Foreground(text).
			Padding(0, 1),
		Disabled: lipgloss.NewStyle().
			Foreground(muted).
			Faint(true),
	}
}
