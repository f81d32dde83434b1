// ABOUTME: Cursor-to-middle scrolling for the song list
// ABOUTME: Implements vim/less style viewport scrolling behavior

package tui

// scrollPhase identifies how the list scrolls for a cursor position
type scrollPhase int

const (
	topPhase    scrollPhase = iota // Cursor moves, viewport at top
	middlePhase                    // Cursor at middle, content scrolls
	bottomPhase                    // Viewport at bottom, cursor moves
)

// phaseFor returns the scrolling phase of cursor in a list of total rows shown height rows at a time
func phaseFor(height, cursor, total int) scrollPhase {
	if total == 0 || height < 1 {
		return topPhase
	}

	middle := height / 2
	if cursor < middle {
		return topPhase
	}

	if cursor < total-height+middle {
		return middlePhase
	}

	return bottomPhase
}

// scrollOffset computes the viewport Y offset that keeps cursor visible.
// The cursor moves freely near the top, stays centered while content scrolls,
// then moves again once the end of the list is on screen.
func scrollOffset(height, cursor, total int) int {
	switch phaseFor(height, cursor, total) {
	case middlePhase:
		return cursor - height/2
	case bottomPhase:
		return max(total-height, 0)
	default:
		return 0
	}
}
