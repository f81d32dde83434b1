// ABOUTME: Edit history reducer for a playlist's song list
// ABOUTME: Pure state transitions for add/remove/clear/set with linear undo/redo snapshot stacks

// Package history implements the undo/redo state machine behind playlist editing.
// States are values: every transition builds new slices and never writes into
// the slices of its input, so snapshots held in History and Future stay intact.
package history

import (
	"slices"

	"github.com/samber/lo"

	"playlist-editor/playlist"
)

// State is the reducer-owned edit state of one playlist
type State struct {
	Songs   []playlist.Song
	History []State // Most recent last
	Future  []State // Most recent first
}

// ActionType identifies a state transition
type ActionType int

// Supported transitions
const (
	Add ActionType = iota
	Remove
	Clear
	Undo
	Redo
	Set
)

func (t ActionType) String() string {
	switch t {
	case Add:
		return "ADD"
	case Remove:
		return "REMOVE"
	case Clear:
		return "CLEAR"
	case Undo:
		return "UNDO"
	case Redo:
		return "REDO"
	case Set:
		return "SET"
	default:
		return "UNKNOWN"
	}
}

// Action is a dispatched transition with its payload
type Action struct {
	Type  ActionType
	Song  playlist.Song   // ADD
	ID    string          // REMOVE
	Songs []playlist.Song // SET
}

// AddSong appends song to the end of the list
func AddSong(song playlist.Song) Action { return Action{Type: Add, Song: song} }

// RemoveSong drops every song with the given ID
func RemoveSong(id string) Action { return Action{Type: Remove, ID: id} }

// ClearSongs empties the list
func ClearSongs() Action { return Action{Type: Clear} }

// UndoEdit restores the previous state
func UndoEdit() Action { return Action{Type: Undo} }

// RedoEdit re-applies the most recently undone state
func RedoEdit() Action { return Action{Type: Redo} }

// SetSongs replaces the list without touching history (initial load)
func SetSongs(songs []playlist.Song) Action { return Action{Type: Set, Songs: songs} }

// Reduce returns the state that results from applying a to s.
// It never fails; undo and redo on an empty stack return s unchanged.
func Reduce(s State, a Action) State {
	switch a.Type {
	case Add:
		return State{
			Songs:   append(slices.Clip(s.Songs), a.Song),
			History: push(s.History, s),
		}

	case Remove:
		return State{
			Songs: lo.Reject(s.Songs, func(song playlist.Song, _ int) bool {
				return song.ID == a.ID
			}),
			History: push(s.History, s),
		}

	case Clear:
		return State{
			Songs:   []playlist.Song{},
			History: push(s.History, s),
		}

	case Undo:
		if len(s.History) == 0 {
			return s
		}

		last := len(s.History) - 1
		prev := s.History[last]

		return State{
			Songs:   prev.Songs,
			History: s.History[:last:last],
			Future:  append([]State{s}, s.Future...),
		}

	case Redo:
		if len(s.Future) == 0 {
			return s
		}

		next := s.Future[0]

		return State{
			Songs:   next.Songs,
			History: push(s.History, s),
			Future:  s.Future[1:],
		}

	case Set:
		return State{
			Songs:   a.Songs,
			History: s.History,
			Future:  s.Future,
		}
	}

	return s
}

// CanUndo reports whether an undo would change the state
func CanUndo(s State) bool {
	return len(s.History) > 0
}

// CanRedo reports whether a redo would change the state
func CanRedo(s State) bool {
	return len(s.Future) > 0
}

// IsNoop reports whether Reduce(s, a) returns s unchanged.
// Callers use it to skip persistence for boundary undo/redo.
func IsNoop(s State, a Action) bool {
	switch a.Type {
	case Add, Remove, Clear, Set:
		return false
	case Undo:
		return !CanUndo(s)
	case Redo:
		return !CanRedo(s)
	default:
		return true
	}
}

// push appends snapshot to a copy-on-write view of stack
func push(stack []State, snapshot State) []State {
	return append(slices.Clip(stack), snapshot)
}
