package engine

import "strings"

// KeyEvent is a key press with its modifiers.
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Shift bool
}

// KeyDown handles the history shortcuts: Ctrl/Cmd+Z undoes, Ctrl/Cmd+Y
// and Ctrl/Cmd+Shift+Z redo. It reports whether the key was consumed.
// Delete and Backspace are not bound.
func (e *Engine) KeyDown(ev KeyEvent) bool {
	if !ev.Ctrl && !ev.Meta {
		return false
	}
	switch strings.ToLower(ev.Key) {
	case "z":
		if ev.Shift {
			e.room.Redo()
		} else {
			e.room.Undo()
		}
		return true
	case "y":
		e.room.Redo()
		return true
	}
	return false
}
