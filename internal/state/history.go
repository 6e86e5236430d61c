package state

// change is one undoable unit: an inverse storage op, an inverse presence
// patch, or both.
type change struct {
	op       *Op
	presence *PresencePatch
}

// history keeps undo and redo frames. A frame is a list of changes that
// undo or redo together. While paused, every recorded change accumulates
// into one pending frame that is pushed when the pause ends.
type history struct {
	undo    [][]change
	redo    [][]change
	paused  bool
	pending []change
}

func (h *history) record(frame []change) {
	if len(frame) == 0 {
		return
	}
	if h.paused {
		h.pending = append(h.pending, frame...)
		return
	}
	h.undo = append(h.undo, frame)
	h.redo = nil
}

func (h *history) pause() {
	h.paused = true
}

func (h *history) resume() {
	if !h.paused {
		return
	}
	h.paused = false
	frame := h.pending
	h.pending = nil
	h.record(frame)
}

func (h *history) popUndo() ([]change, bool) {
	return pop(&h.undo)
}

func (h *history) popRedo() ([]change, bool) {
	return pop(&h.redo)
}

func pop(stack *[][]change) ([]change, bool) {
	s := *stack
	if len(s) == 0 {
		return nil, false
	}
	frame := s[len(s)-1]
	*stack = s[:len(s)-1]
	return frame, true
}
