package engine

import "LiveBoard/internal/canvas"

// SelectionColors maps every layer another connection has selected to
// that connection's color. When two connections select the same layer
// the one with the higher connection id wins. The local selection is not
// included; the shell draws it with its own highlight.
func (e *Engine) SelectionColors() map[string]canvas.Color {
	out := make(map[string]canvas.Color)
	for _, peer := range e.room.Others() {
		c := canvas.ConnectionColor(peer.ConnectionID)
		for _, id := range peer.Presence.Selection {
			out[id] = c
		}
	}
	return out
}

// Cursor is another connection's pointer position.
type Cursor struct {
	ConnectionID int
	Position     canvas.Point
	Color        canvas.Color
}

// Cursors lists the visible pointers of every other connection.
func (e *Engine) Cursors() []Cursor {
	var out []Cursor
	for _, peer := range e.room.Others() {
		if peer.Presence.Cursor == nil {
			continue
		}
		out = append(out, Cursor{
			ConnectionID: peer.ConnectionID,
			Position:     *peer.Presence.Cursor,
			Color:        canvas.ConnectionColor(peer.ConnectionID),
		})
	}
	return out
}

// Draft is another connection's in-progress pencil stroke.
type Draft struct {
	ConnectionID int
	Points       []canvas.PathPoint
	Color        canvas.Color
}

// Drafts lists the in-progress strokes of every connection, including
// this one, so the shell can preview them before they are committed.
func (e *Engine) Drafts() []Draft {
	var out []Draft
	if self := e.room.Self(); len(self.PencilDraft) > 0 {
		out = append(out, Draft{ConnectionID: -1, Points: self.PencilDraft, Color: penColor(self.PenColor, e.lastUsedColor)})
	}
	for _, peer := range e.room.Others() {
		if len(peer.Presence.PencilDraft) == 0 {
			continue
		}
		out = append(out, Draft{
			ConnectionID: peer.ConnectionID,
			Points:       peer.Presence.PencilDraft,
			Color:        penColor(peer.Presence.PenColor, canvas.Color{}),
		})
	}
	return out
}

func penColor(c *canvas.Color, fallback canvas.Color) canvas.Color {
	if c == nil {
		return fallback
	}
	return *c
}
