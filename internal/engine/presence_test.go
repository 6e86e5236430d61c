package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LiveBoard/internal/canvas"
	"LiveBoard/internal/state"
)

func TestSelectionColors(t *testing.T) {
	e, room := newTestEngine(t)
	room.UpdatePresence(state.SetSelection([]string{"mine"}), false)
	room.ApplyRemotePresence(4, state.SetSelection([]string{"shared", "b"}))
	room.ApplyRemotePresence(2, state.SetSelection([]string{"a", "shared"}))

	got := e.SelectionColors()

	assert.Equal(t, map[string]canvas.Color{
		"a":      canvas.ConnectionColor(2),
		"b":      canvas.ConnectionColor(4),
		"shared": canvas.ConnectionColor(4),
	}, got)
	assert.NotContains(t, got, "mine")
}

func TestSelectionColorsFollowPeers(t *testing.T) {
	e, room := newTestEngine(t)
	room.ApplyRemotePresence(1, state.SetSelection([]string{"a"}))
	require.Len(t, e.SelectionColors(), 1)

	room.ApplyRemotePresence(1, state.SetSelection(nil))
	assert.Empty(t, e.SelectionColors())

	room.ApplyRemotePresence(3, state.SetSelection([]string{"b"}))
	room.RemovePeer(3)
	assert.Empty(t, e.SelectionColors())
}

func TestCursorsAndDrafts(t *testing.T) {
	e, room := newTestEngine(t)
	pen := canvas.Color{R: 9}
	room.ApplyRemotePresence(7, state.SetCursor(&canvas.Point{X: 3, Y: 4}))
	room.ApplyRemotePresence(7, state.PresencePatch{
		Fields:      state.FieldPencilDraft | state.FieldPenColor,
		PencilDraft: []canvas.PathPoint{{X: 1, Y: 1, Pressure: 0.5}},
		PenColor:    &pen,
	})
	room.ApplyRemotePresence(8, state.SetSelection([]string{"x"}))

	cursors := e.Cursors()
	require.Len(t, cursors, 1)
	assert.Equal(t, Cursor{ConnectionID: 7, Position: canvas.Point{X: 3, Y: 4}, Color: canvas.ConnectionColor(7)}, cursors[0])

	drafts := e.Drafts()
	require.Len(t, drafts, 1)
	assert.Equal(t, pen, drafts[0].Color)
}
