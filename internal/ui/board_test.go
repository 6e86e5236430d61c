package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LiveBoard/internal/canvas"
	"LiveBoard/internal/engine"
	"LiveBoard/internal/state"
)

func newTestBoard(t *testing.T) (*BoardWidget, *state.Room) {
	t.Helper()
	test.NewTempApp(t)
	room := state.NewRoom()
	b := NewBoardWidget(room, engine.New(room))
	w := test.NewWindow(b)
	w.Resize(fyne.NewSize(800, 600))
	t.Cleanup(func() {
		b.Close()
		w.Close()
	})
	return b, room
}

func press(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	}
}

func drag(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func TestBoardInsertsShape(t *testing.T) {
	b, room := newTestBoard(t)
	b.SetTool(engine.Inserting(canvas.LayerRectangle))

	b.MouseDown(press(40, 50))
	b.MouseUp(press(40, 50))

	require.Equal(t, 1, room.LayerCount())
	l, ok := room.Layer(room.LayerIDs()[0])
	require.True(t, ok)
	assert.Equal(t, canvas.LayerRectangle, l.Type)
	assert.Equal(t, 40.0, l.X)
	assert.Equal(t, engine.ModeNone, b.Engine().State().Mode)

	// background, the shape, the selection outline and eight handles
	objects := test.WidgetRenderer(b).Objects()
	assert.Len(t, objects, 3+len(canvas.AllSides))
}

func TestBoardPencilStroke(t *testing.T) {
	b, room := newTestBoard(t)
	b.SetTool(engine.Pencil())

	b.MouseDown(press(10, 10))
	b.Dragged(drag(20, 15))
	b.Dragged(drag(30, 12))
	b.MouseUp(press(30, 12))

	require.Equal(t, 1, room.LayerCount())
	l, _ := room.Layer(room.LayerIDs()[0])
	assert.Equal(t, canvas.LayerPath, l.Type)
	assert.Len(t, l.Points, 3)
	assert.Nil(t, room.Self().PencilDraft)
	assert.Equal(t, engine.ModePencil, b.Engine().State().Mode)
}

func TestBoardDragMovesLayer(t *testing.T) {
	b, room := newTestBoard(t)
	room.AppendLayer("a", canvas.Layer{Type: canvas.LayerRectangle, X: 0, Y: 0, Width: 100, Height: 100})

	b.MouseDown(press(50, 50))
	b.Dragged(drag(60, 70))
	b.DragEnd()

	l, _ := room.Layer("a")
	assert.Equal(t, 10.0, l.X)
	assert.Equal(t, 20.0, l.Y)
	assert.Equal(t, engine.ModeNone, b.Engine().State().Mode)

	b.TypedShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl})
	l, _ = room.Layer("a")
	assert.Equal(t, 0.0, l.X)
}

func TestBoardFocusLostEndsGesture(t *testing.T) {
	b, room := newTestBoard(t)
	room.AppendLayer("a", canvas.Layer{Type: canvas.LayerRectangle, Width: 100, Height: 100})

	b.MouseDown(press(50, 50))
	require.Equal(t, engine.ModeTranslating, b.Engine().State().Mode)

	b.FocusLost()
	assert.Equal(t, engine.ModeNone, b.Engine().State().Mode)
}

func TestBoardScrollPans(t *testing.T) {
	b, _ := newTestBoard(t)
	b.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DX: 5, DY: -10}})

	assert.Equal(t, canvas.Camera{X: 5, Y: -10}, b.Engine().Camera())
}

func TestBoardMouseOutHidesCursor(t *testing.T) {
	b, room := newTestBoard(t)
	b.MouseMoved(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(5, 5)}})
	require.NotNil(t, room.Self().Cursor)

	b.MouseOut()
	assert.Nil(t, room.Self().Cursor)
}

func TestToolbarTracksHistory(t *testing.T) {
	b, room := newTestBoard(t)
	tb := NewToolbar(b)
	b.OnChange = tb.Update
	assert.True(t, tb.undo.Disabled())

	room.AppendLayer("a", canvas.Layer{Type: canvas.LayerNote, Width: 10, Height: 10})
	assert.False(t, tb.undo.Disabled())
	assert.True(t, tb.redo.Disabled())

	tb.undo.OnTapped()
	assert.Zero(t, room.LayerCount())
	assert.False(t, tb.redo.Disabled())
}

func TestParticipantsShowsOverflow(t *testing.T) {
	test.NewTempApp(t)
	room := state.NewRoom()
	for id := 1; id <= 4; id++ {
		room.ApplyRemotePresence(id, state.SetSelection(nil))
	}

	p := NewParticipants(room)
	// two others, yourself and the overflow label
	assert.Len(t, p.box.Objects, 4)
}
