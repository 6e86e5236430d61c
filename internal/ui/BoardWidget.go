package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"LiveBoard/internal/canvas"
	"LiveBoard/internal/engine"
	"LiveBoard/internal/state"
)

// mousePressure stands in for pen pressure on devices that report none.
const mousePressure = 0.5

// BoardWidget is the drawing surface. It forwards pointer, wheel, key and
// focus events to the engine and repaints whenever the room changes.
type BoardWidget struct {
	widget.BaseWidget

	engine *engine.Engine
	window fyne.Window

	pressed bool
	last    canvas.Point

	// OnChange runs on the UI goroutine after the board repaints.
	OnChange func()

	unsubscribe func()
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ fyne.Focusable = (*BoardWidget)(nil)
var _ fyne.DoubleTappable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)
var _ fyne.Shortcutable = (*BoardWidget)(nil)

// NewBoardWidget creates the surface for room. Room updates may arrive on
// any goroutine; repaints are marshalled onto the UI goroutine.
func NewBoardWidget(room *state.Room, eng *engine.Engine) *BoardWidget {
	b := &BoardWidget{engine: eng}
	b.ExtendBaseWidget(b)
	b.unsubscribe = room.Subscribe(func() {
		fyne.Do(b.changed)
	})
	return b
}

// Engine returns the engine driving this board.
func (b *BoardWidget) Engine() *engine.Engine { return b.engine }

// SetWindow gives the board a parent for its dialogs.
func (b *BoardWidget) SetWindow(w fyne.Window) { b.window = w }

// SetTool arms a tool from the toolbar.
func (b *BoardWidget) SetTool(s engine.CanvasState) {
	b.engine.SetState(s)
	b.changed()
}

// Close stops listening to the room.
func (b *BoardWidget) Close() {
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
}

func (b *BoardWidget) changed() {
	b.Refresh()
	if b.OnChange != nil {
		b.OnChange()
	}
}

func (b *BoardWidget) event(pos fyne.Position, primary bool) engine.PointerEvent {
	b.last = canvas.Point{X: float64(pos.X), Y: float64(pos.Y)}
	return engine.PointerEvent{Position: b.last, Pressure: mousePressure, Primary: primary}
}

func (b *BoardWidget) focus() {
	if c := fyne.CurrentApp().Driver().CanvasForObject(b); c != nil {
		c.Focus(b)
	}
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.focus()
	b.pressed = true
	b.engine.Dispatch(b.event(e.Position, true))
	b.changed()
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || !b.pressed {
		return
	}
	b.release(b.event(e.Position, false))
}

func (b *BoardWidget) release(ev engine.PointerEvent) {
	b.pressed = false
	b.engine.PointerUp(ev)
	b.changed()
}

func (b *BoardWidget) MouseIn(e *desktop.MouseEvent) {
	b.engine.PointerMove(b.event(e.Position, b.pressed))
}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	b.engine.PointerMove(b.event(e.Position, b.pressed))
	b.changed()
}

func (b *BoardWidget) MouseOut() {
	b.engine.PointerLeave()
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.engine.PointerMove(b.event(e.Position, b.pressed))
	b.changed()
}

// DragEnd covers drivers that end a drag without a MouseUp.
func (b *BoardWidget) DragEnd() {
	if b.pressed {
		b.release(engine.PointerEvent{Position: b.last, Pressure: mousePressure})
	}
}

func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	// fyne reports content movement; the engine expects wheel deltas.
	b.engine.Wheel(-float64(e.Scrolled.DX), -float64(e.Scrolled.DY))
	b.changed()
}

func (b *BoardWidget) FocusGained() {}

func (b *BoardWidget) FocusLost() {
	b.pressed = false
	b.engine.Blur()
	b.changed()
}

func (b *BoardWidget) TypedRune(rune) {}

func (b *BoardWidget) TypedKey(*fyne.KeyEvent) {}

// TypedShortcut receives the history shortcuts while the board has focus.
func (b *BoardWidget) TypedShortcut(s fyne.Shortcut) {
	if cs, ok := s.(*desktop.CustomShortcut); ok {
		b.handleShortcut(cs)
	}
}

func (b *BoardWidget) handleShortcut(cs *desktop.CustomShortcut) {
	ev := engine.KeyEvent{
		Key:   strings.ToLower(string(cs.KeyName)),
		Ctrl:  cs.Modifier&fyne.KeyModifierControl != 0,
		Meta:  cs.Modifier&fyne.KeyModifierSuper != 0,
		Shift: cs.Modifier&fyne.KeyModifierShift != 0,
	}
	if b.engine.KeyDown(ev) {
		b.changed()
	}
}

// DoubleTapped edits the text of a Text or Note layer.
func (b *BoardWidget) DoubleTapped(e *fyne.PointEvent) {
	hit := b.engine.HitTest(canvas.Point{X: float64(e.Position.X), Y: float64(e.Position.Y)})
	if hit.Kind != engine.HitLayer || b.window == nil {
		return
	}
	l, ok := b.engine.Layer(hit.LayerID)
	if !ok || (l.Type != canvas.LayerText && l.Type != canvas.LayerNote) {
		return
	}

	entry := widget.NewMultiLineEntry()
	entry.SetText(l.Value)
	entry.SetMinRowsVisible(3)
	id := hit.LayerID
	dialog.ShowForm(fmt.Sprintf("Edit %s", l.Type), "Save", "Cancel",
		[]*widget.FormItem{widget.NewFormItem("Text", entry)},
		func(ok bool) {
			if !ok {
				return
			}
			b.engine.SetLayerValue(id, entry.Text)
			b.changed()
		}, b.window)
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return newBoardRenderer(b)
}
