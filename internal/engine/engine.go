// Package engine turns raw pointer, wheel and keyboard input on one board
// view into document writes, presence broadcasts and history steps.
//
// An Engine is not safe for concurrent use. The shell must deliver events
// from a single goroutine, one at a time.
package engine

import (
	"slices"

	"LiveBoard/internal/canvas"
	"LiveBoard/internal/state"
)

// selectionNetThreshold is the L1 distance a press must travel before it
// turns into a marquee selection.
const selectionNetThreshold = 5

// PointerEvent is a pointer sample in raw view coordinates.
type PointerEvent struct {
	Position canvas.Point
	Pressure float64
	// Primary reports whether the primary button is held.
	Primary bool
}

// Engine is the interaction controller of one board view. Camera, mode
// and last used color are local to it and never broadcast.
type Engine struct {
	room          Room
	state         CanvasState
	camera        canvas.Camera
	lastUsedColor canvas.Color
	newID         func() string
}

// New creates an engine in ModeNone drawing with black.
func New(room Room) *Engine {
	return &Engine{
		room:  room,
		state: None(),
		newID: defaultID,
	}
}

// State returns the current mode and payload.
func (e *Engine) State() CanvasState { return e.state }

// SetState switches tools, e.g. from the toolbar.
func (e *Engine) SetState(s CanvasState) { e.state = s }

// Camera returns the current pan offset.
func (e *Engine) Camera() canvas.Camera { return e.camera }

// LastUsedColor returns the fill for the next shape or stroke.
func (e *Engine) LastUsedColor() canvas.Color { return e.lastUsedColor }

// SetPenColor changes the color for new shapes and strokes without touching
// the selection.
func (e *Engine) SetPenColor(c canvas.Color) { e.lastUsedColor = c }

// LayerIDs returns the paint order, bottom first.
func (e *Engine) LayerIDs() []string { return e.room.LayerIDs() }

// Layer returns one layer for rendering.
func (e *Engine) Layer(id string) (canvas.Layer, bool) { return e.room.Layer(id) }

// Selection returns the ids selected by this connection.
func (e *Engine) Selection() []string { return e.room.Self().Selection }

// CanUndo and CanRedo drive the toolbar buttons.
func (e *Engine) CanUndo() bool { return e.room.CanUndo() }
func (e *Engine) CanRedo() bool { return e.room.CanRedo() }

func (e *Engine) Undo() { e.room.Undo() }
func (e *Engine) Redo() { e.room.Redo() }

func (e *Engine) toCanvas(raw canvas.Point) canvas.Point {
	return canvas.PointerToCanvasPoint(raw, e.camera)
}

// Wheel pans the camera. It never touches the document.
func (e *Engine) Wheel(dx, dy float64) {
	e.camera.X -= dx
	e.camera.Y -= dy
}

// PointerDown handles a press on empty canvas.
func (e *Engine) PointerDown(ev PointerEvent) {
	p := e.toCanvas(ev.Position)

	switch e.state.Mode {
	case ModeInserting:
		return
	case ModePencil:
		e.startDrawing(p, ev.Pressure)
		return
	}
	e.state = Pressing(p)
}

// LayerPointerDown handles a press on the body of a layer.
func (e *Engine) LayerPointerDown(ev PointerEvent, id string) {
	if e.state.Mode == ModePencil || e.state.Mode == ModeInserting {
		e.PointerDown(ev)
		return
	}

	e.room.Pause()
	p := e.toCanvas(ev.Position)
	sel := e.room.Self().Selection
	if len(sel) != 1 || sel[0] != id {
		e.room.UpdatePresence(state.SetSelection([]string{id}), true)
	}
	e.state = Translating(p)
}

// HandlePointerDown handles a press on a resize handle of the sole
// selected layer.
func (e *Engine) HandlePointerDown(ev PointerEvent, corner canvas.Side) {
	sel := e.room.Self().Selection
	if len(sel) != 1 || e.state.Mode == ModePencil || e.state.Mode == ModeInserting {
		e.PointerDown(ev)
		return
	}
	l, ok := e.room.Layer(sel[0])
	if !ok {
		e.PointerDown(ev)
		return
	}

	e.room.Pause()
	e.state = Resizing(corner, canvas.LayerBounds(l))
}

// Dispatch hit-tests a raw press and routes it to the matching handler.
func (e *Engine) Dispatch(ev PointerEvent) {
	if e.state.Mode == ModePencil || e.state.Mode == ModeInserting {
		e.PointerDown(ev)
		return
	}

	hit := e.HitTest(ev.Position)
	switch hit.Kind {
	case HitHandle:
		e.HandlePointerDown(ev, hit.Corner)
	case HitLayer:
		e.LayerPointerDown(ev, hit.LayerID)
	default:
		e.PointerDown(ev)
	}
}

// PointerMove advances the active gesture and broadcasts the cursor.
func (e *Engine) PointerMove(ev PointerEvent) {
	p := e.toCanvas(ev.Position)

	switch e.state.Mode {
	case ModePressing:
		e.startMultiSelection(p)
	case ModeSelectionNet:
		e.updateSelectionNet(p)
	case ModeTranslating:
		e.translateSelectedLayers(p)
	case ModeResizing:
		e.resizeSelectedLayer(p)
	case ModePencil:
		e.continueDrawing(p, ev)
	}

	e.room.UpdatePresence(state.SetCursor(&p), false)
}

// PointerUp ends the active gesture.
func (e *Engine) PointerUp(ev PointerEvent) {
	p := e.toCanvas(ev.Position)

	switch e.state.Mode {
	case ModeNone, ModePressing:
		e.unselectLayers()
		e.state = None()
	case ModePencil:
		self := e.room.Self()
		e.insertPath(self.PencilDraft, penColor(self.PenColor, e.lastUsedColor))
	case ModeInserting:
		e.insertLayer(e.state.LayerType, p)
		e.state = None()
	default:
		e.state = None()
	}

	e.room.Resume()
}

// PointerLeave hides this connection's cursor from the others.
func (e *Engine) PointerLeave() {
	e.room.UpdatePresence(state.SetCursor(nil), false)
}

// Blur recovers from a pointer-up that never arrived, e.g. when the window
// loses focus mid-drag. The open history step is closed, an unfinished
// stroke is dropped and any gesture returns to ModeNone. Armed tools stay
// armed.
func (e *Engine) Blur() {
	e.room.Resume()
	switch e.state.Mode {
	case ModePencil:
		if e.room.Self().PencilDraft != nil {
			e.room.UpdatePresence(state.SetPencilDraft(nil), false)
		}
	case ModeInserting, ModeNone:
	default:
		e.state = None()
	}
}

func (e *Engine) unselectLayers() {
	if len(e.room.Self().Selection) == 0 {
		return
	}
	e.room.UpdatePresence(state.SetSelection(nil), true)
}

func (e *Engine) startMultiSelection(p canvas.Point) {
	origin := e.state.Origin
	if abs(p.X-origin.X)+abs(p.Y-origin.Y) > selectionNetThreshold {
		e.state = SelectionNet(origin, p)
	}
}

func (e *Engine) updateSelectionNet(p canvas.Point) {
	e.state = SelectionNet(e.state.Origin, p)
	ids := canvas.IntersectsRectangle(e.room.LayerIDs(), e.room.Layers(), e.state.Origin, p)
	e.room.UpdatePresence(state.SetSelection(ids), false)
}

func (e *Engine) translateSelectedLayers(p canvas.Point) {
	offset := p.Sub(e.state.Current)
	sel := e.room.Self().Selection
	e.room.Batch(func() {
		for _, id := range sel {
			l, ok := e.room.Layer(id)
			if !ok {
				continue
			}
			e.updateLayer(id, canvas.PositionPatch(l.X+offset.X, l.Y+offset.Y))
		}
	})
	e.state = Translating(p)
}

func (e *Engine) resizeSelectedLayer(p canvas.Point) {
	sel := e.room.Self().Selection
	if len(sel) == 0 {
		return
	}
	b := canvas.ResizeBounds(e.state.InitialBounds, e.state.Corner, p)
	e.updateLayer(sel[0], canvas.BoundsPatch(b))
}

func (e *Engine) startDrawing(p canvas.Point, pressure float64) {
	c := e.lastUsedColor
	e.room.UpdatePresence(state.PresencePatch{
		Fields:      state.FieldPencilDraft | state.FieldPenColor,
		PencilDraft: []canvas.PathPoint{{X: p.X, Y: p.Y, Pressure: pressure}},
		PenColor:    &c,
	}, false)
}

func (e *Engine) continueDrawing(p canvas.Point, ev PointerEvent) {
	draft := e.room.Self().PencilDraft
	if !ev.Primary || draft == nil {
		return
	}
	last := draft[len(draft)-1]
	if last.X == p.X && last.Y == p.Y {
		return
	}
	draft = append(draft, canvas.PathPoint{X: p.X, Y: p.Y, Pressure: ev.Pressure})
	e.room.UpdatePresence(state.SetPencilDraft(draft), false)
}

// Marquee returns the selection net rectangle while one is being dragged.
func (e *Engine) Marquee() (canvas.Bounds, bool) {
	if e.state.Mode != ModeSelectionNet {
		return canvas.Bounds{}, false
	}
	return canvas.RectFromPoints(e.state.Origin, e.state.Current), true
}

// SelectionBounds returns the box around every locally selected layer.
func (e *Engine) SelectionBounds() (canvas.Bounds, bool) {
	var (
		out   canvas.Bounds
		found bool
	)
	for _, id := range e.room.Self().Selection {
		l, ok := e.room.Layer(id)
		if !ok {
			continue
		}
		b := canvas.LayerBounds(l)
		if !found {
			out, found = b, true
			continue
		}
		out = out.Union(b)
	}
	return out, found
}

// IsSelected reports whether this connection has id selected.
func (e *Engine) IsSelected(id string) bool {
	return slices.Contains(e.room.Self().Selection, id)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
