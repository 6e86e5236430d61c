package engine

import (
	"log"
	"slices"

	"github.com/google/uuid"

	"LiveBoard/internal/canvas"
	"LiveBoard/internal/state"
)

// insertLayer places a new shape with its top-left corner at p and
// selects it. The write, the selection and the mode reset are one step.
func (e *Engine) insertLayer(t canvas.LayerType, p canvas.Point) {
	if e.room.LayerCount() >= canvas.MaxLayers {
		log.Printf("[ENGINE] Board full, not inserting %s", t)
		return
	}

	id := e.newID()
	layer := canvas.Layer{
		Type:   t,
		X:      p.X,
		Y:      p.Y,
		Width:  canvas.DefaultLayerSize,
		Height: canvas.DefaultLayerSize,
		Fill:   e.lastUsedColor,
	}
	e.room.Batch(func() {
		e.room.AppendLayer(id, layer)
		e.room.UpdatePresence(state.SetSelection([]string{id}), true)
	})
	e.state = None()
}

// insertPath commits a pencil draft as a Path layer. Drafts with fewer
// than two samples are dropped. The pencil stays armed either way.
func (e *Engine) insertPath(draft []canvas.PathPoint, fill canvas.Color) {
	if len(draft) < 2 || e.room.LayerCount() >= canvas.MaxLayers {
		e.room.UpdatePresence(state.SetPencilDraft(nil), false)
		return
	}

	id := e.newID()
	layer := canvas.StrokeToPathLayer(draft, fill)
	e.room.Batch(func() {
		e.room.AppendLayer(id, layer)
		e.room.UpdatePresence(state.SetPencilDraft(nil), false)
	})
}

// updateLayer merges patch into a layer. Missing ids are ignored, they
// were most likely deleted by another connection mid-gesture.
func (e *Engine) updateLayer(id string, patch canvas.LayerPatch) {
	e.room.UpdateLayer(id, patch)
}

// DeleteLayers removes layers from the board and from the local
// selection as one undo step.
func (e *Engine) DeleteLayers(ids []string) {
	if len(ids) == 0 {
		return
	}
	e.room.Batch(func() {
		for _, id := range ids {
			e.room.DeleteLayer(id)
		}
		sel := e.room.Self().Selection
		kept := slices.DeleteFunc(slices.Clone(sel), func(id string) bool {
			return slices.Contains(ids, id)
		})
		if len(kept) != len(sel) {
			e.room.UpdatePresence(state.SetSelection(kept), true)
		}
	})
}

// DeleteSelection removes every layer in the local selection.
func (e *Engine) DeleteSelection() {
	e.DeleteLayers(e.room.Self().Selection)
}

// SetFill makes c the color for new shapes and strokes and recolors the
// current selection in one step.
func (e *Engine) SetFill(c canvas.Color) {
	e.lastUsedColor = c
	sel := e.room.Self().Selection
	if len(sel) == 0 {
		return
	}
	e.room.Batch(func() {
		for _, id := range sel {
			e.updateLayer(id, canvas.LayerPatch{Fill: &c})
		}
	})
}

// SetLayerValue replaces the text of a Text or Note layer.
func (e *Engine) SetLayerValue(id, value string) {
	l, ok := e.room.Layer(id)
	if !ok || (l.Type != canvas.LayerText && l.Type != canvas.LayerNote) {
		return
	}
	e.updateLayer(id, canvas.LayerPatch{Value: &value})
}

func defaultID() string { return uuid.NewString() }
