package engine

import "LiveBoard/internal/canvas"

type HitKind int

const (
	HitNothing HitKind = iota
	HitLayer
	HitHandle
)

// HitResult says what lies under a pointer.
type HitResult struct {
	Kind    HitKind
	LayerID string
	Corner  canvas.Side
}

// HitTest finds what a raw pointer position lands on. Resize handles are
// only offered for a single selected layer; layers are tested top first.
func (e *Engine) HitTest(raw canvas.Point) HitResult {
	p := e.toCanvas(raw)

	sel := e.room.Self().Selection
	if len(sel) == 1 {
		if l, ok := e.room.Layer(sel[0]); ok {
			if side, ok := canvas.HandleAt(canvas.LayerBounds(l), p, canvas.HandleSize); ok {
				return HitResult{Kind: HitHandle, LayerID: sel[0], Corner: side}
			}
		}
	}

	ids := e.room.LayerIDs()
	for i := len(ids) - 1; i >= 0; i-- {
		l, ok := e.room.Layer(ids[i])
		if !ok {
			continue
		}
		if canvas.LayerBounds(l).Contains(p) {
			return HitResult{Kind: HitLayer, LayerID: ids[i]}
		}
	}
	return HitResult{}
}
