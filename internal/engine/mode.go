package engine

import (
	"fmt"

	"LiveBoard/internal/canvas"
)

// Mode is the active interaction mode of a board view.
type Mode int

const (
	ModeNone Mode = iota
	ModePressing
	ModeSelectionNet
	ModeTranslating
	ModeResizing
	ModeInserting
	ModePencil
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModePressing:
		return "pressing"
	case ModeSelectionNet:
		return "selection-net"
	case ModeTranslating:
		return "translating"
	case ModeResizing:
		return "resizing"
	case ModeInserting:
		return "inserting"
	case ModePencil:
		return "pencil"
	}
	return "unknown"
}

// CanvasState is the mode plus its payload. Only the fields belonging to
// Mode are meaningful:
//
//	Pressing      Origin
//	SelectionNet  Origin, Current
//	Translating   Current
//	Resizing      Corner, InitialBounds
//	Inserting     LayerType
type CanvasState struct {
	Mode          Mode
	Origin        canvas.Point
	Current       canvas.Point
	Corner        canvas.Side
	InitialBounds canvas.Bounds
	LayerType     canvas.LayerType
}

func None() CanvasState { return CanvasState{Mode: ModeNone} }

func Pressing(origin canvas.Point) CanvasState {
	return CanvasState{Mode: ModePressing, Origin: origin}
}

func SelectionNet(origin, current canvas.Point) CanvasState {
	return CanvasState{Mode: ModeSelectionNet, Origin: origin, Current: current}
}

func Translating(current canvas.Point) CanvasState {
	return CanvasState{Mode: ModeTranslating, Current: current}
}

func Resizing(corner canvas.Side, initial canvas.Bounds) CanvasState {
	return CanvasState{Mode: ModeResizing, Corner: corner, InitialBounds: initial}
}

func Inserting(t canvas.LayerType) CanvasState {
	return CanvasState{Mode: ModeInserting, LayerType: t}
}

func Pencil() CanvasState { return CanvasState{Mode: ModePencil} }

func (s CanvasState) String() string {
	switch s.Mode {
	case ModePressing:
		return fmt.Sprintf("pressing(%v)", s.Origin)
	case ModeSelectionNet:
		return fmt.Sprintf("selection-net(%v -> %v)", s.Origin, s.Current)
	case ModeTranslating:
		return fmt.Sprintf("translating(%v)", s.Current)
	case ModeResizing:
		return fmt.Sprintf("resizing(%s %+v)", s.Corner, s.InitialBounds)
	case ModeInserting:
		return fmt.Sprintf("inserting(%s)", s.LayerType)
	}
	return s.Mode.String()
}
