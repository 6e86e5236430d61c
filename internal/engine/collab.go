package engine

import (
	"LiveBoard/internal/canvas"
	"LiveBoard/internal/state"
)

// Storage is the replicated board document: an ordered id sequence plus
// an id to layer map. UpdateLayer and DeleteLayer must tolerate ids that
// another connection already removed.
type Storage interface {
	LayerIDs() []string
	Layer(id string) (canvas.Layer, bool)
	Layers() map[string]canvas.Layer
	LayerCount() int
	AppendLayer(id string, layer canvas.Layer)
	UpdateLayer(id string, patch canvas.LayerPatch) bool
	DeleteLayer(id string) bool
}

// Presence reads and writes per-connection ephemeral state.
type Presence interface {
	Self() state.Presence
	UpdatePresence(patch state.PresencePatch, addToHistory bool)
	Others() []state.Peer
}

// History groups writes into undo steps. Resume must be safe to call
// without a matching Pause.
type History interface {
	Pause()
	Resume()
	Undo()
	Redo()
	CanUndo() bool
	CanRedo() bool
}

// Batcher commits every write made inside fn as one unit.
type Batcher interface {
	Batch(fn func())
}

// Room is everything the engine needs from the collaboration layer.
type Room interface {
	Storage
	Presence
	History
	Batcher
}

var _ Room = (*state.Room)(nil)
