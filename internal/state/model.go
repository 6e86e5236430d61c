package state

import (
	"slices"

	"LiveBoard/internal/canvas"
)

type OpType string

const (
	OpInsertLayer OpType = "insert_layer"
	OpUpdateLayer OpType = "update_layer"
	OpDeleteLayer OpType = "delete_layer"
)

// Op is one replicated storage mutation.
type Op struct {
	Type  OpType             `json:"type"`
	ID    string             `json:"id"`
	Layer *canvas.Layer      `json:"layer,omitempty"`
	Patch *canvas.LayerPatch `json:"patch,omitempty"`
	// Order is the z-order key of an inserted layer. Reinserting a deleted
	// layer reuses its original key so it lands back at the same depth.
	Order Stamp `json:"order"`
	Stamp Stamp `json:"stamp"`
}

// PresenceField selects which fields of a PresencePatch are written.
type PresenceField uint8

const (
	FieldCursor PresenceField = 1 << iota
	FieldSelection
	FieldPencilDraft
	FieldPenColor
)

// Presence is the ephemeral state one connection broadcasts. Nil pointers
// and a nil PencilDraft mean "absent".
type Presence struct {
	Cursor      *canvas.Point      `json:"cursor,omitempty"`
	Selection   []string           `json:"selection,omitempty"`
	PencilDraft []canvas.PathPoint `json:"pencil_draft,omitempty"`
	PenColor    *canvas.Color      `json:"pen_color,omitempty"`
}

// PresencePatch replaces the fields named in Fields. A named field with a
// nil value is cleared.
type PresencePatch struct {
	Fields      PresenceField      `json:"fields"`
	Cursor      *canvas.Point      `json:"cursor,omitempty"`
	Selection   []string           `json:"selection,omitempty"`
	PencilDraft []canvas.PathPoint `json:"pencil_draft,omitempty"`
	PenColor    *canvas.Color      `json:"pen_color,omitempty"`
}

func SetCursor(p *canvas.Point) PresencePatch {
	return PresencePatch{Fields: FieldCursor, Cursor: p}
}

func SetSelection(ids []string) PresencePatch {
	return PresencePatch{Fields: FieldSelection, Selection: ids}
}

func SetPencilDraft(pts []canvas.PathPoint) PresencePatch {
	return PresencePatch{Fields: FieldPencilDraft, PencilDraft: pts}
}

// FullPatch returns a patch that writes every field of p.
func FullPatch(p Presence) PresencePatch {
	return PresencePatch{
		Fields:      FieldCursor | FieldSelection | FieldPencilDraft | FieldPenColor,
		Cursor:      p.Cursor,
		Selection:   p.Selection,
		PencilDraft: p.PencilDraft,
		PenColor:    p.PenColor,
	}
}

// Merge overlays o on p; fields named by o win.
func (p PresencePatch) Merge(o PresencePatch) PresencePatch {
	if o.Fields&FieldCursor != 0 {
		p.Cursor = o.Cursor
	}
	if o.Fields&FieldSelection != 0 {
		p.Selection = o.Selection
	}
	if o.Fields&FieldPencilDraft != 0 {
		p.PencilDraft = o.PencilDraft
	}
	if o.Fields&FieldPenColor != 0 {
		p.PenColor = o.PenColor
	}
	p.Fields |= o.Fields
	return p
}

// Clone returns a deep copy of p.
func (p Presence) Clone() Presence {
	return Presence{
		Cursor:      clonePtr(p.Cursor),
		Selection:   slices.Clone(p.Selection),
		PencilDraft: slices.Clone(p.PencilDraft),
		PenColor:    clonePtr(p.PenColor),
	}
}

// Apply returns p with the patch written over it.
func (p Presence) Apply(patch PresencePatch) Presence {
	if patch.Fields&FieldCursor != 0 {
		p.Cursor = clonePtr(patch.Cursor)
	}
	if patch.Fields&FieldSelection != 0 {
		p.Selection = slices.Clone(patch.Selection)
	}
	if patch.Fields&FieldPencilDraft != 0 {
		p.PencilDraft = slices.Clone(patch.PencilDraft)
	}
	if patch.Fields&FieldPenColor != 0 {
		p.PenColor = clonePtr(patch.PenColor)
	}
	return p
}

// Inverse returns the patch that restores the fields of p written by patch.
func (p Presence) Inverse(patch PresencePatch) PresencePatch {
	inv := PresencePatch{Fields: patch.Fields}
	if patch.Fields&FieldCursor != 0 {
		inv.Cursor = clonePtr(p.Cursor)
	}
	if patch.Fields&FieldSelection != 0 {
		inv.Selection = slices.Clone(p.Selection)
	}
	if patch.Fields&FieldPencilDraft != 0 {
		inv.PencilDraft = slices.Clone(p.PencilDraft)
	}
	if patch.Fields&FieldPenColor != 0 {
		inv.PenColor = clonePtr(p.PenColor)
	}
	return inv
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Peer is another connection's presence as seen locally.
type Peer struct {
	ConnectionID int      `json:"connection_id"`
	Presence     Presence `json:"presence"`
}

// SnapshotEntry carries one layer with all of its merge metadata.
type SnapshotEntry struct {
	ID     string           `json:"id"`
	Layer  canvas.Layer     `json:"layer"`
	Order  Stamp            `json:"order"`
	Alive  bool             `json:"alive"`
	Live   Stamp            `json:"live"`
	Fields map[string]Stamp `json:"fields"`
}

// Snapshot is the full replicated storage of a board, sent to late joiners.
type Snapshot struct {
	Entries []SnapshotEntry `json:"entries"`
}
