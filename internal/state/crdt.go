package state

import (
	"log"
	"sort"

	"LiveBoard/internal/canvas"
)

// Per-field register names used for last-writer-wins merges.
const (
	fieldX      = "x"
	fieldY      = "y"
	fieldWidth  = "width"
	fieldHeight = "height"
	fieldFill   = "fill"
	fieldValue  = "value"
)

var layerFields = []string{fieldX, fieldY, fieldWidth, fieldHeight, fieldFill, fieldValue}

type entry struct {
	layer  canvas.Layer
	order  Stamp
	alive  bool
	live   Stamp            // last insert/delete that won
	fields map[string]Stamp // last update per field that won
}

// layerStore is the CRDT behind a board: a map of last-writer-wins layer
// registers plus a liveness register per id. Paint order is the order of
// each layer's first insertion stamp, so every replica sorts the same way.
// Deleted ids stay as tombstones so late inserts cannot resurrect them.
type layerStore struct {
	entries map[string]*entry
	order   []string // every known id, tombstones included, by entry.order
	alive   int
}

func newLayerStore() *layerStore {
	return &layerStore{entries: make(map[string]*entry)}
}

func (s *layerStore) get(id string) (canvas.Layer, bool) {
	e, ok := s.entries[id]
	if !ok || !e.alive {
		return canvas.Layer{}, false
	}
	return e.layer.Clone(), true
}

func (s *layerStore) ids() []string {
	out := make([]string, 0, s.alive)
	for _, id := range s.order {
		if s.entries[id].alive {
			out = append(out, id)
		}
	}
	return out
}

func (s *layerStore) layers() map[string]canvas.Layer {
	out := make(map[string]canvas.Layer, s.alive)
	for id, e := range s.entries {
		if e.alive {
			out[id] = e.layer.Clone()
		}
	}
	return out
}

func (s *layerStore) place(id string, order Stamp) {
	i := sort.Search(len(s.order), func(i int) bool {
		return s.entries[s.order[i]].order.After(order)
	})
	s.order = append(s.order, "")
	copy(s.order[i+1:], s.order[i:])
	s.order[i] = id
}

func (s *layerStore) setAlive(e *entry, alive bool) {
	if e.alive == alive {
		return
	}
	e.alive = alive
	if alive {
		s.alive++
	} else {
		s.alive--
	}
}

// inverse computes the op that undoes op against the current state. The
// second result is false when op would not change anything visible.
func (s *layerStore) inverse(op Op) (Op, bool) {
	e, ok := s.entries[op.ID]
	switch op.Type {
	case OpInsertLayer:
		if ok && e.alive {
			return Op{}, false
		}
		return Op{Type: OpDeleteLayer, ID: op.ID}, true
	case OpDeleteLayer:
		if !ok || !e.alive {
			return Op{}, false
		}
		l := e.layer.Clone()
		return Op{Type: OpInsertLayer, ID: op.ID, Layer: &l, Order: e.order}, true
	case OpUpdateLayer:
		if !ok || !e.alive || op.Patch == nil {
			return Op{}, false
		}
		inv := op.Patch.Inverse(e.layer)
		return Op{Type: OpUpdateLayer, ID: op.ID, Patch: &inv}, true
	}
	return Op{}, false
}

// apply merges op into the store and reports whether anything changed.
func (s *layerStore) apply(op Op) bool {
	switch op.Type {
	case OpInsertLayer:
		return s.applyInsert(op)
	case OpDeleteLayer:
		return s.applyDelete(op)
	case OpUpdateLayer:
		return s.applyUpdate(op)
	}
	log.Printf("[CRDT] Unknown op type %q for %s", op.Type, op.ID)
	return false
}

func (s *layerStore) applyInsert(op Op) bool {
	if op.Layer == nil {
		return false
	}
	e, ok := s.entries[op.ID]
	if !ok {
		e = &entry{order: op.Order, fields: make(map[string]Stamp)}
		if e.order.IsZero() {
			e.order = op.Stamp
		}
		s.entries[op.ID] = e
		s.place(op.ID, e.order)
	}
	if !op.Stamp.After(e.live) {
		return false
	}

	l := op.Layer.Clone()
	e.layer.Type = l.Type
	e.layer.Points = l.Points
	for _, f := range layerFields {
		if op.Stamp.After(e.fields[f]) {
			copyField(&e.layer, l, f)
			e.fields[f] = op.Stamp
		}
	}
	e.live = op.Stamp
	s.setAlive(e, true)
	return true
}

func (s *layerStore) applyDelete(op Op) bool {
	e, ok := s.entries[op.ID]
	if !ok {
		// Tombstone an id we have not seen yet so its insert stays dead.
		e = &entry{order: op.Stamp, fields: make(map[string]Stamp), live: op.Stamp}
		s.entries[op.ID] = e
		s.place(op.ID, e.order)
		return false
	}
	if !op.Stamp.After(e.live) {
		return false
	}
	e.live = op.Stamp
	wasAlive := e.alive
	s.setAlive(e, false)
	return wasAlive
}

func (s *layerStore) applyUpdate(op Op) bool {
	e, ok := s.entries[op.ID]
	if !ok || !e.alive || op.Patch == nil {
		return false
	}
	patched := op.Patch.Apply(e.layer)
	changed := false
	for _, f := range patchFields(*op.Patch) {
		if op.Stamp.After(e.fields[f]) {
			copyField(&e.layer, patched, f)
			e.fields[f] = op.Stamp
			changed = true
		}
	}
	return changed
}

func patchFields(p canvas.LayerPatch) []string {
	var out []string
	if p.X != nil {
		out = append(out, fieldX)
	}
	if p.Y != nil {
		out = append(out, fieldY)
	}
	if p.Width != nil {
		out = append(out, fieldWidth)
	}
	if p.Height != nil {
		out = append(out, fieldHeight)
	}
	if p.Fill != nil {
		out = append(out, fieldFill)
	}
	if p.Value != nil {
		out = append(out, fieldValue)
	}
	return out
}

func copyField(dst *canvas.Layer, src canvas.Layer, f string) {
	switch f {
	case fieldX:
		dst.X = src.X
	case fieldY:
		dst.Y = src.Y
	case fieldWidth:
		dst.Width = src.Width
	case fieldHeight:
		dst.Height = src.Height
	case fieldFill:
		dst.Fill = src.Fill
	case fieldValue:
		dst.Value = src.Value
	}
}

func (s *layerStore) snapshot() Snapshot {
	snap := Snapshot{Entries: make([]SnapshotEntry, 0, len(s.order))}
	for _, id := range s.order {
		e := s.entries[id]
		fields := make(map[string]Stamp, len(e.fields))
		for k, v := range e.fields {
			fields[k] = v
		}
		snap.Entries = append(snap.Entries, SnapshotEntry{
			ID:     id,
			Layer:  e.layer.Clone(),
			Order:  e.order,
			Alive:  e.alive,
			Live:   e.live,
			Fields: fields,
		})
	}
	return snap
}

// merge folds a snapshot from another replica into the store and returns
// the highest stamp seen so the caller can advance its clock.
func (s *layerStore) merge(snap Snapshot) Stamp {
	var newest Stamp
	witness := func(st Stamp) {
		if st.After(newest) {
			newest = st
		}
	}

	for _, in := range snap.Entries {
		witness(in.Live)
		e, ok := s.entries[in.ID]
		if !ok {
			e = &entry{order: in.Order, fields: make(map[string]Stamp)}
			e.layer.Type = in.Layer.Type
			e.layer.Points = in.Layer.Clone().Points
			s.entries[in.ID] = e
			s.place(in.ID, e.order)
		}
		for _, f := range layerFields {
			st := in.Fields[f]
			witness(st)
			if st.After(e.fields[f]) {
				copyField(&e.layer, in.Layer, f)
				e.fields[f] = st
			}
		}
		if in.Live.After(e.live) {
			e.live = in.Live
			s.setAlive(e, in.Alive)
		}
	}
	log.Printf("[CRDT] Merged snapshot with %d entries, %d layers alive", len(snap.Entries), s.alive)
	return newest
}
